package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"quiz-rag/internal/config"
	"quiz-rag/internal/models"
)

// segmentRow is the pgvector-backed storage row. The embedding column
// dimension is fixed at table creation, see InitDB.
type segmentRow struct {
	bun.BaseModel `bun:"table:segments,alias:s"`
	ID            int64     `bun:"id,pk,autoincrement"`
	DocID         string    `bun:"doc_id,notnull"`
	SegmentID     int       `bun:"segment_id,notnull"`
	Content       string    `bun:"content,notnull"`
	IsTable       bool      `bun:"is_table,notnull"`
	Page          int       `bun:"page,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector"`
}

// ConnectDB opens the Postgres connection for the pgvector index.
func ConnectDB(cfg *config.DatabaseConfig) *bun.DB {
	dsn := cfg.URL + "?sslmode=disable"
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Key)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// segmentsTableDDL builds the create statement for the segments table.
// bun's CreateTableQuery cannot parameterize a column type, so the
// configured embedding dimension goes through raw DDL instead.
func segmentsTableDDL(vectorSize int) string {
	if vectorSize <= 0 {
		vectorSize = config.DefaultVectorSize
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS segments (
	id BIGSERIAL PRIMARY KEY,
	doc_id VARCHAR NOT NULL,
	segment_id BIGINT NOT NULL,
	content TEXT NOT NULL,
	is_table BOOLEAN NOT NULL,
	page BIGINT NOT NULL,
	embedding vector(%d) NOT NULL
)`, vectorSize)
}

// InitDB creates the segments table when missing. vectorSize sets the
// embedding column dimension and must match the embedding model.
func InitDB(ctx context.Context, db *bun.DB, vectorSize int) error {
	_, err := db.ExecContext(ctx, segmentsTableDDL(vectorSize))
	return err
}

// PGVector stores vectors in Postgres with the pgvector extension.
// Rows are keyed by document ID so concurrent documents stay isolated.
type PGVector struct {
	db    *bun.DB
	docID string
}

func NewPGVector(db *bun.DB, docID string) *PGVector {
	return &PGVector{db: db, docID: docID}
}

// Build replaces this document's rows inside one transaction; a query
// sees the old rows until commit, the new ones after.
func (p *PGVector) Build(ctx context.Context, entries []Entry) error {
	rows := make([]segmentRow, len(entries))
	for i, e := range entries {
		rows[i] = segmentRow{
			DocID:     p.docID,
			SegmentID: e.Segment.ID,
			Content:   e.Segment.Text,
			IsTable:   e.Segment.IsTable,
			Page:      e.Segment.Page,
			Embedding: e.Vector,
		}
	}

	err := p.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*segmentRow)(nil)).
			Where("doc_id = ?", p.docID).Exec(ctx); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: storing segments: %v", ErrUnavailable, err)
	}
	return nil
}

func (p *PGVector) Query(ctx context.Context, vector []float32, k int) ([]models.TextSegment, error) {
	if k <= 0 {
		return nil, nil
	}
	var rows []segmentRow
	err := p.db.NewSelect().
		Model(&rows).
		Column("segment_id", "content", "is_table", "page").
		Where("doc_id = ?", p.docID).
		OrderExpr("embedding <=> ?, segment_id ASC", vector).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity query: %v", ErrUnavailable, err)
	}

	segments := make([]models.TextSegment, len(rows))
	for i, r := range rows {
		segments[i] = models.TextSegment{
			ID:      r.SegmentID,
			Text:    r.Content,
			IsTable: r.IsTable,
			Page:    r.Page,
		}
	}
	return segments, nil
}
