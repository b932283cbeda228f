package index

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"quiz-rag/internal/models"
)

const (
	metaSegmentID = "segment_id"
	metaPage      = "page"
	metaIsTable   = "is_table"

	chromemCompress = false
)

// Chromem delegates similarity search to a chromem-go collection, one
// collection per document so separate documents never mix. The segment
// text rides along as document content and the remaining fields as
// metadata, so query results can be recovered verbatim.
type Chromem struct {
	db         *chromem.DB
	collection string
}

// NewChromem opens (or creates) a chromem database. An empty dbPath
// keeps everything in memory; otherwise vectors persist under dbPath.
// collection should be unique per ingested document.
func NewChromem(dbPath, collection string) (*Chromem, error) {
	var db *chromem.DB
	var err error
	if dbPath == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, chromemCompress)
		if err != nil {
			return nil, fmt.Errorf("%w: opening chromem db: %v", ErrUnavailable, err)
		}
	}
	return &Chromem{db: db, collection: collection}, nil
}

func (c *Chromem) Build(ctx context.Context, entries []Entry) error {
	// Drop-and-recreate replaces the namespace contents wholesale.
	_ = c.db.DeleteCollection(c.collection)
	coll, err := c.db.GetOrCreateCollection(c.collection, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: creating collection: %v", ErrUnavailable, err)
	}

	if len(entries) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		docs[i] = chromem.Document{
			ID:        strconv.Itoa(e.Segment.ID),
			Content:   e.Segment.Text,
			Embedding: e.Vector,
			Metadata: map[string]string{
				metaSegmentID: strconv.Itoa(e.Segment.ID),
				metaPage:      strconv.Itoa(e.Segment.Page),
				metaIsTable:   strconv.FormatBool(e.Segment.IsTable),
			},
		}
	}
	if err := coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("%w: adding documents: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *Chromem) Query(ctx context.Context, vector []float32, k int) ([]models.TextSegment, error) {
	coll := c.db.GetCollection(c.collection, nil)
	if coll == nil {
		return nil, nil
	}
	if n := coll.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := coll.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity query: %v", ErrUnavailable, err)
	}

	segments := make([]models.TextSegment, 0, len(results))
	for _, r := range results {
		seg := models.TextSegment{Text: r.Content}
		seg.ID, _ = strconv.Atoi(r.Metadata[metaSegmentID])
		seg.Page, _ = strconv.Atoi(r.Metadata[metaPage])
		seg.IsTable, _ = strconv.ParseBool(r.Metadata[metaIsTable])
		segments = append(segments, seg)
	}
	return segments, nil
}
