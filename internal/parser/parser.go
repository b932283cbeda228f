package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"

	"quiz-rag/internal/config"
	"quiz-rag/internal/models"
)

// ErrNoContent means the document produced zero usable segments. Callers
// must treat this as a failed ingestion and not proceed to embedding.
var ErrNoContent = errors.New("document yielded no usable text")

// ExtractPages reads a document and returns its plain text, one string
// per page. Formats without a page concept (docx, md, txt) return a
// single page; spreadsheets return one page per sheet.
func ExtractPages(filePath string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return extractPDF(filePath)
	case ".docx":
		return extractDOCX(filePath)
	case ".xlsx":
		return extractXLSX(filePath)
	case ".md":
		return extractMarkdown(filePath)
	case ".txt":
		return extractText(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

// Parse extracts a document and chunks it according to the configured
// policy.
func Parse(filePath string, cfg *config.Config) ([]models.TextSegment, error) {
	pages, err := ExtractPages(filePath)
	if err != nil {
		return nil, err
	}
	return Chunk(pages, cfg)
}

// Chunk splits extracted page texts into segments. Segment IDs follow
// document order. An empty result is reported as ErrNoContent.
func Chunk(pages []string, cfg *config.Config) ([]models.TextSegment, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	config.ApplyDefaults(cfg)

	var segments []models.TextSegment
	switch cfg.RAG.ChunkPolicy {
	case "window":
		segments = chunkWindow(pages, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	default:
		segments = chunkBlocks(pages)
	}
	if len(segments) == 0 {
		return nil, ErrNoContent
	}
	return segments, nil
}

// chunkBlocks treats every paragraph-ish block of a page as one segment:
// blank-line separated runs of lines. Whitespace runs are collapsed after
// the table check so column gaps still count.
func chunkBlocks(pages []string) []models.TextSegment {
	var segments []models.TextSegment
	id := 0
	for pageNum, page := range pages {
		for _, block := range splitBlocks(page) {
			isTable := looksTabular(block)
			text := collapseWhitespace(block)
			if text == "" {
				continue
			}
			segments = append(segments, models.TextSegment{
				ID:      id,
				Text:    text,
				IsTable: isTable,
				Page:    pageNum + 1,
			})
			id++
		}
	}
	return segments
}

// chunkWindow concatenates all pages and cuts fixed-size character
// windows with overlap, so no boundary loses context. Overlap is
// guaranteed below window size by config defaults.
func chunkWindow(pages []string, maxChars, overlapChars int) []models.TextSegment {
	var full strings.Builder
	pageStarts := make([]int, len(pages))
	for i, page := range pages {
		pageStarts[i] = full.Len()
		full.WriteString(strings.TrimSpace(page))
		full.WriteString("\n")
	}
	content := strings.TrimSpace(full.String())
	if content == "" {
		return nil
	}

	var segments []models.TextSegment
	id := 0
	start := 0
	for start < len(content) {
		end := min(start+maxChars, len(content))

		// Look for a clean break within the last 10% of the window.
		if end < len(content) {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
			// Without a break the cut must still land on a rune boundary,
			// or unsegmented scripts get split mid-character.
			for end > start && !utf8.RuneStart(content[end]) {
				end--
			}
			if end == start {
				_, size := utf8.DecodeRuneInString(content[start:])
				end = start + size
			}
		}

		text := collapseWhitespace(content[start:end])
		if text != "" {
			segments = append(segments, models.TextSegment{
				ID:      id,
				Text:    text,
				IsTable: looksTabular(content[start:end]),
				Page:    pageForOffset(pageStarts, start),
			})
			id++
		}

		if end == len(content) {
			break
		}
		next := end - overlapChars
		for next > start && !utf8.RuneStart(content[next]) {
			next--
		}
		if next <= start {
			next = end
		}
		start = next
	}
	return segments
}

func splitBlocks(page string) []string {
	var blocks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(page, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// looksTabular flags blocks with two or more multi-space gaps or any tab
// character as tabular content.
func looksTabular(block string) bool {
	if strings.Contains(block, "\t") {
		return true
	}
	gaps := 0
	run := 0
	for _, r := range block {
		if r == ' ' {
			run++
			continue
		}
		if run >= 2 {
			gaps++
		}
		run = 0
	}
	if run >= 2 {
		gaps++
	}
	return gaps >= 2
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func pageForOffset(pageStarts []int, offset int) int {
	page := 1
	for i, start := range pageStarts {
		if offset >= start {
			page = i + 1
		}
	}
	return page
}

func extractPDF(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		pages = append(pages, pageText)
	}
	return pages, nil
}

func extractDOCX(filePath string) ([]string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return []string{r.Editable().GetContent()}, nil
}

// extractXLSX renders each sheet as one page, cells joined with tabs so
// the tabular heuristic tags the resulting segments.
func extractXLSX(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []string
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString("Sheet: " + sheetName + "\n")
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
		pages = append(pages, text.String())
	}
	return pages, nil
}

func extractText(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return []string{string(data)}, nil
}
