package models

import "strings"

// TextSegment is one retrievable span of extracted document text.
// Segments are produced once per document by the parser and never
// mutated afterwards.
type TextSegment struct {
	ID      int
	Text    string
	IsTable bool
	Page    int
}

// MCQ is a validated multiple-choice question produced by the generator.
type MCQ struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// CorrectOption resolves the answer letter to the option carrying that
// label prefix ("A) ..." etc). The second return is false when no option
// matches, which means the record slipped past validation.
func (m MCQ) CorrectOption() (string, bool) {
	for _, opt := range m.Options {
		if strings.HasPrefix(opt, m.Answer) {
			return opt, true
		}
	}
	return "", false
}
