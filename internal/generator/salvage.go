package generator

import (
	"encoding/json"
	"regexp"
	"strings"

	"quiz-rag/internal/models"
)

// flatObjectRe matches maximal brace-delimited fragments with no nested
// braces. Model output is frequently truncated or wrapped in prose or
// markdown fences, so whole-response parsing is a losing game; fishing
// out flat objects recovers every intact question.
var flatObjectRe = regexp.MustCompile(`\{[^{}]*\}`)

var requiredKeys = []string{"question", "options", "answer", "explanation"}

// salvage scans free text for flat JSON objects and keeps the ones that
// parse and pass the validation gate. Malformed fragments are dropped
// silently.
func salvage(raw string) []models.MCQ {
	var out []models.MCQ
	for _, frag := range flatObjectRe.FindAllString(raw, -1) {
		if mcq, ok := parseRecord(frag); ok {
			out = append(out, mcq)
		}
	}
	return out
}

// parseRecord is the strict gate behind the lenient scan: all four keys
// present, exactly four options, answer one of A-D.
func parseRecord(frag string) (models.MCQ, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(frag), &fields); err != nil {
		return models.MCQ{}, false
	}
	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			return models.MCQ{}, false
		}
	}

	var mcq models.MCQ
	if err := json.Unmarshal([]byte(frag), &mcq); err != nil {
		return models.MCQ{}, false
	}
	if len(mcq.Options) != models.OptionCount {
		return models.MCQ{}, false
	}
	mcq.Answer = strings.TrimSpace(mcq.Answer)
	if len(mcq.Answer) != 1 || !strings.Contains(models.AnswerLetters, mcq.Answer) {
		return models.MCQ{}, false
	}
	if strings.TrimSpace(mcq.Question) == "" {
		return models.MCQ{}, false
	}
	return mcq, true
}
