package quiz

import (
	"errors"
	"fmt"
	"sync"

	"quiz-rag/internal/models"
)

var ErrSubmitted = errors.New("attempt already submitted")

// Attempt tracks one user's pass over a generated quiz: answers mutate
// until Submit, which freezes and scores the attempt. A new generation
// discards the old attempt wholesale.
type Attempt struct {
	mu        sync.Mutex
	questions []models.MCQ
	responses map[int]string
	submitted bool
	score     int
}

func NewAttempt(questions []models.MCQ) *Attempt {
	return &Attempt{
		questions: questions,
		responses: make(map[int]string, len(questions)),
	}
}

func (a *Attempt) Questions() []models.MCQ {
	return a.questions
}

// Answer records the selected option for question i. The selection may
// be the full option text or just the letter.
func (a *Attempt) Answer(i int, selected string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return ErrSubmitted
	}
	if i < 0 || i >= len(a.questions) {
		return fmt.Errorf("question index %d out of range", i)
	}
	a.responses[i] = selected
	return nil
}

// Complete reports whether every question has an answer.
func (a *Attempt) Complete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.responses) == len(a.questions)
}

// QuestionResult is the per-question outcome after submission.
type QuestionResult struct {
	Question models.MCQ
	Selected string
	Correct  string
	Right    bool
}

type Result struct {
	Score   int
	Total   int
	Details []QuestionResult
}

// Submit freezes the attempt and scores it. Submitting twice is an
// error; the first result stands.
func (a *Attempt) Submit() (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return Result{}, ErrSubmitted
	}
	a.submitted = true

	result := Result{Total: len(a.questions)}
	for i, q := range a.questions {
		correct, _ := q.CorrectOption()
		selected := a.responses[i]
		right := selected != "" && (selected == correct || selected == q.Answer)
		if right {
			result.Score++
		}
		result.Details = append(result.Details, QuestionResult{
			Question: q,
			Selected: selected,
			Correct:  correct,
			Right:    right,
		})
	}
	a.score = result.Score
	return result, nil
}
