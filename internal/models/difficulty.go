package models

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyProfile bundles the retrieval width and the generation
// instruction for one difficulty level. Harder questions draw on more
// retrieved material, so RetrievalWidth strictly increases from easy to
// hard.
type DifficultyProfile struct {
	Level          Difficulty
	RetrievalWidth int
	Instruction    string
}

var difficultyProfiles = map[Difficulty]DifficultyProfile{
	DifficultyEasy: {
		Level:          DifficultyEasy,
		RetrievalWidth: 6,
		Instruction:    "Easy: test direct recall of single facts stated verbatim in the material.",
	},
	DifficultyMedium: {
		Level:          DifficultyMedium,
		RetrievalWidth: 10,
		Instruction:    "Medium: test understanding, requiring the reader to connect two related statements from the material.",
	},
	DifficultyHard: {
		Level:          DifficultyHard,
		RetrievalWidth: 14,
		Instruction:    "Hard: test application and analysis, combining several parts of the material; distractors must be plausible.",
	},
}

// ProfileFor maps a difficulty name (case-insensitive) to its profile.
func ProfileFor(level string) (DifficultyProfile, error) {
	p, ok := difficultyProfiles[Difficulty(strings.ToLower(level))]
	if !ok {
		return DifficultyProfile{}, fmt.Errorf("unknown difficulty: %s", level)
	}
	return p, nil
}

// Profiles returns all difficulty profiles ordered easy to hard.
func Profiles() []DifficultyProfile {
	return []DifficultyProfile{
		difficultyProfiles[DifficultyEasy],
		difficultyProfiles[DifficultyMedium],
		difficultyProfiles[DifficultyHard],
	}
}
