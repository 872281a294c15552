// Package question defines the practice question and its authoring rules.
package question

import (
	"strings"
	"time"
)

// Type is the kind of a question.
type Type string

const (
	TypeSingleSelect Type = "single-select"
	TypeFillBlank    Type = "fill-blank"
)

// Valid reports whether t is a known question type.
func (t Type) Valid() bool {
	return t == TypeSingleSelect || t == TypeFillBlank
}

// Difficulty is the author-assigned difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// DefaultCategory is the category of questions saved without one.
const DefaultCategory = "uncategorized"

// Question is an authored practice question. Text and Choices are stored in
// storage form, with LaTeX between \( \) or \[ \] delimiters.
type Question struct {
	ID            int        `json:"id"`
	Text          string     `json:"text"`
	Type          Type       `json:"type"`
	Choices       []string   `json:"choices,omitempty"`       // single-select only
	CorrectChoice int        `json:"correctChoice,omitempty"` // 1-based index into Choices
	BlankAnswers  []string   `json:"blankAnswers,omitempty"`  // fill-blank only, left to right
	Category      string     `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Normalize fills in defaults and drops the fields that do not belong to the
// question type.
func (q *Question) Normalize() {
	q.Type = Type(strings.ToLower(strings.TrimSpace(string(q.Type))))
	q.Difficulty = Difficulty(strings.ToLower(strings.TrimSpace(string(q.Difficulty))))
	q.Category = strings.TrimSpace(q.Category)

	if q.Category == "" {
		q.Category = DefaultCategory
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyMedium
	}

	switch q.Type {
	case TypeSingleSelect:
		q.BlankAnswers = nil
	case TypeFillBlank:
		q.Choices = nil
		q.CorrectChoice = 0
	}
}
