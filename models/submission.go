package models

import (
	"time"

	"github.com/algebra-practice/backend/internal/grader"
)

// Submission is one graded attempt at a question.
type Submission struct {
	ID          int           `json:"id"`
	QuestionID  int           `json:"questionId"`
	Answer      grader.Answer `json:"answer"`
	Correct     bool          `json:"correct"`
	Attempt     int           `json:"attempt"`
	Client      string        `json:"client,omitempty"`
	SubmittedAt time.Time     `json:"submittedAt"`
}
