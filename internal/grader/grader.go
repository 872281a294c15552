// Package grader decides whether a submitted answer is correct.
package grader

import (
	"strconv"
	"strings"

	"github.com/algebra-practice/backend/internal/question"
)

// Grade reports whether answer is correct for q.
//
// Single-select answers are compared to the 1-based correct choice after
// trimming whitespace. Fill-blank answers must have one value per blank, in
// order, each equal to the stored answer after trimming and lower-casing.
// There is no partial credit. An answer of the wrong shape is incorrect.
func Grade(q *question.Question, answer Answer) bool {
	if q == nil {
		return false
	}

	switch q.Type {
	case question.TypeSingleSelect:
		return gradeSingleSelect(q, answer)
	case question.TypeFillBlank:
		return gradeFillBlank(q, answer)
	default:
		return false
	}
}

func gradeSingleSelect(q *question.Question, answer Answer) bool {
	text, ok := answer.AsText()
	if !ok || q.CorrectChoice < 1 {
		return false
	}

	return strings.TrimSpace(text) == strconv.Itoa(q.CorrectChoice)
}

func gradeFillBlank(q *question.Question, answer Answer) bool {
	// A question without an answer key accepts nothing, not even an empty
	// list. Validate rejects such questions before they are saved.
	values, ok := answer.AsList()
	if !ok || len(q.BlankAnswers) == 0 || len(values) != len(q.BlankAnswers) {
		return false
	}

	for i, expected := range q.BlankAnswers {
		if normalizeBlank(values[i]) != normalizeBlank(expected) {
			return false
		}
	}

	return true
}

func normalizeBlank(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CorrectAnswer returns the answer key of q in submission form.
func CorrectAnswer(q *question.Question) Answer {
	if q == nil {
		return Answer{}
	}

	switch q.Type {
	case question.TypeSingleSelect:
		return Text(strconv.Itoa(q.CorrectChoice))
	case question.TypeFillBlank:
		return List(q.BlankAnswers...)
	default:
		return Answer{}
	}
}
