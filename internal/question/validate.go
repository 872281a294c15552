package question

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrEmptyText               = errors.New("question text is required")
	ErrUnknownType             = errors.New("unknown question type")
	ErrUnknownDifficulty       = errors.New("unknown difficulty")
	ErrTooFewChoices           = errors.New("single-select questions need at least two choices")
	ErrEmptyChoice             = errors.New("choice is empty")
	ErrCorrectChoiceOutOfRange = errors.New("correct choice is out of range")
	ErrNoBlanks                = errors.New("fill-blank questions need at least one blank")
	ErrBlankAnswerCount        = errors.New("number of blank answers does not match the number of blanks")
	ErrEmptyBlankAnswer        = errors.New("blank answer is empty")
)

// Validate checks the question against the authoring rules and returns every
// violation at once. The returned error wraps the sentinel errors above.
//
// Validation runs when a question is saved. Grading does not re-validate.
func (q *Question) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(q.Text) == "" {
		result = multierror.Append(result, ErrEmptyText)
	}
	if !q.Difficulty.Valid() {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrUnknownDifficulty, q.Difficulty))
	}

	switch q.Type {
	case TypeSingleSelect:
		result = multierror.Append(result, q.validateChoices()...)
	case TypeFillBlank:
		result = multierror.Append(result, q.validateBlanks()...)
	default:
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrUnknownType, q.Type))
	}

	return result.ErrorOrNil()
}

func (q *Question) validateChoices() []error {
	var errs []error

	if len(q.Choices) < 2 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrTooFewChoices, len(q.Choices)))
	}
	for i, choice := range q.Choices {
		if strings.TrimSpace(choice) == "" {
			errs = append(errs, fmt.Errorf("%w: choice %d", ErrEmptyChoice, i+1))
		}
	}
	if q.CorrectChoice < 1 || q.CorrectChoice > len(q.Choices) {
		errs = append(errs, fmt.Errorf("%w: %d not in [1, %d]", ErrCorrectChoiceOutOfRange, q.CorrectChoice, len(q.Choices)))
	}

	return errs
}

func (q *Question) validateBlanks() []error {
	var errs []error

	blanks := CountBlanks(q.Text)
	if blanks == 0 {
		errs = append(errs, ErrNoBlanks)
	} else if len(q.BlankAnswers) != blanks {
		errs = append(errs, fmt.Errorf("%w: %d blanks, %d answers", ErrBlankAnswerCount, blanks, len(q.BlankAnswers)))
	}
	for i, answer := range q.BlankAnswers {
		if strings.TrimSpace(answer) == "" {
			errs = append(errs, fmt.Errorf("%w: blank %d", ErrEmptyBlankAnswer, i+1))
		}
	}

	return errs
}

// Violations flattens a Validate error into its messages.
func Violations(err error) []string {
	if err == nil {
		return nil
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		messages := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			messages = append(messages, e.Error())
		}
		return messages
	}

	return []string{err.Error()}
}
