package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/algebra-practice/backend/internal/events"
	"github.com/algebra-practice/backend/internal/grader"
	"github.com/algebra-practice/backend/internal/metrics"
	"github.com/algebra-practice/backend/internal/question"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/models"
)

// QuestionGetter loads a question by id. It returns store.ErrNotFound for
// a missing question.
type QuestionGetter interface {
	GetQuestion(ctx context.Context, id int) (*question.Question, error)
}

// SubmissionRecorder persists submissions.
type SubmissionRecorder interface {
	RecordSubmission(ctx context.Context, submission *models.Submission) error
	UpdateSubmissionResult(ctx context.Context, id int, correct bool) error
}

// DefaultMaxAttempts is the number of attempts before a question locks.
const DefaultMaxAttempts = 2

// Policy controls how many attempts a student gets.
type Policy struct {
	MaxAttempts int
}

// DefaultPolicy returns the policy with DefaultMaxAttempts.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts}
}

type SubmissionService struct {
	questions    QuestionGetter
	submissions  SubmissionRecorder
	eventService *events.EventService
	policy       Policy
}

func NewSubmissionService(questions QuestionGetter, submissions SubmissionRecorder, eventService *events.EventService, policy Policy) *SubmissionService {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = DefaultMaxAttempts
	}

	return &SubmissionService{
		questions:    questions,
		submissions:  submissions,
		eventService: eventService,
		policy:       policy,
	}
}

type SubmitAnswerInput struct {
	QuestionID int
	Answer     grader.Answer
	// Attempt is the 1-based attempt number, counted by the caller.
	Attempt int
	Client  string
}

// Result is the outcome of a submission.
type Result struct {
	Submission   *models.Submission `json:"submission"`
	Correct      bool               `json:"correct"`
	Attempt      int                `json:"attempt"`
	AttemptsLeft int                `json:"attemptsLeft"`
	// Locked is true when no further attempt is accepted by the client.
	Locked bool `json:"locked"`
	// CorrectAnswer is revealed once the question locks without a correct answer.
	CorrectAnswer *grader.Answer `json:"correctAnswer,omitempty"`
}

var ErrQuestionNotFound = errors.New("question not found")

// SubmitAnswer grades an answer, records the submission and triggers a
// submit_answer event.
func (ss *SubmissionService) SubmitAnswer(ctx context.Context, input SubmitAnswerInput) (*Result, error) {
	q, err := ss.getQuestion(ctx, input.QuestionID)
	if err != nil {
		return nil, err
	}

	attempt := max(input.Attempt, 1)
	correct := grader.Grade(q, input.Answer)

	submission := &models.Submission{
		QuestionID: q.ID,
		Answer:     input.Answer,
		Correct:    correct,
		Attempt:    attempt,
		Client:     input.Client,
	}
	if err := ss.submissions.RecordSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	metrics.RecordSubmission(correct)

	ss.eventService.TriggerEvent(ctx, events.Event{
		Type: events.EventTypeSubmitAnswer,
		Payload: map[string]any{
			"submission_id": submission.ID,
			"question_id":   q.ID,
			"question_type": string(q.Type),
			"correct":       correct,
			"attempt":       attempt,
		},
		Client: input.Client,
	})

	result := &Result{
		Submission:   submission,
		Correct:      correct,
		Attempt:      attempt,
		AttemptsLeft: max(ss.policy.MaxAttempts-attempt, 0),
		Locked:       correct || attempt >= ss.policy.MaxAttempts,
	}
	if correct {
		result.AttemptsLeft = 0
	}
	if result.Locked && !correct {
		answer := grader.CorrectAnswer(q)
		result.CorrectAnswer = &answer
	}

	return result, nil
}

// CheckRegrade reports whether grading the submission against the current
// answer key gives a different result. Nothing is written.
func (ss *SubmissionService) CheckRegrade(ctx context.Context, submission *models.Submission) (bool, error) {
	q, err := ss.getQuestion(ctx, submission.QuestionID)
	if err != nil {
		return false, err
	}

	return grader.Grade(q, submission.Answer) != submission.Correct, nil
}

// Regrade grades the submission against the current answer key and stores
// the new result when it changed.
func (ss *SubmissionService) Regrade(ctx context.Context, submission *models.Submission) (bool, error) {
	q, err := ss.getQuestion(ctx, submission.QuestionID)
	if err != nil {
		return false, err
	}

	correct := grader.Grade(q, submission.Answer)
	if correct == submission.Correct {
		return false, nil
	}

	if err := ss.submissions.UpdateSubmissionResult(ctx, submission.ID, correct); err != nil {
		return false, fmt.Errorf("update submission %d: %w", submission.ID, err)
	}
	submission.Correct = correct

	return true, nil
}

func (ss *SubmissionService) getQuestion(ctx context.Context, id int) (*question.Question, error) {
	q, err := ss.questions.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}

		return nil, fmt.Errorf("get question: %w", err)
	}

	return q, nil
}
