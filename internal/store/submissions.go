package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/algebra-practice/backend/models"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var submissionColumns = []string{
	"id", "question_id", "answer", "correct", "attempt", "client", "submitted_at",
}

// SubmissionFilter narrows ListSubmissions. Zero fields do not filter.
type SubmissionFilter struct {
	QuestionID int
	Limit      int
	// AfterID returns only submissions with a larger id, oldest first.
	AfterID int
	// Ascending lists oldest first.
	Ascending bool
}

// RecordSubmission stores a graded submission and sets its id.
func (s *Store) RecordSubmission(ctx context.Context, submission *models.Submission) error {
	ctx, span := tracer.Start(ctx, "RecordSubmission",
		trace.WithAttributes(
			attribute.Int("question.id", submission.QuestionID),
			attribute.Bool("submission.correct", submission.Correct),
		))
	defer span.End()

	answer, err := json.Marshal(submission.Answer)
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	if submission.Attempt < 1 {
		submission.Attempt = 1
	}

	id, err := s.insert(ctx, s.db, s.builder().
		Insert(submissionsTable).
		Columns("question_id", "answer", "correct", "attempt", "client", "submitted_at").
		Values(submission.QuestionID, string(answer), submission.Correct, submission.Attempt,
			submission.Client, submission.SubmittedAt))
	if err != nil {
		span.SetStatus(otelcodes.Error, "Failed to record submission")
		span.RecordError(err)
		return fmt.Errorf("record submission: %w", err)
	}

	submission.ID = id
	span.SetStatus(otelcodes.Ok, "Submission recorded")
	return nil
}

// ListSubmissions returns submissions newest first, or oldest first when
// filter.Ascending or filter.AfterID is set.
func (s *Store) ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]*models.Submission, error) {
	ctx, span := tracer.Start(ctx, "ListSubmissions",
		trace.WithAttributes(
			attribute.Int("question.id", filter.QuestionID),
		))
	defer span.End()

	selector := s.builder().
		Select(submissionColumns...).
		From(s.builder().Table(submissionsTable))

	if filter.QuestionID > 0 {
		selector.Where(entsql.EQ("question_id", filter.QuestionID))
	}
	if filter.AfterID > 0 {
		selector.Where(entsql.GT("id", filter.AfterID))
	}
	if filter.Ascending || filter.AfterID > 0 {
		selector.OrderBy("id")
	} else {
		selector.OrderBy(entsql.Desc("id"))
	}
	if filter.Limit > 0 {
		selector.Limit(filter.Limit)
	}

	query, args := selector.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Failed to list submissions")
		span.RecordError(err)
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]*models.Submission, 0)
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, submission)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "Submissions listed")
	return submissions, nil
}

// CountSubmissions returns the number of stored submissions.
func (s *Store) CountSubmissions(ctx context.Context) (int, error) {
	query, args := s.builder().
		Select(entsql.Count("*")).
		From(s.builder().Table(submissionsTable)).
		Query()

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}

// UpdateSubmissionResult overwrites the grading result of a submission.
func (s *Store) UpdateSubmissionResult(ctx context.Context, id int, correct bool) error {
	ctx, span := tracer.Start(ctx, "UpdateSubmissionResult",
		trace.WithAttributes(
			attribute.Int("submission.id", id),
			attribute.Bool("submission.correct", correct),
		))
	defer span.End()

	query, args := s.builder().
		Update(submissionsTable).
		Set("correct", correct).
		Where(entsql.EQ("id", id)).
		Query()

	if err := exec(ctx, s.db, query, args); err != nil {
		if errors.Is(err, ErrNotFound) {
			span.SetStatus(otelcodes.Error, "Submission not found")
			return ErrNotFound
		}

		span.SetStatus(otelcodes.Error, "Failed to update submission")
		span.RecordError(err)
		return fmt.Errorf("update submission: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "Submission updated")
	return nil
}

// CountSubmissionsByResult returns the number of correct and incorrect submissions.
func (s *Store) CountSubmissionsByResult(ctx context.Context) (map[bool]int, error) {
	query, args := s.builder().
		Select("correct", entsql.Count("*")).
		From(s.builder().Table(submissionsTable)).
		GroupBy("correct").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	defer rows.Close()

	counts := make(map[bool]int)
	for rows.Next() {
		var (
			correct bool
			count   int
		)
		if err := rows.Scan(&correct, &count); err != nil {
			return nil, fmt.Errorf("scan submission count: %w", err)
		}
		counts[correct] += count
	}

	return counts, rows.Err()
}

// QuestionStatistics summarizes the submissions of a question.
func (s *Store) QuestionStatistics(ctx context.Context, questionID int) (*models.QuestionStatistics, error) {
	ctx, span := tracer.Start(ctx, "QuestionStatistics",
		trace.WithAttributes(
			attribute.Int("question.id", questionID),
		))
	defer span.End()

	query, args := s.builder().
		Select("correct", "attempt", entsql.Count("*")).
		From(s.builder().Table(submissionsTable)).
		Where(entsql.EQ("question_id", questionID)).
		GroupBy("correct", "attempt").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Failed to query statistics")
		span.RecordError(err)
		return nil, fmt.Errorf("question statistics: %w", err)
	}
	defer rows.Close()

	stats := &models.QuestionStatistics{QuestionID: questionID}
	for rows.Next() {
		var (
			correct bool
			attempt int
			count   int
		)
		if err := rows.Scan(&correct, &attempt, &count); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan statistics: %w", err)
		}

		stats.SubmissionCount += count
		if correct {
			stats.CorrectSubmissionCount += count
			if attempt <= 1 {
				stats.FirstAttemptCorrectCount += count
			}
		}
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("question statistics: %w", err)
	}

	if stats.SubmissionCount > 0 {
		stats.CorrectRate = float64(stats.CorrectSubmissionCount) / float64(stats.SubmissionCount)
	}

	span.SetStatus(otelcodes.Ok, "Statistics computed")
	return stats, nil
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		submission models.Submission
		answer     sql.NullString
	)

	err := row.Scan(
		&submission.ID, &submission.QuestionID, &answer, &submission.Correct,
		&submission.Attempt, &submission.Client, &submission.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	if answer.Valid {
		// unreadable JSON leaves the answer absent
		_ = json.Unmarshal([]byte(answer.String), &submission.Answer)
	}

	return &submission, nil
}
