package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/algebra-practice/backend/internal/question"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var questionColumns = []string{
	"id", "text", "type", "choices", "correct_choice", "blank_answers",
	"category", "difficulty", "created_at", "updated_at",
}

// QuestionFilter narrows ListQuestions. Zero fields do not filter.
type QuestionFilter struct {
	Category   string
	Type       question.Type
	Difficulty question.Difficulty
	Limit      int
	Offset     int
}

// GetQuestion returns the question with the given id, or ErrNotFound.
func (s *Store) GetQuestion(ctx context.Context, id int) (*question.Question, error) {
	ctx, span := tracer.Start(ctx, "GetQuestion",
		trace.WithAttributes(
			attribute.Int("question.id", id),
		))
	defer span.End()

	query, args := s.builder().
		Select(questionColumns...).
		From(s.builder().Table(questionsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	q, err := scanQuestion(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			span.SetStatus(otelcodes.Error, "Question not found")
			return nil, ErrNotFound
		}

		span.SetStatus(otelcodes.Error, "Failed to get question")
		span.RecordError(err)
		return nil, fmt.Errorf("get question: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "Question found")
	return q, nil
}

// ListQuestions returns the questions matching filter, ordered by id.
func (s *Store) ListQuestions(ctx context.Context, filter QuestionFilter) ([]*question.Question, error) {
	ctx, span := tracer.Start(ctx, "ListQuestions")
	defer span.End()

	selector := s.builder().
		Select(questionColumns...).
		From(s.builder().Table(questionsTable)).
		OrderBy("id")

	if filter.Category != "" {
		selector.Where(entsql.EQ("category", filter.Category))
	}
	if filter.Type != "" {
		selector.Where(entsql.EQ("type", string(filter.Type)))
	}
	if filter.Difficulty != "" {
		selector.Where(entsql.EQ("difficulty", string(filter.Difficulty)))
	}
	if filter.Limit > 0 {
		selector.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		// SQLite only accepts OFFSET after LIMIT
		if filter.Limit <= 0 {
			selector.Limit(math.MaxInt32)
		}
		selector.Offset(filter.Offset)
	}

	query, args := selector.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Failed to list questions")
		span.RecordError(err)
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]*question.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list questions: %w", err)
	}

	span.SetAttributes(attribute.Int("question.count", len(questions)))
	span.SetStatus(otelcodes.Ok, "Questions listed")
	return questions, nil
}

// SaveQuestion inserts q when q.ID is zero and updates it otherwise. The
// category must exist. q is normalized, and its id and timestamps are set.
//
// SaveQuestion does not validate q; see question.Question.Validate.
func (s *Store) SaveQuestion(ctx context.Context, q *question.Question) error {
	ctx, span := tracer.Start(ctx, "SaveQuestion",
		trace.WithAttributes(
			attribute.Int("question.id", q.ID),
		))
	defer span.End()

	q.Normalize()

	exists, err := s.categoryExists(ctx, s.db, q.Category)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !exists {
		span.SetStatus(otelcodes.Error, "Unknown category")
		return fmt.Errorf("%w: %q", ErrUnknownCategory, q.Category)
	}

	choices, err := marshalStrings(q.Choices)
	if err != nil {
		return fmt.Errorf("encode choices: %w", err)
	}
	blankAnswers, err := marshalStrings(q.BlankAnswers)
	if err != nil {
		return fmt.Errorf("encode blank answers: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	if q.ID == 0 {
		id, err := s.insert(ctx, s.db, s.builder().
			Insert(questionsTable).
			Columns("text", "type", "choices", "correct_choice", "blank_answers",
				"category", "difficulty", "created_at", "updated_at").
			Values(q.Text, string(q.Type), choices, q.CorrectChoice, blankAnswers,
				q.Category, string(q.Difficulty), now, now))
		if err != nil {
			span.SetStatus(otelcodes.Error, "Failed to create question")
			span.RecordError(err)
			return fmt.Errorf("create question: %w", err)
		}

		q.ID, q.CreatedAt, q.UpdatedAt = id, now, now
		span.SetAttributes(attribute.Int("question.id", id))
		span.SetStatus(otelcodes.Ok, "Question created")
		return nil
	}

	query, args := s.builder().
		Update(questionsTable).
		Set("text", q.Text).
		Set("type", string(q.Type)).
		Set("choices", choices).
		Set("correct_choice", q.CorrectChoice).
		Set("blank_answers", blankAnswers).
		Set("category", q.Category).
		Set("difficulty", string(q.Difficulty)).
		Set("updated_at", now).
		Where(entsql.EQ("id", q.ID)).
		Query()

	if err := exec(ctx, s.db, query, args); err != nil {
		if errors.Is(err, ErrNotFound) {
			span.SetStatus(otelcodes.Error, "Question not found")
			return ErrNotFound
		}

		span.SetStatus(otelcodes.Error, "Failed to update question")
		span.RecordError(err)
		return fmt.Errorf("update question: %w", err)
	}

	// created_at is not touched by the update
	stored, err := s.GetQuestion(ctx, q.ID)
	if err != nil {
		return err
	}
	q.CreatedAt, q.UpdatedAt = stored.CreatedAt, stored.UpdatedAt

	span.SetStatus(otelcodes.Ok, "Question updated")
	return nil
}

// DeleteQuestion deletes a question and its submissions.
func (s *Store) DeleteQuestion(ctx context.Context, id int) error {
	ctx, span := tracer.Start(ctx, "DeleteQuestion",
		trace.WithAttributes(
			attribute.Int("question.id", id),
		))
	defer span.End()

	query, args := s.builder().
		Delete(questionsTable).
		Where(entsql.EQ("id", id)).
		Query()

	if err := exec(ctx, s.db, query, args); err != nil {
		if errors.Is(err, ErrNotFound) {
			span.SetStatus(otelcodes.Error, "Question not found")
			return ErrNotFound
		}

		span.SetStatus(otelcodes.Error, "Failed to delete question")
		span.RecordError(err)
		return fmt.Errorf("delete question: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "Question deleted")
	return nil
}

// CountQuestionsByType returns the number of questions of each type.
func (s *Store) CountQuestionsByType(ctx context.Context) (map[string]int, error) {
	query, args := s.builder().
		Select("type", entsql.Count("*")).
		From(s.builder().Table(questionsTable)).
		GroupBy("type").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			typ   string
			count int
		)
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("scan question count: %w", err)
		}
		counts[typ] = count
	}

	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*question.Question, error) {
	var (
		q            question.Question
		typ          string
		difficulty   string
		choices      sql.NullString
		blankAnswers sql.NullString
	)

	err := row.Scan(
		&q.ID, &q.Text, &typ, &choices, &q.CorrectChoice, &blankAnswers,
		&q.Category, &difficulty, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	q.Type = question.Type(typ)
	q.Difficulty = question.Difficulty(difficulty)
	if q.Choices, err = unmarshalStrings(choices); err != nil {
		return nil, fmt.Errorf("decode choices of question %d: %w", q.ID, err)
	}
	if q.BlankAnswers, err = unmarshalStrings(blankAnswers); err != nil {
		return nil, fmt.Errorf("decode blank answers of question %d: %w", q.ID, err)
	}

	return &q, nil
}

// marshalStrings encodes a list as JSON text. A nil list is stored as NULL.
func marshalStrings(values []string) (any, error) {
	if values == nil {
		return nil, nil
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalStrings(value sql.NullString) ([]string, error) {
	if !value.Valid || value.String == "" || value.String == "null" {
		return nil, nil
	}

	var values []string
	if err := json.Unmarshal([]byte(value.String), &values); err != nil {
		return nil, err
	}
	return values, nil
}
