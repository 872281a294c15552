package questionservice

import (
	"errors"
	"io"
	"net/http"

	"github.com/algebra-practice/backend/httpapi"
	"github.com/algebra-practice/backend/internal/grader"
	"github.com/algebra-practice/backend/internal/httputils"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/internal/submission"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultSubmissionLimit = 20
	maxSubmissionLimit     = 100
)

// SubmitAnswerRequest is the body of POST /questions/:id/submissions.
type SubmitAnswerRequest struct {
	// Answer is a string for single-select and a list of strings for
	// fill-blank. Any other shape is graded as incorrect.
	Answer grader.Answer `json:"answer"`
	// Attempt is the 1-based attempt number kept by the client.
	Attempt int `json:"attempt"`
}

// SubmitAnswer grades and records an answer.
// POST /api/questions/:id/submissions
func (s *QuestionService) SubmitAnswer(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "SubmitAnswer",
		trace.WithAttributes(
			attribute.Int("question.id", id),
		))
	defer span.End()

	// an empty body is an absent answer and is graded like {}
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		span.SetStatus(otelcodes.Error, "Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body.",
			"detail":  err.Error(),
			"correct": false,
		})
		return
	}

	span.SetAttributes(
		attribute.String("answer.kind", req.Answer.Kind().String()),
		attribute.Int("submission.attempt", req.Attempt),
	)

	result, err := s.submissionService.SubmitAnswer(ctx, submission.SubmitAnswerInput{
		QuestionID: id,
		Answer:     req.Answer,
		Attempt:    req.Attempt,
		Client:     httputils.GetClient(ctx),
	})
	if err != nil {
		if errors.Is(err, submission.ErrQuestionNotFound) {
			span.SetStatus(otelcodes.Error, "Question not found")
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Question not found.",
				"correct": false,
			})
			return
		}

		span.SetStatus(otelcodes.Error, "Failed to submit answer")
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to submit the answer. Please try again later.",
			"detail":  err.Error(),
			"correct": false,
		})
		return
	}

	span.SetAttributes(attribute.Bool("submission.correct", result.Correct))
	span.SetStatus(otelcodes.Ok, "Answer submitted")
	c.JSON(http.StatusOK, result)
}

// ListSubmissions returns the most recent submissions of a question.
// GET /api/questions/:id/submissions?limit=
func (s *QuestionService) ListSubmissions(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	limit, ok := httpapi.QueryInt(c, "limit", defaultSubmissionLimit)
	if !ok {
		return
	}
	if limit == 0 || limit > maxSubmissionLimit {
		limit = maxSubmissionLimit
	}

	if _, ok := s.loadQuestion(c, id); !ok {
		return
	}

	submissions, err := s.store.ListSubmissions(c.Request.Context(), store.SubmissionFilter{
		QuestionID: id,
		Limit:      limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to list the submissions. Please try again later.",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// GetStatistics summarizes the submissions of a question.
// GET /api/questions/:id/statistics
func (s *QuestionService) GetStatistics(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	if _, ok := s.loadQuestion(c, id); !ok {
		return
	}

	stats, err := s.store.QuestionStatistics(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to compute the statistics. Please try again later.",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
