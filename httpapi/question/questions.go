package questionservice

import (
	"errors"
	"net/http"

	"github.com/algebra-practice/backend/httpapi"
	"github.com/algebra-practice/backend/internal/events"
	"github.com/algebra-practice/backend/internal/httputils"
	"github.com/algebra-practice/backend/internal/question"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// FormatLatex marks question text already in storage form.
	FormatLatex = "latex"
	// FormatHTML marks question text produced by the rich-text editor.
	FormatHTML = "html"
)

// QuestionRequest is the body of POST /questions and PUT /questions/:id.
type QuestionRequest struct {
	Text          string   `json:"text"`
	Type          string   `json:"type"`
	Choices       []string `json:"choices"`
	CorrectChoice int      `json:"correctChoice"`
	BlankAnswers  []string `json:"blankAnswers"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	// Format is "latex" (default) or "html". HTML text and choices are
	// encoded back to storage form before validation.
	Format string `json:"format"`
}

// ListQuestions returns the questions in storage form.
// GET /api/questions?category=&type=&difficulty=&limit=&offset=
func (s *QuestionService) ListQuestions(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListQuestions")
	defer span.End()

	filter := store.QuestionFilter{
		Category:   c.Query("category"),
		Type:       question.Type(c.Query("type")),
		Difficulty: question.Difficulty(c.Query("difficulty")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		span.SetStatus(otelcodes.Error, "Invalid type filter")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid type.",
			"detail": "The type must be single-select or fill-blank.",
		})
		return
	}
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		span.SetStatus(otelcodes.Error, "Invalid difficulty filter")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid difficulty.",
			"detail": "The difficulty must be easy, medium or hard.",
		})
		return
	}

	var ok bool
	if filter.Limit, ok = httpapi.QueryInt(c, "limit", 0); !ok {
		return
	}
	if filter.Offset, ok = httpapi.QueryInt(c, "offset", 0); !ok {
		return
	}

	questions, err := s.store.ListQuestions(ctx, filter)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Failed to list questions")
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to list the questions. Please try again later.",
			"detail": err.Error(),
		})
		return
	}

	span.SetStatus(otelcodes.Ok, "Questions listed")
	c.JSON(http.StatusOK, questions)
}

// GetQuestion returns one question in storage form.
// GET /api/questions/:id
func (s *QuestionService) GetQuestion(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	q, ok := s.loadQuestion(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, q)
}

// RenderQuestion returns the display form of a question.
// GET /api/questions/:id/render
func (s *QuestionService) RenderQuestion(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "RenderQuestion",
		trace.WithAttributes(
			attribute.Int("question.id", id),
		))
	defer span.End()

	q, ok := s.loadQuestion(c, id)
	if !ok {
		span.SetStatus(otelcodes.Error, "Question not loaded")
		return
	}

	rendered, err := s.renderer.RenderQuestion(ctx, q)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Failed to render question")
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to render the question.",
			"detail": err.Error(),
		})
		return
	}

	span.SetStatus(otelcodes.Ok, "Question rendered")
	c.JSON(http.StatusOK, rendered)
}

// CreateQuestion validates and stores a new question.
// POST /api/questions
func (s *QuestionService) CreateQuestion(c *gin.Context) {
	s.saveQuestion(c, 0)
}

// UpdateQuestion validates and replaces an existing question.
// PUT /api/questions/:id
func (s *QuestionService) UpdateQuestion(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	s.saveQuestion(c, id)
}

func (s *QuestionService) saveQuestion(c *gin.Context, id int) {
	ctx, span := tracer.Start(c.Request.Context(), "SaveQuestion",
		trace.WithAttributes(
			attribute.Int("question.id", id),
		))
	defer span.End()

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(otelcodes.Error, "Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request body.",
			"detail": err.Error(),
		})
		return
	}

	q, err := s.toQuestion(req)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Invalid format")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid format.",
			"detail": err.Error(),
		})
		return
	}
	q.ID = id

	q.Normalize()
	if err := q.Validate(); err != nil {
		span.SetStatus(otelcodes.Error, "Invalid question")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid question.",
			"detail": question.Violations(err),
		})
		return
	}

	if err := s.store.SaveQuestion(ctx, q); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			span.SetStatus(otelcodes.Error, "Question not found")
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Question not found.",
			})
		case errors.Is(err, store.ErrUnknownCategory):
			span.SetStatus(otelcodes.Error, "Unknown category")
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Unknown category.",
				"detail": err.Error(),
			})
		default:
			span.SetStatus(otelcodes.Error, "Failed to save question")
			span.RecordError(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":  "Failed to save the question. Please try again later.",
				"detail": err.Error(),
			})
		}
		return
	}

	created := id == 0
	if !created {
		s.renderer.Invalidate(ctx, q.ID)
	}

	s.eventService.TriggerEvent(ctx, events.Event{
		Type: events.EventTypeQuestionSaved,
		Payload: map[string]any{
			"question_id":   q.ID,
			"question_type": string(q.Type),
			"category":      q.Category,
			"created":       created,
		},
		Client: httputils.GetClient(ctx),
	})

	span.SetStatus(otelcodes.Ok, "Question saved")
	if created {
		c.JSON(http.StatusCreated, q)
		return
	}
	c.JSON(http.StatusOK, q)
}

// DeleteQuestion deletes a question and its submissions.
// DELETE /api/questions/:id
func (s *QuestionService) DeleteQuestion(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "DeleteQuestion",
		trace.WithAttributes(
			attribute.Int("question.id", id),
		))
	defer span.End()

	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			span.SetStatus(otelcodes.Error, "Question not found")
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Question not found.",
			})
			return
		}

		span.SetStatus(otelcodes.Error, "Failed to delete question")
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to delete the question. Please try again later.",
			"detail": err.Error(),
		})
		return
	}

	s.renderer.Invalidate(ctx, id)
	s.eventService.TriggerEvent(ctx, events.Event{
		Type: events.EventTypeQuestionDeleted,
		Payload: map[string]any{
			"question_id": id,
		},
		Client: httputils.GetClient(ctx),
	})

	span.SetStatus(otelcodes.Ok, "Question deleted")
	c.Status(http.StatusNoContent)
}

func (s *QuestionService) toQuestion(req QuestionRequest) (*question.Question, error) {
	q := &question.Question{
		Text:          req.Text,
		Type:          question.Type(req.Type),
		Choices:       req.Choices,
		CorrectChoice: req.CorrectChoice,
		BlankAnswers:  req.BlankAnswers,
		Category:      req.Category,
		Difficulty:    question.Difficulty(req.Difficulty),
	}

	switch req.Format {
	case "", FormatLatex:
	case FormatHTML:
		q.Text = s.renderer.EncodeEditorHTML(q.Text)
		q.Choices = lo.Map(q.Choices, func(choice string, _ int) string {
			return s.renderer.EncodeEditorHTML(choice)
		})
	default:
		return nil, errors.New(`format must be "latex" or "html"`)
	}

	return q, nil
}

// loadQuestion gets a question, writing the error response when it fails.
func (s *QuestionService) loadQuestion(c *gin.Context, id int) (*question.Question, bool) {
	q, err := s.store.GetQuestion(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Question not found.",
			})
			return nil, false
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to get the question. Please try again later.",
			"detail": err.Error(),
		})
		return nil, false
	}

	return q, true
}
