// Package render turns stored questions into their display form.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/algebra-practice/backend/internal/formula"
	"github.com/algebra-practice/backend/internal/metrics"
	"github.com/algebra-practice/backend/internal/question"
	"github.com/samber/lo"
)

// BlankClassName is the class of the text inputs that replace blank markers.
const BlankClassName = "algebra-blank"

// RenderedQuestion is a question in display form. It never carries the
// answer key.
type RenderedQuestion struct {
	ID          int                 `json:"id"`
	Type        question.Type       `json:"type"`
	HTML        string              `json:"html"`
	Choices     []string            `json:"choices,omitempty"`
	BlankCount  int                 `json:"blankCount,omitempty"`
	Category    string              `json:"category"`
	Difficulty  question.Difficulty `json:"difficulty"`
	MaxAttempts int                 `json:"maxAttempts"`
}

// Renderer decodes questions for display, caching the result.
type Renderer struct {
	codec       *formula.Codec
	cache       Cache
	maxAttempts int
}

// NewRenderer creates a Renderer. A nil cache disables caching.
func NewRenderer(codec *formula.Codec, cache Cache, maxAttempts int) *Renderer {
	if cache == nil {
		cache = NopCache{}
	}

	return &Renderer{codec: codec, cache: cache, maxAttempts: maxAttempts}
}

// Codec returns the formula codec of the renderer.
func (r *Renderer) Codec() *formula.Codec {
	return r.codec
}

// RenderQuestion returns the display form of q. Cache failures are logged
// and never fail the render.
func (r *Renderer) RenderQuestion(ctx context.Context, q *question.Question) (*RenderedQuestion, error) {
	if q == nil {
		return nil, errors.New("render: nil question")
	}

	key := CacheKey(q.ID, q.UpdatedAt.UnixNano())

	cached, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.RecordQuestionRendered(true)
		return cached, nil
	case !errors.Is(err, ErrCacheMiss):
		slog.Warn("error reading render cache", "key", key, "error", err)
	}

	rendered := r.render(q)
	metrics.RecordQuestionRendered(false)

	if err := r.cache.Set(ctx, key, rendered); err != nil {
		slog.Warn("error writing render cache", "key", key, "error", err)
	}

	return rendered, nil
}

func (r *Renderer) render(q *question.Question) *RenderedQuestion {
	rendered := &RenderedQuestion{
		ID:          q.ID,
		Type:        q.Type,
		Category:    q.Category,
		Difficulty:  q.Difficulty,
		MaxAttempts: r.maxAttempts,
	}

	switch q.Type {
	case question.TypeFillBlank:
		rendered.BlankCount = question.CountBlanks(q.Text)
		rendered.HTML = r.codec.Decode(question.ReplaceBlanks(q.Text, blankInput))
	default:
		rendered.HTML = r.codec.Decode(q.Text)
		rendered.Choices = lo.Map(q.Choices, func(choice string, _ int) string {
			return r.codec.Decode(choice)
		})
	}

	return rendered
}

func blankInput(index int) string {
	return fmt.Sprintf(`<input type="text" class="%s" data-blank="%d" autocomplete="off">`, BlankClassName, index)
}

// Invalidate drops the cached renderings of a question.
func (r *Renderer) Invalidate(ctx context.Context, questionID int) {
	if err := r.cache.DeleteQuestion(ctx, questionID); err != nil {
		slog.Warn("error invalidating render cache", "question_id", questionID, "error", err)
	}
}

// EncodeEditorHTML turns the HTML of a rich-text editor back into storage text.
func (r *Renderer) EncodeEditorHTML(html string) string {
	return r.codec.Encode(html)
}
