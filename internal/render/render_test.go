package render_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/algebra-practice/backend/internal/formula"
	"github.com/algebra-practice/backend/internal/question"
	"github.com/algebra-practice/backend/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*render.RenderedQuestion
	gets    int
	err     error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*render.RenderedQuestion)}
}

func (c *memoryCache) Get(_ context.Context, key string) (*render.RenderedQuestion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	if c.err != nil {
		return nil, c.err
	}
	rendered, ok := c.entries[key]
	if !ok {
		return nil, render.ErrCacheMiss
	}
	return rendered, nil
}

func (c *memoryCache) Set(_ context.Context, key string, rendered *render.RenderedQuestion) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	c.entries[key] = rendered
	return nil
}

func (c *memoryCache) DeleteQuestion(_ context.Context, questionID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, rendered := range c.entries {
		if rendered.ID == questionID {
			delete(c.entries, key)
		}
	}
	return nil
}

func TestRenderQuestion_SingleSelect(t *testing.T) {
	renderer := render.NewRenderer(formula.NewCodec(), nil, 2)

	rendered, err := renderer.RenderQuestion(context.Background(), &question.Question{
		ID:            3,
		Text:          `Solve \(x + 1 = 3\)`,
		Type:          question.TypeSingleSelect,
		Choices:       []string{`\(1\)`, "two"},
		CorrectChoice: 2,
		Category:      "linear",
		Difficulty:    question.DifficultyEasy,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, rendered.ID)
	assert.Equal(t, `Solve <span class="algebra-formula" data-latex="x + 1 = 3">\(x + 1 = 3\)</span>`, rendered.HTML)
	assert.Equal(t, []string{`<span class="algebra-formula" data-latex="1">\(1\)</span>`, "two"}, rendered.Choices)
	assert.Zero(t, rendered.BlankCount)
	assert.Equal(t, "linear", rendered.Category)
	assert.Equal(t, 2, rendered.MaxAttempts)
}

func TestRenderQuestion_FillBlank(t *testing.T) {
	renderer := render.NewRenderer(formula.NewCodec(), nil, 2)

	rendered, err := renderer.RenderQuestion(context.Background(), &question.Question{
		ID:           4,
		Text:         `\(a_1 = 2\), \(a__2\) = __ and __`,
		Type:         question.TypeFillBlank,
		BlankAnswers: []string{"4", "8"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, rendered.BlankCount)
	assert.Equal(t,
		`<span class="algebra-formula" data-latex="a_1 = 2">\(a_1 = 2\)</span>, `+
			`<span class="algebra-formula" data-latex="a__2">\(a__2\)</span> = `+
			`<input type="text" class="algebra-blank" data-blank="0" autocomplete="off"> and `+
			`<input type="text" class="algebra-blank" data-blank="1" autocomplete="off">`,
		rendered.HTML,
	)
	assert.Nil(t, rendered.Choices)
}

func TestRenderQuestion_UsesCache(t *testing.T) {
	cache := newMemoryCache()
	renderer := render.NewRenderer(formula.NewCodec(), cache, 2)
	ctx := context.Background()

	q := &question.Question{
		ID:        5,
		Text:      `\(x\)`,
		Type:      question.TypeSingleSelect,
		Choices:   []string{"a", "b"},
		UpdatedAt: time.Unix(100, 0),
	}

	first, err := renderer.RenderQuestion(ctx, q)
	require.NoError(t, err)
	require.Len(t, cache.entries, 1)
	assert.Contains(t, cache.entries, render.CacheKey(5, q.UpdatedAt.UnixNano()))

	second, err := renderer.RenderQuestion(ctx, q)
	require.NoError(t, err)
	assert.Same(t, first, second)

	// a newer version is a new key
	q.UpdatedAt = time.Unix(200, 0)
	q.Text = `\(y\)`
	third, err := renderer.RenderQuestion(ctx, q)
	require.NoError(t, err)
	assert.Contains(t, third.HTML, `data-latex="y"`)
	assert.Len(t, cache.entries, 2)

	renderer.Invalidate(ctx, 5)
	assert.Empty(t, cache.entries)
}

func TestRenderQuestion_CacheFailureStillRenders(t *testing.T) {
	cache := newMemoryCache()
	cache.err = errors.New("connection refused")
	renderer := render.NewRenderer(formula.NewCodec(), cache, 2)

	rendered, err := renderer.RenderQuestion(context.Background(), &question.Question{
		ID:   6,
		Text: "plain",
		Type: question.TypeSingleSelect,
	})
	require.NoError(t, err)
	assert.Equal(t, "plain", rendered.HTML)
	assert.Equal(t, 1, cache.gets)
}

func TestRenderQuestion_Nil(t *testing.T) {
	renderer := render.NewRenderer(formula.NewCodec(), nil, 2)

	_, err := renderer.RenderQuestion(context.Background(), nil)
	require.Error(t, err)
}

func TestEncodeEditorHTML(t *testing.T) {
	renderer := render.NewRenderer(formula.NewCodec(), nil, 2)

	html := `<p>Solve <span class="algebra-formula" data-latex="x^2 = 4">rendered</span></p>`
	assert.Equal(t, `<p>Solve \(x^2 = 4\)</p>`, renderer.EncodeEditorHTML(html))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "render:question:12:1700000000000000000", render.CacheKey(12, 1700000000000000000))
}
