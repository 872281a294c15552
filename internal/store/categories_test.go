package store_test

import (
	"context"
	"testing"

	"github.com/algebra-practice/backend/internal/question"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	category, err := st.CreateCategory(ctx, "  quadratics ", "Quadratic equations")
	require.NoError(t, err)
	assert.Equal(t, "quadratics", category.Name)

	_, err = st.CreateCategory(ctx, "quadratics", "again")
	require.ErrorIs(t, err, store.ErrConflict)

	got, err := st.GetCategoryByName(ctx, "quadratics")
	require.NoError(t, err)
	assert.Equal(t, category.ID, got.ID)
	assert.Equal(t, "Quadratic equations", got.Description)

	_, err = st.GetCategoryByName(ctx, "nothing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEnsureCategory(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	first, err := st.EnsureCategory(ctx, "fractions", "")
	require.NoError(t, err)

	second, err := st.EnsureCategory(ctx, "fractions", "ignored")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestListCategories_CountsQuestions(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	_, err := st.CreateCategory(ctx, "empty", "")
	require.NoError(t, err)
	require.NoError(t, st.SaveQuestion(ctx, newSingleSelect()))
	require.NoError(t, st.SaveQuestion(ctx, newFillBlank()))

	categories, err := st.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.Equal(t, question.DefaultCategory, categories[0].Name)
	assert.Equal(t, 2, categories[0].QuestionCount)
	assert.Equal(t, "empty", categories[1].Name)
	assert.Zero(t, categories[1].QuestionCount)
}

func TestUpdateCategory_MovesQuestions(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	category, err := st.CreateCategory(ctx, "linear", "")
	require.NoError(t, err)

	q := newFillBlank()
	q.Category = "linear"
	require.NoError(t, st.SaveQuestion(ctx, q))

	updated, err := st.UpdateCategory(ctx, category.ID, "linear-equations", "Solve for x")
	require.NoError(t, err)
	assert.Equal(t, "linear-equations", updated.Name)
	assert.Equal(t, 1, updated.QuestionCount)

	got, err := st.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "linear-equations", got.Category)
	assert.False(t, got.UpdatedAt.Before(q.UpdatedAt))

	_, err = st.UpdateCategory(ctx, category.ID, question.DefaultCategory, "")
	require.ErrorIs(t, err, store.ErrConflict)

	// the failed rename rolled back
	got, err = st.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "linear-equations", got.Category)

	_, err = st.UpdateCategory(ctx, 999, "x", "")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteCategory(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	category, err := st.CreateCategory(ctx, "linear", "")
	require.NoError(t, err)

	q := newSingleSelect()
	q.Category = "linear"
	require.NoError(t, st.SaveQuestion(ctx, q))

	require.ErrorIs(t, st.DeleteCategory(ctx, category.ID), store.ErrCategoryInUse)

	require.NoError(t, st.DeleteQuestion(ctx, q.ID))
	require.NoError(t, st.DeleteCategory(ctx, category.ID))
	require.ErrorIs(t, st.DeleteCategory(ctx, category.ID), store.ErrNotFound)
}
