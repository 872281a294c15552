package setup_test

import (
	"context"
	"testing"

	"github.com/algebra-practice/backend/internal/question"
	"github.com/algebra-practice/backend/internal/setup"
	"github.com/algebra-practice/backend/internal/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("should create the default category on first run", func(t *testing.T) {
		st := testhelper.NewSqliteStore(t)
		ctx := context.Background()

		result, err := setup.Setup(ctx, st)
		require.NoError(t, err)
		require.NotNil(t, result.DefaultCategory)
		assert.Equal(t, question.DefaultCategory, result.DefaultCategory.Name)
		assert.Equal(t, "Questions without a topic", result.DefaultCategory.Description)

		categories, err := st.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		st := testhelper.NewSqliteStore(t)
		ctx := context.Background()

		first, err := setup.Setup(ctx, st)
		require.NoError(t, err)

		second, err := setup.Setup(ctx, st)
		require.NoError(t, err)
		assert.Equal(t, first.DefaultCategory.ID, second.DefaultCategory.ID)

		categories, err := st.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})
}

func TestMigrate(t *testing.T) {
	st := testhelper.NewSqliteStore(t)

	// running the migration again on an up-to-date schema is a no-op
	require.NoError(t, setup.Migrate(context.Background(), st))
}
