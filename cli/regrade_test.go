package cli_test

import (
	"context"
	"testing"

	"github.com/algebra-practice/backend/internal/grader"
	"github.com/algebra-practice/backend/internal/question"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegradeSubmissions(t *testing.T) {
	tc := NewTestContext(t)
	tc.Setup(t)
	ctx := context.Background()
	st := tc.GetStore(t)

	q := &question.Question{
		Text:         "x = __",
		Type:         question.TypeFillBlank,
		BlankAnswers: []string{"4"},
	}
	require.NoError(t, st.SaveQuestion(ctx, q))

	submissions := []*models.Submission{
		{QuestionID: q.ID, Answer: grader.List("4"), Correct: true},
		{QuestionID: q.ID, Answer: grader.List("four"), Correct: false},
		{QuestionID: q.ID, Answer: grader.List("5"), Correct: false},
	}
	for _, s := range submissions {
		require.NoError(t, st.RecordSubmission(ctx, s))
	}

	// the author fixes the answer key
	q.BlankAnswers = []string{"four"}
	require.NoError(t, st.SaveQuestion(ctx, q))

	changes, err := tc.GetContext(t).PreviewRegrade(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, submissions[0].ID, changes[0].Submission.ID)
	assert.False(t, changes[0].Correct)
	assert.Equal(t, submissions[1].ID, changes[1].Submission.ID)
	assert.True(t, changes[1].Correct)

	// the preview writes nothing
	byResult, err := st.CountSubmissionsByResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[bool]int{true: 1, false: 2}, byResult)

	summary, err := tc.GetContext(t).RegradeSubmissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Changed)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Zero(t, summary.Failed)

	stored, err := st.ListSubmissions(ctx, store.SubmissionFilter{Ascending: true})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.False(t, stored[0].Correct)
	assert.True(t, stored[1].Correct)
	assert.False(t, stored[2].Correct)
}

func TestRegradeSubmissions_Empty(t *testing.T) {
	tc := NewTestContext(t)
	tc.Setup(t)

	changes, err := tc.GetContext(t).PreviewRegrade(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changes)

	summary, err := tc.GetContext(t).RegradeSubmissions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
}
