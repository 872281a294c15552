package cli_test

import (
	"context"
	"testing"

	"github.com/algebra-practice/backend/cli"
	"github.com/algebra-practice/backend/internal/question"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedFile = `
- text: 'Which value solves \(x + 1 = 3\)?'
  type: single-select
  choices: ['\(1\)', '\(2\)']
  correctChoice: 2
  category: linear
  difficulty: easy
- text: 'If \(2x = 8\) then x = __'
  type: Fill-Blank
  blankAnswers: ["4"]
`

func TestParseQuestionSeedRecords(t *testing.T) {
	records, err := cli.ParseQuestionSeedRecords([]byte(seedFile))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, `Which value solves \(x + 1 = 3\)?`, records[0].Text)
	assert.Equal(t, []string{`\(1\)`, `\(2\)`}, records[0].Choices)
	assert.Equal(t, 2, records[0].CorrectChoice)

	q := records[1].ToQuestion()
	assert.Equal(t, question.TypeFillBlank, q.Type)
	assert.Equal(t, question.DefaultCategory, q.Category)
	assert.Equal(t, question.DifficultyMedium, q.Difficulty)

	_, err = cli.ParseQuestionSeedRecords([]byte("text: [unclosed"))
	require.Error(t, err)
}

func TestSeedQuestions(t *testing.T) {
	t.Run("should create questions and their categories", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Setup(t)
		ctx := context.Background()

		records, err := cli.ParseQuestionSeedRecords([]byte(seedFile))
		require.NoError(t, err)

		created, err := tc.GetContext(t).SeedQuestions(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, 2, created)

		linear, err := tc.GetStore(t).ListQuestions(ctx, store.QuestionFilter{Category: "linear"})
		require.NoError(t, err)
		require.Len(t, linear, 1)
		assert.Equal(t, question.DifficultyEasy, linear[0].Difficulty)

		// seeding again skips existing questions
		created, err = tc.GetContext(t).SeedQuestions(ctx, records)
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("should reject the whole file when a record is invalid", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Setup(t)
		ctx := context.Background()

		records := []cli.QuestionSeedRecord{
			{Text: "x = __", Type: "fill-blank", BlankAnswers: []string{"1"}},
			{Text: "x = __ and __", Type: "fill-blank", BlankAnswers: []string{"1"}},
		}

		_, err := tc.GetContext(t).SeedQuestions(ctx, records)
		require.ErrorIs(t, err, question.ErrBlankAnswerCount)
		assert.Contains(t, err.Error(), "#1")

		questions, err := tc.GetStore(t).ListQuestions(ctx, store.QuestionFilter{})
		require.NoError(t, err)
		assert.Empty(t, questions)
	})
}
