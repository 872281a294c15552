package question_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/algebra-practice/backend/internal/question"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountBlanks(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"no blanks here", 0},
		{"a single _ is not a blank", 0},
		{"x = __", 1},
		{"__ + ____ = 10", 2},
		{`\(x_{1}\) and \(a__b\) are formulas, ___ is a blank`, 1},
		{"\\[\n y__1 \n\\] then __", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, question.CountBlanks(tt.text), "CountBlanks(%q)", tt.text)
	}
}

func TestReplaceBlanks(t *testing.T) {
	got := question.ReplaceBlanks(`__ and \(x__y\) and ___`, func(i int) string {
		return "[" + strconv.Itoa(i) + "]"
	})
	assert.Equal(t, `[0] and \(x__y\) and [1]`, got)

	assert.Equal(t, "nothing", question.ReplaceBlanks("nothing", func(int) string { return "!" }))
}

func TestNormalize(t *testing.T) {
	q := question.Question{
		Type:          " Fill-Blank ",
		Text:          "x = __",
		Choices:       []string{"a", "b"},
		CorrectChoice: 2,
		BlankAnswers:  []string{"4"},
		Category:      "  ",
	}
	q.Normalize()

	assert.Equal(t, question.TypeFillBlank, q.Type)
	assert.Equal(t, question.DefaultCategory, q.Category)
	assert.Equal(t, question.DifficultyMedium, q.Difficulty)
	assert.Nil(t, q.Choices)
	assert.Zero(t, q.CorrectChoice)
	assert.Equal(t, []string{"4"}, q.BlankAnswers)
}

func TestValidate_Valid(t *testing.T) {
	singleSelect := question.Question{
		Text:          `What is \(1+1\)?`,
		Type:          question.TypeSingleSelect,
		Choices:       []string{`\(1\)`, `\(2\)`, `\(3\)`},
		CorrectChoice: 2,
		Difficulty:    question.DifficultyEasy,
	}
	require.NoError(t, singleSelect.Validate())

	fillBlank := question.Question{
		Text:         `\(2x = 8\), so x = __ and \(x^2\) = __`,
		Type:         question.TypeFillBlank,
		BlankAnswers: []string{"4", "16"},
		Difficulty:   question.DifficultyHard,
	}
	require.NoError(t, fillBlank.Validate())
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	q := question.Question{
		Text:          " ",
		Type:          question.TypeSingleSelect,
		Choices:       []string{""},
		CorrectChoice: 3,
		Difficulty:    "impossible",
	}

	err := q.Validate()
	require.Error(t, err)

	assert.ErrorIs(t, err, question.ErrEmptyText)
	assert.ErrorIs(t, err, question.ErrUnknownDifficulty)
	assert.ErrorIs(t, err, question.ErrTooFewChoices)
	assert.ErrorIs(t, err, question.ErrEmptyChoice)
	assert.ErrorIs(t, err, question.ErrCorrectChoiceOutOfRange)
	assert.Len(t, question.Violations(err), 5)
}

func TestValidate_FillBlank(t *testing.T) {
	noBlanks := question.Question{
		Text:         "x = 4",
		Type:         question.TypeFillBlank,
		BlankAnswers: []string{"4"},
		Difficulty:   question.DifficultyMedium,
	}
	assert.ErrorIs(t, noBlanks.Validate(), question.ErrNoBlanks)

	mismatch := question.Question{
		Text:         "__ + __",
		Type:         question.TypeFillBlank,
		BlankAnswers: []string{"1"},
		Difficulty:   question.DifficultyMedium,
	}
	assert.ErrorIs(t, mismatch.Validate(), question.ErrBlankAnswerCount)

	empty := question.Question{
		Text:         "__",
		Type:         question.TypeFillBlank,
		BlankAnswers: []string{"  "},
		Difficulty:   question.DifficultyMedium,
	}
	assert.ErrorIs(t, empty.Validate(), question.ErrEmptyBlankAnswer)
}

func TestValidate_UnknownType(t *testing.T) {
	q := question.Question{Text: "essay", Type: "essay", Difficulty: question.DifficultyEasy}
	assert.ErrorIs(t, q.Validate(), question.ErrUnknownType)
}

func TestViolations(t *testing.T) {
	assert.Nil(t, question.Violations(nil))
	assert.Equal(t, []string{"boom"}, question.Violations(errors.New("boom")))
}
