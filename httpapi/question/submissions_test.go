package questionservice

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/algebra-practice/backend/internal/events"
	"github.com/algebra-practice/backend/internal/grader"
	"github.com/algebra-practice/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

type submitResponse struct {
	Submission    *models.Submission `json:"submission"`
	Correct       bool               `json:"correct"`
	Attempt       int                `json:"attempt"`
	AttemptsLeft  int                `json:"attemptsLeft"`
	Locked        bool               `json:"locked"`
	CorrectAnswer *grader.Answer     `json:"correctAnswer"`
}

func TestQuestionService_SubmitAnswer(t *testing.T) {
	t.Run("grades a single-select answer", func(t *testing.T) {
		env := setupTestQuestionService(t)
		created := env.createQuestion(t, singleSelectRequest())
		path := "/api/questions/" + itoa(created.ID) + "/submissions"

		rr := env.do(t, http.MethodPost, path, `{"answer":" 2 ","attempt":1}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		result := decode[submitResponse](t, rr)
		assert.True(t, result.Correct)
		assert.True(t, result.Locked)
		assert.Nil(t, result.CorrectAnswer)
		require.NotNil(t, result.Submission)
		assert.Positive(t, result.Submission.ID)

		assert.Contains(t, env.recorder.types(), events.EventTypeSubmitAnswer)
	})

	t.Run("reveals the answer after the last attempt", func(t *testing.T) {
		env := setupTestQuestionService(t)
		created := env.createQuestion(t, QuestionRequest{
			Text:         `\(x^2 = 9\), x = __ or __`,
			Type:         "fill-blank",
			BlankAnswers: []string{"3", "-3"},
		})
		path := "/api/questions/" + itoa(created.ID) + "/submissions"

		rr := env.do(t, http.MethodPost, path, `{"answer":["3","3"],"attempt":1}`)
		require.Equal(t, http.StatusOK, rr.Code)
		first := decode[submitResponse](t, rr)
		assert.False(t, first.Correct)
		assert.False(t, first.Locked)
		assert.Equal(t, 1, first.AttemptsLeft)
		assert.Nil(t, first.CorrectAnswer)

		rr = env.do(t, http.MethodPost, path, `{"answer":["3"],"attempt":2}`)
		require.Equal(t, http.StatusOK, rr.Code)
		second := decode[submitResponse](t, rr)
		assert.False(t, second.Correct)
		assert.True(t, second.Locked)
		require.NotNil(t, second.CorrectAnswer)
		values, ok := second.CorrectAnswer.AsList()
		require.True(t, ok)
		assert.Equal(t, []string{"3", "-3"}, values)

		rr = env.do(t, http.MethodPost, path, `{"answer":[" 3 ","-3"],"attempt":1}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decode[submitResponse](t, rr).Correct)
	})

	t.Run("grades a malformed answer as incorrect", func(t *testing.T) {
		env := setupTestQuestionService(t)
		created := env.createQuestion(t, singleSelectRequest())
		path := "/api/questions/" + itoa(created.ID) + "/submissions"

		for _, body := range []string{`{"answer":{"choice":2}}`, `{"answer":["2"]}`, `{}`} {
			rr := env.do(t, http.MethodPost, path, body)
			require.Equal(t, http.StatusOK, rr.Code, body)
			assert.False(t, decode[submitResponse](t, rr).Correct, body)
		}
	})

	t.Run("grades an empty body as an absent answer", func(t *testing.T) {
		env := setupTestQuestionService(t)
		created := env.createQuestion(t, singleSelectRequest())

		rr := env.do(t, http.MethodPost, "/api/questions/"+itoa(created.ID)+"/submissions", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		result := decode[submitResponse](t, rr)
		assert.False(t, result.Correct)
		require.NotNil(t, result.Submission)
		assert.Equal(t, grader.KindNone, result.Submission.Answer.Kind())

		count, err := env.store.CountSubmissions(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("returns incorrect for a missing question", func(t *testing.T) {
		env := setupTestQuestionService(t)

		rr := env.do(t, http.MethodPost, "/api/questions/999/submissions", `{"answer":"1"}`)
		require.Equal(t, http.StatusNotFound, rr.Code)

		body := decode[map[string]any](t, rr)
		assert.Equal(t, false, body["correct"])

		count, err := env.store.CountSubmissions(t.Context())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("rejects unreadable JSON", func(t *testing.T) {
		env := setupTestQuestionService(t)
		created := env.createQuestion(t, singleSelectRequest())

		rr := env.do(t, http.MethodPost, "/api/questions/"+itoa(created.ID)+"/submissions", `{"answer":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestQuestionService_SubmissionsAndStatistics(t *testing.T) {
	env := setupTestQuestionService(t)
	created := env.createQuestion(t, singleSelectRequest())
	path := "/api/questions/" + itoa(created.ID)

	for _, body := range []string{
		`{"answer":"1","attempt":1}`,
		`{"answer":"2","attempt":2}`,
		`{"answer":"2","attempt":1}`,
	} {
		rr := env.do(t, http.MethodPost, path+"/submissions", body)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := env.do(t, http.MethodGet, path+"/submissions?limit=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	submissions := decode[[]*models.Submission](t, rr)
	require.Len(t, submissions, 2)
	assert.Greater(t, submissions[0].ID, submissions[1].ID)

	rr = env.do(t, http.MethodGet, path+"/statistics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[models.QuestionStatistics](t, rr)
	assert.Equal(t, 3, stats.SubmissionCount)
	assert.Equal(t, 2, stats.CorrectSubmissionCount)
	assert.Equal(t, 1, stats.FirstAttemptCorrectCount)

	rr = env.do(t, http.MethodGet, "/api/questions/999/statistics", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/questions/999/submissions", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
