package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	t.Run("json by default", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(newHandler(&buf, "", slog.LevelInfo)).Info("rendered", "question_id", 3)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "rendered", record["msg"])
		assert.EqualValues(t, 3, record["question_id"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(newHandler(&buf, "TEXT", slog.LevelInfo)).Info("rendered", "question_id", 3)

		assert.Contains(t, buf.String(), "msg=rendered")
		assert.Contains(t, buf.String(), "question_id=3")
	})

	t.Run("level", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(newHandler(&buf, "json", slog.LevelWarn)).Info("hidden")

		assert.Empty(t, buf.String())
	})
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	assert.Equal(t, slog.LevelDebug, getLogLevel())

	t.Setenv("LOG_LEVEL", "nonsense")
	assert.Equal(t, slog.LevelInfo, getLogLevel())
}
