package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	groveErrors "github.com/YuminosukeSato/grove/pkg/errors"
)

func TestZerologLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	SetLevel(LevelDebug)

	logger := GetLoggerWithName("forest.trainer")
	logger.Info("Training started",
		SamplesKey, 100,
		FeaturesKey, 4,
	)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "forest.trainer", record[ComponentKey])
	assert.Equal(t, float64(100), record[SamplesKey])
	assert.Equal(t, "Training started", record["message"])
}

func TestZerologLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	SetLevel(LevelWarn)

	logger := GetLogger()
	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")

	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelError))
	SetLevel(LevelInfo)
}

func TestZerologLoggerErrorField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	SetLevel(LevelDebug)

	err := groveErrors.NewValueError("Train", "empty dataset")
	GetLogger().Error("training failed", "error", err)

	assert.Contains(t, buf.String(), "empty dataset")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
}

func TestTestLoggerCapturesEntries(t *testing.T) {
	tl := NewTestLogger()
	contextual := tl.With(ModelNameKey, "Regressor")
	contextual.Info("fitted", TreesKey, 50)

	entries, err := tl.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Regressor", entries[0][ModelNameKey])
	assert.Equal(t, float64(50), entries[0][TreesKey])
	assert.True(t, tl.Contains("fitted"))

	tl.Reset()
	assert.False(t, tl.Contains("fitted"))
}
