package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerWritesBothOutputs(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("chat created", "chat_id", "c1")

	assert.Contains(t, stderr.String(), "chat created")
	assert.Contains(t, stderr.String(), "app=autolinked")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "chat created", record["msg"])
	assert.Equal(t, "autolinked", record["app"])
	assert.Equal(t, "c1", record["chat_id"])
}

func TestSetupLoggerRespectsLevel(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Debug("ignored")

	assert.Empty(t, stderr.String())
	assert.Empty(t, file.String())
}
