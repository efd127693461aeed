package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-bridge/volunteerhub.com/internal/config"
)

func TestNewUsesJSONInRelease(t *testing.T) {
	cfg := config.Defaults()
	cfg.GinMode = "release"
	cfg.LogLevel = "debug"

	var buf bytes.Buffer
	log := NewWithOutput(cfg, &buf)
	log.WithField("user_id", 7).Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.EqualValues(t, 7, entry["user_id"])
}

func TestNewFallsBackToInfoLevel(t *testing.T) {
	cfg := config.Defaults()
	cfg.LogLevel = "chatty"

	log := NewWithOutput(cfg, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	_, isText := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}
