package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complyhub/internal/config"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.AppConfig{LogLevel: "debug", Timezone: "America/Edmonton"}, &buf)

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("component", "test").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "info", entry["level"])
	ts, _ := entry["ts"].(string)
	assert.Regexp(t, `-0[67]:00$`, ts)
}

func TestNewUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.AppConfig{LogLevel: "loud", Timezone: "UTC"}, &buf)

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}
