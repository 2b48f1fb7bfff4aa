package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_JSONLevels(t *testing.T) {
	var buf bytes.Buffer
	log := setupLogger(EnvProd, &buf)
	log.Debug("hidden")
	log.Info("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])

	buf.Reset()
	log = setupLogger(EnvDev, &buf)
	log.Debug("debug visible")
	assert.Contains(t, buf.String(), "debug visible")
}

func TestSetupLogger_UnknownEnvFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	setupLogger("staging", &buf).Info("hello")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestSetupLogger_LocalIsPretty(t *testing.T) {
	var buf bytes.Buffer
	setupLogger(EnvLocal, &buf).Debug("pretty")
	assert.Contains(t, buf.String(), "pretty")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
