package logging

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previousLevel := logger.GetLevel()
	previousFormatter := logger.Formatter
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		logger.SetLevel(previousLevel)
		logger.SetFormatter(previousFormatter)
	})
	return &buf
}

func TestConfigure_Level(t *testing.T) {
	t.Setenv(DebugEnv, "")
	buf := captureOutput(t)

	require.NoError(t, Configure("warn", "text", false))
	assert.False(t, DebugEnabled())
	Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	require.NoError(t, Configure("warn", "text", true))
	assert.True(t, DebugEnabled())
	Debugf("shown %d\n", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestConfigure_DebugEnv(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	captureOutput(t)

	require.NoError(t, Configure("error", "text", false))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestConfigure_InvalidLevel(t *testing.T) {
	captureOutput(t)
	assert.Error(t, Configure("loud", "text", false))
}

func TestError_JSONFormat(t *testing.T) {
	t.Setenv(DebugEnv, "")
	buf := captureOutput(t)
	require.NoError(t, Configure("info", "json", false))

	Error(errors.New("disk full"), map[string]string{"operation": "write tasks", "code": "STORAGE_ERROR"})

	out := buf.String()
	assert.Contains(t, out, `"operation":"write tasks"`)
	assert.Contains(t, out, `"code":"STORAGE_ERROR"`)
	assert.Contains(t, out, `"error":"disk full"`)
	assert.Contains(t, out, `"message":"operation failed"`)
}
