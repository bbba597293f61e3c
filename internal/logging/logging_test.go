package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := newLogger(Options{}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	l.Debug("hidden")
	l.WithField("playlist_id", "PL1").Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "playlist_id=PL1")
}

func TestNewJSONToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, closer, err := newLogger(Options{Level: "debug", Format: "json", File: path}, &buf)
	require.NoError(t, err)
	l.Debug("to both")
	require.NoError(t, closer.Close())

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "to both", line["msg"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, _, err := newLogger(Options{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, _, err = newLogger(Options{Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
