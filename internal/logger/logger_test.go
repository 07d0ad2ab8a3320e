package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterAddsModule(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Options{Module: "pos", Level: "debug"})
	l.Debug().Int64("product_id", 3).Msg("add line")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pos", entry["module"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "add line", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Options{Level: "verbose"})
	l.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	l.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.log")
	l, closer, err := New(Options{Module: "admin", File: path})
	require.NoError(t, err)
	l.Info().Msg("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"module":"admin"`)
}
