package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithComponentAndRedaction(t *testing.T) {
	var buf bytes.Buffer
	l := New("json", "info", &buf)

	l.Info("serialized directed graph", "path", "tmp/graph.msgpack", "token", "abc123")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "serialized directed graph", rec["msg"])
	assert.Equal(t, Component, rec["component"])
	assert.Equal(t, "tmp/graph.msgpack", rec["path"])
	assert.Equal(t, "[REDACTED]", rec["token"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New("text", "warn", &buf)

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "component=DirectedGraph")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestOpenDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := OpenDailyFile(dir)
	require.NoError(t, err)
	_, err = f.WriteString("line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = OpenDailyFile(dir)
	require.NoError(t, err)
	_, err = f.WriteString("another\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(dir, DailyFileName(time.Now())))
	require.NoError(t, err)
	assert.Equal(t, "line\nanother\n", string(data))
}

func TestDailyFileName(t *testing.T) {
	ts := time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "20240229_directed_graph.log", DailyFileName(ts))
}
