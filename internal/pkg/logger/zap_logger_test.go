package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turns.log")
	l := NewIsolatedLogger(path)

	l.Info("PIPELINE", "turn completed", map[string]interface{}{"route": "version_query"})
	l.Debug("PIPELINE", "below file level", nil)
	require.NoError(t, l.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}

	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "turn completed", lines[0]["message"])
	assert.Equal(t, "PIPELINE", lines[0]["module"])
	details := lines[0]["details"].(map[string]interface{})
	assert.Equal(t, "version_query", details["route"])
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Error("X", "boom", map[string]interface{}{"error": "e"})
		_ = l.Sync()
	})
}
