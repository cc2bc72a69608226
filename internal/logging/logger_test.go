package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLogger_Verbose_WhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)
	logger.Verbose("test message: %s", "value")

	assert.Equal(t, "[VERBOSE] test message: value\n", buf.String())
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Verbose("test message: %s", "value")

	assert.Empty(t, buf.String())
}

func TestConsoleLogger_VerboseWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true).WithRunID("abc123")
	logger.Verbose("Parsed %d rows", 3)
	logger.Info("done")

	assert.Equal(t, "[VERBOSE abc123] Parsed 3 rows\ndone\n", buf.String())
}

func TestConsoleLogger_InfoAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Info("info message: %s", "value")
	logger.Error("failed")

	assert.Equal(t, "info message: value\n[ERROR] failed\n", buf.String())
}

func TestConsoleLogger_NoArgsKeepsPercent(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLoggerTo(&buf, false).Info("100% done")

	assert.Equal(t, "100% done\n", buf.String())
}

func TestConsoleLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Verbose("line %d", n)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 50)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[VERBOSE] line "), "interleaved line: %q", line)
	}
}

func TestZapLogger_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZapLoggerTo(&buf, false).WithRunID("run-1")
	logger.Info("Inserted %d rows", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Inserted 42 rows", entry["msg"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "taxiload", entry["logger"])
}

func TestZapLogger_VerboseLevel(t *testing.T) {
	var quiet bytes.Buffer
	NewZapLoggerTo(&quiet, false).Verbose("hidden")
	assert.Empty(t, quiet.String())

	var loud bytes.Buffer
	NewZapLoggerTo(&loud, true).Verbose("shown")
	assert.Contains(t, loud.String(), `"level":"debug"`)
	assert.Contains(t, loud.String(), `"msg":"shown"`)
}

func TestNullLogger_Discards(t *testing.T) {
	logger := NewNullLogger()
	logger.Verbose("x")
	logger.Info("y %d", 1)
	logger.Error("z")
}
