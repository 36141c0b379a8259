package loom

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileSinkConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig("app")
	cfg.LogDir = t.TempDir()
	cfg.LogFile = "app.log"
	cfg.EnableConsole = false
	return cfg.normalized()
}

func backupPath(cfg Config, n int) string {
	return fmt.Sprintf("%s.%d", cfg.filePath(), n)
}

func TestFileSinkWrite(t *testing.T) {
	t.Run("creates directory with parents", func(t *testing.T) {
		cfg := fileSinkConfig(t)
		cfg.LogDir = filepath.Join(cfg.LogDir, "nested", "deeper")

		s, err := newFileSink(cfg, DebugLevel, nil)
		require.NoError(t, err)
		defer s.close()

		assert.DirExists(t, cfg.LogDir)
	})

	t.Run("appends one line per record", func(t *testing.T) {
		cfg := fileSinkConfig(t)
		s, err := newFileSink(cfg, DebugLevel, nil)
		require.NoError(t, err)
		defer s.close()

		s.emit(testRecord(InfoLevel, "first"))
		s.emit(testRecord(ErrorLevel, "second"))

		data, err := os.ReadFile(cfg.filePath())
		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Regexp(t, lineRe, lines[0])
		assert.Contains(t, lines[0], "| first")
		assert.Contains(t, lines[1], "| second")
	})

	t.Run("one-line mode collapses multi-line messages", func(t *testing.T) {
		cfg := fileSinkConfig(t)
		s, err := newFileSink(cfg, DebugLevel, nil)
		require.NoError(t, err)
		defer s.close()

		s.emit(testRecord(InfoLevel, "Line 1\nLine 2\n  Line 3"))

		data, err := os.ReadFile(cfg.filePath())
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(data), "\n"))
		assert.Contains(t, string(data), "Line 1 Line 2 Line 3")
	})

	t.Run("multi-line mode preserves message newlines", func(t *testing.T) {
		cfg := fileSinkConfig(t)
		cfg.OneLineFileFormat = false
		s, err := newFileSink(cfg, DebugLevel, nil)
		require.NoError(t, err)
		defer s.close()

		s.emit(testRecord(InfoLevel, "one\ntwo"))

		data, err := os.ReadFile(cfg.filePath())
		require.NoError(t, err)
		assert.Contains(t, string(data), "one\ntwo\n")
	})

	t.Run("filters below its minimum level", func(t *testing.T) {
		cfg := fileSinkConfig(t)
		s, err := newFileSink(cfg, ErrorLevel, nil)
		require.NoError(t, err)
		defer s.close()

		s.emit(testRecord(WarningLevel, "dropped"))

		data, err := os.ReadFile(cfg.filePath())
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("resumes size counter on an existing file", func(t *testing.T) {
		cfg := fileSinkConfig(t)
		s, err := newFileSink(cfg, DebugLevel, nil)
		require.NoError(t, err)
		s.emit(testRecord(InfoLevel, "persisted"))
		require.NoError(t, s.close())

		reopened, err := newFileSink(cfg, DebugLevel, nil)
		require.NoError(t, err)
		defer reopened.close()
		assert.Positive(t, reopened.size.Load())
	})

	t.Run("closed sink drops records", func(t *testing.T) {
		cfg := fileSinkConfig(t)
		s, err := newFileSink(cfg, DebugLevel, nil)
		require.NoError(t, err)
		require.NoError(t, s.close())
		require.NoError(t, s.close())

		s.emit(testRecord(InfoLevel, "after close"))

		data, err := os.ReadFile(cfg.filePath())
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("unwritable directory fails construction", func(t *testing.T) {
		cfg := fileSinkConfig(t)
		blocker := filepath.Join(cfg.LogDir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
		cfg.LogDir = filepath.Join(blocker, "sub")

		_, err := newFileSink(cfg, DebugLevel, nil)
		require.Error(t, err)
	})
}

// maxMessageIndex extracts the highest msg-NN sequence number in a file so
// rotation tests can assert recency ordering without byte-level math.
func maxMessageIndex(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	max := -1
	for _, m := range regexp.MustCompile(`msg-(\d+)`).FindAllStringSubmatch(string(data), -1) {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		if n > max {
			max = n
		}
	}
	return max
}

func TestFileSinkRotation(t *testing.T) {
	newRotatingSink := func(t *testing.T, backups, linesPerFile int) (*fileSink, Config) {
		t.Helper()
		cfg := fileSinkConfig(t)
		cfg.BackupCount = backups
		s, err := newFileSink(cfg, DebugLevel, nil)
		require.NoError(t, err)
		t.Cleanup(func() { s.close() })

		// Fixed-width messages make every line the same length, so the
		// threshold below holds exactly linesPerFile lines.
		lineLen := int64(len(formatRecord(testRecord(InfoLevel, "msg-00"))) + 1)
		s.maxBytes = int64(linesPerFile)*lineLen + lineLen/2
		return s, cfg
	}

	t.Run("first threshold crossing creates backup one", func(t *testing.T) {
		s, cfg := newRotatingSink(t, 3, 2)

		for i := 0; i < 3; i++ {
			s.emit(testRecord(InfoLevel, fmt.Sprintf("msg-%02d", i)))
		}

		assert.FileExists(t, backupPath(cfg, 1))
		assert.NoFileExists(t, backupPath(cfg, 2))
		assert.Equal(t, 1, maxMessageIndex(t, backupPath(cfg, 1)))
		assert.Equal(t, 2, maxMessageIndex(t, cfg.filePath()))
	})

	t.Run("backup count is bounded and ordered by recency", func(t *testing.T) {
		s, cfg := newRotatingSink(t, 3, 2)

		for i := 0; i < 14; i++ {
			s.emit(testRecord(InfoLevel, fmt.Sprintf("msg-%02d", i)))
		}

		assert.FileExists(t, backupPath(cfg, 1))
		assert.FileExists(t, backupPath(cfg, 2))
		assert.FileExists(t, backupPath(cfg, 3))
		assert.NoFileExists(t, backupPath(cfg, 4))

		// Active file holds the newest lines, .1 the next newest, and so on.
		active := maxMessageIndex(t, cfg.filePath())
		assert.Equal(t, 13, active)
		b1 := maxMessageIndex(t, backupPath(cfg, 1))
		b2 := maxMessageIndex(t, backupPath(cfg, 2))
		b3 := maxMessageIndex(t, backupPath(cfg, 3))
		assert.Greater(t, active, b1)
		assert.Greater(t, b1, b2)
		assert.Greater(t, b2, b3)
	})

	t.Run("single backup retains only the previous file", func(t *testing.T) {
		s, cfg := newRotatingSink(t, 1, 1)

		for i := 0; i < 5; i++ {
			s.emit(testRecord(InfoLevel, fmt.Sprintf("msg-%02d", i)))
		}

		assert.FileExists(t, backupPath(cfg, 1))
		assert.NoFileExists(t, backupPath(cfg, 2))
		assert.Equal(t, 4, maxMessageIndex(t, cfg.filePath()))
		assert.Equal(t, 3, maxMessageIndex(t, backupPath(cfg, 1)))
	})

	t.Run("oversized single record does not rotate an empty file", func(t *testing.T) {
		s, cfg := newRotatingSink(t, 3, 2)
		s.maxBytes = 8

		s.emit(testRecord(InfoLevel, "msg-00 oversized payload"))
		s.emit(testRecord(InfoLevel, "msg-01 oversized payload"))

		// Each oversized line lands in a file of its own.
		assert.FileExists(t, backupPath(cfg, 1))
		assert.NoFileExists(t, backupPath(cfg, 3))
	})
}
