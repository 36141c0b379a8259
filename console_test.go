package loom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleSink(t *testing.T) {
	t.Run("color wraps the line and reset is always emitted", func(t *testing.T) {
		var buf bytes.Buffer
		s := newConsoleSink(DebugLevel, &buf, nil)

		s.emit(testRecord(InfoLevel, "hello"))

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, ansiGreen+" "), "got %q", out)
		assert.True(t, strings.HasSuffix(out, ansiReset+"\n"), "got %q", out)
		assert.Contains(t, out, "app | INFO | 4242 | 30-08-2026 | 09:15:42 | hello")
	})

	t.Run("one color per severity", func(t *testing.T) {
		cases := map[Level]string{
			DebugLevel:    ansiCyan,
			InfoLevel:     ansiGreen,
			WarningLevel:  ansiYellow,
			ErrorLevel:    ansiRed,
			CriticalLevel: ansiBoldRed,
		}
		for level, color := range cases {
			var buf bytes.Buffer
			s := newConsoleSink(DebugLevel, &buf, nil)
			s.emit(testRecord(level, "x"))
			assert.True(t, strings.HasPrefix(buf.String(), color), "level %s", level)
		}
	})

	t.Run("filters below its minimum level", func(t *testing.T) {
		var buf bytes.Buffer
		s := newConsoleSink(WarningLevel, &buf, nil)

		s.emit(testRecord(InfoLevel, "dropped"))
		assert.Zero(t, buf.Len())

		s.emit(testRecord(WarningLevel, "kept"))
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("closed sink drops records", func(t *testing.T) {
		var buf bytes.Buffer
		s := newConsoleSink(DebugLevel, &buf, nil)
		require.NoError(t, s.close())

		s.emit(testRecord(ErrorLevel, "after close"))
		assert.Zero(t, buf.Len())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		s := newConsoleSink(DebugLevel, &bytes.Buffer{}, nil)
		require.NoError(t, s.close())
		require.NoError(t, s.close())
	})
}
