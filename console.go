package loom

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// consoleSink writes color-coded lines to a shared stream, one record per
// write. The color wraps the whole line and the reset sequence is always
// emitted, so terminals without color support only see the extra escapes.
type consoleSink struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	closed atomic.Bool
	diag   *zerolog.Logger
}

func newConsoleSink(level Level, out io.Writer, diag *zerolog.Logger) *consoleSink {
	return &consoleSink{
		out:   out,
		level: level,
		diag:  diag,
	}
}

func (s *consoleSink) minLevel() Level {
	return s.level
}

func (s *consoleSink) emit(r record) {
	if r.level < s.level || s.closed.Load() {
		return
	}
	line := r.level.color() + " " + formatRecord(r) + ansiReset + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	if _, err := io.WriteString(s.out, line); err != nil && s.diag != nil {
		s.diag.Warn().Err(err).Str("sink", "console").Msg("write failed")
	}
}

// close marks the sink terminal. The underlying stream is shared (stdout by
// default) and is never closed here.
func (s *consoleSink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed.Store(true)
	return nil
}
