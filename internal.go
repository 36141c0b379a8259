package loom

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// sink receives formatted records. Implementations filter by their own
// minimum level, serialize concurrent writes, and never surface I/O errors
// to the emitting caller.
type sink interface {
	emit(r record)
	minLevel() Level
	close() error
}

// newDiagnostics builds the internal logger sinks use to report their own
// write and rotation failures. Sink failures must never reach the emitting
// caller, so they are surfaced here instead.
func newDiagnostics(out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
}
