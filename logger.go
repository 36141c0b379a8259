package loom

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"go.uber.org/atomic"
)

// Logger is the per-name façade handed out by the registry. It formats
// records and forwards them to every attached sink whose threshold is
// satisfied. Emit methods never return errors: a sink that fails to persist
// a line reports the failure internally and the caller proceeds.
type Logger struct {
	name   string
	level  Level
	pid    int
	cfg    Config
	sinks  []sink
	closed atomic.Bool
}

func newLogger(cfg Config, level Level, sinks []sink) *Logger {
	return &Logger{
		name:  cfg.Name,
		level: level,
		pid:   os.Getpid(),
		cfg:   cfg,
		sinks: sinks,
	}
}

// Name returns the registry key this logger was created under.
func (l *Logger) Name() string {
	return l.name
}

// Level returns the logger's minimum recorded severity.
func (l *Logger) Level() Level {
	return l.level
}

// Config returns the resolved configuration the logger was built with,
// defaults filled in.
func (l *Logger) Config() Config {
	return l.cfg
}

// Debug emits a DEBUG record. Arguments are interpolated fmt.Sprintf-style,
// and only when at least one sink will record the message.
func (l *Logger) Debug(format string, args ...any) {
	l.emit(DebugLevel, format, args...)
}

// Info emits an INFO record.
func (l *Logger) Info(format string, args ...any) {
	l.emit(InfoLevel, format, args...)
}

// Warning emits a WARNING record.
func (l *Logger) Warning(format string, args ...any) {
	l.emit(WarningLevel, format, args...)
}

// Error emits an ERROR record.
func (l *Logger) Error(format string, args ...any) {
	l.emit(ErrorLevel, format, args...)
}

// Critical emits a CRITICAL record.
func (l *Logger) Critical(format string, args ...any) {
	l.emit(CriticalLevel, format, args...)
}

// Exception emits an ERROR record with the error's type name, message and
// the current stack trace appended to the formatted message. A nil err
// behaves like Error.
func (l *Logger) Exception(err error, format string, args ...any) {
	if err == nil {
		l.emit(ErrorLevel, format, args...)
		return
	}
	if !l.recordable(ErrorLevel) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	msg = fmt.Sprintf("%s\n%T: %v\n%s", msg, err, err, debug.Stack())
	l.forward(record{name: l.name, level: ErrorLevel, pid: l.pid, ts: time.Now(), msg: msg})
}

func (l *Logger) emit(level Level, format string, args ...any) {
	if !l.recordable(level) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.forward(record{name: l.name, level: level, pid: l.pid, ts: time.Now(), msg: msg})
}

// recordable reports whether any sink would accept a record at the given
// level. Formatting cost is skipped entirely when it returns false.
func (l *Logger) recordable(level Level) bool {
	if l == nil || l.closed.Load() || level < l.level {
		return false
	}
	for _, s := range l.sinks {
		if level >= s.minLevel() {
			return true
		}
	}
	return false
}

func (l *Logger) forward(r record) {
	for _, s := range l.sinks {
		s.emit(r)
	}
}

// closeSinks closes every attached sink and marks the logger terminal.
// Called by the registry during ClearAll; close errors are returned joined
// into the first non-nil error for diagnostics only.
func (l *Logger) closeSinks() error {
	if l == nil || l.closed.Swap(true) {
		return nil
	}
	var firstErr error
	for _, s := range l.sinks {
		if s == nil {
			continue
		}
		if err := s.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
