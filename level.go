package loom

import (
	"fmt"
	"strings"
)

// Level is an ordered severity. Records below a logger's (or sink's) minimum
// level are discarded before formatting.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarningLevel
	ErrorLevel
	CriticalLevel
)

var levelNames = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// ANSI escape sequences for the console sink. The reset sequence is always
// written after the colored marker so terminals without color support are
// left in a sane state.
const (
	ansiReset   = "\x1b[0m"
	ansiCyan    = "\x1b[36m"
	ansiGreen   = "\x1b[32m"
	ansiYellow  = "\x1b[33m"
	ansiRed     = "\x1b[31m"
	ansiBoldRed = "\x1b[1;31m"
)

var levelColors = [...]string{ansiCyan, ansiGreen, ansiYellow, ansiRed, ansiBoldRed}

// String returns the upper-case label embedded in every record.
func (l Level) String() string {
	if l < DebugLevel || l > CriticalLevel {
		return fmt.Sprintf("LEVEL(%d)", int8(l))
	}
	return levelNames[l]
}

func (l Level) color() string {
	if l < DebugLevel || l > CriticalLevel {
		return ansiReset
	}
	return levelColors[l]
}

// ParseLevel converts a case-insensitive level name ("debug", "info",
// "warning", "error", "critical") into a Level. "warn" is accepted as an
// alias for "warning".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warning", "warn":
		return WarningLevel, nil
	case "error":
		return ErrorLevel, nil
	case "critical":
		return CriticalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("%s: %q", errMsgBadLevel, s)
	}
}
