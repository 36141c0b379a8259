package loom

import (
	"strconv"
	"strings"
	"time"
)

// record is the ephemeral payload of a single emit call. It is formatted
// independently by every sink that accepts it.
type record struct {
	name  string
	level Level
	pid   int
	ts    time.Time
	msg   string
}

// formatRecord renders the shared line layout:
//
//	name | LEVEL | pid | dd-mm-yyyy | HH:MM:SS | message
//
// The console sink wraps the result in color codes; the file sink may pass
// it through NormalizeLine first. No trailing newline is appended here.
func formatRecord(r record) string {
	var b strings.Builder
	b.Grow(len(r.name) + len(r.msg) + 48)
	b.WriteString(r.name)
	b.WriteString(" | ")
	b.WriteString(r.level.String())
	b.WriteString(" | ")
	b.WriteString(strconv.Itoa(r.pid))
	b.WriteString(" | ")
	b.WriteString(r.ts.Format(timeLayout))
	b.WriteString(" | ")
	b.WriteString(r.msg)
	return b.String()
}

// NormalizeLine collapses every whitespace run (including line breaks) in s
// to a single space and trims leading and trailing whitespace. It is total
// over all inputs; the empty string maps to itself.
func NormalizeLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
