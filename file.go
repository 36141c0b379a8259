package loom

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// fileSink appends formatted lines to an active file and rotates it into
// numbered backups when a write would push the file past maxBytes.
// Backup k+1 is always older than backup k; the active file is the newest.
type fileSink struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	maxBytes int64
	backups  int
	oneLine  bool
	level    Level
	size     atomic.Int64
	closed   atomic.Bool
	diag     *zerolog.Logger
}

// newFileSink creates the log directory (with parents, idempotent) and opens
// the active file in append mode. Directory or open failures are returned to
// the caller; nothing is retried.
func newFileSink(cfg Config, level Level, diag *zerolog.Logger) (*fileSink, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	path := cfg.filePath()
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	s := &fileSink{
		file:     file,
		path:     path,
		maxBytes: cfg.maxFileSizeBytes(),
		backups:  cfg.BackupCount,
		oneLine:  cfg.OneLineFileFormat,
		level:    level,
		diag:     diag,
	}

	// Resume the size counter when appending to an existing file.
	if info, err := file.Stat(); err == nil {
		s.size.Store(info.Size())
	}
	return s, nil
}

func (s *fileSink) minLevel() Level {
	return s.level
}

func (s *fileSink) emit(r record) {
	if r.level < s.level || s.closed.Load() {
		return
	}
	line := formatRecord(r)
	if s.oneLine {
		line = NormalizeLine(line)
	}
	data := append([]byte(line), '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() || s.file == nil {
		return
	}

	// Pre-write threshold check: rotate before the line that would exceed
	// the limit, never after. An empty active file is written to as-is so
	// an oversized single record cannot rotate forever.
	if s.maxBytes > 0 && s.backups > 0 && s.size.Load() > 0 &&
		s.size.Load()+int64(len(data)) > s.maxBytes {
		s.rotate()
		if s.file == nil {
			return
		}
	}

	n, err := s.file.Write(data)
	s.size.Add(int64(n))
	if err != nil && s.diag != nil {
		s.diag.Warn().Err(err).Str("sink", "file").Str("path", s.path).Msg("write failed")
	}
}

// rotate shifts backups from highest to lowest so no rename overwrites a
// surviving file: <path>.N is deleted, every <path>.k becomes <path>.k+1,
// the active file becomes <path>.1 and a fresh active file is opened.
// Callers hold s.mu.
func (s *fileSink) rotate() {
	if err := s.file.Close(); err != nil && s.diag != nil {
		s.diag.Warn().Err(err).Str("path", s.path).Msg("closing active file for rotation failed")
	}
	s.file = nil

	oldest := fmt.Sprintf("%s.%d", s.path, s.backups)
	if _, err := os.Stat(oldest); err == nil {
		if err := os.Remove(oldest); err != nil && s.diag != nil {
			s.diag.Warn().Err(err).Str("path", oldest).Msg("removing oldest backup failed")
		}
	}
	for k := s.backups - 1; k >= 1; k-- {
		src := fmt.Sprintf("%s.%d", s.path, k)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := fmt.Sprintf("%s.%d", s.path, k+1)
		if err := os.Rename(src, dst); err != nil && s.diag != nil {
			s.diag.Warn().Err(err).Str("path", src).Msg("renumbering backup failed")
		}
	}
	if err := os.Rename(s.path, s.path+".1"); err != nil && s.diag != nil {
		s.diag.Warn().Err(err).Str("path", s.path).Msg("archiving active file failed")
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		if s.diag != nil {
			s.diag.Error().Err(err).Str("path", s.path).Msg("reopening active file failed, file sink disabled")
		}
		s.closed.Store(true)
		return
	}
	s.file = file
	s.size.Store(0)
}

// close releases the file handle. Safe to call more than once.
func (s *fileSink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Swap(true) {
		return nil
	}
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
