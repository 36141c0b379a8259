package loom

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Registry maps logger names to singleton Logger instances. All mutation of
// the name map happens under one mutex, held only for the check-then-insert
// or swap-then-clear step — sink construction and teardown I/O run outside
// the critical section.
type Registry struct {
	mu         sync.Mutex
	loggers    map[string]*Logger
	consoleOut io.Writer
	diag       zerolog.Logger
}

// RegistryOption customizes a Registry at construction time.
type RegistryOption func(*Registry)

// WithConsoleOutput redirects every console sink the registry creates to w
// instead of standard output.
func WithConsoleOutput(w io.Writer) RegistryOption {
	return func(r *Registry) {
		if w != nil {
			r.consoleOut = w
		}
	}
}

// WithDiagnosticsOutput redirects the registry's internal failure reporting
// to w instead of standard error.
func WithDiagnosticsOutput(w io.Writer) RegistryOption {
	return func(r *Registry) {
		r.diag = newDiagnostics(w)
	}
}

// NewRegistry returns an empty registry. Most callers use the package-level
// Default registry; fresh registries exist for test isolation and embedding.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		loggers:    make(map[string]*Logger),
		consoleOut: os.Stdout,
		diag:       newDiagnostics(os.Stderr),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate returns the logger registered under name, creating and
// registering it with cfg on first request. On repeat requests the existing
// instance is returned unchanged and cfg is ignored, even if it differs from
// the original configuration. The name argument always wins over cfg.Name.
//
// Two concurrent first requests for the same name yield the same instance:
// both goroutines build sinks outside the lock, and the loser closes its
// freshly built sinks before adopting the winner's logger.
func (r *Registry) GetOrCreate(name string, cfg Config) (*Logger, error) {
	if r == nil {
		return nil, errors.New(errMsgNilRegistry)
	}

	r.mu.Lock()
	if l, ok := r.loggers[name]; ok {
		r.mu.Unlock()
		return l, nil
	}
	r.mu.Unlock()

	cfg.Name = name
	cfg = cfg.normalized()
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	logger, err := r.buildLogger(cfg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if existing, ok := r.loggers[name]; ok {
		r.mu.Unlock()
		if err := logger.closeSinks(); err != nil {
			r.diag.Warn().Err(err).Str("name", name).Msg("discarding duplicate logger failed")
		}
		return existing, nil
	}
	r.loggers[name] = logger
	r.mu.Unlock()
	return logger, nil
}

// buildLogger constructs the sinks cfg enables. A configuration with every
// sink disabled is valid and produces a logger that emits nothing.
func (r *Registry) buildLogger(cfg Config) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var sinks []sink
	if cfg.EnableConsole {
		sinks = append(sinks, newConsoleSink(level, r.consoleOut, &r.diag))
	}
	if cfg.EnableFile {
		fs, err := newFileSink(cfg, level, &r.diag)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fs)
	}
	return newLogger(cfg, level, sinks), nil
}

// ClearAll closes the sinks of every registered logger and empties the
// registry. Entries without a sink list are skipped rather than aborting the
// sweep, and close failures are reported internally, never returned.
func (r *Registry) ClearAll() {
	if r == nil {
		return
	}

	r.mu.Lock()
	cleared := r.loggers
	r.loggers = make(map[string]*Logger)
	r.mu.Unlock()

	for name, l := range cleared {
		if l == nil || l.sinks == nil {
			continue
		}
		if err := l.closeSinks(); err != nil {
			r.diag.Warn().Err(err).Str("name", name).Msg("closing logger sinks failed")
		}
	}
}

// Len reports the number of registered loggers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loggers)
}

// defaultRegistry backs the package-level convenience API.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level
// GetOrCreate and ClearAll functions.
func Default() *Registry {
	return defaultRegistry
}

// GetOrCreate returns the named logger from the process-wide registry,
// creating it with cfg on first request.
func GetOrCreate(name string, cfg Config) (*Logger, error) {
	return defaultRegistry.GetOrCreate(name, cfg)
}

// ClearAll tears down every logger in the process-wide registry.
func ClearAll() {
	defaultRegistry.ClearAll()
}
