package engine

import (
	"log/slog"

	"github.com/cpcf/listfiles/expand"
	"github.com/cpcf/listfiles/handlers"
	"github.com/cpcf/listfiles/write"
)

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithFailureMode(mode FailureMode) Option {
	return func(e *Engine) {
		e.failMode = mode
	}
}

// WithJobs bounds how many source files are processed at once. Values below
// one mean GOMAXPROCS.
func WithJobs(jobs int) Option {
	return func(e *Engine) {
		e.jobs = jobs
	}
}

// WithSuffix sets the fragment inserted before ".go" in output names.
func WithSuffix(suffix string) Option {
	return func(e *Engine) {
		e.suffix = suffix
	}
}

func WithExpandOptions(opts expand.Options) Option {
	return func(e *Engine) {
		e.expandOpts = opts
	}
}

func WithWriter(w write.Writer) Option {
	return func(e *Engine) {
		e.writer = w
	}
}

func WithHandlers(r *handlers.Registry) Option {
	return func(e *Engine) {
		e.handlers = r
	}
}

// WithGoImports selects goimports (the default) or plain gofmt as the first
// post-processing stage.
func WithGoImports(enabled bool) Option {
	return func(e *Engine) {
		e.goimports = enabled
	}
}
