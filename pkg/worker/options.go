package worker

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring a worker.
type Option func(*workerOptions)

type workerOptions struct {
	maxConcurrent int
	popBackoff    time.Duration
	loopBackoff   time.Duration
	logger        *slog.Logger
}

// WithMaxConcurrent sets the gate ceiling: how many tasks the worker may run
// locally at once.
func WithMaxConcurrent(n int) Option {
	return func(o *workerOptions) {
		if n > 0 {
			o.maxConcurrent = n
		}
	}
}

// WithPopBackoff sets the delay before retrying after a transport-level pop
// failure.
func WithPopBackoff(d time.Duration) Option {
	return func(o *workerOptions) {
		if d > 0 {
			o.popBackoff = d
		}
	}
}

// WithLoopBackoff sets the delay applied after an unexpected failure in the
// loop body.
func WithLoopBackoff(d time.Duration) Option {
	return func(o *workerOptions) {
		if d > 0 {
			o.loopBackoff = d
		}
	}
}

// WithLogger sets the logger for the worker.
func WithLogger(logger *slog.Logger) Option {
	return func(o *workerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// FromConfig converts an env-loaded Config into worker options.
func FromConfig(cfg Config) []Option {
	return []Option{
		WithMaxConcurrent(cfg.MaxConcurrent),
		WithPopBackoff(cfg.PopBackoff),
		WithLoopBackoff(cfg.LoopBackoff),
	}
}
