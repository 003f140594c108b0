package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/jaskwallet/internal/metrics"
)

// WriteOutcome is the joined result of one fan-out.
type WriteOutcome struct {
	Operation string
	ID        string
	RemoteErr error
	LocalErr  error
	Duration  time.Duration
}

// OK reports whether both tiers accepted the write.
func (o WriteOutcome) OK() bool { return o.RemoteErr == nil && o.LocalErr == nil }

// Option configures a Repository.
type Option func(*Repository)

func WithLogger(log zerolog.Logger) Option {
	return func(r *Repository) { r.log = log }
}

func WithMetrics(m metrics.Recorder) Option {
	return func(r *Repository) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithIDGenerator replaces uuid.NewString for records saved without an id.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// WithWriteObserver receives every fan-out outcome after both tiers return.
// It runs on the caller's goroutine.
func WithWriteObserver(fn func(WriteOutcome)) Option {
	return func(r *Repository) { r.observer = fn }
}
