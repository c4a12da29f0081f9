package store

import (
	"log/slog"
	"time"
)

// options holds the internal configuration for a Store.
type options struct {
	logger  *slog.Logger
	gitless bool
	now     func() time.Time
}

// Option defines a functional option for configuring a Store.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		now: time.Now,
	}
}

// WithLogger sets the logger for the store and its git client.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithGitless disables version control entirely. Mutations still write
// files atomically but nothing is committed.
func WithGitless(gitless bool) Option {
	return func(o *options) {
		o.gitless = gitless
	}
}

// WithClock overrides the time source used for created/updated/done-at
// stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
