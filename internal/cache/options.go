package cache

import (
	"log/slog"

	"gocache/internal/hasher"
)

type options struct {
	byteHasher hasher.Func
	logger     *slog.Logger
}

// Option configures a Cache.
type Option func(*options)

// WithByteHasher makes the key index hash keys with f instead of the
// default seeded maphash. See hasher.ByName for the available functions.
func WithByteHasher(f hasher.Func) Option {
	return func(o *options) {
		o.byteHasher = f
	}
}

// WithLogger sets the logger for eviction, growth and clear events, all at
// debug level. If nil is passed, logging is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = discardLogger()
		}
		o.logger = l
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func applyOptions(opts []Option) options {
	o := options{logger: discardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
