package table

import "gocache/internal/hasher"

type options struct {
	capacity   int
	byteHasher hasher.Func
}

// Option configures a Table.
type Option func(*options)

// WithCapacity sets the initial slot count. It is rounded up to a power of
// two and never drops below MinCapacity.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithByteHasher hashes keys through f over their KeyBytes encoding instead
// of the default seeded maphash.
func WithByteHasher(f hasher.Func) Option {
	return func(o *options) {
		o.byteHasher = f
	}
}

func applyOptions(opts []Option) options {
	o := options{capacity: MinCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
