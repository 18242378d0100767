package bimap

import (
	"math/rand/v2"
)

type options struct {
	seed    uint64
	seeded  bool
	source  rand.Source
	checked bool
}

// Option is a type that allows changes to pluggable parts of the
// Bimap implementation.
type Option func(*options)

// Seed makes the priorities drawn for new pairs reproducible. Two maps
// built with the same seed and the same sequence of operations have
// identical internal shapes. Without Seed or Source every map draws
// its own random seed.
func Seed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// Source supplies the generator used for node priorities. The source
// is used as is, so maps cloned from this one share it.
func Source(src rand.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// CheckInvariants verifies both orderings after every mutation and
// panics if the structure is found to be corrupt. It is meant for
// tests; each check is linear in the size of the map.
func CheckInvariants(enabled bool) Option {
	return func(o *options) {
		o.checked = enabled
	}
}

func (o *options) generator() *rand.Rand {
	switch {
	case o.source != nil:
		return rand.New(o.source)
	case o.seeded:
		return rand.New(rand.NewPCG(o.seed, o.seed))
	default:
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}
