package engine

import (
	"math"
	"math/rand"

	"github.com/zeebo/xxh3"
)

// RandomSource returns a uniformly distributed float in [0, 1).
type RandomSource func() float64

// DefaultRandom is the shared pseudo-random source used when neither the request
// nor the engine supplies one. Safe for concurrent use.
func DefaultRandom() RandomSource {
	return rand.Float64
}

// === SeedKey ===

// SeedKey uniquely identifies a reproducible series of draws.
// Two engines fed the same SeedKey and identical requests MUST produce identical results.
type SeedKey int64

// NewSeedKey creates a SeedKey from a seed value.
func NewSeedKey(seed int64) SeedKey {
	return SeedKey(seed)
}

// === Stream names ===

const (
	// StreamPick is the stream prefix for pick requests.
	StreamPick = "pick"

	// StreamGroup is the stream prefix for group requests.
	StreamGroup = "group"
)

// StreamFor returns the stream name for a request kind within a class, so each
// class consumes its own sequence regardless of draws made for other classes.
func StreamFor(kind, classID string) string {
	return kind + "/" + classID
}

// === PartitionedSource ===

// PartitionedSource provides deterministic, isolated random sources per stream.
//
// Derivation formula: seed XOR xxh3(streamName).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedSource struct {
	key     SeedKey
	streams map[string]*rand.Rand
}

// NewPartitionedSource creates a PartitionedSource from a SeedKey.
func NewPartitionedSource(key SeedKey) *PartitionedSource {
	return &PartitionedSource{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// ForStream returns a deterministically-seeded source for the named stream.
// The same name always draws from the same cached generator. Never returns nil.
func (p *PartitionedSource) ForStream(name string) RandomSource {
	rng, ok := p.streams[name]
	if !ok {
		derived := int64(p.key) ^ int64(xxh3.HashString(name))
		rng = rand.New(rand.NewSource(derived))
		p.streams[name] = rng
	}
	return rng.Float64
}

// Key returns the SeedKey used to create this PartitionedSource.
func (p *PartitionedSource) Key() SeedKey {
	return p.key
}

// SequenceSource replays values in order, cycling when exhausted.
// Values outside [0, 1) are wrapped into range. An empty sequence always yields 0.
// Used to reproduce a recorded draw exactly. Not safe for concurrent use.
func SequenceSource(values ...float64) RandomSource {
	seq := append([]float64(nil), values...)
	i := 0
	return func() float64 {
		if len(seq) == 0 {
			return 0
		}
		v := seq[i%len(seq)]
		i++
		if v < 0 || v >= 1 {
			v = math.Mod(v, 1)
			if v < 0 {
				v++
			}
		}
		return v
	}
}

// uniformIndex maps one random draw to an index in [0, n).
func uniformIndex(rnd RandomSource, n int) int {
	idx := int(rnd() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
