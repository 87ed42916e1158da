// Package random provides the uniform index sources used by the draw engine.
//
// Production sources are ChaCha8 generators seeded from crypto/rand. Seeded
// PCG sources are deterministic and meant for tests and rehearsals.
package random

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
)

// Source returns a uniformly distributed index in [0, n). n must be positive.
// A Source is not safe for concurrent use.
type Source func(n int) int

// NewSeed generates a 32-byte seed using crypto/rand.
func NewSeed() ([32]byte, error) {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return seed, fmt.Errorf("read random seed: %w", err)
	}
	return seed, nil
}

// NewSource returns a ChaCha8-backed source with a fresh crypto seed.
func NewSource() (Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return rand.New(rand.NewChaCha8(seed)).IntN, nil
}

// NewSeededSource returns a deterministic source.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).IntN
}

// Pick returns a uniformly chosen element of items using src.
func Pick[T any](src Source, items []T) T {
	return items[src(len(items))]
}
