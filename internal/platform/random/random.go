package random

import "math/rand/v2"

// Source abstracts randomness so draws can be replayed in tests.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// SystemSource uses the runtime-seeded global generator, which is safe for
// concurrent use.
type SystemSource struct{}

func (SystemSource) Float64() float64 { return rand.Float64() }

func (SystemSource) IntN(n int) int { return rand.IntN(n) }

// Seeded is a deterministic source for reproducible draws. It is not safe for
// concurrent use.
type Seeded struct {
	r *rand.Rand
}

func NewSeeded(seed uint64) *Seeded {
	return &Seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Seeded) Float64() float64 { return s.r.Float64() }

func (s *Seeded) IntN(n int) int { return s.r.IntN(n) }
