// Package dice provides the random rolls used by the rules modules.
// All randomness flows through a Roller so that combat outcomes can be
// reproduced from a seed or scripted in tests.
package dice

import (
	"math/rand"
	"time"
)

// Roller produces die rolls.
type Roller interface {
	// Roll returns a uniform random integer in [1, sides].
	Roll(sides int) int
}

// Sum rolls n dice of the given size and adds a flat modifier.
func Sum(r Roller, n, sides, modifier int) int {
	total := modifier
	for i := 0; i < n; i++ {
		total += r.Roll(sides)
	}
	return total
}

// Source is a seeded Roller backed by math/rand.
type Source struct {
	seed int64
	src  *rand.Rand
}

// NewSource creates a Source from a seed. A zero seed selects a
// time-based seed.
func NewSource(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

func (s *Source) Roll(sides int) int {
	return s.src.Intn(sides) + 1
}

// Seed returns the seed this source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Scripted is a Roller that returns a fixed sequence of rolls.
// Once the sequence is exhausted it returns 1.
type Scripted struct {
	Rolls []int
	next  int
}

func (s *Scripted) Roll(sides int) int {
	if s.next >= len(s.Rolls) {
		return 1
	}
	n := s.Rolls[s.next]
	s.next++
	return n
}
