package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceDeterministic(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Roll(20), b.Roll(20))
	}
}

func TestSourceRange(t *testing.T) {
	s := NewSource(7)
	for i := 0; i < 1000; i++ {
		n := s.Roll(6)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 6)
	}
}

func TestNewSourceZeroSeed(t *testing.T) {
	s := NewSource(0)
	assert.NotEqual(t, int64(0), s.Seed())
}

func TestScripted(t *testing.T) {
	s := &Scripted{Rolls: []int{15, 3}}
	assert.Equal(t, 15, s.Roll(20))
	assert.Equal(t, 3, s.Roll(8))
	// Exhausted sequences roll minimum.
	assert.Equal(t, 1, s.Roll(20))
}

func TestSum(t *testing.T) {
	s := &Scripted{Rolls: []int{4, 2, 6}}
	assert.Equal(t, 17, Sum(s, 3, 6, 5))
}

func TestRollSpec(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		rolls    []int
		expected int
	}{
		{"with modifier", "1d8+3", []int{6}, 9},
		{"no modifier", "2d6", []int{3, 4}, 7},
		{"big pool", "8d6", []int{1, 2, 3, 4, 5, 6, 1, 2}, 24},
		{"malformed", "fireball", nil, 0},
		{"negative modifier unsupported", "1d8-1", []int{6}, 0},
		{"empty", "", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Scripted{Rolls: tt.rolls}
			assert.Equal(t, tt.expected, RollSpec(r, tt.spec))
		})
	}
}
