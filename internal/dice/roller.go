// Package dice produces the raw die values that feed the game engine.
//
// The engine never rolls dice itself: a Roller produces one value per die
// and the engine keeps or discards each value according to the holds.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand"
)

// Sides is the number of faces on every die in the game.
const Sides = 6

var (
	// ErrInvalidCount is returned when asked for fewer than one die.
	ErrInvalidCount = errors.New("dice count must be positive")
	// ErrInvalidSides is returned for dice with fewer than one face.
	ErrInvalidSides = errors.New("dice sides must be positive")
)

// Roller produces count die values for the given round and roll number
// (both 1-based).
type Roller interface {
	Roll(count, round, roll int) ([]int, error)
}

// Random rolls unpredictable dice seeded from crypto/rand.
type Random struct{}

// Roll implements Roller.
func (Random) Roll(count, _, _ int) ([]int, error) {
	var b [8]byte
	_, _ = crand.Read(b[:])
	rng := rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(b[:]))))
	return RollWithRng(rng, count, Sides)
}

// Seeded rolls deterministic dice. The same Seed, round and roll always
// produce the same values, so a reloaded game sees the same dice.
type Seeded struct {
	Seed int64
}

// Roll implements Roller.
func (s Seeded) Roll(count, round, roll int) ([]int, error) {
	mixed := s.Seed ^ int64(round)<<32 ^ int64(roll)<<16
	rng := rand.New(rand.NewSource(mixed))
	return RollWithRng(rng, count, Sides)
}

// RollWithRng rolls count dice with the provided random source.
func RollWithRng(rng *rand.Rand, count, sides int) ([]int, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	if sides <= 0 {
		return nil, ErrInvalidSides
	}
	out := make([]int, count)
	for i := range out {
		out[i] = rng.Intn(sides) + 1
	}
	return out, nil
}

// Floats converts die values to the engine's raw roll input.
func Floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
