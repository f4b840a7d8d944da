package engine

import (
	"math/rand/v2"
	"time"
)

// digits returns the number of decimal digits in v (1 for zero)
func digits(v uint32) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}

// TileSum adds up every tile on the board
func TileSum(b *Board) uint64 {
	var sum uint64
	for _, v := range b.cells {
		sum += uint64(v)
	}
	return sum
}

// NewRandomSource returns a PCG-backed source. A zero seed picks one from the clock.
func NewRandomSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}
