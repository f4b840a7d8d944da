package engine

// RandomSource is the randomness the spawner consults.
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// SpawnRandom places a 2 or a 4 (even odds) on a uniformly chosen empty cell
// and returns its index. ok is false when the board is full, in which case
// the board is left untouched.
func SpawnRandom(b *Board, rng RandomSource) (index int, ok bool) {
	empties := b.EmptyCells()
	if len(empties) == 0 {
		return NoSpawn, false
	}

	index = empties[rng.IntN(len(empties))]
	value := uint32(rng.IntN(2)+1) * 2

	b.cells[index] = value
	b.widen(value)
	return index, true
}
