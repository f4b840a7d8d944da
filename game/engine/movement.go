package engine

// ProcessMove pushes every tile on the board towards dir and returns how many
// tiles fell (merged into a neighbour or slid into an empty slot).
// A result of zero means the board is unchanged.
//
// Each row (Left/Right) or column (Up/Down) is handled as an independent lane.
// A lane is first merged: walking in push order, each tile absorbs the next
// tile of equal value, and the absorbed slot becomes the new anchor so a tile
// merges at most once per move. The lane is then compacted: tiles fall, in
// order, into the earliest empty slot seen so far.
func ProcessMove(b *Board, dir Direction) int {
	fallen := 0
	for _, lane := range b.lanes(dir) {
		fallen += b.mergeLane(lane)
		fallen += b.compactLane(lane)
	}
	return fallen
}

// lanes returns the cell indices of every lane, each ordered from the edge
// tiles are pushed towards.
func (b *Board) lanes(dir Direction) [][]int {
	if !dir.Valid() {
		return nil
	}

	n := b.size
	lanes := make([][]int, n)
	for l := 0; l < n; l++ {
		lane := make([]int, n)
		for i := 0; i < n; i++ {
			switch dir {
			case Left:
				lane[i] = b.Index(i, l)
			case Right:
				lane[i] = b.Index(n-1-i, l)
			case Up:
				lane[i] = b.Index(l, i)
			case Down:
				lane[i] = b.Index(l, n-1-i)
			}
		}
		lanes[l] = lane
	}
	return lanes
}

// mergeLane collapses equal neighbours (ignoring gaps) and returns the merge count
func (b *Board) mergeLane(lane []int) int {
	fallen := 0
	anchor := -1
	for _, idx := range lane {
		v := b.cells[idx]
		if v == 0 {
			continue
		}
		if anchor >= 0 && b.cells[anchor] == v {
			b.cells[anchor] += v
			b.cells[idx] = 0
			b.widen(b.cells[anchor])
			fallen++
		}
		// After a merge the anchor is the emptied slot, which matches nothing.
		anchor = idx
	}
	return fallen
}

// compactLane slides tiles into the gaps ahead of them, keeping their order
func (b *Board) compactLane(lane []int) int {
	fallen := 0
	slots := make([]int, 0, len(lane))
	for _, idx := range lane {
		if b.cells[idx] == 0 {
			slots = append(slots, idx)
			continue
		}
		if len(slots) == 0 {
			continue
		}

		dst := slots[0]
		slots = slots[1:]
		b.cells[dst] = b.cells[idx]
		b.cells[idx] = 0
		slots = append(slots, idx)
		fallen++
	}
	return fallen
}

// CanMove reports whether pushing towards dir would change the board.
// The board itself is not modified.
func CanMove(b *Board, dir Direction) bool {
	return ProcessMove(b.Clone(), dir) > 0
}

// PossibleMoves returns the directions that would change the board
func PossibleMoves(b *Board) []Direction {
	var possible []Direction
	for _, dir := range AllDirections {
		if CanMove(b, dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}
