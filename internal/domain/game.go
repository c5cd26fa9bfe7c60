package domain

import "iter"

// Players are represented by their marks, X or O. X always moves first.

// lines are the 8 winning index triples.
var lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// HasWon reports whether side occupies a complete row, column or diagonal.
func HasWon(b Board, side Cell) bool {
	if side == Empty {
		return false
	}
	for _, ln := range lines {
		if b[ln[0]] == side && b[ln[1]] == side && b[ln[2]] == side {
			return true
		}
	}
	return false
}

// Opponent returns the other player.
func Opponent(side Cell) Cell {
	if side == X {
		return O
	}
	return X
}

// LastMover returns the player whose move produced b. On the empty board
// and whenever the counts are level this is O.
func LastMover(b Board) Cell {
	if b.Count(X) > b.Count(O) {
		return X
	}
	return O
}

// ToMove returns the player about to move in b.
func ToMove(b Board) Cell { return Opponent(LastMover(b)) }

// Place returns a copy of b with side's mark at idx. b itself is unchanged.
func (b Board) Place(idx int, side Cell) Board {
	b[idx] = side
	return b
}

// MovesFor yields one child per Empty cell, in ascending index order, with
// side's mark placed there.
func MovesFor(b Board, side Cell) iter.Seq[Board] {
	return func(yield func(Board) bool) {
		for i, c := range b {
			if c != Empty {
				continue
			}
			if !yield(b.Place(i, side)) {
				return
			}
		}
	}
}
