package game

// LegalMoves returns every empty cell where color would not complete a run of
// RunLength, in row-major order. An empty result on a board with empty cells
// means color is forced to lose.
func LegalMoves(b *Board, color Color) []Move {
	return AppendLegalMoves(make([]Move, 0, b.Empty()), b, color)
}

// AppendLegalMoves is LegalMoves writing into a caller-owned buffer.
func AppendLegalMoves(dst []Move, b *Board, color Color) []Move {
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			m := Move{Row: r, Col: c}
			if b.IsLegal(m, color) {
				dst = append(dst, m)
			}
		}
	}
	return dst
}

// IsLegal reports whether color may place at m without completing a run.
func (b *Board) IsLegal(m Move, color Color) bool {
	if !b.rules.Contains(m) || b.cells[b.index(m)] != Empty {
		return false
	}
	return b.CountRun(m, color) < b.rules.RunLength
}

// ForcedLoss reports that color still has empty cells but every one of them
// completes an own run.
func ForcedLoss(b *Board, color Color) bool {
	if b.Empty() == 0 {
		return false
	}
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b.IsLegal(Move{Row: r, Col: c}, color) {
				return false
			}
		}
	}
	return true
}
