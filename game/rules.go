package game

import "fmt"

// Rules fixes the board geometry and the losing run length.
type Rules struct {
	Size      int // N for an N×N grid
	RunLength int // Completing an own run of at least this many stones loses
}

// Validate rejects geometries the board cannot represent.
func (r Rules) Validate() error {
	if r.Size < 1 {
		return fmt.Errorf("invalid board size %d", r.Size)
	}
	if r.RunLength < 2 {
		return fmt.Errorf("invalid run length %d", r.RunLength)
	}
	return nil
}

// Cells is the number of cells on the board.
func (r Rules) Cells() int {
	return r.Size * r.Size
}

// Center is the middle cell, rounded towards the origin on even boards.
func (r Rules) Center() Move {
	return Move{Row: r.Size / 2, Col: r.Size / 2}
}

// Mirror reflects a cell through the board centre.
func (r Rules) Mirror(m Move) Move {
	return Move{Row: r.Size - 1 - m.Row, Col: r.Size - 1 - m.Col}
}

// Contains reports whether the move lies on the grid.
func (r Rules) Contains(m Move) bool {
	return m.Row >= 0 && m.Row < r.Size && m.Col >= 0 && m.Col < r.Size
}
