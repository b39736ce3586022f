package game

import "fmt"

// Move is a cell coordinate on the board.
type Move struct {
	Row int
	Col int
}

// NoMove is returned when a search has nothing to play.
var NoMove = Move{Row: -1, Col: -1}

func (m Move) IsNone() bool {
	return m == NoMove
}

func (m Move) String() string {
	if m.IsNone() {
		return "none"
	}
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}
