package game

import (
	"fmt"
	"strings"
)

// The four axis directions; each is scanned both ways.
var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal
	{1, -1}, // anti-diagonal
}

// placement is one entry of the undo log.
type placement struct {
	move  Move
	color Color
	prev  bool // completion flag before the stone was placed
}

// Board is the grid plus the run-completion flag of every placed stone.
//
// A flag is decided when the stone is placed by scanning at most RunLength-1
// cells in each half-direction, never by rescanning the grid. The board is
// mutated by searches in strict Place/Unplace order and is not safe for
// concurrent use.
type Board struct {
	rules     Rules
	cells     []Color
	completed [2][]bool   // completed[player][cell]: placing there closed a losing run
	history   []placement // undo log, most recent last
	empty     int         // number of empty cells
	losses    [2]int      // number of set completion flags per player
}

// NewBoard returns an empty board. It panics on invalid rules.
func NewBoard(rules Rules) *Board {
	if err := rules.Validate(); err != nil {
		panic(err)
	}
	n := rules.Cells()
	b := &Board{
		rules:   rules,
		cells:   make([]Color, n),
		history: make([]placement, 0, n),
		empty:   n,
	}
	b.completed[0] = make([]bool, n)
	b.completed[1] = make([]bool, n)
	return b
}

func (b *Board) Rules() Rules {
	return b.rules
}

func (b *Board) Size() int {
	return b.rules.Size
}

func (b *Board) index(m Move) int {
	return m.Row*b.rules.Size + m.Col
}

func (b *Board) moveAt(i int) Move {
	return Move{Row: i / b.rules.Size, Col: i % b.rules.Size}
}

// At returns the colour of a cell; cells off the grid read as Empty.
func (b *Board) At(m Move) Color {
	if !b.rules.Contains(m) {
		return Empty
	}
	return b.cells[b.index(m)]
}

// Empty returns the number of empty cells.
func (b *Board) Empty() int {
	return b.empty
}

// Stones returns the number of placed stones.
func (b *Board) Stones() int {
	return len(b.cells) - b.empty
}

func (b *Board) Full() bool {
	return b.empty == 0
}

// Place puts a stone of the given colour on an empty cell and records whether
// it completed a run of at least RunLength stones. Placing on an occupied or
// off-grid cell is a contract violation and panics.
func (b *Board) Place(m Move, color Color) {
	if color != PlayerA && color != PlayerB {
		panic(fmt.Sprintf("place %v: invalid colour %v", m, color))
	}
	if !b.rules.Contains(m) {
		panic(fmt.Sprintf("place %v: outside %dx%d board", m, b.rules.Size, b.rules.Size))
	}
	i := b.index(m)
	if b.cells[i] != Empty {
		panic(fmt.Sprintf("place %v: cell occupied by %v", m, b.cells[i]))
	}

	p := color.index()
	b.history = append(b.history, placement{move: m, color: color, prev: b.completed[p][i]})
	b.cells[i] = color
	b.empty--

	if b.CountRun(m, color) >= b.rules.RunLength {
		b.completed[p][i] = true
		b.losses[p]++
	}
}

// Unplace removes the most recently placed stone, which must be at m.
func (b *Board) Unplace(m Move) {
	if len(b.history) == 0 {
		panic(fmt.Sprintf("unplace %v: nothing placed", m))
	}
	last := b.history[len(b.history)-1]
	if last.move != m {
		panic(fmt.Sprintf("unplace %v: most recent placement is %v", m, last.move))
	}
	b.undo(last)
}

// Undo removes the most recently placed stone and returns its cell.
func (b *Board) Undo() Move {
	if len(b.history) == 0 {
		panic("undo: nothing placed")
	}
	last := b.history[len(b.history)-1]
	b.undo(last)
	return last.move
}

func (b *Board) undo(last placement) {
	i := b.index(last.move)
	p := last.color.index()
	if b.completed[p][i] {
		b.losses[p]--
	}
	b.completed[p][i] = last.prev
	if last.prev {
		b.losses[p]++
	}
	b.cells[i] = Empty
	b.empty++
	b.history = b.history[:len(b.history)-1]
}

// Last returns the most recent placement, or NoMove on a fresh board.
func (b *Board) Last() (Move, Color) {
	if len(b.history) == 0 {
		return NoMove, Empty
	}
	last := b.history[len(b.history)-1]
	return last.move, last.color
}

// History returns the placed moves in order.
func (b *Board) History() []Move {
	moves := make([]Move, len(b.history))
	for i, p := range b.history {
		moves[i] = p.move
	}
	return moves
}

// CountRun returns the length of the longest run of color through m, as if m
// held color. Each half-direction is scanned at most RunLength-1 cells, so
// results are capped at 2*RunLength-1. It never mutates the board.
func (b *Board) CountRun(m Move, color Color) int {
	longest := 0
	for _, d := range directions {
		n := 1 + b.ray(m, d[0], d[1], color) + b.ray(m, -d[0], -d[1], color)
		if n > longest {
			longest = n
		}
	}
	return longest
}

// ray counts consecutive stones of color starting next to m.
func (b *Board) ray(m Move, dr, dc int, color Color) int {
	count := 0
	r, c := m.Row+dr, m.Col+dc
	size := b.rules.Size
	for count < b.rules.RunLength-1 && r >= 0 && r < size && c >= 0 && c < size {
		if b.cells[r*size+c] != color {
			break
		}
		count++
		r += dr
		c += dc
	}
	return count
}

// Completed reports the cached run-completion flag of the stone at m.
func (b *Board) Completed(m Move, color Color) bool {
	if !b.rules.Contains(m) || (color != PlayerA && color != PlayerB) {
		return false
	}
	return b.completed[color.index()][b.index(m)]
}

// IsTerminalAfter reports whether the game ended with color placing at m:
// either the stone closed a losing run or the board is full.
func (b *Board) IsTerminalAfter(m Move, color Color) bool {
	return b.empty == 0 || b.Completed(m, color)
}

// Loser returns the player that closed a losing run, or Empty.
func (b *Board) Loser() Color {
	switch {
	case b.losses[PlayerA.index()] > 0:
		return PlayerA
	case b.losses[PlayerB.index()] > 0:
		return PlayerB
	default:
		return Empty
	}
}

// Finished reports a terminal board: a losing run exists or no cell is left.
func (b *Board) Finished() bool {
	return b.Loser() != Empty || b.empty == 0
}

// Outcome reports the game result from color's perspective.
func (b *Board) Outcome(color Color) Outcome {
	switch loser := b.Loser(); {
	case loser == color:
		return Loss
	case loser != Empty:
		return Win
	case b.empty == 0:
		return Draw
	default:
		return Ongoing
	}
}

// EmptyCells lists the empty cells in row-major order.
func (b *Board) EmptyCells() []Move {
	return b.AppendEmptyCells(make([]Move, 0, b.empty))
}

// AppendEmptyCells appends the empty cells to dst, letting hot loops reuse a buffer.
func (b *Board) AppendEmptyCells(dst []Move) []Move {
	for i, c := range b.cells {
		if c == Empty {
			dst = append(dst, b.moveAt(i))
		}
	}
	return dst
}

// ToMove infers the side to act from stone counts, with first moving first.
func (b *Board) ToMove(first Color) Color {
	if b.Stones()%2 == 0 {
		return first
	}
	return first.Opponent()
}

// Clone returns a deep copy, including the undo log.
func (b *Board) Clone() *Board {
	clone := &Board{
		rules:   b.rules,
		cells:   append([]Color(nil), b.cells...),
		history: append(make([]placement, 0, cap(b.history)), b.history...),
		empty:   b.empty,
		losses:  b.losses,
	}
	clone.completed[0] = append([]bool(nil), b.completed[0]...)
	clone.completed[1] = append([]bool(nil), b.completed[1]...)
	return clone
}

// String renders the grid with X for PlayerA and O for PlayerB.
func (b *Board) String() string {
	var sb strings.Builder
	size := b.rules.Size
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			switch b.cells[r*size+c] {
			case PlayerA:
				sb.WriteByte('X')
			case PlayerB:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
