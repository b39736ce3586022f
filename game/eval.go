package game

import (
	"cmp"
	"slices"
)

// Positional and shape bonuses used to rank candidate cells.
const (
	cornerBonus          = 15000
	cornerNeighbourBonus = 10000
	edgeBonus            = 2000
	secondRingBonus      = 1100
	blockedLineBonus     = 800
	selfTrapPenalty      = 10000
)

// Weights tunes the board heuristic. A run of length k below the losing run
// length scores Base^(k-1); reaching the run length scores -Catastrophe.
type Weights struct {
	Base        int
	Catastrophe int
}

func DefaultWeights() Weights {
	return Weights{
		Base:        10,
		Catastrophe: 1_000_000,
	}
}

// Run returns the weight of a run of the given length.
func (w Weights) Run(length, runLength int) int {
	if length <= 0 {
		return 0
	}
	if length >= runLength {
		return -w.Catastrophe
	}
	weight := 1
	for i := 1; i < length; i++ {
		weight *= w.Base
	}
	return weight
}

// EvaluateHeuristic scores the board for forColor with the default weights.
func EvaluateHeuristic(b *Board, forColor Color) int {
	return DefaultWeights().Heuristic(b, forColor)
}

// Heuristic sums the run weight through every occupied cell, added for
// forColor's stones and subtracted for the opponent's.
func (w Weights) Heuristic(b *Board, forColor Color) int {
	score := 0
	size := b.Size()
	for i, owner := range b.cells {
		if owner == Empty {
			continue
		}
		m := Move{Row: i / size, Col: i % size}
		weight := w.Run(b.CountRun(m, owner), b.rules.RunLength)
		if owner == forColor {
			score += weight
		} else {
			score -= weight
		}
	}
	return score
}

// EvaluateCell ranks an empty cell as a candidate for color with the default weights.
func EvaluateCell(b *Board, m Move, color Color) int {
	return DefaultWeights().Cell(b, m, color)
}

// Cell scores m for color: catastrophic when it completes an own run,
// otherwise positional bonuses plus line shape, counted for both players.
// Cells the opponent cannot fill are left for them, so they score half a
// catastrophe: worse than any safe cell, better than losing outright.
func (w Weights) Cell(b *Board, m Move, color Color) int {
	if b.CountRun(m, color) >= b.rules.RunLength {
		return -w.Catastrophe
	}
	opponent := color.Opponent()
	score := cellShape(b, m, color) + cellShape(b, m, opponent)
	if b.CountRun(m, opponent) >= b.rules.RunLength {
		score -= w.Catastrophe / 2
	}
	return score
}

func cellShape(b *Board, m Move, color Color) int {
	score := positional(b.rules, m)
	for _, d := range directions {
		if b.blocked(m, d[0], d[1], color) {
			score += blockedLineBonus
		}
		score -= selfTrapPenalty * b.nearRuns(m, d[0], d[1], color)
	}
	return score
}

func positional(r Rules, m Move) int {
	last := r.Size - 1
	onRowEdge := m.Row == 0 || m.Row == last
	onColEdge := m.Col == 0 || m.Col == last

	score := 0
	if onRowEdge && onColEdge {
		score += cornerBonus
	}
	if (onRowEdge && (m.Col == 1 || m.Col == last-1)) || (onColEdge && (m.Row == 1 || m.Row == last-1)) {
		score += cornerNeighbourBonus
	}
	switch {
	case onRowEdge || onColEdge:
		score += edgeBonus
	case m.Row == 1 || m.Row == last-1 || m.Col == 1 || m.Col == last-1:
		score += secondRingBonus
	}
	return score
}

// blocked reports that the line through m along (dr, dc) is capped by the
// opponent or the edge so that color can never fill RunLength cells on it.
func (b *Board) blocked(m Move, dr, dc int, color Color) bool {
	reach := 1 + b.open(m, dr, dc, color) + b.open(m, -dr, -dc, color)
	return reach < b.rules.RunLength
}

// open counts own or empty cells next to m, up to RunLength-1 of them.
func (b *Board) open(m Move, dr, dc int, color Color) int {
	count := 0
	for i := 1; i < b.rules.RunLength; i++ {
		at := Move{Row: m.Row + dr*i, Col: m.Col + dc*i}
		if !b.rules.Contains(at) {
			break
		}
		c := b.cells[b.index(at)]
		if c != Empty && c != color {
			break
		}
		count++
	}
	return count
}

// nearRuns counts the RunLength windows through m along (dr, dc) that would
// hold RunLength-1 stones of color and one gap once m is filled; each gap
// becomes a cell color can no longer use.
func (b *Board) nearRuns(m Move, dr, dc int, color Color) int {
	n := b.rules.RunLength
	windows := 0
	for start := -(n - 1); start <= 0; start++ {
		own, gaps := 0, 0
		inside := true
		for i := start; i < start+n; i++ {
			if i == 0 {
				continue
			}
			at := Move{Row: m.Row + dr*i, Col: m.Col + dc*i}
			if !b.rules.Contains(at) {
				inside = false
				break
			}
			switch b.cells[b.index(at)] {
			case color:
				own++
			case Empty:
				gaps++
			}
		}
		if inside && own == n-2 && gaps == 1 {
			windows++
		}
	}
	return windows
}

// RankMoves orders moves by EvaluateCell, best first; ties keep their input order.
func RankMoves(b *Board, moves []Move, color Color) []Move {
	return DefaultWeights().Rank(b, moves, color)
}

// Rank is RankMoves under w. The input slice is not modified.
func (w Weights) Rank(b *Board, moves []Move, color Color) []Move {
	type scored struct {
		move  Move
		score int
	}
	ranked := make([]scored, len(moves))
	for i, m := range moves {
		ranked[i] = scored{move: m, score: w.Cell(b, m, color)}
	}
	slices.SortStableFunc(ranked, func(x, y scored) int {
		return cmp.Compare(y.score, x.score)
	})
	out := make([]Move, len(ranked))
	for i, s := range ranked {
		out[i] = s.move
	}
	return out
}
