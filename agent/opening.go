package agent

import (
	"fmt"

	"anticonnect/game"
)

// Opening is the fixed first move on an empty board.
type Opening string

const (
	OpeningCenter Opening = "center"
	OpeningCorner Opening = "corner"
	OpeningNone   Opening = "none"
)

func ParseOpening(s string) (Opening, error) {
	switch o := Opening(s); o {
	case OpeningCenter, OpeningCorner, OpeningNone:
		return o, nil
	default:
		return "", fmt.Errorf("unknown opening %q", s)
	}
}

// Move returns the opening cell, or NoMove for OpeningNone.
func (o Opening) Move(rules game.Rules) game.Move {
	switch o {
	case OpeningCenter:
		return rules.Center()
	case OpeningCorner:
		return game.Move{Row: 0, Col: 0}
	default:
		return game.NoMove
	}
}

// mirrorReply reflects the opponent's only stone through the centre when
// that cell is free and legal.
func mirrorReply(b *game.Board, color game.Color) (game.Move, bool) {
	if b.Stones() != 1 {
		return game.NoMove, false
	}
	last, owner := b.Last()
	if owner == color {
		return game.NoMove, false
	}
	reply := b.Rules().Mirror(last)
	if !b.IsLegal(reply, color) {
		return game.NoMove, false
	}
	return reply, true
}
