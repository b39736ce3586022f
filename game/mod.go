package game

// Color is the state of a single cell, and doubles as the player identity.
type Color int8

const (
	Empty Color = iota
	PlayerA
	PlayerB
)

// Opponent returns the other player. Empty has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Empty
	}
}

func (c Color) String() string {
	switch c {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	default:
		return "-"
	}
}

// index maps a player to its slot in per-player tables
func (c Color) index() int {
	return int(c) - 1
}

// Outcome of a game, always from the perspective of an explicitly named player.
type Outcome int

const (
	Ongoing Outcome = iota
	Win
	Loss
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}
