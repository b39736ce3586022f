package searcher

import (
	"anticonnect/game"

	"golang.org/x/exp/rand"
)

type node struct {
	parent   *node
	moves    []game.Move // Legal moves of the side to act, in expansion order
	children []*node     // Children for moves[:len(children)]
	move     game.Move   // Move that led here from the parent
	player   game.Color  // Player who made move; rewards are from their perspective
	rewards  float64
	visits   int
	expanded bool
	terminal bool
	loser    game.Color // Loser of a terminal node, Empty for a draw
}

func newNode(parent *node, move game.Move, player game.Color) *node {
	return &node{
		parent: parent,
		move:   move,
		player: player,
	}
}

// expand lists the legal moves of the side to act, in random order, and
// returns how many there are. A node whose side to act cannot move becomes
// terminal.
func (n *node) expand(b *game.Board, rng *rand.Rand) int {
	n.expanded = true
	toMove := n.player.Opponent()

	if loser := b.Loser(); loser != game.Empty {
		n.terminal, n.loser = true, loser
		return 0
	}
	if b.Full() {
		n.terminal, n.loser = true, game.Empty
		return 0
	}

	moves := game.LegalMoves(b, toMove)
	if len(moves) == 0 { // Forced to complete an own run
		n.terminal, n.loser = true, toMove
		return 0
	}

	rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
	n.moves = moves
	n.children = make([]*node, 0, len(moves))
	return len(moves)
}

// selectOrExpand adds a child for the next untried move, or else selects an
// existing child by UCT. added reports a new child.
func (n *node) selectOrExpand(cSquared float64) (child *node, added bool) {
	if len(n.children) < len(n.moves) {
		child = newNode(n, n.moves[len(n.children)], n.player.Opponent())
		n.children = append(n.children, child)
		return child, true
	}
	return n.selectChild(cSquared), false
}

func (n *node) backup(reward func(game.Color) float64) *node {
	n.rewards += reward(n.player)
	n.visits++
	return n.parent
}

func (n *node) value() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.rewards / float64(n.visits)
}
