package searcher

import (
	"testing"

	"anticonnect/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNodeExpand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("lists the legal moves of the side to act", func(t *testing.T) {
		b := setup(t, 3,
			"XX.",
			"...",
			"...")
		n := newNode(nil, game.NoMove, game.PlayerB) // PlayerA to act

		count := n.expand(b, rng)

		require.Equal(t, 6, count)
		require.True(t, n.expanded)
		require.False(t, n.terminal)
		require.ElementsMatch(t, game.LegalMoves(b, game.PlayerA), n.moves)
		require.NotContains(t, n.moves, game.Move{Row: 0, Col: 2})
		require.Empty(t, n.children)
	})

	t.Run("full board is a drawn terminal", func(t *testing.T) {
		b := setup(t, 3,
			"XOX",
			"XOO",
			"OXX")
		n := newNode(nil, game.Move{Row: 2, Col: 2}, game.PlayerA)

		require.Zero(t, n.expand(b, rng))
		require.True(t, n.terminal)
		require.Equal(t, game.Empty, n.loser)
	})

	t.Run("no legal move loses for the side to act", func(t *testing.T) {
		b := setup(t, 2,
			"X.",
			".O")
		n := newNode(nil, game.Move{Row: 1, Col: 1}, game.PlayerB)

		require.Zero(t, n.expand(b, rng))
		require.True(t, n.terminal)
		require.Equal(t, game.PlayerA, n.loser)
	})

	t.Run("completed run loses for its owner", func(t *testing.T) {
		b := setup(t, 3,
			"XX.",
			"O..",
			"O..")
		b.Place(game.Move{Row: 0, Col: 2}, game.PlayerA)
		n := newNode(nil, game.Move{Row: 0, Col: 2}, game.PlayerA)

		n.expand(b, rng)
		require.True(t, n.terminal)
		require.Equal(t, game.PlayerA, n.loser)
	})
}

func TestNodeSelectOrExpand(t *testing.T) {
	t.Run("adds children for untried moves in order", func(t *testing.T) {
		moves := []game.Move{{Row: 0, Col: 0}, {Row: 1, Col: 1}}
		n := &node{player: game.PlayerB, moves: moves, expanded: true}

		first, added := n.selectOrExpand(CSquared)
		require.True(t, added)
		require.Equal(t, moves[0], first.move)
		require.Equal(t, game.PlayerA, first.player)
		require.Equal(t, n, first.parent)

		second, added := n.selectOrExpand(CSquared)
		require.True(t, added)
		require.Equal(t, moves[1], second.move)
		require.Len(t, n.children, 2)
	})

	t.Run("selects once every move is tried", func(t *testing.T) {
		moves := []game.Move{{Row: 0, Col: 0}, {Row: 1, Col: 1}}
		n := &node{player: game.PlayerB, moves: moves, expanded: true, visits: 4}
		n.children = []*node{
			{parent: n, move: moves[0], player: game.PlayerA, rewards: -2, visits: 2},
			{parent: n, move: moves[1], player: game.PlayerA, rewards: 2, visits: 2},
		}

		child, added := n.selectOrExpand(CSquared)
		require.False(t, added)
		require.Equal(t, n.children[1], child)
	})
}

func TestNodeBackup(t *testing.T) {
	t.Run("rewards follow the player of each node", func(t *testing.T) {
		root := newNode(nil, game.NoMove, game.PlayerB)
		child := newNode(root, game.Move{Row: 0, Col: 0}, game.PlayerA)
		grandChild := newNode(child, game.Move{Row: 0, Col: 1}, game.PlayerB)

		backup(grandChild, game.PlayerB)

		require.Equal(t, LOSS, grandChild.rewards)
		require.Equal(t, WIN, child.rewards)
		require.Equal(t, LOSS, root.rewards)
		for _, n := range []*node{root, child, grandChild} {
			require.Equal(t, 1, n.visits)
		}
	})

	t.Run("draw adds visits only", func(t *testing.T) {
		root := newNode(nil, game.NoMove, game.PlayerB)
		child := newNode(root, game.Move{Row: 0, Col: 0}, game.PlayerA)

		backup(child, game.Empty)

		require.Equal(t, DRAW, child.rewards)
		require.Equal(t, 1, child.visits)
		require.Equal(t, 1, root.visits)
		require.Zero(t, child.value())
	})
}
