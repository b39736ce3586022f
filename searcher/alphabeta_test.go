package searcher

import (
	"context"
	"testing"

	"anticonnect/game"

	"github.com/stretchr/testify/require"
)

// minimax is plain negamax without pruning, scored like AlphaBeta.
func minimax(b *game.Board, toMove game.Color, depth, ply int, w game.Weights) int {
	cells := b.Rules().Cells()
	if depth == 0 {
		return w.Heuristic(b, toMove)
	}
	moves := game.LegalMoves(b, toMove)
	if len(moves) == 0 {
		return -WinScore * (cells + 1 - (ply + 1))
	}

	best := -infinity
	for _, move := range moves {
		b.Place(move, toMove)
		var score int
		switch {
		case b.Completed(move, toMove):
			score = -WinScore * (cells + 1 - (ply + 1))
		case b.Full():
			score = 0
		default:
			score = -minimax(b, toMove.Opponent(), depth-1, ply+1, w)
		}
		b.Unplace(move)
		best = max(best, score)
	}
	return best
}

// moveValue is the minimax value of playing move for color.
func moveValue(b *game.Board, move game.Move, color game.Color, depth int, w game.Weights) int {
	b.Place(move, color)
	defer b.Unplace(move)
	if b.Full() {
		return 0
	}
	return -minimax(b, color.Opponent(), depth-1, 1, w)
}

func TestAlphaBetaSearch(t *testing.T) {
	t.Run("matches exhaustive minimax on small boards", func(t *testing.T) {
		positions := []struct {
			rows []string
			best game.Move
		}{
			{[]string{"X..O", "...X", "OO..", "XOX."}, game.Move{Row: 1, Col: 0}},
			{[]string{".X.X", ".O.O", "O.X.", "OXOX"}, game.Move{Row: 0, Col: 0}},
		}
		for _, p := range positions {
			b := setup(t, 3, p.rows...)
			before := b.Clone()
			depth := b.Empty()

			a := NewAlphaBeta(WithDepth(depth))
			result, metric := a.Search(context.Background(), b, game.PlayerA, game.NoMove)

			expected := minimax(b, game.PlayerA, depth, 0, game.DefaultWeights())
			require.Equal(t, expected, result.Score)
			require.Equal(t, p.best, result.Move)
			require.Positive(t, result.Score, "the position is won")
			require.True(t, result.Complete)
			require.True(t, metric.Complete)
			require.Equal(t, before, b, "board must be restored")
		}
	})

	t.Run("pruning does not change depth-limited values", func(t *testing.T) {
		b := setup(t, 3,
			"X...O",
			".O.X.",
			"..X..",
			".O...",
			"O..X.")
		before := b.Clone()
		w := game.DefaultWeights()

		for depth := 1; depth <= 3; depth++ {
			a := NewAlphaBeta(WithDepth(depth))
			result, _ := a.Search(context.Background(), b, game.PlayerA, game.NoMove)

			expected := minimax(b, game.PlayerA, depth, 0, w)
			require.Equal(t, expected, result.Score, "depth %d", depth)
			require.Equal(t, expected, moveValue(b, result.Move, game.PlayerA, depth, w), "depth %d", depth)
			require.Equal(t, before, b)
		}
	})

	t.Run("seed is searched first", func(t *testing.T) {
		b := game.NewBoard(game.NewStandardRules())
		seed := b.Rules().Center()

		// At depth one every move scores the same, so the first one searched wins
		a := NewAlphaBeta(WithDepth(1))
		seeded, _ := a.Search(context.Background(), b, game.PlayerA, seed)
		unseeded, _ := a.Search(context.Background(), b, game.PlayerA, game.NoMove)

		require.Equal(t, seed, seeded.Move)
		require.Equal(t, game.Move{Row: 0, Col: 0}, unseeded.Move)
	})

	t.Run("illegal seed is ignored", func(t *testing.T) {
		b := setup(t, 3,
			"XX.",
			"...",
			"...")

		a := NewAlphaBeta(WithDepth(1))
		result, _ := a.Search(context.Background(), b, game.PlayerA, game.Move{Row: 0, Col: 2})

		require.NotEqual(t, game.Move{Row: 0, Col: 2}, result.Move)
		require.False(t, result.Move.IsNone())
	})

	t.Run("breadth limits the root children", func(t *testing.T) {
		b := game.NewBoard(game.NewStandardRules())

		a := NewAlphaBeta(WithDepth(1), WithBreadth(2))
		result, _ := a.Search(context.Background(), b, game.PlayerA, game.NoMove)

		require.Equal(t, 2, result.Nodes)
	})

	t.Run("no legal move is a forced loss", func(t *testing.T) {
		b := setup(t, 2,
			"X.",
			".O")

		a := NewAlphaBeta()
		result, _ := a.Search(context.Background(), b, game.PlayerA, game.NoMove)

		require.True(t, result.Move.IsNone())
		require.True(t, result.Complete)
		require.Negative(t, result.Score)
	})

	t.Run("finished board", func(t *testing.T) {
		b := setup(t, 3,
			"XXX",
			"O..",
			"O..")

		a := NewAlphaBeta()
		result, _ := a.Search(context.Background(), b, game.PlayerB, game.NoMove)

		require.True(t, result.Move.IsNone())
		require.False(t, result.Complete)
	})

	t.Run("expired deadline returns no move", func(t *testing.T) {
		b := game.NewBoard(game.NewStandardRules())
		before := b.Clone()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		a := NewAlphaBeta(WithDepth(3))
		result, metric := a.Search(ctx, b, game.PlayerA, game.NoMove)

		require.True(t, result.Move.IsNone())
		require.False(t, result.Complete)
		require.False(t, metric.Complete)
		require.Equal(t, before, b)
	})

	t.Run("filling the last cell is a draw", func(t *testing.T) {
		b := setup(t, 3,
			"XO",
			"O.")

		result, _ := NewAlphaBeta().Search(context.Background(), b, game.PlayerA, game.NoMove)

		require.Equal(t, game.Move{Row: 1, Col: 1}, result.Move)
		require.Zero(t, result.Score)
		require.True(t, result.Complete)
	})

	t.Run("metrics are collected per search", func(t *testing.T) {
		b := game.NewBoard(game.Rules{Size: 4, RunLength: 3})
		a := NewAlphaBeta(WithDepth(2))

		first, metric := a.Search(context.Background(), b, game.PlayerA, game.NoMove)

		require.Equal(t, "alphabeta", metric.Algorithm)
		require.Equal(t, first.Nodes, metric.Nodes)
		require.Equal(t, 2, metric.MaxDepth)
		require.True(t, metric.Complete)
		require.Positive(t, metric.Duration)

		second, again := a.Search(context.Background(), b, game.PlayerA, game.NoMove)
		require.Equal(t, first.Nodes, second.Nodes)
		require.Equal(t, metric.Nodes, again.Nodes, "counters reset between searches")
	})

	t.Run("quicker wins score higher", func(t *testing.T) {
		a := NewAlphaBeta()
		a.cells = 16
		require.Greater(t, a.decisive(1), a.decisive(3))
		require.Greater(t, a.decisive(16), 0)
	})
}
