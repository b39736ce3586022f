package searcher

import (
	"context"
	"testing"
	"time"

	"anticonnect/game"

	"github.com/stretchr/testify/require"
)

func TestNewMCTS(t *testing.T) {
	t.Run("panics without episodes or duration", func(t *testing.T) {
		require.Panics(t, func() {
			NewMCTS()
		})
	})

	t.Run("exploration constant is squared", func(t *testing.T) {
		m := NewMCTS(WithEpisodes(1), WithExploration(3))
		require.Equal(t, 9.0, m.cSquared)
	})

	t.Run("ignores non-positive options", func(t *testing.T) {
		m := NewMCTS(WithEpisodes(10), WithDuration(-time.Second), WithExploration(0))
		require.Equal(t, 10, m.episodes)
		require.Zero(t, m.duration)
		require.Equal(t, CSquared, m.cSquared)
	})
}

func TestMCTSSearch(t *testing.T) {
	t.Run("finds the only winning move", func(t *testing.T) {
		// Every other move lets PlayerB force PlayerA into a run of three
		b := setup(t, 3,
			"X..O",
			"...X",
			"OO..",
			"XOX.")
		before := b.Clone()

		for seed := uint64(1); seed <= 5; seed++ {
			m := NewMCTS(WithEpisodes(3000), WithSeed(seed))
			result, _ := m.Search(context.Background(), b, game.PlayerA)

			require.Equal(t, game.Move{Row: 1, Col: 0}, result.Move, "seed %d", seed)
			require.Equal(t, 3000, result.Episodes)
			require.Greater(t, result.Value, 0.0)
			require.Equal(t, before, b, "board must be restored")
		}
	})

	t.Run("finds the winning move with an open three on the board", func(t *testing.T) {
		b := setup(t, 3,
			".X.X",
			".O.O",
			"O.X.",
			"OXOX")

		m := NewMCTS(WithEpisodes(3000), WithSeed(42))
		result, _ := m.Search(context.Background(), b, game.PlayerA)
		require.Equal(t, game.Move{Row: 0, Col: 0}, result.Move)
	})

	t.Run("single legal move returns without searching", func(t *testing.T) {
		b := setup(t, 4,
			"XXX.",
			"OOO.",
			"XXX.",
			"OOOX")

		m := NewMCTS(WithEpisodes(100), WithSeed(1))
		result, _ := m.Search(context.Background(), b, game.PlayerA)

		require.Equal(t, game.Move{Row: 1, Col: 3}, result.Move)
		require.Zero(t, result.Episodes)
	})

	t.Run("no legal move", func(t *testing.T) {
		b := setup(t, 2,
			"X.",
			".O")

		m := NewMCTS(WithEpisodes(100), WithSeed(1))
		result, _ := m.Search(context.Background(), b, game.PlayerA)

		require.True(t, result.Move.IsNone())
		require.Zero(t, result.Episodes)
	})

	t.Run("stops at the duration", func(t *testing.T) {
		b := game.NewBoard(game.NewStandardRules())
		before := b.Clone()

		m := NewMCTS(WithDuration(50*time.Millisecond), WithSeed(3))
		start := time.Now()
		result, _ := m.Search(context.Background(), b, game.PlayerA)

		require.Less(t, time.Since(start), time.Second)
		require.Positive(t, result.Episodes)
		require.False(t, result.Move.IsNone())
		require.Equal(t, before, b)
	})

	t.Run("stops at the context deadline", func(t *testing.T) {
		b := game.NewBoard(game.NewStandardRules())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		m := NewMCTS(WithDuration(time.Hour), WithSeed(3))
		start := time.Now()
		m.Search(ctx, b, game.PlayerA)

		require.Less(t, time.Since(start), time.Second)
	})

	t.Run("records metrics", func(t *testing.T) {
		b := game.NewBoard(game.Rules{Size: 5, RunLength: 3})

		m := NewMCTS(WithEpisodes(200), WithSeed(9), WithMetrics())
		result, metric := m.Search(context.Background(), b, game.PlayerA)

		require.Equal(t, "mcts", metric.Algorithm)
		require.Equal(t, 200, metric.Episodes)
		require.Equal(t, result.Nodes, metric.Nodes)
		require.Positive(t, metric.MaxDepth)
	})
}

func TestMCTSPolicy(t *testing.T) {
	b := game.NewBoard(game.Rules{Size: 4, RunLength: 3})

	m := NewMCTS(WithEpisodes(500), WithSeed(5))
	require.Empty(t, m.Policy())

	m.Search(context.Background(), b, game.PlayerA)
	policy := m.Policy()

	require.Len(t, policy, 16)
	total := 0.0
	for _, share := range policy {
		total += share
	}
	require.InDelta(t, 1.0, total, 1e-9)
}
