package searcher

import (
	"context"
	"testing"
	"time"

	"anticonnect/game"

	"github.com/stretchr/testify/require"
)

// setup builds a board from rows of 'X' (PlayerA), 'O' (PlayerB) and '.'.
func setup(t *testing.T, runLength int, rows ...string) *game.Board {
	t.Helper()
	b := game.NewBoard(game.Rules{Size: len(rows), RunLength: runLength})
	for r, row := range rows {
		require.Len(t, row, len(rows))
		for c, ch := range row {
			switch ch {
			case 'X':
				b.Place(game.Move{Row: r, Col: c}, game.PlayerA)
			case 'O':
				b.Place(game.Move{Row: r, Col: c}, game.PlayerB)
			}
		}
	}
	return b
}

func TestRewarder(t *testing.T) {
	t.Run("loser is penalised and the other player rewarded", func(t *testing.T) {
		reward := rewarder(game.PlayerA)
		require.Equal(t, LOSS, reward(game.PlayerA))
		require.Equal(t, WIN, reward(game.PlayerB))
	})

	t.Run("draw rewards nobody", func(t *testing.T) {
		reward := rewarder(game.Empty)
		require.Equal(t, DRAW, reward(game.PlayerA))
		require.Equal(t, DRAW, reward(game.PlayerB))
	})
}

func TestClock(t *testing.T) {
	t.Run("no budget and no deadline never expires", func(t *testing.T) {
		require.False(t, newClock(context.Background(), 0).expired())
	})

	t.Run("budget expires", func(t *testing.T) {
		c := newClock(context.Background(), time.Millisecond)
		require.Eventually(t, c.expired, time.Second, time.Millisecond)
	})

	t.Run("earlier context deadline wins", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()

		c := newClock(ctx, time.Hour)
		require.Eventually(t, c.expired, time.Second, time.Millisecond)
	})

	t.Run("cancelled context expires immediately", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.True(t, newClock(ctx, time.Hour).expired())
	})
}
