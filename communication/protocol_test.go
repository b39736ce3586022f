package communication

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"anticonnect/game"

	"github.com/stretchr/testify/require"
)

func TestReadTurn(t *testing.T) {
	t.Run("first turn as first player", func(t *testing.T) {
		turn, err := ReadTurn(strings.NewReader(`{"requests":[{"x":-1,"y":-1}],"responses":[]}` + "\n"))

		require.NoError(t, err)
		require.Equal(t, game.PlayerA, turn.Color())

		b, color, err := turn.Replay(game.NewStandardRules())
		require.NoError(t, err)
		require.Equal(t, game.PlayerA, color)
		require.Zero(t, b.Stones())
	})

	t.Run("replays both sides", func(t *testing.T) {
		input := `{"requests":[{"x":5,"y":5},{"x":0,"y":1}],"responses":[{"x":5,"y":6}],"data":{"depth":3}}`
		turn, err := ReadTurn(strings.NewReader(input))
		require.NoError(t, err)
		require.JSONEq(t, `{"depth":3}`, string(turn.Data))

		b, color, err := turn.Replay(game.NewStandardRules())

		require.NoError(t, err)
		require.Equal(t, game.PlayerB, color)
		require.Equal(t, 3, b.Stones())
		require.Equal(t, game.PlayerA, b.At(game.Move{Row: 5, Col: 5}))
		require.Equal(t, game.PlayerB, b.At(game.Move{Row: 5, Col: 6}))
		require.Equal(t, game.PlayerA, b.At(game.Move{Row: 0, Col: 1}))
		last, owner := b.Last()
		require.Equal(t, game.Move{Row: 0, Col: 1}, last)
		require.Equal(t, game.PlayerA, owner)
	})

	t.Run("input without trailing newline", func(t *testing.T) {
		_, err := ReadTurn(strings.NewReader(`{"requests":[{"x":-1,"y":-1}],"responses":[]}`))
		require.NoError(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ReadTurn(strings.NewReader(`{"requests":`))
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("inconsistent lengths", func(t *testing.T) {
		_, err := ReadTurn(strings.NewReader(`{"requests":[{"x":1,"y":1}],"responses":[{"x":2,"y":2}]}`))
		require.ErrorIs(t, err, ErrMalformed)
	})
}

func TestReplayErrors(t *testing.T) {
	t.Run("out of grid", func(t *testing.T) {
		turn := Turn{Requests: []Position{{X: 11, Y: 0}}}
		_, _, err := turn.Replay(game.NewStandardRules())
		require.ErrorIs(t, err, ErrOutOfGrid)
	})

	t.Run("negative column", func(t *testing.T) {
		turn := Turn{Requests: []Position{{X: 2, Y: -1}}}
		_, _, err := turn.Replay(game.NewStandardRules())
		require.ErrorIs(t, err, ErrOutOfGrid)
	})

	t.Run("negative row is not a pass", func(t *testing.T) {
		turn := Turn{Requests: []Position{{X: -1, Y: 0}}}
		_, _, err := turn.Replay(game.NewStandardRules())
		require.ErrorIs(t, err, ErrOutOfGrid)

		turn = Turn{Requests: []Position{noPosition, {X: 4, Y: 4}}, Responses: []Position{{X: -1, Y: 0}}}
		_, _, err = turn.Replay(game.NewStandardRules())
		require.ErrorIs(t, err, ErrOutOfGrid)
	})

	t.Run("no move after the first request", func(t *testing.T) {
		turns := []Turn{
			{
				Requests:  []Position{noPosition, noPosition, {X: 3, Y: 3}},
				Responses: []Position{{X: 5, Y: 5}, {X: 6, Y: 6}},
			},
			{
				Requests:  []Position{noPosition, {X: 3, Y: 3}},
				Responses: []Position{noPosition},
			},
			{
				Requests:  []Position{{X: 3, Y: 3}, noPosition},
				Responses: []Position{{X: 5, Y: 5}},
			},
		}
		for _, turn := range turns {
			_, _, err := turn.Replay(game.NewStandardRules())
			require.ErrorIs(t, err, ErrMalformed)
		}
	})

	t.Run("occupied", func(t *testing.T) {
		turn := Turn{
			Requests:  []Position{{X: 3, Y: 3}, {X: 4, Y: 4}},
			Responses: []Position{{X: 3, Y: 3}},
		}
		_, _, err := turn.Replay(game.NewStandardRules())
		require.ErrorIs(t, err, ErrOccupied)
	})

	t.Run("inconsistent lengths", func(t *testing.T) {
		turn := Turn{Requests: []Position{{X: 3, Y: 3}}, Responses: []Position{{X: 4, Y: 4}}}
		_, _, err := turn.Replay(game.NewStandardRules())
		require.ErrorIs(t, err, ErrMalformed)
	})
}

func TestWriteResponse(t *testing.T) {
	t.Run("move with debug", func(t *testing.T) {
		var out bytes.Buffer
		debug := &Debug{Source: "alphabeta", Score: 42, Depth: 3, Nodes: 1000, TimeMs: 1200}

		err := WriteResponse(&out, game.Move{Row: 2, Col: 7}, nil, debug)

		require.NoError(t, err)
		require.True(t, strings.HasSuffix(out.String(), "\n"))
		require.JSONEq(t,
			`{"response":{"x":2,"y":7},"debug":{"source":"alphabeta","score":42,"depth":3,"nodes":1000,"time":1200}}`,
			out.String())
	})

	t.Run("game over", func(t *testing.T) {
		var out bytes.Buffer

		err := WriteResponse(&out, game.NoMove, json.RawMessage(`{"depth":3}`), &Debug{Source: "x"})

		require.NoError(t, err)
		require.JSONEq(t, `{"response":{"x":-1,"y":-1}}`, out.String())
	})

	t.Run("round trip through the next turn", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, WriteResponse(&out, game.Move{Row: 1, Col: 2}, nil, nil))

		var written struct {
			Response Position `json:"response"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &written))

		turn := Turn{
			Requests:  []Position{{X: 0, Y: 0}, {X: 4, Y: 4}},
			Responses: []Position{written.Response},
		}
		b, color, err := turn.Replay(game.NewStandardRules())
		require.NoError(t, err)
		require.Equal(t, game.PlayerB, color)
		require.Equal(t, game.PlayerB, b.At(game.Move{Row: 1, Col: 2}))
	})
}

func TestNewTurn(t *testing.T) {
	t.Run("empty board moves first", func(t *testing.T) {
		b := game.NewBoard(game.NewStandardRules())

		turn, err := NewTurn(b, game.PlayerA)

		require.NoError(t, err)
		require.Equal(t, []Position{noPosition}, turn.Requests)
		require.Empty(t, turn.Responses)
		require.Equal(t, game.PlayerA, turn.Color())
	})

	t.Run("replay restores the board", func(t *testing.T) {
		b := game.NewBoard(game.NewStandardRules())
		for i, m := range []game.Move{{Row: 5, Col: 5}, {Row: 5, Col: 6}, {Row: 0, Col: 0}, {Row: 10, Col: 10}} {
			color := game.PlayerA
			if i%2 == 1 {
				color = game.PlayerB
			}
			b.Place(m, color)
		}

		turn, err := NewTurn(b, game.PlayerA)
		require.NoError(t, err)

		var line bytes.Buffer
		require.NoError(t, WriteTurn(&line, turn))
		read, err := ReadTurn(&line)
		require.NoError(t, err)

		replayed, color, err := read.Replay(b.Rules())
		require.NoError(t, err)
		require.Equal(t, game.PlayerA, color)
		require.Equal(t, b.String(), replayed.String())
		require.Equal(t, b.History(), replayed.History())
	})

	t.Run("second player", func(t *testing.T) {
		b := game.NewBoard(game.NewStandardRules())
		b.Place(game.Move{Row: 1, Col: 1}, game.PlayerA)

		turn, err := NewTurn(b, game.PlayerB)

		require.NoError(t, err)
		require.Equal(t, []Position{{X: 1, Y: 1}}, turn.Requests)
		require.Empty(t, turn.Responses)
	})

	t.Run("not our turn", func(t *testing.T) {
		b := game.NewBoard(game.NewStandardRules())
		b.Place(game.Move{Row: 1, Col: 1}, game.PlayerA)

		_, err := NewTurn(b, game.PlayerA)
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("stones out of turn", func(t *testing.T) {
		b := game.NewBoard(game.NewStandardRules())
		b.Place(game.Move{Row: 1, Col: 1}, game.PlayerA)
		b.Place(game.Move{Row: 2, Col: 2}, game.PlayerA)

		_, err := NewTurn(b, game.PlayerB)
		require.ErrorIs(t, err, ErrMalformed)
	})
}

func TestReadResponse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, WriteResponse(&out, game.Move{Row: 3, Col: 9}, nil, &Debug{Source: "mirror", TimeMs: 1}))

		move, debug, err := ReadResponse(&out)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 3, Col: 9}, move)
		require.Equal(t, &Debug{Source: "mirror", TimeMs: 1}, debug)
	})

	t.Run("game over", func(t *testing.T) {
		move, debug, err := ReadResponse(strings.NewReader(`{"response":{"x":-1,"y":-1}}`))

		require.NoError(t, err)
		require.True(t, move.IsNone())
		require.Nil(t, debug)
	})

	t.Run("malformed", func(t *testing.T) {
		_, _, err := ReadResponse(strings.NewReader(`not json`))
		require.ErrorIs(t, err, ErrMalformed)
	})
}
