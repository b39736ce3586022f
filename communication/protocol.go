package communication

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"anticonnect/game"
)

var (
	ErrMalformed = errors.New("malformed turn input")
	ErrOutOfGrid = errors.New("move out of grid")
	ErrOccupied  = errors.New("cell already occupied")
)

// Position is a cell on the wire: x is the row and y the column. (-1,-1)
// means no move was made.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var noPosition = Position{X: -1, Y: -1}

func (p Position) IsNone() bool {
	return p == noPosition
}

func (p Position) Move() game.Move {
	if p.IsNone() {
		return game.NoMove
	}
	return game.Move{Row: p.X, Col: p.Y}
}

func FromMove(m game.Move) Position {
	if m.IsNone() {
		return noPosition
	}
	return Position{X: m.Row, Y: m.Col}
}

// Turn is the full history handed to the bot each turn. Requests are the
// opponent's moves and responses our own, so there is always one more
// request than response.
type Turn struct {
	Requests  []Position      `json:"requests"`
	Responses []Position      `json:"responses"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ReadTurn decodes one JSON line from r.
func ReadTurn(r io.Reader) (Turn, error) {
	line, err := bufio.NewReader(r).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Turn{}, fmt.Errorf("failed to read turn: %w", err)
	}

	var turn Turn
	if err := json.Unmarshal(line, &turn); err != nil {
		return Turn{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(turn.Requests) != len(turn.Responses)+1 {
		return Turn{}, fmt.Errorf("%w: %d requests for %d responses", ErrMalformed, len(turn.Requests), len(turn.Responses))
	}
	return turn, nil
}

// Color is our own colour: PlayerA when the first request carries no move.
func (t Turn) Color() game.Color {
	if len(t.Requests) > 0 && t.Requests[0].IsNone() {
		return game.PlayerA
	}
	return game.PlayerB
}

// NewTurn builds the history own would receive on b. Stones must alternate
// and it must be own's turn.
func NewTurn(b *game.Board, own game.Color) (Turn, error) {
	t := Turn{Responses: []Position{}}
	expect := own.Opponent()
	history := b.History()
	if len(history) == 0 || b.At(history[0]) == own {
		t.Requests = append(t.Requests, noPosition)
		expect = own
	}

	for _, m := range history {
		color := b.At(m)
		if color != expect {
			return Turn{}, fmt.Errorf("%w: %v played out of turn at %v", ErrMalformed, color, m)
		}
		if color == own {
			t.Responses = append(t.Responses, FromMove(m))
		} else {
			t.Requests = append(t.Requests, FromMove(m))
		}
		expect = expect.Opponent()
	}
	if expect != own {
		return Turn{}, fmt.Errorf("%w: not %v's turn", ErrMalformed, own)
	}
	return t, nil
}

// Replay rebuilds the board from the history and returns it with our colour.
func (t Turn) Replay(rules game.Rules) (*game.Board, game.Color, error) {
	if len(t.Requests) != len(t.Responses)+1 {
		return nil, game.Empty, fmt.Errorf("%w: %d requests for %d responses", ErrMalformed, len(t.Requests), len(t.Responses))
	}

	own := t.Color()
	b := game.NewBoard(rules)
	for i, request := range t.Requests {
		if i > 0 && request.IsNone() {
			return nil, game.Empty, fmt.Errorf("%w: request %d carries no move", ErrMalformed, i)
		}
		if err := place(b, request, own.Opponent()); err != nil {
			return nil, game.Empty, fmt.Errorf("request %d: %w", i, err)
		}
		if i < len(t.Responses) {
			if t.Responses[i].IsNone() {
				return nil, game.Empty, fmt.Errorf("%w: response %d carries no move", ErrMalformed, i)
			}
			if err := place(b, t.Responses[i], own); err != nil {
				return nil, game.Empty, fmt.Errorf("response %d: %w", i, err)
			}
		}
	}
	return b, own, nil
}

func place(b *game.Board, p Position, color game.Color) error {
	if p.IsNone() {
		return nil
	}
	m := p.Move()
	if !b.Rules().Contains(m) {
		return fmt.Errorf("%w: %v", ErrOutOfGrid, m)
	}
	if b.At(m) != game.Empty {
		return fmt.Errorf("%w: %v", ErrOccupied, m)
	}
	b.Place(m, color)
	return nil
}

// Debug is the diagnostic payload echoed back to the judge.
type Debug struct {
	Source   string `json:"source"`
	Score    int    `json:"score"`
	Depth    int    `json:"depth,omitempty"`
	Episodes int    `json:"episodes,omitempty"`
	Nodes    int    `json:"nodes,omitempty"`
	TimeMs   int64  `json:"time"`
}

type response struct {
	Response Position        `json:"response"`
	Data     json.RawMessage `json:"data,omitempty"`
	Debug    *Debug          `json:"debug,omitempty"`
}

// WriteTurn writes t as one JSON line.
func WriteTurn(w io.Writer, t Turn) error {
	if err := json.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("failed to write turn: %w", err)
	}
	return nil
}

// WriteResponse writes our move as one JSON line. Game over is written as
// (-1,-1) without debug information.
func WriteResponse(w io.Writer, move game.Move, data json.RawMessage, debug *Debug) error {
	out := response{Response: FromMove(move), Data: data, Debug: debug}
	if move.IsNone() {
		out = response{Response: noPosition}
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// ReadResponse decodes the reply of a bot. A (-1,-1) response yields NoMove.
func ReadResponse(r io.Reader) (game.Move, *Debug, error) {
	line, err := bufio.NewReader(r).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return game.NoMove, nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out response
	if err := json.Unmarshal(line, &out); err != nil {
		return game.NoMove, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out.Response.Move(), out.Debug, nil
}
