package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"anticonnect/agent"
	"anticonnect/communication"
	"anticonnect/game"
)

// Process is an agent backed by an external bot that speaks the turn
// protocol: one process per turn, the history on stdin, one reply on stdout.
type Process struct {
	command string
	args    []string
	timeout time.Duration
}

func NewProcess(timeout time.Duration, command string, args ...string) *Process {
	return &Process{command: command, args: args, timeout: timeout}
}

func (p *Process) FindMove(ctx context.Context, b *game.Board, color game.Color) (agent.Decision, error) {
	start := time.Now()
	turn, err := communication.NewTurn(b, color)
	if err != nil {
		return agent.Decision{Move: game.NoMove}, err
	}

	var stdin, stdout, stderr bytes.Buffer
	if err := communication.WriteTurn(&stdin, turn); err != nil {
		return agent.Decision{Move: game.NoMove}, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Stdin = &stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return agent.Decision{Move: game.NoMove}, fmt.Errorf("bot %s failed: %w: %s", p.command, err, strings.TrimSpace(stderr.String()))
	}

	move, debug, err := communication.ReadResponse(&stdout)
	if err != nil {
		return agent.Decision{Move: game.NoMove}, fmt.Errorf("bot %s: %w", p.command, err)
	}
	if move.IsNone() {
		return agent.Decision{Move: game.NoMove}, agent.ErrGameOver
	}

	decision := agent.Decision{Move: move, Source: agent.SourceRemote, Elapsed: time.Since(start)}
	if debug != nil {
		decision.Source = agent.Source(debug.Source)
		decision.Score = debug.Score
	}
	return decision, nil
}
