package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"anticonnect/agent"
	"anticonnect/communication"
	"anticonnect/engine"
	"anticonnect/experiments"
	"anticonnect/game"
	"anticonnect/meta"
	"anticonnect/viewer"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	mode := flag.String("mode", "turn", "turn, selfplay or watch")
	budget := flag.Duration("budget", 0, "Time budget per move")
	seed := flag.Uint64("seed", 0, "Random seed, 0 for time based")
	level := flag.String("log-level", "", "Log level")
	show := flag.Bool("show", false, "Print the board to stderr in turn mode")
	opponent := flag.String("opponent", "", "Command of an external bot to watch against")
	flag.Parse()

	// Stdout carries the protocol
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}).With().Timestamp().Logger()

	cfg, err := meta.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *budget > 0 {
		cfg.Budget = *budget
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *level != "" {
		cfg.LogLevel = *level
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *mode {
	case "turn":
		err = runTurn(ctx, cfg, *show)
	case "selfplay":
		err = runSelfPlay(ctx, cfg)
	case "watch":
		err = runWatch(ctx, cfg, *opponent)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

// runTurn answers one protocol turn read from stdin.
func runTurn(ctx context.Context, cfg meta.Config, show bool) error {
	turn, err := communication.ReadTurn(os.Stdin)
	if err != nil {
		return err
	}
	b, color, err := turn.Replay(game.Rules{Size: cfg.Size, RunLength: cfg.RunLength})
	if err != nil {
		return fmt.Errorf("failed to replay history: %w", err)
	}
	log.Debug().Msgf("playing %v after %d stones", color, b.Stones())

	selector, err := experiments.NewAgent(experiments.SelectorConfig(cfg), cfg.Seed)
	if err != nil {
		return err
	}
	decision, err := selector.FindMove(ctx, b, color)
	if errors.Is(err, agent.ErrGameOver) {
		log.Info().Msg("game is over, no move to play")
		return communication.WriteResponse(os.Stdout, game.NoMove, nil, nil)
	}
	if err != nil {
		return err
	}
	log.Debug().
		Str("source", string(decision.Source)).
		Int("cell", game.EvaluateCell(b, decision.Move, color)).
		Msgf("chose %v", decision.Move)

	if show {
		b.Place(decision.Move, color)
		if err := viewer.Render(b); err != nil {
			log.Warn().Err(err).Msg("failed to render board")
		}
	}

	debug := &communication.Debug{
		Source: string(decision.Source),
		Score:  decision.Score,
		Depth:  cfg.Depth,
		TimeMs: decision.Elapsed.Milliseconds(),
	}
	for _, search := range decision.Search {
		debug.Episodes += search.Episodes
		debug.Nodes += search.Nodes
	}
	return communication.WriteResponse(os.Stdout, decision.Move, turn.Data, debug)
}

func runSelfPlay(ctx context.Context, cfg meta.Config) error {
	exp, err := experiments.FromConfig(cfg)
	if err != nil {
		return err
	}
	report, err := experiments.Run(ctx, exp)
	if err != nil {
		return err
	}
	for _, s := range report.Standings {
		log.Info().
			Int("agent", s.Matchup.A.ID).
			Int("opponent", s.Matchup.B.ID).
			Int("wins", s.Wins).
			Int("losses", s.Losses).
			Int("draws", s.Draws).
			Msg("standing")
	}
	if report.Dir != "" {
		log.Info().Msgf("records stored in %s", report.Dir)
	}
	return nil
}

// runWatch plays one rendered game of the selector against itself or an
// external bot.
func runWatch(ctx context.Context, cfg meta.Config, opponent string) error {
	selector := experiments.SelectorConfig(cfg)
	a, err := experiments.NewAgent(selector, cfg.Seed)
	if err != nil {
		return err
	}
	b, err := experiments.NewAgent(selector, cfg.Seed+1)
	if err != nil {
		return err
	}
	if fields := strings.Fields(opponent); len(fields) > 0 {
		b = engine.NewProcess(2*cfg.Budget, fields[0], fields[1:]...)
	}

	e := engine.LocalEngine(game.Rules{Size: cfg.Size, RunLength: cfg.RunLength}, game.PlayerA, a, b).
		WithViewer(viewer.New(os.Stderr))
	_, gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	log.Info().Msgf("%s for %v after %d moves in %s", gameMetric.Result, game.PlayerA, gameMetric.TotalMoves, gameMetric.Duration)
	return nil
}
