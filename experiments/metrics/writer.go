package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// AgentConfig describes one player of an experiment.
type AgentConfig struct {
	ID          int
	Kind        string // selector, mcts or alphabeta
	Budget      time.Duration
	MCTSShare   float64
	Depth       int
	Breadth     int
	Episodes    int
	Exploration float64
	Opening     string
	Mirror      bool
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID playing A
	Agent2 int // AgentConfig.ID playing B
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// ArchiveRow is one move of one game, denormalised for analysis.
type ArchiveRow struct {
	Game           int32  `parquet:"game"`
	Agent1         int32  `parquet:"agent1"`
	Agent2         int32  `parquet:"agent2"`
	StartingPlayer string `parquet:"starting_player,dict"`
	Loser          string `parquet:"loser,dict"`
	Step           int32  `parquet:"step"`
	Player         string `parquet:"player,dict"`
	Row            int32  `parquet:"row"`
	Col            int32  `parquet:"col"`
	Source         string `parquet:"source,dict"`
	Score          int64  `parquet:"score"`
	ElapsedMs      int64  `parquet:"elapsed_ms"`
	MCTSEpisodes   int32  `parquet:"mcts_episodes"`
	MCTSNodes      int32  `parquet:"mcts_nodes"`
	MCTSMaxDepth   int32  `parquet:"mcts_max_depth"`
	ABNodes        int64  `parquet:"ab_nodes"`
	ABComplete     bool   `parquet:"ab_complete"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped directory for one experiment under outDir.
func NewWriter(outDir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000")
	baseDir := filepath.Join(outDir, name, timestamp)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "budget", "mcts_share", "depth", "breadth", "episodes", "exploration", "opening", "mirror"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			config.Budget.String(),
			strconv.FormatFloat(config.MCTSShare, 'f', -1, 64),
			strconv.Itoa(config.Depth),
			strconv.Itoa(config.Breadth),
			strconv.Itoa(config.Episodes),
			strconv.FormatFloat(config.Exploration, 'f', -1, 64),
			config.Opening,
			strconv.FormatBool(config.Mirror),
		})
	}
	if err := w.writeCSV("agent_configs.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write agent configs: %w", err)
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "starting_player", "loser", "result", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.StartingPlayer,
			record.Loser,
			record.Result,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	if err := w.writeCSV("game_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	return nil
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{
		"game", "step", "player", "row", "col", "source", "score", "elapsed",
		"mcts_duration", "mcts_episodes", "mcts_full_playouts", "mcts_nodes", "mcts_max_depth",
		"ab_duration", "ab_nodes", "ab_complete",
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			strconv.Itoa(record.Row),
			strconv.Itoa(record.Col),
			record.Source,
			strconv.Itoa(record.Score),
			record.Elapsed.String(),
			record.MCTS.Duration.String(),
			strconv.Itoa(record.MCTS.Episodes),
			strconv.Itoa(record.MCTS.FullPlayouts),
			strconv.Itoa(record.MCTS.Nodes),
			strconv.Itoa(record.MCTS.MaxDepth),
			record.AlphaBeta.Duration.String(),
			strconv.Itoa(record.AlphaBeta.Nodes),
			strconv.FormatBool(record.AlphaBeta.Complete),
		})
	}
	if err := w.writeCSV("move_records.csv", header, rows); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	return nil
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// WriteArchive stores every move joined with its game as one zstd parquet
// file. The file only appears once fully written.
func (w *Writer) WriteArchive(games []GameRecord, moves []MoveRecord) (string, error) {
	byID := make(map[int]GameRecord, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	rows := make([]ArchiveRow, 0, len(moves))
	for _, m := range moves {
		g := byID[m.Game]
		rows = append(rows, ArchiveRow{
			Game:           int32(m.Game),
			Agent1:         int32(g.Agent1),
			Agent2:         int32(g.Agent2),
			StartingPlayer: g.StartingPlayer,
			Loser:          g.Loser,
			Step:           int32(m.Step),
			Player:         m.Player,
			Row:            int32(m.Row),
			Col:            int32(m.Col),
			Source:         m.Source,
			Score:          int64(m.Score),
			ElapsedMs:      m.Elapsed.Milliseconds(),
			MCTSEpisodes:   int32(m.MCTS.Episodes),
			MCTSNodes:      int32(m.MCTS.Nodes),
			MCTSMaxDepth:   int32(m.MCTS.MaxDepth),
			ABNodes:        int64(m.AlphaBeta.Nodes),
			ABComplete:     m.AlphaBeta.Complete,
		})
	}

	path := filepath.Join(w.baseDir, "moves.parquet")
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "anticonnect_moves_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return path, nil
}
