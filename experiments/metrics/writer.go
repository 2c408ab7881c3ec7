package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"tictactoe/game"
	"tictactoe/searcher"
)

const NoAgent = -1

type GameRecord struct {
	ID      int
	Matchup [2]int // AgentConfig.ID of both agents in matchup order
	AgentX  int    // AgentConfig.ID
	AgentO  int    // AgentConfig.ID
	GameMetric
}

// WinnerAgent returns the ID of the winning agent, or NoAgent on a draw.
func (r GameRecord) WinnerAgent() int {
	switch r.Winner {
	case game.PlayerX:
		return r.AgentX
	case game.PlayerO:
		return r.AgentO
	default:
		return NoAgent
	}
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
	runID   uuid.UUID
}

// NewWriter creates a run directory under root named by the current timestamp and a
// random run ID.
func NewWriter(root, name string) (*Writer, error) {
	runID := uuid.New()
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp+"-"+runID.String()[:8])
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
		runID:   runID,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) RunID() uuid.UUID {
	return w.runID
}

func (w *Writer) write(file, kind string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", kind, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", kind, err)
	}

	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", kind, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", kind, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s file: %w", kind, err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"run", "id", "goroutines", "duration", "simulations", "exploration_constant", "max_moves", "store_capacity", "temperature"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			w.runID.String(),
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Goroutines),
			config.Duration.String(),
			strconv.Itoa(config.Simulations),
			strconv.FormatFloat(config.SearchConfig().C, 'f', -1, 64),
			strconv.Itoa(config.SearchConfig().MaxMoves),
			strconv.Itoa(config.StoreCapacity),
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
		})
	}
	return w.write("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "agent_x", "agent_o", "starting_player", "winner", "winner_agent", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Matchup[0]),
			strconv.Itoa(record.Matchup[1]),
			strconv.Itoa(record.AgentX),
			strconv.Itoa(record.AgentO),
			playerName(record.StartingPlayer),
			playerName(record.Winner),
			strconv.Itoa(record.WinnerAgent()),
			record.StartTime.Format(time.RFC3339Nano),
			record.EndTime.Format(time.RFC3339Nano),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	return w.write("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "win_rate", "only_move", "duration", "simulations", "expansions", "full_playouts", "max_depth", "store_size"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			playerName(record.Player),
			strconv.Itoa(record.Move),
			strconv.FormatFloat(record.WinRate, 'f', 2, 64),
			strconv.FormatBool(record.OnlyMove),
			record.Duration.String(),
			strconv.Itoa(record.Simulations),
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.MaxDepth),
			strconv.Itoa(record.StoreSize),
		})
	}
	return w.write("move_records.csv", "move records", header, rows)
}

func (w *Writer) WriteSummaries(summaries []MatchupSummary) error {
	header := []string{"agent1", "agent2", "games", "agent1_wins", "agent2_wins", "draws", "mean_moves", "std_moves", "mean_simulations", "std_simulations"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Agent1),
			strconv.Itoa(s.Agent2),
			strconv.Itoa(s.Games),
			strconv.Itoa(s.Agent1Wins),
			strconv.Itoa(s.Agent2Wins),
			strconv.Itoa(s.Draws),
			strconv.FormatFloat(s.MeanMoves, 'f', 3, 64),
			strconv.FormatFloat(s.StdMoves, 'f', 3, 64),
			strconv.FormatFloat(s.MeanSimulations, 'f', 3, 64),
			strconv.FormatFloat(s.StdSimulations, 'f', 3, 64),
		})
	}
	return w.write("summary.csv", "summary", header, rows)
}

func playerName(player searcher.Player) string {
	if player == searcher.NoPlayer {
		return "none"
	}
	return game.Symbol(player)
}
