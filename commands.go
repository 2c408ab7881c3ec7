package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"tictactoe/engine"
	"tictactoe/experiments"
	"tictactoe/game"
	"tictactoe/meta"
	"tictactoe/player"
	"tictactoe/sampledata"
	"tictactoe/searcher"
)

var (
	difficultyName string
	humanStarts    string

	arenaGames    int
	arenaParallel int
	arenaOutput   string

	sampleRows   int
	sampleOutput string
	sampleSeed   uint64
)

var (
	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play against the AI in the terminal",
		RunE:  runPlay,
	}
	arenaCmd = &cobra.Command{
		Use:   "arena",
		Short: "Pit AI configurations against each other and record the results as CSV",
		RunE:  runArena,
	}
	genCSVCmd = &cobra.Command{
		Use:   "gen-csv",
		Short: "Generate a CSV file of random people",
		RunE:  runGenCSV,
	}
)

func init() {
	playCmd.Flags().StringVar(&difficultyName, "difficulty", "", "easy, medium or hard; asks when empty")
	playCmd.Flags().StringVar(&humanStarts, "start", "", "who starts: human or ai; asks when empty")

	arenaCmd.Flags().IntVar(&arenaGames, "games", 0, "games per matchup (overrides config)")
	arenaCmd.Flags().IntVar(&arenaParallel, "parallel", 0, "games played at once (overrides config)")
	arenaCmd.Flags().StringVar(&arenaOutput, "output", "", "directory for experiment records (overrides config)")

	genCSVCmd.Flags().IntVar(&sampleRows, "rows", 0, "number of rows (overrides config)")
	genCSVCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "output file (overrides config)")
	genCSVCmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "random seed, 0 uses the clock")
}

const banner = `
    ╔═══════════════════════════════════════════════════════════╗
    ║   MONTE CARLO TREE SEARCH (MCTS) DEMONSTRATION            ║
    ║   After each AI move you will see the search statistics   ║
    ║   behind its decision.                                    ║
    ╚═══════════════════════════════════════════════════════════╝
`

func runPlay(cmd *cobra.Command, args []string) error {
	console := player.NewConsole(os.Stdin, os.Stdout)
	console.Printf("%s", banner)

	for {
		difficulty, err := selectDifficulty(console)
		if err != nil {
			return err
		}
		humanFirst, err := selectStart(console)
		if err != nil {
			return err
		}

		search := cfg.Search.Config()
		search.Time = difficulty.Time
		search.C = difficulty.C
		console.Printf("\nAI Configuration:\n   - Difficulty: %s\n   - Thinking time: %s per move\n   - Exploration constant (C): %v\n",
			difficulty.Name, search.Time, search.C)

		ai, err := player.NewComputer("AI", searchOptions(search)...)
		if err != nil {
			return err
		}
		human := player.NewHuman("You", console)

		x, o := player.Player(human), player.Player(ai)
		if !humanFirst {
			x, o = ai, human
		}
		humanSide := lo.Ternary(humanFirst, game.PlayerX, game.PlayerO)
		aiSide := lo.Ternary(humanFirst, game.PlayerO, game.PlayerX)
		console.Printf("\nYou are playing as: %s\nAI is playing as: %s\n", game.Symbol(humanSide), game.Symbol(aiSide))

		renderer := game.NewRenderer(termenv.ColorProfile())
		result, err := engine.LocalEngine(x, o, engine.WithOutput(os.Stdout, renderer), engine.WithInsights()).Run(cmd.Context())
		if err != nil {
			return err
		}

		switch result.Outcome.Winner {
		case searcher.NoPlayer:
		case humanSide:
			console.Printf("CONGRATULATIONS! YOU WIN!\n")
		default:
			console.Printf("AI WINS! Better luck next time!\n")
		}
		log.Debug().Msgf("game finished in %s", result.Duration())

		// flags only decide the first game
		difficultyName, humanStarts = "", ""
		again, err := console.Confirm("\nWould you like to play again? (y/n): ")
		if err != nil || !again {
			return nil
		}
	}
}

func selectDifficulty(console *player.Console) (meta.Difficulty, error) {
	if difficultyName != "" {
		return meta.DifficultyByName(difficultyName)
	}

	console.Printf("\nSELECT DIFFICULTY:\n")
	for i, d := range meta.Difficulties {
		console.Printf("   %d. %-6s - %s\n", i+1, d.Name, d.Description)
	}
	choices := lo.Map(meta.Difficulties, func(_ meta.Difficulty, i int) string {
		return fmt.Sprint(i + 1)
	})
	i, err := console.Choose(fmt.Sprintf("Enter %s: ", strings.Join(choices, ", ")), choices)
	if err != nil {
		return meta.Difficulty{}, err
	}
	console.Printf("\nDifficulty set to: %s\n", meta.Difficulties[i].Name)
	return meta.Difficulties[i], nil
}

func selectStart(console *player.Console) (bool, error) {
	switch strings.ToLower(humanStarts) {
	case "human":
		return true, nil
	case "ai":
		return false, nil
	case "":
	default:
		return false, fmt.Errorf("unknown starting player %q, expected human or ai", humanStarts)
	}

	console.Printf("\nWho should start?\n   1. Human (you play as X)\n   2. AI (AI plays as X)\n")
	i, err := console.Choose("Enter 1 or 2: ", []string{"1", "2"})
	if err != nil {
		return false, err
	}
	return i == 0, nil
}

func runArena(cmd *cobra.Command, args []string) error {
	arena := cfg.Arena
	if arenaGames > 0 {
		arena.Games = arenaGames
	}
	if arenaParallel > 0 {
		arena.Parallel = arenaParallel
	}
	if arenaOutput != "" {
		arena.OutputDir = arenaOutput
	}

	options := []experiments.Option{}
	if promMetrics != nil {
		options = append(options, experiments.WithPromMetrics(promMetrics))
	}

	outcome, err := experiments.RunArena(cmd.Context(), "arena", arena, options...)
	if err != nil {
		return err
	}
	for _, summary := range outcome.Summaries {
		fmt.Fprintln(cmd.OutOrStdout(), summary)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "records written to %s\n", outcome.Dir)
	return nil
}

func runGenCSV(cmd *cobra.Command, args []string) error {
	sample := cfg.Sample
	if sampleRows > 0 {
		sample.Rows = sampleRows
	}
	if sampleOutput != "" {
		sample.Output = sampleOutput
	}
	if sampleSeed != 0 {
		sample.Seed = sampleSeed
	}
	if err := sampledata.WriteFile(sample.Output, sample.Rows, sample.Seed); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "CSV file generated successfully: %s\n", sample.Output)
	return nil
}
