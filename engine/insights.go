package engine

import (
	"fmt"
	"io"
	"strings"
	"time"

	"tictactoe/player"
)

// WriteInsights prints a search report as a ranked table of candidate moves.
func WriteInsights(w io.Writer, report *player.Report) {
	rule := strings.Repeat("=", 60)
	line := strings.Repeat("-", 60)

	fmt.Fprintf(w, "\n%s\nAI DECISION INSIGHTS\n%s\n", rule, rule)
	if report.OnlyMove {
		fmt.Fprintln(w, "Only one legal move available - no calculation needed.")
		return
	}

	fmt.Fprintf(w, "Thinking time: %s\n", report.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Simulations run: %d\n", report.Simulations)
	fmt.Fprintf(w, "Max tree depth: %d\n", report.MaxDepth)
	fmt.Fprintf(w, "Exploration constant (C): %v\n", report.ExplorationConstant)
	fmt.Fprintf(w, "Stopped by: %s\n\n", report.StopReason)

	fmt.Fprintf(w, "MOVE ANALYSIS (sorted by win rate):\n%s\n", line)
	fmt.Fprintf(w, "   %-9s %-12s %-10s %-12s\n%s\n", "Position", "Win Rate", "Wins", "Simulations", line)
	for i, stat := range report.Moves {
		indicator := "  "
		if i == 0 {
			indicator = "=>"
		}
		fmt.Fprintf(w, "%s %-9s %6.2f%%      %-10d %-12d\n", indicator, stat.Move, stat.WinRate, stat.Wins, stat.Plays)
	}
	fmt.Fprintln(w, line)

	if best, ok := report.Best(); ok {
		fmt.Fprintf(w, "\nCHOSEN MOVE: Position %v\n", best.Move)
		fmt.Fprintf(w, "   Reason: Highest win rate of %.2f%%\n", best.WinRate)
		fmt.Fprintf(w, "   Based on %d simulations with %d wins\n", best.Plays, best.Wins)
	}
	fmt.Fprintf(w, "%s\n\n", rule)
}
