package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"tictactoe/game"
)

// ErrNoInput is returned when the input stream ends before a valid answer was read.
var ErrNoInput = errors.New("input closed")

// Console reads answers line by line. Humans and menus must share one Console so that
// buffered input is not lost between them.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// ReadLine prints prompt and returns the next trimmed line.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// Choose asks until one of choices is entered and returns its index.
func (c *Console) Choose(prompt string, choices []string) (int, error) {
	for {
		answer, err := c.ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		if _, i, ok := lo.FindIndexOf(choices, func(choice string) bool {
			return strings.EqualFold(choice, answer)
		}); ok {
			return i, nil
		}
		c.Printf("Please enter %s.\n", strings.Join(choices, ", "))
	}
}

// Confirm asks a yes or no question. Anything but "y" or "yes" is a no.
func (c *Console) Confirm(prompt string) (bool, error) {
	answer, err := c.ReadLine(prompt)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Human reads moves from a console.
type Human struct {
	name    string
	console *Console
	rules   game.Rules
}

func NewHuman(name string, console *Console) *Human {
	return &Human{name: name, console: console}
}

func (h *Human) Name() string {
	return h.name
}

func (h *Human) Observe(game.Board) {}

func (h *Human) Reset() {}

// FindMove prompts until a legal "row col" or "row,col" pair is entered.
func (h *Human) FindMove(ctx context.Context, history []game.Board) (game.Move, *Report, error) {
	legal := h.rules.LegalMoves(history)
	if len(legal) == 0 {
		return 0, nil, fmt.Errorf("%s cannot move: %w", h.name, game.ErrInvalidMove)
	}

	h.console.Printf("Your turn! Enter your move.\n")
	h.console.Printf("Available positions: %s\n", strings.Join(lo.Map(legal, func(m game.Move, _ int) string {
		return fmt.Sprintf("(%d,%d)", m.Row(), m.Col())
	}), " "))

	for {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		line, err := h.console.ReadLine("Enter row and column (e.g., '1 2' or '1,2'): ")
		if err != nil {
			return 0, nil, err
		}
		move, err := game.ParseMove(line)
		if err != nil {
			h.console.Printf("Invalid input! Please enter row and column (0-2).\n")
			continue
		}
		if !lo.Contains(legal, move) {
			h.console.Printf("Invalid move! That position is taken.\n")
			continue
		}
		return move, nil, nil
	}
}
