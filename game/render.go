package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// Renderer draws boards with box-drawing characters, colouring marks when the terminal
// supports it.
type Renderer struct {
	profile termenv.Profile
}

func NewRenderer(profile termenv.Profile) Renderer {
	return Renderer{profile: profile}
}

func (r Renderer) mark(c Cell) string {
	switch c {
	case X:
		return r.profile.String(c.String()).Foreground(r.profile.Color("1")).Bold().String()
	case O:
		return r.profile.String(c.String()).Foreground(r.profile.Color("4")).Bold().String()
	default:
		return " "
	}
}

// Render returns the board with row and column headers.
func (r Renderer) Render(board Board) string {
	var sb strings.Builder
	sb.WriteString("\n    0   1   2\n")
	sb.WriteString("  ┌───┬───┬───┐\n")
	for row := 0; row < Size; row++ {
		sb.WriteString(strconv.Itoa(row))
		sb.WriteString(" │")
		for col := 0; col < Size; col++ {
			fmt.Fprintf(&sb, " %s │", r.mark(board[row*Size+col]))
		}
		sb.WriteByte('\n')
		if row < Size-1 {
			sb.WriteString("  ├───┼───┼───┤\n")
		}
	}
	sb.WriteString("  └───┴───┴───┘\n")
	return sb.String()
}

// ParseMove reads a "row col" or "row,col" pair.
func ParseMove(input string) (Move, error) {
	input = strings.TrimSpace(input)
	var parts []string
	if strings.Contains(input, ",") {
		parts = strings.Split(input, ",")
	} else {
		parts = strings.Fields(input)
	}
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: expected row and column, got %q", ErrInvalidMove, input)
	}

	coords := [2]int{}
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidMove, part)
		}
		coords[i] = n
	}
	return NewMove(coords[0], coords[1])
}
