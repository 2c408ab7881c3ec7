package game

import (
	"errors"
	"fmt"
	"strings"

	"tictactoe/searcher"
)

const (
	Size  = 3
	Cells = Size * Size
)

const (
	PlayerX searcher.Player = 1
	PlayerO searcher.Player = 2
)

var ErrInvalidMove = errors.New("invalid move")

// Cell is the content of one square. A non-empty cell holds the value of the player who marked it.
type Cell int8

const (
	Empty Cell = iota
	X
	O
)

func (c Cell) Player() searcher.Player {
	return searcher.Player(c)
}

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

// Symbol returns the mark a player writes on the board.
func Symbol(player searcher.Player) string {
	return Cell(player).String()
}

// Board is an immutable tic-tac-toe position, cells in row-major order.
type Board [Cells]Cell

func (b Board) Count(cell Cell) int {
	count := 0
	for _, c := range b {
		if c == cell {
			count++
		}
	}
	return count
}

// String is a compact one-line form, e.g. "XO.|.X.|..O".
func (b Board) String() string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 && i%Size == 0 {
			sb.WriteByte('|')
		}
		if c == Empty {
			sb.WriteByte('.')
		} else {
			sb.WriteString(c.String())
		}
	}
	return sb.String()
}

// Move is a cell index from 0 to 8.
type Move int

func NewMove(row, col int) (Move, error) {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return 0, fmt.Errorf("%w: row %d column %d is off the board", ErrInvalidMove, row, col)
	}
	return Move(row*Size + col), nil
}

func (m Move) Row() int {
	return int(m) / Size
}

func (m Move) Col() int {
	return int(m) % Size
}

func (m Move) String() string {
	return fmt.Sprintf("(%d, %d)", m.Row(), m.Col())
}
