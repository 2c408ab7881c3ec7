package game

import (
	"fmt"

	"tictactoe/searcher"
)

var lines = [...][Size]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Rules implements searcher.Rules for tic-tac-toe. It holds no state and is safe for
// concurrent use.
type Rules struct{}

var _ searcher.Rules[Board, Move] = Rules{}

func (Rules) Start() Board {
	return Board{}
}

// CurrentPlayer returns X when both players have made the same number of moves.
func (Rules) CurrentPlayer(board Board) searcher.Player {
	if board.Count(X) == board.Count(O) {
		return PlayerX
	}
	return PlayerO
}

func (r Rules) Play(board Board, move Move) (Board, error) {
	if move < 0 || move >= Cells {
		return board, fmt.Errorf("%w: cell %d is off the board", ErrInvalidMove, move)
	}
	if board[move] != Empty {
		return board, fmt.Errorf("%w: cell %v is taken by %v", ErrInvalidMove, move, board[move])
	}
	board[move] = Cell(r.CurrentPlayer(board))
	return board, nil
}

// LegalMoves lists the empty cells of the last board in ascending order. A won board
// still reports its empty cells; callers check Result first.
func (Rules) LegalMoves(history []Board) []Move {
	if len(history) == 0 {
		return nil
	}
	board := history[len(history)-1]
	moves := make([]Move, 0, Cells)
	for i, c := range board {
		if c == Empty {
			moves = append(moves, Move(i))
		}
	}
	return moves
}

func (Rules) Result(history []Board) searcher.Outcome {
	if len(history) == 0 {
		return searcher.Ongoing
	}
	board := history[len(history)-1]
	for _, line := range lines {
		first := board[line[0]]
		if first != Empty && first == board[line[1]] && first == board[line[2]] {
			return searcher.Win(first.Player())
		}
	}
	if board.Count(Empty) == 0 {
		return searcher.Draw
	}
	return searcher.Ongoing
}
