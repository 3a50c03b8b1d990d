package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// WinCombos - the 8 canonical winning triples, scanned in this order.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// NewGameState - fresh board, X always opens.
func NewGameState() *entity.GameState {
	return &entity.GameState{
		CurrentTurn: entity.PlayerX,
	}
}

// Evaluate - returns the winner and its line, or empty winner and nil line.
func Evaluate(board [9]string) (string, *[3]int) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			line := combo
			return a, &line
		}
	}

	return entity.EmptyCell, nil
}

func IsBoardFull(board [9]string) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// ApplyMove - validates the move and advances the game state.
// A rejected move leaves the state untouched.
func ApplyMove(state *entity.GameState, symbol string, cell int) error {
	if err := validateMove(state, symbol, cell); err != nil {
		return err
	}

	state.Board[cell] = symbol

	if winner, line := Evaluate(state.Board); winner != entity.EmptyCell {
		state.Winner = winner
		state.WinningLine = line
		return nil
	}

	if IsBoardFull(state.Board) {
		state.IsDraw = true
		return nil
	}

	state.CurrentTurn = entity.OppositeSymbol(symbol)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(state *entity.GameState, symbol string, cell int) error {
	if cell < 0 || cell >= len(state.Board) {
		return apperror.ErrInvalidCell
	}

	if state.IsFinished() {
		return apperror.ErrGameFinished
	}

	if state.CurrentTurn != symbol {
		return apperror.ErrNotYourTurn
	}

	if state.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}
