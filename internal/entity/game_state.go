package entity

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

// GameState is a snapshot of a single game inside a room.
// Winner and IsDraw are mutually exclusive; WinningLine is set iff Winner is set.
type GameState struct {
	Board       [9]string `json:"board"`
	CurrentTurn string    `json:"current_turn"`
	Winner      string    `json:"winner,omitempty"`
	IsDraw      bool      `json:"is_draw"`
	WinningLine *[3]int   `json:"winning_line,omitempty"`
}

func (that *GameState) IsFinished() bool {
	return that.Winner != EmptyCell || that.IsDraw
}

// OppositeSymbol - returns the mark the second joiner gets.
func OppositeSymbol(symbol string) string {
	if symbol == PlayerX {
		return PlayerO
	}
	return PlayerX
}
