package model

// Question is a single multiple-choice question with four options
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // index into Options
}

// QuizContent is the payload for quiz rooms
type QuizContent struct {
	Questions  []Question `json:"questions"`
	SourceText string     `json:"source_text,omitempty"`
}

// TwisterContent is the payload for tongue-twister rooms
type TwisterContent struct {
	CurrentPhrase string   `json:"current_phrase"`
	Phrases       []string `json:"phrases"` // pool to draw the next phrase from
}

// Tic-tac-toe cell symbols
const (
	SymbolX = "X"
	SymbolO = "O"
)

// TicTacToeContent is the payload for tic-tac-toe rooms.
// Cells are "" when empty, "X" or "O" once marked.
type TicTacToeContent struct {
	Cells         [9]string           `json:"cells"`
	CurrentPlayer PlayerID            `json:"current_player"`
	Winner        PlayerID            `json:"winner,omitempty"`
	Draw          bool                `json:"draw,omitempty"`
	Symbols       map[PlayerID]string `json:"symbols"`
}

// winPatterns are the 8 three-in-a-row lines: rows, columns, diagonals
var winPatterns = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// CheckWinner returns the symbol completing a line, or "" if none
func (t *TicTacToeContent) CheckWinner() string {
	for _, p := range winPatterns {
		a, b, c := t.Cells[p[0]], t.Cells[p[1]], t.Cells[p[2]]
		if a != "" && a == b && a == c {
			return a
		}
	}
	return ""
}

// IsFull reports whether every cell is occupied
func (t *TicTacToeContent) IsFull() bool {
	for _, cell := range t.Cells {
		if cell == "" {
			return false
		}
	}
	return true
}
