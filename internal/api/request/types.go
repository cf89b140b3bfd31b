package request

import "github.com/playroom-games/playroom/internal/model"

// CreateRoomRequest is the request body for creating a room.
// For quiz rooms, either Questions or Text must be provided; Text is run
// through the question generator.
type CreateRoomRequest struct {
	GameType      model.GameType   `json:"game_type"`
	Text          string           `json:"text,omitempty"`
	Questions     []model.Question `json:"questions,omitempty"`
	QuestionCount int              `json:"question_count,omitempty"`
	MaxRounds     int              `json:"max_rounds,omitempty"`
}
