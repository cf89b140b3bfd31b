package response

import (
	"time"

	"github.com/playroom-games/playroom/internal/model"
)

// Player represents a room member in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsHost:      p.IsHost,
	}
}

// Score represents one player's standing
type Score struct {
	PlayerID       string `json:"player_id"`
	DisplayName    string `json:"display_name"`
	Score          int    `json:"score"`
	Submitted      bool   `json:"submitted"`
	TotalQuestions int    `json:"total_questions,omitempty"`
}

// ScoreFromModel converts a model.ScoreRecord
func ScoreFromModel(s model.ScoreRecord) Score {
	return Score{
		PlayerID:       string(s.PlayerID),
		DisplayName:    s.DisplayName,
		Score:          s.Score,
		Submitted:      s.Submitted,
		TotalQuestions: s.TotalQuestions,
	}
}

// Room represents a room in API responses. Quiz questions are included so
// the creator can render the quiz; correct answers stay server-side only
// in the websocket flow, not here, because the creator built the quiz.
type Room struct {
	ID           string           `json:"id"`
	GameType     string           `json:"game_type"`
	Status       string           `json:"status"`
	Players      []Player         `json:"players"`
	Scores       []Score          `json:"scores"`
	CurrentRound int              `json:"current_round,omitempty"`
	MaxRounds    int              `json:"max_rounds"`
	Questions    []model.Question `json:"questions,omitempty"`
	Phrase       string           `json:"phrase,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// RoomFromModel converts a model.Room
func RoomFromModel(r *model.Room) Room {
	players := make([]Player, len(r.Players))
	for i, p := range r.Players {
		players[i] = PlayerFromModel(p)
	}

	modelScores := r.ScoreList()
	scores := make([]Score, len(modelScores))
	for i, s := range modelScores {
		scores[i] = ScoreFromModel(s)
	}

	room := Room{
		ID:           string(r.ID),
		GameType:     string(r.GameType),
		Status:       string(r.Status),
		Players:      players,
		Scores:       scores,
		CurrentRound: r.CurrentRound,
		MaxRounds:    r.MaxRounds,
		CreatedAt:    r.CreatedAt,
	}
	if r.Quiz != nil {
		room.Questions = r.Quiz.Questions
	}
	if r.Twister != nil {
		room.Phrase = r.Twister.CurrentPhrase
	}
	return room
}

// JoinInfo is the lightweight lookup a client makes before opening a
// websocket, enough to render the pre-join screen
type JoinInfo struct {
	RoomID      string `json:"room_id"`
	GameType    string `json:"game_type"`
	Status      string `json:"status"`
	PlayerCount int    `json:"player_count"`
	Capacity    int    `json:"capacity,omitempty"`
	Joinable    bool   `json:"joinable"`
}

// JoinInfoFromModel converts a model.Room
func JoinInfoFromModel(r *model.Room) JoinInfo {
	capacity := r.Capacity()
	joinable := capacity == 0 || len(r.Players) < capacity
	return JoinInfo{
		RoomID:      string(r.ID),
		GameType:    string(r.GameType),
		Status:      string(r.Status),
		PlayerCount: len(r.Players),
		Capacity:    capacity,
		Joinable:    joinable,
	}
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
