package model

// EventType identifies the type of event published to a room's topic.
// The names are the wire-level message types seen by clients.
type EventType string

const (
	// Roster events
	EventPlayerJoined EventType = "player-joined"
	EventPlayerLeft   EventType = "player-left"
	EventRoomInfo     EventType = "room-info" // sent only to the joining connection

	// Shared game events
	EventGameStarted   EventType = "game-started"
	EventScoreUpdate   EventType = "score-update"
	EventGameCompleted EventType = "game-completed"

	// Tongue-twister events
	EventAllSubmitted EventType = "all-players-submitted"
	EventRoundUpdated EventType = "round-updated"

	// Tic-tac-toe events
	EventMoveMade EventType = "move-made"
	EventGameOver EventType = "game-over"
	EventGameDraw EventType = "game-draw"

	// Errors addressed to a single connection, never broadcast
	EventInvalidMove EventType = "invalid-move"
	EventError       EventType = "error"
)

// PlayerJoinedPayload contains data for player-joined events
type PlayerJoinedPayload struct {
	PlayerID    PlayerID `json:"player_id"`
	PlayerName  string   `json:"player_name"`
	Players     []Player `json:"players"`
	PlayerCount int      `json:"player_count"`
}

// RoomInfoPayload is the roster snapshot sent to a joining connection
type RoomInfoPayload struct {
	RoomID   RoomID        `json:"room_id"`
	GameType GameType      `json:"game_type"`
	Players  []Player      `json:"players"`
	Scores   []ScoreRecord `json:"scores"`
	Status   RoomStatus    `json:"status"`
}

// PlayerLeftPayload contains data for player-left events
type PlayerLeftPayload struct {
	PlayerID    PlayerID      `json:"player_id"`
	Players     []Player      `json:"players"`
	PlayerCount int           `json:"player_count"`
	Scores      []ScoreRecord `json:"scores"`
}

// GameStartedPayload contains data for game-started events
type GameStartedPayload struct {
	Status        RoomStatus `json:"status"`
	CurrentRound  int        `json:"current_round,omitempty"`
	MaxRounds     int        `json:"max_rounds,omitempty"`
	CurrentPhrase string     `json:"current_phrase,omitempty"`
	CurrentPlayer PlayerID   `json:"current_player,omitempty"`
	Players       []Player   `json:"players,omitempty"`
}

// ScoreUpdatePayload contains data for score-update events
type ScoreUpdatePayload struct {
	Scores      []ScoreRecord `json:"scores"`
	LastUpdated PlayerID      `json:"last_updated,omitempty"`
	QuestionID  int           `json:"question_id,omitempty"`
}

// AllSubmittedPayload announces the pending auto-advance
type AllSubmittedPayload struct {
	NextRoundIn int `json:"next_round_in"` // seconds
}

// RoundUpdatedPayload contains data for round-updated events
type RoundUpdatedPayload struct {
	CurrentPhrase string `json:"current_phrase"`
	CurrentRound  int    `json:"current_round"`
	MaxRounds     int    `json:"max_rounds"`
}

// GameCompletedPayload contains data for game-completed events
type GameCompletedPayload struct {
	Scores []ScoreRecord `json:"scores"`
	Winner PlayerID      `json:"winner"`
	Status RoomStatus    `json:"status"`
}

// MoveMadePayload contains data for move-made events
type MoveMadePayload struct {
	Cells         [9]string `json:"cells"`
	CurrentPlayer PlayerID  `json:"current_player"`
}

// GameOverPayload contains data for game-over events
type GameOverPayload struct {
	Winner PlayerID  `json:"winner"`
	Cells  [9]string `json:"cells"`
}

// GameDrawPayload contains data for game-draw events
type GameDrawPayload struct {
	Cells [9]string `json:"cells"`
}

// ErrorPayload carries a user-visible error message to one connection
type ErrorPayload struct {
	Message string `json:"message"`
}
