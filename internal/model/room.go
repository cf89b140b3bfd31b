package model

import "time"

// RoomID is a short human-typable identifier for joining rooms
type RoomID string

// GameType identifies which mini-game a room is playing
type GameType string

const (
	GameTypeQuiz          GameType = "quiz"
	GameTypeTongueTwister GameType = "tongue-twister"
	GameTypeTicTacToe     GameType = "tic-tac-toe"
)

// Valid reports whether the game type is one of the supported games
func (g GameType) Valid() bool {
	switch g {
	case GameTypeQuiz, GameTypeTongueTwister, GameTypeTicTacToe:
		return true
	}
	return false
}

// RoomStatus represents the lifecycle phase of a room.
// Transitions are monotonic: waiting -> active -> completed.
type RoomStatus string

const (
	RoomStatusWaiting   RoomStatus = "waiting"
	RoomStatusActive    RoomStatus = "active"
	RoomStatusCompleted RoomStatus = "completed"
)

// ScoreRecord tracks a single player's score within a room
type ScoreRecord struct {
	PlayerID       PlayerID `json:"player_id"`
	DisplayName    string   `json:"display_name"`
	Score          int      `json:"score"`
	Submitted      bool     `json:"submitted"`
	TotalQuestions int      `json:"total_questions,omitempty"` // quiz only
}

// Room is a single multiplayer session instance. All mutation goes through
// the storage layer's UpdateRoom so compound changes are observed atomically.
type Room struct {
	ID       RoomID     `json:"id"`
	GameType GameType   `json:"game_type"`
	Status   RoomStatus `json:"status"`

	// Players in join order. Scores and ReadyPlayers are keyed by the same
	// identities; join/leave keeps the three in sync within one mutation.
	Players      []Player                  `json:"players"`
	Scores       map[PlayerID]*ScoreRecord `json:"scores"`
	ReadyPlayers map[PlayerID]bool         `json:"ready_players,omitempty"` // tongue-twister only

	// Game-specific content; exactly one is non-nil
	Quiz      *QuizContent      `json:"quiz,omitempty"`
	Twister   *TwisterContent   `json:"twister,omitempty"`
	TicTacToe *TicTacToeContent `json:"tic_tac_toe,omitempty"`

	CurrentRound int `json:"current_round"` // quiz and tongue-twister only
	MaxRounds    int `json:"max_rounds"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetPlayer returns the player with the given ID, or nil if not a member
func (r *Room) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// HasPlayer reports whether the given identity is a member of the room
func (r *Room) HasPlayer(id PlayerID) bool {
	return r.GetPlayer(id) != nil
}

// Host returns the host player, or nil if the room is empty
func (r *Room) Host() *Player {
	for i := range r.Players {
		if r.Players[i].IsHost {
			return &r.Players[i]
		}
	}
	return nil
}

// Capacity returns the maximum roster size for the room's game type,
// or 0 if unbounded
func (r *Room) Capacity() int {
	if r.GameType == GameTypeTicTacToe {
		return 2
	}
	return 0
}

// AllSubmitted reports whether every current player has finalized the round
func (r *Room) AllSubmitted() bool {
	if len(r.Players) == 0 {
		return false
	}
	for _, p := range r.Players {
		rec, ok := r.Scores[p.ID]
		if !ok || !rec.Submitted {
			return false
		}
	}
	return true
}

// AllReady reports whether every current player has acknowledged readiness
// for the next round
func (r *Room) AllReady() bool {
	if len(r.Players) == 0 {
		return false
	}
	for _, p := range r.Players {
		if !r.ReadyPlayers[p.ID] {
			return false
		}
	}
	return true
}

// Winner returns the identity with the highest score, breaking ties by
// join order. Returns empty if the room has no players.
func (r *Room) Winner() PlayerID {
	var winner PlayerID
	best := -1
	for _, p := range r.Players {
		rec, ok := r.Scores[p.ID]
		if !ok {
			continue
		}
		if rec.Score > best {
			best = rec.Score
			winner = p.ID
		}
	}
	return winner
}

// ScoreList returns score records in player join order
func (r *Room) ScoreList() []ScoreRecord {
	scores := make([]ScoreRecord, 0, len(r.Players))
	for _, p := range r.Players {
		if rec, ok := r.Scores[p.ID]; ok {
			scores = append(scores, *rec)
		}
	}
	return scores
}

// Clone returns a deep copy of the room. The storage layer hands out clones
// so callers never share mutable state with the stored room.
func (r *Room) Clone() *Room {
	c := *r

	c.Players = make([]Player, len(r.Players))
	copy(c.Players, r.Players)

	c.Scores = make(map[PlayerID]*ScoreRecord, len(r.Scores))
	for id, rec := range r.Scores {
		recCopy := *rec
		c.Scores[id] = &recCopy
	}

	if r.ReadyPlayers != nil {
		c.ReadyPlayers = make(map[PlayerID]bool, len(r.ReadyPlayers))
		for id, ready := range r.ReadyPlayers {
			c.ReadyPlayers[id] = ready
		}
	}

	if r.Quiz != nil {
		quiz := *r.Quiz
		quiz.Questions = make([]Question, len(r.Quiz.Questions))
		copy(quiz.Questions, r.Quiz.Questions)
		c.Quiz = &quiz
	}

	if r.Twister != nil {
		twister := *r.Twister
		twister.Phrases = make([]string, len(r.Twister.Phrases))
		copy(twister.Phrases, r.Twister.Phrases)
		c.Twister = &twister
	}

	if r.TicTacToe != nil {
		ttt := *r.TicTacToe
		ttt.Symbols = make(map[PlayerID]string, len(r.TicTacToe.Symbols))
		for id, sym := range r.TicTacToe.Symbols {
			ttt.Symbols[id] = sym
		}
		c.TicTacToe = &ttt
	}

	return &c
}
