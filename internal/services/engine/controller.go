package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/playroom-games/playroom/internal/dependencies/clock"
	"github.com/playroom-games/playroom/internal/dependencies/random"
	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
	"github.com/playroom-games/playroom/internal/storage"
)

// DefaultAdvanceCountdown is how long a tongue-twister room waits after the
// last submission before advancing to the next round
const DefaultAdvanceCountdown = 10 * time.Second

// Controller runs the per-game rules: starting games, scoring submissions,
// advancing rounds, and judging tic-tac-toe moves. All room mutation goes
// through storage.UpdateRoom so concurrent submissions serialize cleanly.
type Controller struct {
	storage     storage.Storage
	broadcaster realtime.Broadcaster
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger

	countdown time.Duration

	timersMu sync.Mutex
	timers   map[model.RoomID]*time.Timer
}

// NewController creates a new game engine controller
func NewController(
	storage storage.Storage,
	broadcaster realtime.Broadcaster,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	countdown time.Duration,
) *Controller {
	if countdown <= 0 {
		countdown = DefaultAdvanceCountdown
	}
	return &Controller{
		storage:     storage,
		broadcaster: broadcaster,
		clock:       clock,
		random:      random,
		logger:      logger,
		countdown:   countdown,
		timers:      make(map[model.RoomID]*time.Timer),
	}
}

// StartGame transitions a room to active play. Only the host may start.
// Completed rooms stay completed; a fresh room is required to play again.
// Tic-tac-toe rooms activate on the second join instead and are rejected here.
func (c *Controller) StartGame(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Room, error) {
	updated, err := c.storage.UpdateRoom(ctx, roomID, func(r *model.Room) error {
		player := r.GetPlayer(playerID)
		if player == nil {
			return model.ErrNotInRoom
		}
		if !player.IsHost {
			return model.ErrNotHost
		}
		if r.GameType == model.GameTypeTicTacToe {
			return model.ErrInvalidGameType
		}
		if r.Status == model.RoomStatusCompleted {
			return model.ErrGameComplete
		}

		r.Status = model.RoomStatusActive
		r.CurrentRound = 1
		for _, rec := range r.Scores {
			rec.Score = 0
			rec.Submitted = false
			rec.TotalQuestions = 0
		}
		r.ReadyPlayers = make(map[model.PlayerID]bool)

		if r.GameType == model.GameTypeTongueTwister {
			r.Twister.CurrentPhrase = r.Twister.Phrases[c.random.Intn(len(r.Twister.Phrases))]
		}

		r.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("room", string(roomID)),
		slog.String("game_type", string(updated.GameType)),
		slog.Int("max_rounds", updated.MaxRounds),
	)

	payload := model.GameStartedPayload{
		Status:       updated.Status,
		CurrentRound: updated.CurrentRound,
		MaxRounds:    updated.MaxRounds,
		Players:      updated.Players,
	}
	if updated.Twister != nil {
		payload.CurrentPhrase = updated.Twister.CurrentPhrase
	}
	c.broadcaster.Publish(roomID, realtime.Message{
		Type:    model.EventGameStarted,
		Payload: payload,
	})

	return updated, nil
}

// completeRoom marks the room finished. Must run inside an UpdateRoom
// mutation.
func completeRoom(r *model.Room) {
	r.Status = model.RoomStatusCompleted
}

// publishCompleted announces the final standings for a finished room
func (c *Controller) publishCompleted(roomID model.RoomID, r *model.Room) {
	c.broadcaster.Publish(roomID, realtime.Message{
		Type: model.EventGameCompleted,
		Payload: model.GameCompletedPayload{
			Scores: r.ScoreList(),
			Winner: r.Winner(),
			Status: r.Status,
		},
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	StartGame(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Room, error)
	SubmitAnswer(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, questionID, answerIndex int) (*model.Room, error)
	SubmitFinalScore(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, totalQuestions int) (*model.Room, error)
	SubmitAttempt(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, attempt string, elapsedSeconds float64) (*model.Room, error)
	ReadyForNextRound(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Room, error)
	MakeMove(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, cell int) (*model.Room, error)
	CancelRoom(roomID model.RoomID)
}

var _ ControllerInterface = (*Controller)(nil)
