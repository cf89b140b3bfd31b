package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/playroom-games/playroom/internal/dependencies/clock"
	"github.com/playroom-games/playroom/internal/dependencies/random"
	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
	"github.com/playroom-games/playroom/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in room codes
	RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// DefaultMaxRounds matches the round count a started game uses when the
	// creator does not override it
	DefaultMaxRounds = 5
)

// DefaultPhrases is the tongue-twister pool a room draws from
var DefaultPhrases = []string{
	"She sells seashells by the seashore",
	"Peter Piper picked a peck of pickled peppers",
	"How much wood would a woodchuck chuck if a woodchuck could chuck wood",
	"Red lorry, yellow lorry, red lorry, yellow lorry",
	"Unique New York, unique New York, you know you need unique New York",
}

// CreateParams carries the game-specific content for a new room
type CreateParams struct {
	GameType  model.GameType
	Questions []model.Question // quiz only
	Source    string           // quiz only, the extracted document text
	MaxRounds int              // 0 means DefaultMaxRounds
}

// Scheduler cancels pending game timers when a room goes away
type Scheduler interface {
	CancelRoom(id model.RoomID)
}

// Controller manages room lifecycle: creation with collision-checked codes
// and removal when the last player leaves
type Controller struct {
	storage     storage.Storage
	broadcaster realtime.Broadcaster
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
	scheduler   Scheduler
}

// NewController creates a new room lifecycle controller
func NewController(
	storage storage.Storage,
	broadcaster realtime.Broadcaster,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:     storage,
		broadcaster: broadcaster,
		clock:       clock,
		random:      random,
		logger:      logger,
	}
}

// CreateRoom initializes a room of the given game type and returns it.
// Quiz rooms require a non-empty question set; the other game types
// initialize their own content.
func (c *Controller) CreateRoom(ctx context.Context, params CreateParams) (*model.Room, error) {
	if !params.GameType.Valid() {
		return nil, model.ErrInvalidGameType
	}

	now := c.clock.Now()

	// Generate a unique room code, regenerating on collision
	var id model.RoomID
	for {
		id = model.RoomID(c.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := c.storage.RoomExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	maxRounds := params.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	room := &model.Room{
		ID:           id,
		GameType:     params.GameType,
		Status:       model.RoomStatusWaiting,
		Players:      []model.Player{},
		Scores:       make(map[model.PlayerID]*model.ScoreRecord),
		ReadyPlayers: make(map[model.PlayerID]bool),
		MaxRounds:    maxRounds,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch params.GameType {
	case model.GameTypeQuiz:
		if len(params.Questions) == 0 {
			return nil, model.ErrMissingContent
		}
		room.Quiz = &model.QuizContent{
			Questions:  params.Questions,
			SourceText: params.Source,
		}
	case model.GameTypeTongueTwister:
		phrases := make([]string, len(DefaultPhrases))
		copy(phrases, DefaultPhrases)
		room.Twister = &model.TwisterContent{
			CurrentPhrase: phrases[c.random.Intn(len(phrases))],
			Phrases:       phrases,
		}
	case model.GameTypeTicTacToe:
		room.TicTacToe = &model.TicTacToeContent{
			Symbols: make(map[model.PlayerID]string),
		}
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room", string(id)),
		slog.String("game_type", string(params.GameType)),
		slog.Int("max_rounds", maxRounds),
	)

	return room, nil
}

// SetScheduler attaches the timer registry consulted on room deletion.
// Set after construction because the engine is built on top of this
// controller.
func (c *Controller) SetScheduler(s Scheduler) {
	c.scheduler = s
}

// GetRoom retrieves a room snapshot by id
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// DeleteIfEmpty removes the room when its roster is empty and tears down
// its broadcast topic. Invoked after every roster removal; rooms disappear
// only as a direct consequence of a leave or disconnect, uniformly across
// all game types.
func (c *Controller) DeleteIfEmpty(ctx context.Context, id model.RoomID) (bool, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return false, nil // Already gone; duplicate disconnects land here
		}
		return false, err
	}

	if len(room.Players) > 0 {
		return false, nil
	}

	if err := c.storage.DeleteRoom(ctx, id); err != nil {
		return false, err
	}
	if c.scheduler != nil {
		c.scheduler.CancelRoom(id)
	}
	c.broadcaster.CloseRoom(id)

	c.logger.Info("empty room deleted", slog.String("room", string(id)))
	return true, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, params CreateParams) (*model.Room, error)
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteIfEmpty(ctx context.Context, id model.RoomID) (bool, error)
}

var _ ControllerInterface = (*Controller)(nil)
