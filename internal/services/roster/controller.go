package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playroom-games/playroom/internal/dependencies/clock"
	"github.com/playroom-games/playroom/internal/dependencies/random"
	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
	"github.com/playroom-games/playroom/internal/services/room"
	"github.com/playroom-games/playroom/internal/storage"
)

// AdvanceNotifier is told when a room's roster shrinks, so round progress
// blocked on the departed player can resume
type AdvanceNotifier interface {
	ResumeAdvance(ctx context.Context, roomID model.RoomID)
}

// Controller manages room membership: joins, leaves, and the full-sweep
// removal that runs when a connection drops
type Controller struct {
	storage     storage.Storage
	rooms       room.ControllerInterface
	broadcaster realtime.Broadcaster
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
	notifier    AdvanceNotifier
}

// NewController creates a new roster controller
func NewController(
	storage storage.Storage,
	rooms room.ControllerInterface,
	broadcaster realtime.Broadcaster,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:     storage,
		rooms:       rooms,
		broadcaster: broadcaster,
		clock:       clock,
		random:      random,
		logger:      logger,
	}
}

// SetAdvanceNotifier wires the game engine in after construction; the
// engine is built on top of this controller, so it cannot be a
// constructor argument.
func (c *Controller) SetAdvanceNotifier(n AdvanceNotifier) {
	c.notifier = n
}

// Join adds a player to a room. The first player to join becomes host.
// In tic-tac-toe rooms the first joiner plays X, the second plays O, and
// the arrival of the second player activates the game with X to move.
// Joining a room the player is already in is rejected rather than duplicated.
func (c *Controller) Join(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, displayName string) (*model.Room, error) {
	if displayName == "" {
		displayName = fmt.Sprintf("Player-%03d", c.random.Intn(1000))
	}

	var activated bool
	updated, err := c.storage.UpdateRoom(ctx, roomID, func(r *model.Room) error {
		if r.HasPlayer(playerID) {
			return model.ErrAlreadyInRoom
		}
		if limit := r.Capacity(); limit > 0 && len(r.Players) >= limit {
			return model.ErrRoomFull
		}

		player := model.Player{
			ID:          playerID,
			DisplayName: displayName,
			IsHost:      len(r.Players) == 0,
			JoinedAt:    c.clock.Now(),
		}
		r.Players = append(r.Players, player)
		r.Scores[playerID] = &model.ScoreRecord{
			PlayerID:    playerID,
			DisplayName: displayName,
		}

		if r.GameType == model.GameTypeTicTacToe {
			symbol := model.SymbolX
			if len(r.Players) == 2 {
				symbol = model.SymbolO
			}
			r.TicTacToe.Symbols[playerID] = symbol

			// Second player completes the pairing; X opens
			if len(r.Players) == 2 && r.Status == model.RoomStatusWaiting {
				r.Status = model.RoomStatusActive
				r.TicTacToe.CurrentPlayer = r.Players[0].ID
				activated = true
			}
		}

		r.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("room", string(roomID)),
		slog.String("player_id", string(playerID)),
		slog.String("display_name", displayName),
		slog.Int("player_count", len(updated.Players)),
	)

	c.broadcaster.Publish(roomID, realtime.Message{
		Type: model.EventPlayerJoined,
		Payload: model.PlayerJoinedPayload{
			PlayerID:    playerID,
			PlayerName:  displayName,
			Players:     updated.Players,
			PlayerCount: len(updated.Players),
		},
	})
	c.broadcaster.SendTo(roomID, playerID, realtime.Message{
		Type: model.EventRoomInfo,
		Payload: model.RoomInfoPayload{
			RoomID:   updated.ID,
			GameType: updated.GameType,
			Players:  updated.Players,
			Scores:   updated.ScoreList(),
			Status:   updated.Status,
		},
	})

	if activated {
		c.broadcaster.Publish(roomID, realtime.Message{
			Type: model.EventGameStarted,
			Payload: model.GameStartedPayload{
				Status:        updated.Status,
				CurrentPlayer: updated.TicTacToe.CurrentPlayer,
				Players:       updated.Players,
			},
		})
	}

	return updated, nil
}

// Leave removes a player from a single room and deletes the room if it is
// left empty. Removing a player who is not a member is a no-op.
func (c *Controller) Leave(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) error {
	updated, err := c.storage.UpdateRoom(ctx, roomID, func(r *model.Room) error {
		if !r.HasPlayer(playerID) {
			return model.ErrNotInRoom
		}
		removePlayer(r, playerID)
		r.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) || errors.Is(err, model.ErrNotInRoom) {
			return nil
		}
		return err
	}

	c.logger.Info("player left",
		slog.String("room", string(roomID)),
		slog.String("player_id", string(playerID)),
		slog.Int("player_count", len(updated.Players)),
	)

	c.broadcaster.Publish(roomID, realtime.Message{
		Type: model.EventPlayerLeft,
		Payload: model.PlayerLeftPayload{
			PlayerID:    playerID,
			Players:     updated.Players,
			PlayerCount: len(updated.Players),
			Scores:      updated.ScoreList(),
		},
	})

	// The leaver may have been the one everyone was waiting on
	if c.notifier != nil && len(updated.Players) > 0 {
		c.notifier.ResumeAdvance(ctx, roomID)
	}

	_, err = c.rooms.DeleteIfEmpty(ctx, roomID)
	return err
}

// Disconnect removes the player from every room they are a member of.
// Runs on connection teardown, when the specific room is unknown.
func (c *Controller) Disconnect(ctx context.Context, playerID model.PlayerID) error {
	ids, err := c.storage.ListRoomIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		r, err := c.storage.GetRoom(ctx, id)
		if err != nil {
			continue // Room deleted by a concurrent leave
		}
		if !r.HasPlayer(playerID) {
			continue
		}
		if err := c.Leave(ctx, id, playerID); err != nil {
			c.logger.Error("failed to remove disconnected player",
				slog.String("room", string(id)),
				slog.String("player_id", string(playerID)),
				slog.Any("error", err))
		}
	}
	return nil
}

// removePlayer strips a player from the roster and the score and readiness
// maps in one pass so no dangling entries survive
func removePlayer(r *model.Room, playerID model.PlayerID) {
	for i := range r.Players {
		if r.Players[i].ID == playerID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	delete(r.Scores, playerID)
	delete(r.ReadyPlayers, playerID)
	if r.TicTacToe != nil {
		delete(r.TicTacToe.Symbols, playerID)
	}
}

// Interface for dependency injection
type ControllerInterface interface {
	Join(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, displayName string) (*model.Room, error)
	Leave(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) error
	Disconnect(ctx context.Context, playerID model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
