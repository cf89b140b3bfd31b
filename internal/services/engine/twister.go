package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
	"github.com/playroom-games/playroom/internal/services/similarity"
)

// errAdvanceNotDue aborts an advance whose trigger no longer holds, such as
// a countdown callback that fires after the all-ready path already moved the
// room to the next round.
var errAdvanceNotDue = errors.New("round advance no longer due")

// SubmitAttempt scores a tongue-twister attempt against the current phrase.
// The score is computed server-side from the attempt text and elapsed time,
// never taken from the client. When the last player submits, a countdown to
// the next round begins and every client is told how long it will run.
func (c *Controller) SubmitAttempt(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, attempt string, elapsedSeconds float64) (*model.Room, error) {
	var accuracy int
	var allIn bool
	updated, err := c.storage.UpdateRoom(ctx, roomID, func(r *model.Room) error {
		if r.GameType != model.GameTypeTongueTwister {
			return model.ErrInvalidGameType
		}
		if r.Status != model.RoomStatusActive {
			return model.ErrGameNotActive
		}
		rec, ok := r.Scores[playerID]
		if !ok {
			return model.ErrNotInRoom
		}

		accuracy = similarity.AccuracyScore(r.Twister.CurrentPhrase, attempt, elapsedSeconds)
		rec.Score += accuracy
		rec.Submitted = true
		allIn = r.AllSubmitted()

		r.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("attempt scored",
		slog.String("room", string(roomID)),
		slog.String("player_id", string(playerID)),
		slog.Int("accuracy", accuracy),
	)

	c.broadcaster.Publish(roomID, realtime.Message{
		Type: model.EventScoreUpdate,
		Payload: model.ScoreUpdatePayload{
			Scores:      updated.ScoreList(),
			LastUpdated: playerID,
		},
	})

	if allIn {
		c.broadcaster.Publish(roomID, realtime.Message{
			Type: model.EventAllSubmitted,
			Payload: model.AllSubmittedPayload{
				NextRoundIn: int(c.countdown.Seconds()),
			},
		})
		c.scheduleAdvance(roomID)
	}

	return updated, nil
}

// ReadyForNextRound records a player's readiness to move on early. Repeat
// calls are harmless. Once every player is ready the pending countdown is
// cancelled and the round advances immediately.
func (c *Controller) ReadyForNextRound(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Room, error) {
	var allReady bool
	updated, err := c.storage.UpdateRoom(ctx, roomID, func(r *model.Room) error {
		if r.GameType != model.GameTypeTongueTwister {
			return model.ErrInvalidGameType
		}
		if r.Status != model.RoomStatusActive {
			return model.ErrGameNotActive
		}
		if !r.HasPlayer(playerID) {
			return model.ErrNotInRoom
		}

		if r.ReadyPlayers == nil {
			r.ReadyPlayers = make(map[model.PlayerID]bool)
		}
		r.ReadyPlayers[playerID] = true
		allReady = r.AllReady()

		r.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if allReady {
		c.cancelAdvance(roomID)
		advanced, err := c.advanceRound(ctx, roomID)
		if errors.Is(err, errAdvanceNotDue) {
			// The countdown beat us to it; the round already moved on
			return c.storage.GetRoom(ctx, roomID)
		}
		return advanced, err
	}
	return updated, nil
}

// advanceRound moves the room to its next round, or completes the game when
// the final round has been played. Aborts quietly if the room is no longer
// active or if nobody is waiting on an advance anymore, which covers
// countdowns that outlive their room or their round.
func (c *Controller) advanceRound(ctx context.Context, roomID model.RoomID) (*model.Room, error) {
	var completed bool
	updated, err := c.storage.UpdateRoom(ctx, roomID, func(r *model.Room) error {
		if r.Status != model.RoomStatusActive {
			return model.ErrGameNotActive
		}
		// Re-check the trigger inside the mutation: a timer callback racing
		// the all-ready path must find the fresh round's cleared flags and
		// stand down instead of advancing twice
		if !r.AllSubmitted() && !r.AllReady() {
			return errAdvanceNotDue
		}

		r.CurrentRound++
		if r.CurrentRound > r.MaxRounds {
			completeRoom(r)
			completed = true
		} else {
			r.Twister.CurrentPhrase = c.nextPhrase(r.Twister)
			for _, rec := range r.Scores {
				rec.Submitted = false
			}
			r.ReadyPlayers = make(map[model.PlayerID]bool)
		}

		r.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		c.logger.Info("tongue-twister completed",
			slog.String("room", string(roomID)),
			slog.String("winner", string(updated.Winner())),
		)
		c.publishCompleted(roomID, updated)
	} else {
		c.broadcaster.Publish(roomID, realtime.Message{
			Type: model.EventRoundUpdated,
			Payload: model.RoundUpdatedPayload{
				CurrentPhrase: updated.Twister.CurrentPhrase,
				CurrentRound:  updated.CurrentRound,
				MaxRounds:     updated.MaxRounds,
			},
		})
	}

	return updated, nil
}

// ResumeAdvance re-checks a tongue-twister room's round progress after its
// roster shrinks. The departed player may have been the last hold-out, in
// which case the remaining players get the countdown, or the immediate
// advance, they were waiting on.
func (c *Controller) ResumeAdvance(ctx context.Context, roomID model.RoomID) {
	r, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return
	}
	if r.GameType != model.GameTypeTongueTwister || r.Status != model.RoomStatusActive {
		return
	}

	switch {
	case r.AllReady():
		c.cancelAdvance(roomID)
		if _, err := c.advanceRound(ctx, roomID); err != nil && !errors.Is(err, errAdvanceNotDue) {
			c.logger.Error("advance after roster change failed",
				slog.String("room", string(roomID)),
				slog.Any("error", err))
		}
	case r.AllSubmitted():
		if c.hasPendingAdvance(roomID) {
			return
		}
		c.broadcaster.Publish(roomID, realtime.Message{
			Type: model.EventAllSubmitted,
			Payload: model.AllSubmittedPayload{
				NextRoundIn: int(c.countdown.Seconds()),
			},
		})
		c.scheduleAdvance(roomID)
	}
}

// nextPhrase draws a phrase different from the current one when the pool
// allows it
func (c *Controller) nextPhrase(t *model.TwisterContent) string {
	candidates := make([]string, 0, len(t.Phrases))
	for _, p := range t.Phrases {
		if p != t.CurrentPhrase {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return t.CurrentPhrase
	}
	return candidates[c.random.Intn(len(candidates))]
}
