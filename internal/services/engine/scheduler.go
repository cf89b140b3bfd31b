package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/playroom-games/playroom/internal/model"
)

// scheduleAdvance arms the auto-advance countdown for a room. An existing
// countdown is replaced, never doubled up.
func (c *Controller) scheduleAdvance(roomID model.RoomID) {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	if t, ok := c.timers[roomID]; ok {
		t.Stop()
	}
	c.timers[roomID] = time.AfterFunc(c.countdown, func() {
		c.fireAdvance(roomID)
	})
}

// cancelAdvance stops the room's pending countdown, if any
func (c *Controller) cancelAdvance(roomID model.RoomID) {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	if t, ok := c.timers[roomID]; ok {
		t.Stop()
		delete(c.timers, roomID)
	}
}

// hasPendingAdvance reports whether a countdown is currently armed
func (c *Controller) hasPendingAdvance(roomID model.RoomID) bool {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	_, ok := c.timers[roomID]
	return ok
}

// fireAdvance runs when a countdown expires. The room may have emptied,
// completed, or advanced early in the meantime, so those outcomes are
// expected and not errors.
func (c *Controller) fireAdvance(roomID model.RoomID) {
	c.timersMu.Lock()
	delete(c.timers, roomID)
	c.timersMu.Unlock()

	_, err := c.advanceRound(context.Background(), roomID)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrRoomNotFound),
		errors.Is(err, model.ErrGameNotActive),
		errors.Is(err, errAdvanceNotDue):
		c.logger.Debug("countdown expired for inactive room",
			slog.String("room", string(roomID)))
	default:
		c.logger.Error("auto-advance failed",
			slog.String("room", string(roomID)),
			slog.Any("error", err))
	}
}

// CancelRoom drops any pending countdown for the room. Called when a room
// is deleted so its timer cannot fire against a recycled code.
func (c *Controller) CancelRoom(roomID model.RoomID) {
	c.cancelAdvance(roomID)
}
