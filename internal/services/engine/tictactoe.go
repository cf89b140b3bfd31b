package engine

import (
	"context"
	"log/slog"

	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
)

// MakeMove applies one tic-tac-toe move. Turn order, cell bounds, and cell
// occupancy are all enforced here; rejected moves leave the board untouched
// and do not flip the turn.
func (c *Controller) MakeMove(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, cell int) (*model.Room, error) {
	var winner model.PlayerID
	var draw bool
	updated, err := c.storage.UpdateRoom(ctx, roomID, func(r *model.Room) error {
		if r.GameType != model.GameTypeTicTacToe {
			return model.ErrInvalidGameType
		}
		if r.Status == model.RoomStatusCompleted {
			return model.ErrGameComplete
		}
		if r.Status != model.RoomStatusActive {
			return model.ErrGameNotActive
		}
		if !r.HasPlayer(playerID) {
			return model.ErrNotInRoom
		}
		if cell < 0 || cell >= len(r.TicTacToe.Cells) {
			return model.ErrInvalidCell
		}
		board := r.TicTacToe
		if board.CurrentPlayer != playerID {
			return model.ErrNotPlayerTurn
		}
		if board.Cells[cell] != "" {
			return model.ErrCellOccupied
		}

		board.Cells[cell] = board.Symbols[playerID]

		switch {
		case board.CheckWinner() != "":
			board.Winner = playerID
			winner = playerID
			completeRoom(r)
		case board.IsFull():
			board.Draw = true
			draw = true
			completeRoom(r)
		default:
			for _, p := range r.Players {
				if p.ID != playerID {
					board.CurrentPlayer = p.ID
					break
				}
			}
		}

		r.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("move made",
		slog.String("room", string(roomID)),
		slog.String("player_id", string(playerID)),
		slog.Int("cell", cell),
	)

	c.broadcaster.Publish(roomID, realtime.Message{
		Type: model.EventMoveMade,
		Payload: model.MoveMadePayload{
			Cells:         updated.TicTacToe.Cells,
			CurrentPlayer: updated.TicTacToe.CurrentPlayer,
		},
	})

	switch {
	case winner != "":
		c.logger.Info("tic-tac-toe won",
			slog.String("room", string(roomID)),
			slog.String("winner", string(winner)))
		c.broadcaster.Publish(roomID, realtime.Message{
			Type: model.EventGameOver,
			Payload: model.GameOverPayload{
				Winner: winner,
				Cells:  updated.TicTacToe.Cells,
			},
		})
	case draw:
		c.broadcaster.Publish(roomID, realtime.Message{
			Type:    model.EventGameDraw,
			Payload: model.GameDrawPayload{Cells: updated.TicTacToe.Cells},
		})
	}

	return updated, nil
}
