package engine

import (
	"context"
	"log/slog"

	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
)

// pointsPerCorrectAnswer is awarded for each correct quiz answer
const pointsPerCorrectAnswer = 10

// SubmitAnswer grades one quiz answer server-side. Correct answers award a
// fixed number of points; incorrect answers change nothing but still
// produce a score-update so clients stay in sync.
func (c *Controller) SubmitAnswer(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, questionID, answerIndex int) (*model.Room, error) {
	var correct bool
	updated, err := c.storage.UpdateRoom(ctx, roomID, func(r *model.Room) error {
		if r.GameType != model.GameTypeQuiz {
			return model.ErrInvalidGameType
		}
		if r.Status != model.RoomStatusActive {
			return model.ErrGameNotActive
		}
		rec, ok := r.Scores[playerID]
		if !ok {
			return model.ErrNotInRoom
		}
		if questionID < 0 || questionID >= len(r.Quiz.Questions) {
			return model.ErrQuestionNotFound
		}

		if r.Quiz.Questions[questionID].CorrectAnswer == answerIndex {
			rec.Score += pointsPerCorrectAnswer
			correct = true
		}
		r.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("answer submitted",
		slog.String("room", string(roomID)),
		slog.String("player_id", string(playerID)),
		slog.Int("question_id", questionID),
		slog.Bool("correct", correct),
	)

	c.broadcaster.Publish(roomID, realtime.Message{
		Type: model.EventScoreUpdate,
		Payload: model.ScoreUpdatePayload{
			Scores:      updated.ScoreList(),
			LastUpdated: playerID,
			QuestionID:  questionID,
		},
	})

	return updated, nil
}

// SubmitFinalScore marks a quiz player as finished with all questions.
// When every player has finished and at least two are present, the game
// completes and final standings go out. A lone player waits for company
// before the room can complete.
func (c *Controller) SubmitFinalScore(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, totalQuestions int) (*model.Room, error) {
	var completed bool
	updated, err := c.storage.UpdateRoom(ctx, roomID, func(r *model.Room) error {
		if r.GameType != model.GameTypeQuiz {
			return model.ErrInvalidGameType
		}
		if r.Status != model.RoomStatusActive {
			return model.ErrGameNotActive
		}
		rec, ok := r.Scores[playerID]
		if !ok {
			return model.ErrNotInRoom
		}

		rec.Submitted = true
		rec.TotalQuestions = totalQuestions

		if r.AllSubmitted() && len(r.Players) >= 2 {
			completeRoom(r)
			completed = true
		}
		r.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.broadcaster.Publish(roomID, realtime.Message{
		Type: model.EventScoreUpdate,
		Payload: model.ScoreUpdatePayload{
			Scores:      updated.ScoreList(),
			LastUpdated: playerID,
		},
	})

	if completed {
		c.logger.Info("quiz completed",
			slog.String("room", string(roomID)),
			slog.String("winner", string(updated.Winner())),
		)
		c.publishCompleted(roomID, updated)
	}

	return updated, nil
}
