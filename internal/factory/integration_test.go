package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/services/room"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Full quiz flow: create, join, start, answer, finish, standings
func (s *IntegrationSuite) TestCompleteQuizFlow() {
	s.app.MockRandom.QueueString("QUIZ01")

	created, err := s.app.RoomController.CreateRoom(s.ctx, room.CreateParams{
		GameType:  model.GameTypeQuiz,
		Questions: []model.Question{
			{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1},
			{Question: "3+3?", Options: []string{"6", "7"}, CorrectAnswer: 0},
		},
	})
	s.Require().NoError(err)

	_, err = s.app.RosterController.Join(s.ctx, created.ID, "alice", "Alice")
	s.Require().NoError(err)
	_, err = s.app.RosterController.Join(s.ctx, created.ID, "bob", "Bob")
	s.Require().NoError(err)

	_, err = s.app.EngineController.StartGame(s.ctx, created.ID, "alice")
	s.Require().NoError(err)

	// Alice gets both right, Bob gets one
	_, err = s.app.EngineController.SubmitAnswer(s.ctx, created.ID, "alice", 0, 1)
	s.Require().NoError(err)
	_, err = s.app.EngineController.SubmitAnswer(s.ctx, created.ID, "alice", 1, 0)
	s.Require().NoError(err)
	_, err = s.app.EngineController.SubmitAnswer(s.ctx, created.ID, "bob", 0, 1)
	s.Require().NoError(err)
	_, err = s.app.EngineController.SubmitAnswer(s.ctx, created.ID, "bob", 1, 1)
	s.Require().NoError(err)

	_, err = s.app.EngineController.SubmitFinalScore(s.ctx, created.ID, "alice", 2)
	s.Require().NoError(err)
	final, err := s.app.EngineController.SubmitFinalScore(s.ctx, created.ID, "bob", 2)
	s.Require().NoError(err)

	s.Equal(model.RoomStatusCompleted, final.Status)
	s.Equal(model.PlayerID("alice"), final.Winner())
	s.Equal(20, final.Scores["alice"].Score)
	s.Equal(10, final.Scores["bob"].Score)
}

// Full tongue-twister flow relying on the auto-advance countdown
func (s *IntegrationSuite) TestTwisterAutoAdvanceFlow() {
	s.app.MockRandom.QueueString("TWIST1")
	s.app.MockRandom.QueueIntn(0, 0)

	created, err := s.app.RoomController.CreateRoom(s.ctx, room.CreateParams{
		GameType:  model.GameTypeTongueTwister,
		MaxRounds: 2,
	})
	s.Require().NoError(err)

	_, err = s.app.RosterController.Join(s.ctx, created.ID, "alice", "Alice")
	s.Require().NoError(err)
	_, err = s.app.RosterController.Join(s.ctx, created.ID, "bob", "Bob")
	s.Require().NoError(err)

	started, err := s.app.EngineController.StartGame(s.ctx, created.ID, "alice")
	s.Require().NoError(err)
	phrase := started.Twister.CurrentPhrase

	_, err = s.app.EngineController.SubmitAttempt(s.ctx, created.ID, "alice", phrase, 1)
	s.Require().NoError(err)
	_, err = s.app.EngineController.SubmitAttempt(s.ctx, created.ID, "bob", phrase, 5)
	s.Require().NoError(err)

	// Nobody readies up; the countdown advances the round on its own
	s.Require().Eventually(func() bool {
		r, err := s.app.Storage.GetRoom(s.ctx, created.ID)
		return err == nil && r.CurrentRound == 2
	}, time.Second, 5*time.Millisecond)

	r, err := s.app.Storage.GetRoom(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusActive, r.Status)
	s.False(r.Scores["alice"].Submitted)
}

// Tic-tac-toe flow: auto-start on second join, X wins, room cleanup on leave
func (s *IntegrationSuite) TestTicTacToeFlow() {
	s.app.MockRandom.QueueString("TTT001")

	created, err := s.app.RoomController.CreateRoom(s.ctx, room.CreateParams{
		GameType: model.GameTypeTicTacToe,
	})
	s.Require().NoError(err)

	_, err = s.app.RosterController.Join(s.ctx, created.ID, "alice", "Alice")
	s.Require().NoError(err)
	joined, err := s.app.RosterController.Join(s.ctx, created.ID, "bob", "Bob")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusActive, joined.Status)

	for _, m := range []struct {
		player model.PlayerID
		cell   int
	}{{"alice", 0}, {"bob", 3}, {"alice", 1}, {"bob", 4}, {"alice", 2}} {
		_, err = s.app.EngineController.MakeMove(s.ctx, created.ID, m.player, m.cell)
		s.Require().NoError(err)
	}

	r, err := s.app.Storage.GetRoom(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusCompleted, r.Status)
	s.Equal(model.PlayerID("alice"), r.TicTacToe.Winner)

	s.Require().NoError(s.app.RosterController.Disconnect(s.ctx, "alice"))
	s.Require().NoError(s.app.RosterController.Disconnect(s.ctx, "bob"))

	_, err = s.app.Storage.GetRoom(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// A leave that makes the remaining players all-submitted starts the countdown
func (s *IntegrationSuite) TestLeaveUnblocksAutoAdvance() {
	s.app.MockRandom.QueueString("TWIST1")
	s.app.MockRandom.QueueIntn(0, 0)

	created, err := s.app.RoomController.CreateRoom(s.ctx, room.CreateParams{
		GameType:  model.GameTypeTongueTwister,
		MaxRounds: 3,
	})
	s.Require().NoError(err)

	_, err = s.app.RosterController.Join(s.ctx, created.ID, "alice", "Alice")
	s.Require().NoError(err)
	_, err = s.app.RosterController.Join(s.ctx, created.ID, "bob", "Bob")
	s.Require().NoError(err)
	_, err = s.app.RosterController.Join(s.ctx, created.ID, "carol", "Carol")
	s.Require().NoError(err)

	started, err := s.app.EngineController.StartGame(s.ctx, created.ID, "alice")
	s.Require().NoError(err)
	phrase := started.Twister.CurrentPhrase

	_, err = s.app.EngineController.SubmitAttempt(s.ctx, created.ID, "alice", phrase, 1)
	s.Require().NoError(err)
	_, err = s.app.EngineController.SubmitAttempt(s.ctx, created.ID, "bob", phrase, 2)
	s.Require().NoError(err)

	// Carol bails without submitting; the round must not stall on her
	s.Require().NoError(s.app.RosterController.Leave(s.ctx, created.ID, "carol"))

	s.Require().Eventually(func() bool {
		r, err := s.app.Storage.GetRoom(s.ctx, created.ID)
		return err == nil && r.CurrentRound == 2
	}, time.Second, 5*time.Millisecond)
}

// A room emptied mid-countdown must not come back to life when the timer fires
func (s *IntegrationSuite) TestCountdownAgainstDeletedRoom() {
	s.app.MockRandom.QueueString("TWIST1")
	s.app.MockRandom.QueueIntn(0)

	created, err := s.app.RoomController.CreateRoom(s.ctx, room.CreateParams{
		GameType: model.GameTypeTongueTwister,
	})
	s.Require().NoError(err)

	_, err = s.app.RosterController.Join(s.ctx, created.ID, "alice", "Alice")
	s.Require().NoError(err)
	_, err = s.app.RosterController.Join(s.ctx, created.ID, "bob", "Bob")
	s.Require().NoError(err)
	_, err = s.app.EngineController.StartGame(s.ctx, created.ID, "alice")
	s.Require().NoError(err)

	_, err = s.app.EngineController.SubmitAttempt(s.ctx, created.ID, "alice", "x", 0)
	s.Require().NoError(err)
	_, err = s.app.EngineController.SubmitAttempt(s.ctx, created.ID, "bob", "x", 0)
	s.Require().NoError(err)

	// Both players drop before the countdown expires
	s.Require().NoError(s.app.RosterController.Disconnect(s.ctx, "alice"))
	s.Require().NoError(s.app.RosterController.Disconnect(s.ctx, "bob"))

	time.Sleep(150 * time.Millisecond)
	_, err = s.app.Storage.GetRoom(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Generated names are used when a joiner gives no display name
func (s *IntegrationSuite) TestGeneratedDisplayName() {
	s.app.MockRandom.QueueString("TWIST1")
	s.app.MockRandom.QueueIntn(0, 7)

	created, err := s.app.RoomController.CreateRoom(s.ctx, room.CreateParams{
		GameType: model.GameTypeTongueTwister,
	})
	s.Require().NoError(err)

	joined, err := s.app.RosterController.Join(s.ctx, created.ID, "anon", "")
	s.Require().NoError(err)
	s.Equal("Player-007", joined.Players[0].DisplayName)
}
