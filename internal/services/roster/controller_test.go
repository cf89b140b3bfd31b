package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/playroom-games/playroom/internal/dependencies/mocks"
	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/services/room"
	"github.com/playroom-games/playroom/internal/storage/memory"
	"github.com/playroom-games/playroom/internal/testutil"
)

type RosterSuite struct {
	suite.Suite
	storage     *memory.Storage
	clock       *mocks.MockClock
	random      *mocks.MockRandom
	broadcaster *testutil.RecordingBroadcaster
	rooms       *room.Controller
	controller  *Controller
	ctx         context.Context
}

func TestRosterSuite(t *testing.T) {
	suite.Run(t, new(RosterSuite))
}

func (s *RosterSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.broadcaster = testutil.NewRecordingBroadcaster()
	logger := testutil.NopLogger()
	s.rooms = room.NewController(s.storage, s.broadcaster, s.clock, s.random, logger)
	s.controller = NewController(s.storage, s.rooms, s.broadcaster, s.clock, s.random, logger)
	s.ctx = context.Background()
}

func (s *RosterSuite) createRoom(id string, gameType model.GameType) {
	r := &model.Room{
		ID:           model.RoomID(id),
		GameType:     gameType,
		Status:       model.RoomStatusWaiting,
		Players:      []model.Player{},
		Scores:       make(map[model.PlayerID]*model.ScoreRecord),
		ReadyPlayers: make(map[model.PlayerID]bool),
		MaxRounds:    5,
	}
	switch gameType {
	case model.GameTypeQuiz:
		r.Quiz = &model.QuizContent{Questions: []model.Question{
			{Question: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1},
		}}
	case model.GameTypeTongueTwister:
		r.Twister = &model.TwisterContent{
			CurrentPhrase: "she sells seashells",
			Phrases:       []string{"she sells seashells", "peter piper"},
		}
	case model.GameTypeTicTacToe:
		r.TicTacToe = &model.TicTacToeContent{Symbols: make(map[model.PlayerID]string)}
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, r))
}

func (s *RosterSuite) TestFirstJoinerBecomesHost() {
	s.createRoom("ABC123", model.GameTypeQuiz)

	r, err := s.controller.Join(s.ctx, "ABC123", "p1", "Alice")
	s.Require().NoError(err)

	s.Require().Len(r.Players, 1)
	s.True(r.Players[0].IsHost)
	s.Equal("Alice", r.Players[0].DisplayName)
	s.Require().Contains(r.Scores, model.PlayerID("p1"))
	s.Equal(0, r.Scores["p1"].Score)
	s.False(r.Scores["p1"].Submitted)
}

func (s *RosterSuite) TestSecondJoinerIsNotHost() {
	s.createRoom("ABC123", model.GameTypeQuiz)
	_, err := s.controller.Join(s.ctx, "ABC123", "p1", "Alice")
	s.Require().NoError(err)

	r, err := s.controller.Join(s.ctx, "ABC123", "p2", "Bob")
	s.Require().NoError(err)

	s.Require().Len(r.Players, 2)
	s.False(r.Players[1].IsHost)
}

func (s *RosterSuite) TestJoinMissingRoom() {
	_, err := s.controller.Join(s.ctx, "NOPE00", "p1", "Alice")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RosterSuite) TestJoinTwiceRejected() {
	s.createRoom("ABC123", model.GameTypeQuiz)
	_, err := s.controller.Join(s.ctx, "ABC123", "p1", "Alice")
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, "ABC123", "p1", "Alice")
	s.ErrorIs(err, model.ErrAlreadyInRoom)
}

func (s *RosterSuite) TestJoinGeneratesDisplayName() {
	s.createRoom("ABC123", model.GameTypeQuiz)
	s.random.QueueIntn(42)

	r, err := s.controller.Join(s.ctx, "ABC123", "p1", "")
	s.Require().NoError(err)
	s.Equal("Player-042", r.Players[0].DisplayName)
}

func (s *RosterSuite) TestJoinBroadcastsAndSendsRoomInfo() {
	s.createRoom("ABC123", model.GameTypeQuiz)

	_, err := s.controller.Join(s.ctx, "ABC123", "p1", "Alice")
	s.Require().NoError(err)

	joined := s.broadcaster.PublishedOfType(model.EventPlayerJoined)
	s.Require().Len(joined, 1)
	payload := joined[0].Message.Payload.(model.PlayerJoinedPayload)
	s.Equal(model.PlayerID("p1"), payload.PlayerID)
	s.Equal(1, payload.PlayerCount)

	info := s.broadcaster.PublishedOfType(model.EventRoomInfo)
	s.Require().Len(info, 1)
	s.Equal(model.PlayerID("p1"), info[0].PlayerID, "room-info goes only to the joiner")
}

func (s *RosterSuite) TestTicTacToeSymbolsAndAutoStart() {
	s.createRoom("TTT000", model.GameTypeTicTacToe)

	_, err := s.controller.Join(s.ctx, "TTT000", "p1", "Alice")
	s.Require().NoError(err)
	r, err := s.storage.GetRoom(s.ctx, "TTT000")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusWaiting, r.Status)
	s.Equal(model.SymbolX, r.TicTacToe.Symbols["p1"])

	r, err = s.controller.Join(s.ctx, "TTT000", "p2", "Bob")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusActive, r.Status)
	s.Equal(model.SymbolO, r.TicTacToe.Symbols["p2"])
	s.Equal(model.PlayerID("p1"), r.TicTacToe.CurrentPlayer)

	started := s.broadcaster.PublishedOfType(model.EventGameStarted)
	s.Require().Len(started, 1)
	s.Equal(model.PlayerID("p1"), started[0].Message.Payload.(model.GameStartedPayload).CurrentPlayer)
}

func (s *RosterSuite) TestTicTacToeThirdJoinerRejected() {
	s.createRoom("TTT000", model.GameTypeTicTacToe)
	_, err := s.controller.Join(s.ctx, "TTT000", "p1", "Alice")
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, "TTT000", "p2", "Bob")
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, "TTT000", "p3", "Carol")
	s.ErrorIs(err, model.ErrRoomFull)
}

func (s *RosterSuite) TestLeaveRemovesAllTraces() {
	s.createRoom("ABC123", model.GameTypeTongueTwister)
	_, err := s.controller.Join(s.ctx, "ABC123", "p1", "Alice")
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, "ABC123", "p2", "Bob")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.Leave(s.ctx, "ABC123", "p1"))

	r, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Len(r.Players, 1)
	s.NotContains(r.Scores, model.PlayerID("p1"))
	s.NotContains(r.ReadyPlayers, model.PlayerID("p1"))

	left := s.broadcaster.PublishedOfType(model.EventPlayerLeft)
	s.Require().Len(left, 1)
	s.Equal(1, left[0].Message.Payload.(model.PlayerLeftPayload).PlayerCount)
}

func (s *RosterSuite) TestLastLeaveDeletesRoom() {
	s.createRoom("ABC123", model.GameTypeQuiz)
	_, err := s.controller.Join(s.ctx, "ABC123", "p1", "Alice")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.Leave(s.ctx, "ABC123", "p1"))

	_, err = s.storage.GetRoom(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)
	s.Contains(s.broadcaster.ClosedRooms(), model.RoomID("ABC123"))
}

func (s *RosterSuite) TestLeaveIsIdempotent() {
	s.createRoom("ABC123", model.GameTypeQuiz)
	_, err := s.controller.Join(s.ctx, "ABC123", "p1", "Alice")
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, "ABC123", "p2", "Bob")
	s.Require().NoError(err)

	s.NoError(s.controller.Leave(s.ctx, "ABC123", "p1"))
	s.NoError(s.controller.Leave(s.ctx, "ABC123", "p1"))
	s.NoError(s.controller.Leave(s.ctx, "NOPE00", "p1"))
}

func (s *RosterSuite) TestDisconnectSweepsAllRooms() {
	s.createRoom("ABC123", model.GameTypeQuiz)
	s.createRoom("XYZ789", model.GameTypeTongueTwister)
	_, err := s.controller.Join(s.ctx, "ABC123", "p1", "Alice")
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, "XYZ789", "p1", "Alice")
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, "XYZ789", "p2", "Bob")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.Disconnect(s.ctx, "p1"))

	// ABC123 emptied and deleted; XYZ789 keeps Bob
	_, err = s.storage.GetRoom(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)

	r, err := s.storage.GetRoom(s.ctx, "XYZ789")
	s.Require().NoError(err)
	s.Require().Len(r.Players, 1)
	s.Equal(model.PlayerID("p2"), r.Players[0].ID)
}
