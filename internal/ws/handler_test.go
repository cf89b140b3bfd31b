package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/playroom-games/playroom/internal/dependencies/clock"
	"github.com/playroom-games/playroom/internal/dependencies/random"
	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
	"github.com/playroom-games/playroom/internal/services/engine"
	"github.com/playroom-games/playroom/internal/services/room"
	"github.com/playroom-games/playroom/internal/services/roster"
	"github.com/playroom-games/playroom/internal/storage/memory"
	"github.com/playroom-games/playroom/internal/testutil"
)

type event struct {
	Type    model.EventType `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type WSSuite struct {
	suite.Suite
	server *httptest.Server
	rooms  *room.Controller
	ctx    context.Context
}

func TestWSSuite(t *testing.T) {
	suite.Run(t, new(WSSuite))
}

func (s *WSSuite) SetupTest() {
	store := memory.New()
	logger := testutil.NopLogger()
	hubs := realtime.NewHubManager(logger)
	clk := clock.New()
	rnd := random.New()

	s.rooms = room.NewController(store, hubs, clk, rnd, logger)
	rosterCtrl := roster.NewController(store, s.rooms, hubs, clk, rnd, logger)
	engineCtrl := engine.NewController(store, hubs, clk, rnd, logger, time.Second)
	rosterCtrl.SetAdvanceNotifier(engineCtrl)

	handler := NewHandler(s.rooms, rosterCtrl, engineCtrl, hubs, logger)
	s.server = httptest.NewServer(handler)
	s.ctx = context.Background()
}

func (s *WSSuite) TearDownTest() {
	s.server.Close()
}

func (s *WSSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { conn.Close() })
	return conn
}

func (s *WSSuite) send(conn *websocket.Conn, cmdType string, payload any) {
	data, err := json.Marshal(payload)
	s.Require().NoError(err)
	s.Require().NoError(conn.WriteJSON(command{Type: cmdType, Payload: data}))
}

// recv reads events until one of the given type arrives, skipping others
func (s *WSSuite) recv(conn *websocket.Conn, want model.EventType) event {
	deadline := time.Now().Add(2 * time.Second)
	conn.SetReadDeadline(deadline)
	for {
		var ev event
		s.Require().NoError(conn.ReadJSON(&ev), "waiting for %s", want)
		if ev.Type == want {
			return ev
		}
		s.Require().True(time.Now().Before(deadline), "timed out waiting for %s", want)
	}
}

func (s *WSSuite) createTicTacToeRoom() model.RoomID {
	r, err := s.rooms.CreateRoom(s.ctx, room.CreateParams{GameType: model.GameTypeTicTacToe})
	s.Require().NoError(err)
	return r.ID
}

func (s *WSSuite) TestJoinUnknownRoom() {
	conn := s.dial()
	s.send(conn, cmdJoinRoom, joinPayload{RoomID: "NOPE00", PlayerName: "Alice"})

	ev := s.recv(conn, model.EventError)
	var payload model.ErrorPayload
	s.Require().NoError(json.Unmarshal(ev.Payload, &payload))
	s.Equal("Room not found", payload.Message)
}

func (s *WSSuite) TestJoinDeliversRoomInfo() {
	r, err := s.rooms.CreateRoom(s.ctx, room.CreateParams{GameType: model.GameTypeTongueTwister})
	s.Require().NoError(err)

	conn := s.dial()
	s.send(conn, cmdJoinRoom, joinPayload{RoomID: r.ID, PlayerName: "Alice"})

	ev := s.recv(conn, model.EventRoomInfo)
	var payload model.RoomInfoPayload
	s.Require().NoError(json.Unmarshal(ev.Payload, &payload))
	s.Equal(r.ID, payload.RoomID)
	s.Equal(model.GameTypeTongueTwister, payload.GameType)
	s.Require().Len(payload.Players, 1)
	s.Equal("Alice", payload.Players[0].DisplayName)
}

func (s *WSSuite) TestJoinIsBroadcastToExistingPlayers() {
	roomID := s.createTicTacToeRoom()

	first := s.dial()
	s.send(first, cmdJoinRoom, joinPayload{RoomID: roomID, PlayerName: "Alice"})
	s.recv(first, model.EventRoomInfo)

	second := s.dial()
	s.send(second, cmdJoinRoom, joinPayload{RoomID: roomID, PlayerName: "Bob"})

	ev := s.recv(first, model.EventPlayerJoined)
	var payload model.PlayerJoinedPayload
	s.Require().NoError(json.Unmarshal(ev.Payload, &payload))
	s.Equal("Bob", payload.PlayerName)
	s.Equal(2, payload.PlayerCount)
}

func (s *WSSuite) TestTicTacToeGameOverWebsocket() {
	roomID := s.createTicTacToeRoom()

	alice := s.dial()
	s.send(alice, cmdJoinRoom, joinPayload{RoomID: roomID, PlayerName: "Alice"})
	s.recv(alice, model.EventRoomInfo)

	bob := s.dial()
	s.send(bob, cmdJoinRoom, joinPayload{RoomID: roomID, PlayerName: "Bob"})
	s.recv(bob, model.EventRoomInfo)

	// Second join auto-starts the game with the first joiner to move
	started := s.recv(alice, model.EventGameStarted)
	var startPayload model.GameStartedPayload
	s.Require().NoError(json.Unmarshal(started.Payload, &startPayload))
	s.Equal(model.RoomStatusActive, startPayload.Status)

	// Alice is X and plays the top row; Bob answers on the middle row
	cells := []struct {
		conn *websocket.Conn
		cell int
	}{
		{alice, 0}, {bob, 3}, {alice, 1}, {bob, 4}, {alice, 2},
	}
	for _, m := range cells {
		s.send(m.conn, cmdMakeMove, movePayload{RoomID: roomID, Cell: m.cell})
		s.recv(alice, model.EventMoveMade)
	}

	over := s.recv(bob, model.EventGameOver)
	var payload model.GameOverPayload
	s.Require().NoError(json.Unmarshal(over.Payload, &payload))
	s.Equal(model.SymbolX, payload.Cells[0])
	s.Equal(model.SymbolX, payload.Cells[1])
	s.Equal(model.SymbolX, payload.Cells[2])
}

func (s *WSSuite) TestMoveOutOfTurnGetsInvalidMove() {
	roomID := s.createTicTacToeRoom()

	alice := s.dial()
	s.send(alice, cmdJoinRoom, joinPayload{RoomID: roomID, PlayerName: "Alice"})
	s.recv(alice, model.EventRoomInfo)

	bob := s.dial()
	s.send(bob, cmdJoinRoom, joinPayload{RoomID: roomID, PlayerName: "Bob"})
	s.recv(bob, model.EventGameStarted)

	// Bob plays O and tries to move first
	s.send(bob, cmdMakeMove, movePayload{RoomID: roomID, Cell: 0})

	ev := s.recv(bob, model.EventInvalidMove)
	var payload model.ErrorPayload
	s.Require().NoError(json.Unmarshal(ev.Payload, &payload))
	s.Equal("Not your turn", payload.Message)
}

func (s *WSSuite) TestDisconnectSweepsPlayerOut() {
	roomID := s.createTicTacToeRoom()

	alice := s.dial()
	s.send(alice, cmdJoinRoom, joinPayload{RoomID: roomID, PlayerName: "Alice"})
	s.recv(alice, model.EventRoomInfo)

	bob := s.dial()
	s.send(bob, cmdJoinRoom, joinPayload{RoomID: roomID, PlayerName: "Bob"})
	s.recv(bob, model.EventRoomInfo)

	bob.Close()

	ev := s.recv(alice, model.EventPlayerLeft)
	var payload model.PlayerLeftPayload
	s.Require().NoError(json.Unmarshal(ev.Payload, &payload))
	s.Equal(1, payload.PlayerCount)
}

func (s *WSSuite) TestUnknownCommandType() {
	conn := s.dial()
	s.Require().NoError(conn.WriteJSON(command{Type: "do-a-flip"}))

	ev := s.recv(conn, model.EventError)
	var payload model.ErrorPayload
	s.Require().NoError(json.Unmarshal(ev.Payload, &payload))
	s.Contains(payload.Message, "unknown message type")
}
