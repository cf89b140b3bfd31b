package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
	"github.com/playroom-games/playroom/internal/services/engine"
	"github.com/playroom-games/playroom/internal/services/room"
	"github.com/playroom-games/playroom/internal/services/roster"
)

// Inbound command types accepted from clients
const (
	cmdJoinRoom          = "join-room"
	cmdStartGame         = "start-game"
	cmdSubmitAnswer      = "submit-answer"
	cmdSubmitFinalScore  = "submit-final-score"
	cmdSubmitScore       = "submit-score"
	cmdReadyForNextRound = "ready-for-next-round"
	cmdMakeMove          = "make-move"
	cmdLeaveRoom         = "leave-room"
)

// command is the inbound wire envelope
type command struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	RoomID     model.RoomID `json:"room_id"`
	PlayerName string       `json:"player_name"`
}

type roomPayload struct {
	RoomID model.RoomID `json:"room_id"`
}

type answerPayload struct {
	RoomID      model.RoomID `json:"room_id"`
	QuestionID  int          `json:"question_id"`
	AnswerIndex int          `json:"answer_index"`
}

type finalScorePayload struct {
	RoomID         model.RoomID `json:"room_id"`
	TotalQuestions int          `json:"total_questions"`
}

type attemptPayload struct {
	RoomID         model.RoomID `json:"room_id"`
	Attempt        string       `json:"attempt"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
}

type movePayload struct {
	RoomID model.RoomID `json:"room_id"`
	Cell   int          `json:"cell"`
}

// Handler upgrades HTTP requests to websocket connections and routes
// inbound commands to the room, roster, and engine services
type Handler struct {
	rooms    room.ControllerInterface
	roster   roster.ControllerInterface
	engine   engine.ControllerInterface
	hubs     *realtime.HubManager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a websocket handler
func NewHandler(
	rooms room.ControllerInterface,
	roster roster.ControllerInterface,
	engine engine.ControllerInterface,
	hubs *realtime.HubManager,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		rooms:  rooms,
		roster: roster,
		engine: engine,
		hubs:   hubs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers connect from whatever origin serves the game UI
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP upgrades the connection and assigns it a fresh player identity
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	playerID := model.PlayerID(uuid.NewString())
	c := newClient(h, conn, playerID)

	h.logger.Info("client connected",
		slog.String("player_id", string(playerID)),
		slog.String("remote_addr", r.RemoteAddr))

	go c.writePump()
	go c.readPump()
}

// dispatch routes one inbound command. Service errors come back to the
// sending connection only, never broadcast.
func (h *Handler) dispatch(c *client, cmd command) {
	ctx := context.Background()

	switch cmd.Type {
	case cmdJoinRoom:
		var p joinPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			h.sendError(c, model.ErrMalformedEvent)
			return
		}
		h.handleJoin(ctx, c, p)

	case cmdStartGame:
		var p roomPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			h.sendError(c, model.ErrMalformedEvent)
			return
		}
		if _, err := h.engine.StartGame(ctx, p.RoomID, c.playerID); err != nil {
			h.sendError(c, err)
		}

	case cmdSubmitAnswer:
		var p answerPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			h.sendError(c, model.ErrMalformedEvent)
			return
		}
		if _, err := h.engine.SubmitAnswer(ctx, p.RoomID, c.playerID, p.QuestionID, p.AnswerIndex); err != nil {
			h.sendError(c, err)
		}

	case cmdSubmitFinalScore:
		var p finalScorePayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			h.sendError(c, model.ErrMalformedEvent)
			return
		}
		if _, err := h.engine.SubmitFinalScore(ctx, p.RoomID, c.playerID, p.TotalQuestions); err != nil {
			h.sendError(c, err)
		}

	case cmdSubmitScore:
		var p attemptPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			h.sendError(c, model.ErrMalformedEvent)
			return
		}
		if _, err := h.engine.SubmitAttempt(ctx, p.RoomID, c.playerID, p.Attempt, p.ElapsedSeconds); err != nil {
			h.sendError(c, err)
		}

	case cmdReadyForNextRound:
		var p roomPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			h.sendError(c, model.ErrMalformedEvent)
			return
		}
		if _, err := h.engine.ReadyForNextRound(ctx, p.RoomID, c.playerID); err != nil {
			h.sendError(c, err)
		}

	case cmdMakeMove:
		var p movePayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			h.sendError(c, model.ErrMalformedEvent)
			return
		}
		if _, err := h.engine.MakeMove(ctx, p.RoomID, c.playerID, p.Cell); err != nil {
			c.enqueue(realtime.Message{
				Type:    model.EventInvalidMove,
				Payload: model.ErrorPayload{Message: userMessage(err)},
			})
		}

	case cmdLeaveRoom:
		var p roomPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			h.sendError(c, model.ErrMalformedEvent)
			return
		}
		c.unsubscribe(p.RoomID)
		if err := h.roster.Leave(ctx, p.RoomID, c.playerID); err != nil {
			h.sendError(c, err)
		}

	default:
		c.enqueue(realtime.Message{
			Type:    model.EventError,
			Payload: model.ErrorPayload{Message: "unknown message type: " + cmd.Type},
		})
	}
}

// handleJoin subscribes the connection to the room's topic before the
// roster mutation so the join's own broadcasts reach the joiner
func (h *Handler) handleJoin(ctx context.Context, c *client, p joinPayload) {
	if _, err := h.rooms.GetRoom(ctx, p.RoomID); err != nil {
		h.sendError(c, err)
		return
	}

	c.subscribe(p.RoomID)
	if _, err := h.roster.Join(ctx, p.RoomID, c.playerID, p.PlayerName); err != nil {
		c.unsubscribe(p.RoomID)
		h.sendError(c, err)
	}
}

func (h *Handler) sendError(c *client, err error) {
	c.enqueue(realtime.Message{
		Type:    model.EventError,
		Payload: model.ErrorPayload{Message: userMessage(err)},
	})
}

// userMessage maps service errors to the messages shown to players
func userMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, model.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, model.ErrAlreadyInRoom):
		return "Already in this room"
	case errors.Is(err, model.ErrNotInRoom):
		return "Not a member of this room"
	case errors.Is(err, model.ErrNotHost):
		return "Only the host can do that"
	case errors.Is(err, model.ErrGameNotActive):
		return "Game has not started"
	case errors.Is(err, model.ErrGameComplete):
		return "Game is already over"
	case errors.Is(err, model.ErrNotPlayerTurn):
		return "Not your turn"
	case errors.Is(err, model.ErrCellOccupied):
		return "Cell is already taken"
	case errors.Is(err, model.ErrInvalidCell):
		return "Invalid cell"
	case errors.Is(err, model.ErrQuestionNotFound):
		return "Unknown question"
	case errors.Is(err, model.ErrMalformedEvent):
		return "Malformed message"
	default:
		return "Something went wrong"
	}
}
