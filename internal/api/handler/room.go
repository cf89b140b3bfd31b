package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playroom-games/playroom/internal/api/request"
	"github.com/playroom-games/playroom/internal/api/response"
	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/services/quizgen"
	"github.com/playroom-games/playroom/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	rooms     room.ControllerInterface
	questions *quizgen.Service
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms room.ControllerInterface, questions *quizgen.Service) *RoomHandler {
	return &RoomHandler{
		rooms:     rooms,
		questions: questions,
	}
}

// Create handles POST /api/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if !req.GameType.Valid() {
		WriteError(w, model.ErrInvalidGameType)
		return
	}

	params := room.CreateParams{
		GameType:  req.GameType,
		MaxRounds: req.MaxRounds,
	}
	if req.GameType == model.GameTypeQuiz {
		params.Questions = req.Questions
		params.Source = req.Text
		if len(params.Questions) == 0 {
			params.Questions = h.questions.GenerateQuestions(r.Context(), req.Text, req.QuestionCount)
		}
	}

	created, err := h.rooms.CreateRoom(r.Context(), params)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// Get handles GET /api/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomID(mux.Vars(r)["code"])

	found, err := h.rooms.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(found))
}

// JoinInfo handles GET /api/join/{code}
func (h *RoomHandler) JoinInfo(w http.ResponseWriter, r *http.Request) {
	code := model.RoomID(mux.Vars(r)["code"])

	found, err := h.rooms.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinInfoFromModel(found))
}
