package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playroom-games/playroom/internal/api/handler"
	apimiddleware "github.com/playroom-games/playroom/internal/api/middleware"
	"github.com/playroom-games/playroom/internal/middleware"
	"github.com/playroom-games/playroom/internal/services/quizgen"
	"github.com/playroom-games/playroom/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	RoomController  room.ControllerInterface
	QuestionService *quizgen.Service
	SocketHandler   http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.RoomController, cfg.QuestionService)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/join/{code}", roomHandler.JoinInfo).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// The websocket endpoint skips the logging wrapper so the hijacked
	// connection is not reported as a completed request
	if cfg.SocketHandler != nil {
		r.Handle("/ws", cfg.SocketHandler)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
