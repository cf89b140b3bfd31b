package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/playroom-games/playroom/internal/api"
	"github.com/playroom-games/playroom/internal/dependencies/clock"
	"github.com/playroom-games/playroom/internal/dependencies/random"
	"github.com/playroom-games/playroom/internal/realtime"
	"github.com/playroom-games/playroom/internal/services/engine"
	"github.com/playroom-games/playroom/internal/services/quizgen"
	"github.com/playroom-games/playroom/internal/services/room"
	"github.com/playroom-games/playroom/internal/services/roster"
	"github.com/playroom-games/playroom/internal/storage"
	"github.com/playroom-games/playroom/internal/storage/memory"
	redisstorage "github.com/playroom-games/playroom/internal/storage/redis"
	"github.com/playroom-games/playroom/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	RoomController   *room.Controller
	RosterController *roster.Controller
	EngineController *engine.Controller
	QuestionService  *quizgen.Service
	HubManager       *realtime.HubManager
	SocketHandler    *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// GeneratorURL is the question-generation API endpoint (optional)
	GeneratorURL string
	// GeneratorAPIKey authenticates against the generation API (optional)
	GeneratorAPIKey string
	// UseFallbackQuestions skips the generator and serves the built-in set
	UseFallbackQuestions bool
	// AdvanceCountdown overrides the round auto-advance delay (optional)
	AdvanceCountdown time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	var generator quizgen.Generator
	if cfg.GeneratorURL != "" {
		generator = quizgen.NewHTTPGenerator(cfg.GeneratorURL, cfg.GeneratorAPIKey)
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, generator, cfg.UseFallbackQuestions, cfg.AdvanceCountdown, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	generator quizgen.Generator,
	useFallback bool,
	countdown time.Duration,
	logger *slog.Logger,
) *App {
	hubManager := realtime.NewHubManager(logger)
	questionService := quizgen.NewService(generator, useFallback, logger)
	roomController := room.NewController(store, hubManager, clk, rnd, logger)
	rosterController := roster.NewController(store, roomController, hubManager, clk, rnd, logger)
	engineController := engine.NewController(store, hubManager, clk, rnd, logger, countdown)
	roomController.SetScheduler(engineController)
	rosterController.SetAdvanceNotifier(engineController)
	socketHandler := ws.NewHandler(roomController, rosterController, engineController, hubManager, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		RoomController:   roomController,
		RosterController: rosterController,
		EngineController: engineController,
		QuestionService:  questionService,
		HubManager:       hubManager,
		SocketHandler:    socketHandler,
	}
}

// Router builds the HTTP handler for the app
func (a *App) Router(logger *slog.Logger) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:          logger,
		RoomController:  a.RoomController,
		QuestionService: a.QuestionService,
		SocketHandler:   a.SocketHandler,
	})
}
