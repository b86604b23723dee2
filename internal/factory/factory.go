package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/crossfire-game/crossfire-go/internal/content"
	"github.com/crossfire-game/crossfire-go/internal/dependencies/clock"
	"github.com/crossfire-game/crossfire-go/internal/dependencies/random"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/relay"
	"github.com/crossfire-game/crossfire-go/internal/services/bot"
	"github.com/crossfire-game/crossfire-go/internal/services/game"
	"github.com/crossfire-game/crossfire-go/internal/services/puzzle"
	"github.com/crossfire-game/crossfire-go/internal/services/question"
	"github.com/crossfire-game/crossfire-go/internal/services/room"
	"github.com/crossfire-game/crossfire-go/internal/services/scoring"
	"github.com/crossfire-game/crossfire-go/internal/storage"
	"github.com/crossfire-game/crossfire-go/internal/storage/memory"
	redisstorage "github.com/crossfire-game/crossfire-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// SoloSessionKey is the snapshot key for the local solo game
const SoloSessionKey = "solo"

const persistTimeout = 5 * time.Second

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	Logger *slog.Logger

	// Services
	PuzzleService   *puzzle.Service
	QuestionService *question.Service
	ScoringService  *scoring.Service
	RoomService     *room.Service
	HubManager      *relay.HubManager
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
	// SkipDefaultContent leaves the puzzle and question catalogs empty
	// so callers can load their own
	SkipDefaultContent bool
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

	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, logger)

	if !cfg.SkipDefaultContent {
		if err := content.LoadDefaults(app.PuzzleService, app.QuestionService); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	puzzleService := puzzle.New(rnd)
	questionService := question.New(rnd)
	scoringService := scoring.New()
	roomService := room.New(store, rnd, clk, logger)
	hubManager := relay.NewHubManager(store, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Logger:          logger,
		PuzzleService:   puzzleService,
		QuestionService: questionService,
		ScoringService:  scoringService,
		RoomService:     roomService,
		HubManager:      hubManager,
	}
}

// SoloGameParams configures a solo game against the bot
type SoloGameParams struct {
	PlayerName string
	Language   model.Language
	Categories []model.Category
	PuzzleID   model.PuzzleID // 0 picks a random puzzle
}

// NewSoloGame builds a session with the bot seated as player two. The
// caller starts the session and closes it when done.
func (a *App) NewSoloGame(params SoloGameParams) (*game.Session, *bot.Runner, error) {
	var p *model.Puzzle
	var err error
	if params.PuzzleID != 0 {
		p, err = a.PuzzleService.GetByID(params.Language, params.PuzzleID)
	} else {
		p, err = a.PuzzleService.GetRandom(params.Language)
	}
	if err != nil {
		return nil, nil, err
	}

	session := game.NewSession(game.Config{
		Mode:        model.ModeSolo,
		Puzzle:      p,
		Language:    params.Language,
		Categories:  params.Categories,
		PlayerNames: [2]string{params.PlayerName, bot.Name},
		Scoring:     a.ScoringService,
		Questions:   a.QuestionService,
		Puzzles:     a.PuzzleService,
		Clock:       a.Clock,
		Logger:      a.Logger,
	})

	runner := bot.NewRunner(bot.RunnerConfig{
		Session: session,
		Puzzle:  p,
		Policy:  bot.NewRandomPolicy(a.Random),
		Clock:   a.Clock,
		Logger:  a.Logger,
		Index:   model.PlayerTwo,
	})

	a.AttachPersistence(SoloSessionKey, session)
	return session, runner, nil
}

// AttachPersistence subscribes a snapshot writer to the session: every
// mutation while the game is playing saves the snapshot under key, and
// the snapshot is cleared once the game leaves the playing state.
func (a *App) AttachPersistence(key string, session *game.Session) {
	session.Subscribe(func(sync *model.SyncState) {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if sync.Status == model.StatusPlaying {
			if err := a.SaveSession(ctx, key, session); err != nil {
				a.Logger.Warn("session snapshot save failed", "key", key, "error", err)
			}
			return
		}
		if err := a.Storage.DeleteSnapshot(ctx, key); err != nil && !errors.Is(err, model.ErrSnapshotNotFound) {
			a.Logger.Warn("session snapshot delete failed", "key", key, "error", err)
		}
	})
}

// SaveSession persists the session's snapshot under its room id so an
// interrupted game can resume
func (a *App) SaveSession(ctx context.Context, roomID string, session *game.Session) error {
	return a.Storage.SaveSnapshot(ctx, roomID, session.Snapshot())
}

// RestoreSession loads a persisted snapshot into the session. Finished
// games have their snapshot deleted instead.
func (a *App) RestoreSession(ctx context.Context, roomID string, session *game.Session) error {
	snap, err := a.Storage.GetSnapshot(ctx, roomID)
	if err != nil {
		return err
	}
	if snap.Sync.Status != model.StatusPlaying {
		return a.Storage.DeleteSnapshot(ctx, roomID)
	}
	session.Restore(snap)
	return nil
}
