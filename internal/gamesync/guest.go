package gamesync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/puzzle"
	"github.com/crossfire-game/crossfire-go/internal/transport"
)

// GuestSession runs the shadow side of a networked game. It never
// mutates game state itself: it forwards the local player's intents to
// the host as moves and wholesale-replaces its state from every sync
// snapshot. A snapshot naming an unknown puzzle id is held until the
// puzzle is loaded from the local catalog.
type GuestSession struct {
	bus     transport.Bus
	puzzles puzzle.ServiceInterface
	logger  *slog.Logger

	roomID string
	userID string

	mu       sync.RWMutex
	state    *model.GameState
	puzzle   *model.Puzzle
	language model.Language

	onChange   func(*model.GameState)
	onLaunch   func(*Launch)
	onPresence func(Presence)
}

// GuestConfig assembles a GuestSession
type GuestConfig struct {
	Bus      transport.Bus
	Puzzles  puzzle.ServiceInterface
	Logger   *slog.Logger
	RoomID   string
	UserID   string
	Language model.Language

	// OnChange is called with the replaced state after every applied sync
	OnChange func(*model.GameState)

	// OnLaunch is called when the host announces the game start
	OnLaunch func(*Launch)

	// OnPresence is called when the relay reports a join or leave
	OnPresence func(Presence)
}

// NewGuest creates a guest session
func NewGuest(cfg GuestConfig) *GuestSession {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GuestSession{
		bus:      cfg.Bus,
		puzzles:  cfg.Puzzles,
		logger:   logger,
		roomID:   cfg.RoomID,
		userID:   cfg.UserID,
		language: cfg.Language,
		state: &model.GameState{
			Mode:       model.ModeMultiplayer,
			Role:       model.RoleGuest,
			RoomID:     cfg.RoomID,
			Status:     model.StatusWaiting,
			CellInputs: make(map[string]string),
		},
		onChange:   cfg.OnChange,
		onLaunch:   cfg.OnLaunch,
		onPresence: cfg.OnPresence,
	}
}

// Run processes inbound envelopes until the context is cancelled or the
// bus closes
func (g *GuestSession) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-g.bus.Receive():
			if !ok {
				return transport.ErrBusClosed
			}
			g.handleFrame(frame)
		}
	}
}

// SendMove forwards a local intent to the host. The local view is not
// changed; the host's next snapshot reflects the outcome.
func (g *GuestSession) SendMove(ctx context.Context, m *model.Move) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := Encode(&Envelope{
		Type:     MessageMove,
		RoomID:   g.roomID,
		SenderID: g.userID,
		Role:     model.RoleGuest,
		Move:     m,
	})
	if err != nil {
		return err
	}
	return g.bus.Send(ctx, data)
}

// State returns a deep copy of the shadow state
func (g *GuestSession) State() *model.GameState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.Clone()
}

// Puzzle returns the loaded puzzle, or nil before launch
func (g *GuestSession) Puzzle() *model.Puzzle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.puzzle
}

func (g *GuestSession) handleFrame(frame []byte) {
	env, err := Decode(frame)
	if err != nil {
		g.logger.Warn("dropping malformed frame", "error", err)
		return
	}

	switch env.Type {
	case MessageLaunch:
		g.handleLaunch(env.Launch)
	case MessageSync:
		g.handleSync(env.Sync)
	case MessagePresence:
		if g.onPresence != nil {
			g.onPresence(*env.Presence)
		}
	case MessageMove:
		// Moves travel guest to host only; ignore echoes
	}
}

func (g *GuestSession) handleLaunch(launch *Launch) {
	g.mu.Lock()
	g.language = launch.Language
	if err := g.ensurePuzzleLocked(launch.PuzzleID); err != nil {
		g.logger.Error("launch names a puzzle missing from the local catalog",
			"puzzle_id", int(launch.PuzzleID), "error", err)
	}
	g.mu.Unlock()

	if g.onLaunch != nil {
		g.onLaunch(launch)
	}
}

// handleSync replaces the whole shadow state with the snapshot. Applying
// the same snapshot twice is harmless.
func (g *GuestSession) handleSync(snap *model.SyncState) {
	g.mu.Lock()
	if err := g.ensurePuzzleLocked(snap.PuzzleID); err != nil {
		g.logger.Error("dropping sync for unknown puzzle",
			"puzzle_id", int(snap.PuzzleID), "error", err)
		g.mu.Unlock()
		return
	}
	snap.ApplyTo(g.state)
	state := g.state.Clone()
	g.mu.Unlock()

	if g.onChange != nil {
		g.onChange(state)
	}
}

func (g *GuestSession) ensurePuzzleLocked(id model.PuzzleID) error {
	if g.puzzle != nil && g.puzzle.ID == id {
		return nil
	}
	p, err := g.puzzles.GetByID(g.language, id)
	if err != nil {
		return err
	}
	g.puzzle = p
	return nil
}
