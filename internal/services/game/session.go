package game

import (
	"log/slog"
	"sync"
	"time"

	"github.com/crossfire-game/crossfire-go/internal/dependencies/clock"
	"github.com/crossfire-game/crossfire-go/internal/model"
)

// ChangeListener receives the full sync snapshot after every mutation
type ChangeListener func(*model.SyncState)

// Session owns an Engine for the lifetime of one game, serializing
// access and driving the clocks: the one-second countdown tick and the
// feedback auto-advance. Subscribers get events and snapshots after the
// lock is released, so handlers may call back into the session.
type Session struct {
	mu     sync.Mutex
	engine *Engine
	clock  clock.Clock
	logger *slog.Logger

	tickTimer     clock.Timer
	feedbackTimer clock.Timer
	closed        bool

	pending  []model.Event
	onEvent  []EventSink
	onChange []ChangeListener
}

// NewSession wraps an engine built from cfg. The engine's event sink is
// owned by the session; cfg.OnEvent must be nil (subscribe instead).
func NewSession(cfg Config) *Session {
	s := &Session{clock: cfg.Clock, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	cfg.OnEvent = func(ev model.Event) {
		s.pending = append(s.pending, ev)
	}
	s.engine = NewEngine(cfg)
	return s
}

// Subscribe registers a listener for the post-mutation sync snapshot
func (s *Session) Subscribe(fn ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// OnEvent registers an engine event listener
func (s *Session) OnEvent(fn EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = append(s.onEvent, fn)
}

// Start begins play and the countdown tick
func (s *Session) Start() {
	s.do(func() error {
		s.engine.Start()
		s.scheduleTick()
		return nil
	})
}

// Close stops the session's timers. The state is left as-is for a final
// snapshot read.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.tickTimer != nil {
		s.tickTimer.Stop()
	}
	if s.feedbackTimer != nil {
		s.feedbackTimer.Stop()
	}
}

// State returns a deep copy of the current game state
func (s *Session) State() *model.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// Sync returns the current broadcastable snapshot
func (s *Session) Sync() *model.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Sync()
}

// Snapshot returns the persistable session form
func (s *Session) Snapshot() *model.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Restore replaces the state from a persisted snapshot
func (s *Session) Restore(snap *model.SessionSnapshot) {
	s.do(func() error {
		s.engine.Restore(snap)
		return nil
	})
}

// SetRoom records networked-game coordinates
func (s *Session) SetRoom(roomID, code string, role model.PlayerRole) {
	s.do(func() error {
		s.engine.SetRoom(roomID, code, role)
		return nil
	})
}

func (s *Session) SelectWord(actor model.PlayerIndex, id model.WordID) error {
	return s.do(func() error { return s.engine.SelectWord(actor, id) })
}

func (s *Session) DeselectWord(actor model.PlayerIndex) error {
	return s.do(func() error { return s.engine.DeselectWord(actor) })
}

func (s *Session) InputCell(actor model.PlayerIndex, key, letter string) error {
	return s.do(func() error { return s.engine.InputCell(actor, key, letter) })
}

func (s *Session) SetSelectedCell(actor model.PlayerIndex, pos model.Position) error {
	return s.do(func() error { return s.engine.SetSelectedCell(actor, pos) })
}

func (s *Session) SubmitWord(actor model.PlayerIndex, id model.WordID) error {
	return s.do(func() error { return s.engine.SubmitWord(actor, id) })
}

func (s *Session) SubmitAnswer(actor model.PlayerIndex, answer string, usedHint bool) error {
	return s.do(func() error { return s.engine.SubmitAnswer(actor, answer, usedHint) })
}

func (s *Session) HintLetter(actor model.PlayerIndex) error {
	return s.do(func() error { return s.engine.HintLetter(actor) })
}

func (s *Session) HintOptions(actor model.PlayerIndex) error {
	return s.do(func() error { return s.engine.HintOptions(actor) })
}

func (s *Session) ApplyMove(actor model.PlayerIndex, m *model.Move) error {
	return s.do(func() error { return s.engine.ApplyMove(actor, m) })
}

// do runs a mutation under the lock, then dispatches buffered events and
// the snapshot outside it
func (s *Session) do(fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.afterMutationLocked()
	events := s.pending
	s.pending = nil
	var snap *model.SyncState
	if len(events) > 0 {
		snap = s.engine.Sync()
	}
	onEvent := append([]EventSink(nil), s.onEvent...)
	onChange := append([]ChangeListener(nil), s.onChange...)
	s.mu.Unlock()

	for _, ev := range events {
		for _, fn := range onEvent {
			fn(ev)
		}
	}
	if snap != nil {
		for _, fn := range onChange {
			fn(snap)
		}
	}
	return err
}

// afterMutationLocked manages the feedback auto-advance timer around
// phase transitions
func (s *Session) afterMutationLocked() {
	if s.closed {
		return
	}
	state := s.engine.state

	inFeedback := state.Status == model.StatusPlaying && state.TurnPhase == model.PhaseFeedback
	if inFeedback && s.feedbackTimer == nil {
		d := FeedbackIncorrectDuration
		if state.LastFeedback != nil && state.LastFeedback.IsCorrect {
			d = FeedbackCorrectDuration
		}
		s.feedbackTimer = s.clock.AfterFunc(d, s.feedbackElapsed)
	}
	if !inFeedback && s.feedbackTimer != nil {
		s.feedbackTimer.Stop()
		s.feedbackTimer = nil
	}
}

func (s *Session) feedbackElapsed() {
	s.do(func() error {
		s.feedbackTimer = nil
		if err := s.engine.FeedbackElapsed(); err != nil {
			s.logger.Debug("feedback advance skipped", "error", err)
		}
		return nil
	})
}

func (s *Session) scheduleTick() {
	if s.closed || s.engine.state.Status != model.StatusPlaying {
		return
	}
	s.tickTimer = s.clock.AfterFunc(time.Second, s.tick)
}

func (s *Session) tick() {
	s.do(func() error {
		s.engine.Tick()
		s.scheduleTick()
		return nil
	})
}
