package bot

import (
	"log/slog"
	"sync"
	"time"

	"github.com/crossfire-game/crossfire-go/internal/dependencies/clock"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/game"
)

// Pacing of the bot's visible actions
const (
	typeInterval    = 300 * time.Millisecond
	submitWordDelay = 800 * time.Millisecond
	hintRevealDelay = 1500 * time.Millisecond
	answerShowDelay = 2 * time.Second
)

// runnerState is the bot's explicit sub-state. At most one timer is
// armed at a time; cancelling it returns the runner to idle.
type runnerState int

const (
	stateIdle runnerState = iota
	stateThinkingWord
	stateTyping
	stateSubmittingWord
	stateThinkingAnswer
	stateBuyingHint
	stateSubmittingAnswer
)

// Runner plays one seat of a session as the bot. It listens for the
// engine's turn events and walks through think, type and submit steps
// on a single cancellable timer, so a turn change mid-action cleanly
// aborts the rest of the sequence.
type Runner struct {
	session *game.Session
	puzzle  *model.Puzzle
	policy  Policy
	clock   clock.Clock
	logger  *slog.Logger
	index   model.PlayerIndex

	mu    sync.Mutex
	state runnerState
	timer clock.Timer

	word      *model.Word
	letterIdx int
	answer    string
	usedHint  bool
}

// RunnerConfig assembles a Runner
type RunnerConfig struct {
	Session *game.Session
	Puzzle  *model.Puzzle
	Policy  Policy
	Clock   clock.Clock
	Logger  *slog.Logger
	Index   model.PlayerIndex
}

// NewRunner creates a runner and subscribes it to the session's events
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		session: cfg.Session,
		puzzle:  cfg.Puzzle,
		policy:  cfg.Policy,
		clock:   cfg.Clock,
		logger:  logger,
		index:   cfg.Index,
	}
	cfg.Session.OnEvent(r.handleEvent)
	return r
}

// Stop cancels any in-flight action
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked()
}

func (r *Runner) handleEvent(ev model.Event) {
	switch ev.Type {
	case model.EventGameStarted, model.EventTurnSwitched:
		if ev.PlayerIndex == r.index {
			r.beginSelecting()
		} else {
			r.Stop()
		}
	case model.EventQuestionAsked:
		if ev.PlayerIndex == r.index {
			r.beginAnswering()
		}
	case model.EventGameFinished:
		r.Stop()
	}
}

// beginSelecting starts the think delay before picking a word
func (r *Runner) beginSelecting() {
	state := r.session.State()
	var available []*model.Word
	for i := range r.puzzle.Words {
		if !state.IsWordCompleted(r.puzzle.Words[i].ID) {
			available = append(available, &r.puzzle.Words[i])
		}
	}
	if len(available) == 0 {
		return
	}
	word := r.policy.SelectWord(available)
	if word == nil {
		return
	}

	r.mu.Lock()
	r.cancelLocked()
	r.state = stateThinkingWord
	r.word = word
	r.letterIdx = 0
	r.timer = r.clock.AfterFunc(r.policy.ThinkDelay(), r.step)
	r.mu.Unlock()
}

// beginAnswering starts the think delay before resolving the question
func (r *Runner) beginAnswering() {
	state := r.session.State()
	if state.CurrentQuestion == nil {
		return
	}
	useHint := r.policy.ShouldUseHint(state.Players[r.index].Score)
	answer := r.policy.AnswerQuestion(state.CurrentQuestion, useHint)

	r.mu.Lock()
	r.cancelLocked()
	r.usedHint = useHint
	r.answer = answer
	if useHint {
		r.state = stateBuyingHint
	} else {
		r.state = stateThinkingAnswer
	}
	r.timer = r.clock.AfterFunc(r.policy.ThinkDelay(), r.step)
	r.mu.Unlock()
}

// step advances the state machine by one action. The session call runs
// outside the lock; its events may re-enter handleEvent.
func (r *Runner) step() {
	r.mu.Lock()
	state := r.state
	word := r.word
	idx := r.letterIdx
	answer := r.answer
	usedHint := r.usedHint
	r.timer = nil
	r.mu.Unlock()

	switch state {
	case stateThinkingWord:
		if err := r.session.SelectWord(r.index, word.ID); err != nil {
			r.logger.Debug("bot word selection rejected", "error", err)
			r.Stop()
			return
		}
		r.arm(stateTyping, typeInterval)

	case stateTyping:
		cells := word.Cells()
		if idx < len(cells) {
			key := cells[idx].Key()
			letter := word.LetterAt(cells[idx])
			if err := r.session.InputCell(r.index, key, letter); err != nil {
				r.logger.Debug("bot typing rejected", "error", err)
				r.Stop()
				return
			}
			r.mu.Lock()
			r.letterIdx++
			done := r.letterIdx >= len(cells)
			r.mu.Unlock()
			if done {
				r.arm(stateSubmittingWord, submitWordDelay)
			} else {
				r.arm(stateTyping, typeInterval)
			}
			return
		}
		r.arm(stateSubmittingWord, submitWordDelay)

	case stateSubmittingWord:
		if err := r.session.SubmitWord(r.index, word.ID); err != nil {
			r.logger.Debug("bot word submit rejected", "error", err)
			r.Stop()
		}

	case stateBuyingHint:
		if err := r.session.HintOptions(r.index); err != nil {
			r.logger.Debug("bot hint rejected, answering without it", "error", err)
			q := r.session.State().CurrentQuestion
			if q == nil {
				r.Stop()
				return
			}
			r.mu.Lock()
			r.usedHint = false
			r.answer = r.policy.AnswerQuestion(q, false)
			r.mu.Unlock()
		}
		r.arm(stateThinkingAnswer, hintRevealDelay)

	case stateThinkingAnswer:
		r.arm(stateSubmittingAnswer, answerShowDelay)

	case stateSubmittingAnswer:
		if err := r.session.SubmitAnswer(r.index, answer, usedHint); err != nil {
			r.logger.Debug("bot answer rejected", "error", err)
			r.Stop()
		}

	case stateIdle:
	}
}

func (r *Runner) arm(next runnerState, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == stateIdle {
		return
	}
	r.state = next
	r.timer = r.clock.AfterFunc(d, r.step)
}

func (r *Runner) cancelLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.state = stateIdle
	r.word = nil
	r.letterIdx = 0
	r.answer = ""
	r.usedHint = false
}
