package game

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/crossfire-game/crossfire-go/internal/dependencies/clock"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/puzzle"
	"github.com/crossfire-game/crossfire-go/internal/services/question"
	"github.com/crossfire-game/crossfire-go/internal/services/scoring"
)

// EventSink receives engine events. Consumers handle side effects only;
// they never mutate game state.
type EventSink func(model.Event)

// Config assembles an Engine
type Config struct {
	Mode        model.GameMode
	Puzzle      *model.Puzzle
	Language    model.Language
	Categories  []model.Category
	PlayerNames [2]string
	PlayerIDs   [2]string

	Scoring   scoring.ServiceInterface
	Questions question.ServiceInterface
	Puzzles   puzzle.ServiceInterface
	Clock     clock.Clock
	Logger    *slog.Logger
	OnEvent   EventSink
}

// Engine is the authoritative turn and phase reducer for one game. Every
// mutation enters through a method that names the acting player; moves
// from the wrong player or in the wrong phase are rejected with an error
// and leave the state untouched.
//
// The Engine is not safe for concurrent use. Session serializes access.
type Engine struct {
	cfg   Config
	state *model.GameState

	logger *slog.Logger
}

// NewEngine creates an engine in the waiting state
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	state := &model.GameState{
		Status:          model.StatusWaiting,
		Mode:            cfg.Mode,
		CurrentTurn:     model.PlayerOne,
		PuzzleID:        cfg.Puzzle.ID,
		TurnPhase:       model.PhaseSelecting,
		CellInputs:      make(map[string]string),
		UsedQuestionIDs: make(map[model.QuestionID]bool),

		TurnTimeRemaining:   TurnTimerSeconds,
		TriviaTimeRemaining: TriviaTimerSeconds,
	}
	for i := range state.Players {
		state.Players[i] = model.Player{ID: cfg.PlayerIDs[i], Name: cfg.PlayerNames[i]}
	}
	return &Engine{cfg: cfg, state: state, logger: logger}
}

// Start begins play: player one's turn, selecting phase
func (e *Engine) Start() {
	e.state.Status = model.StatusPlaying
	e.state.StartedAt = e.cfg.Clock.Now()
	e.state.TurnTimeRemaining = TurnTimerSeconds
	e.emit(model.Event{Type: model.EventGameStarted, PlayerIndex: e.state.CurrentTurn, Phase: e.state.TurnPhase})
}

// State returns a deep copy of the current game state
func (e *Engine) State() *model.GameState {
	return e.state.Clone()
}

// Sync extracts the snapshot the host broadcasts to guests
func (e *Engine) Sync() *model.SyncState {
	return model.SyncFromState(e.state)
}

// Snapshot captures the persistable session form
func (e *Engine) Snapshot() *model.SessionSnapshot {
	c := e.state.Clone()
	return &model.SessionSnapshot{
		Sync:            *model.SyncFromState(c),
		Mode:            c.Mode,
		UsedQuestionIDs: c.UsedQuestionIDs,
		SelectedCell:    c.SelectedCell,
		StartedAt:       c.StartedAt,
		RoomID:          c.RoomID,
		RoomCode:        c.RoomCode,
		Role:            c.Role,
	}
}

// Restore replaces the engine state with a persisted snapshot
func (e *Engine) Restore(snap *model.SessionSnapshot) {
	snap.Sync.ApplyTo(e.state)
	e.state.Mode = snap.Mode
	e.state.UsedQuestionIDs = make(map[model.QuestionID]bool, len(snap.UsedQuestionIDs))
	for k, v := range snap.UsedQuestionIDs {
		e.state.UsedQuestionIDs[k] = v
	}
	e.state.SelectedCell = snap.SelectedCell
	e.state.StartedAt = snap.StartedAt
	e.state.RoomID = snap.RoomID
	e.state.RoomCode = snap.RoomCode
	e.state.Role = snap.Role
}

// SetRoom records the networked-game coordinates on the state
func (e *Engine) SetRoom(roomID string, code string, role model.PlayerRole) {
	e.state.RoomID = roomID
	e.state.RoomCode = code
	e.state.Role = role
}

// SelectWord puts the acting player on a word and enters the typing
// phase. Reselecting a different word while typing is allowed.
func (e *Engine) SelectWord(actor model.PlayerIndex, id model.WordID) error {
	if err := e.requireTurn(actor, model.PhaseSelecting, model.PhaseTyping); err != nil {
		return err
	}
	word := e.cfg.Puzzle.WordByID(id)
	if word == nil {
		return fmt.Errorf("%w: word %d", model.ErrWordNotFound, id)
	}
	if e.state.IsWordCompleted(id) {
		return fmt.Errorf("%w: word %d", model.ErrWordCompleted, id)
	}

	e.state.SelectedWordID = &id
	anchor := word.Anchor()
	e.state.SelectedCell = &anchor
	e.state.TurnPhase = model.PhaseTyping
	e.emit(model.Event{Type: model.EventWordSelected, PlayerIndex: actor, WordID: id, Phase: model.PhaseTyping})
	return nil
}

// DeselectWord drops the selection and returns to the selecting phase
func (e *Engine) DeselectWord(actor model.PlayerIndex) error {
	if err := e.requireTurn(actor, model.PhaseTyping); err != nil {
		return err
	}
	e.state.SelectedWordID = nil
	e.state.SelectedCell = nil
	e.state.TurnPhase = model.PhaseSelecting
	e.emit(model.Event{Type: model.EventWordDeselected, PlayerIndex: actor, Phase: model.PhaseSelecting})
	return nil
}

// InputCell writes a letter into a cell and advances the caret along
// the selected word. An empty letter is backspace: a filled cell is
// cleared in place, an empty one retreats the caret and clears the
// cell it lands on. Prefilled cells are immutable and the caret skips
// over them.
func (e *Engine) InputCell(actor model.PlayerIndex, key string, letter string) error {
	if err := e.requireTurn(actor, model.PhaseTyping); err != nil {
		return err
	}
	pos, err := parseCellKey(key)
	if err != nil {
		return err
	}
	if e.cfg.Puzzle.Grid.PrefilledLetter(pos) != "" {
		return fmt.Errorf("%w: %s", model.ErrPrefilledCell, key)
	}

	if letter == "" {
		e.backspace(pos)
	} else {
		e.state.CellInputs[key] = strings.ToUpper(letter)
		e.advanceCaret(pos)
	}
	e.emit(model.Event{Type: model.EventCellInput, PlayerIndex: actor, Phase: e.state.TurnPhase})
	return nil
}

func (e *Engine) selectedWord() *model.Word {
	if e.state.SelectedWordID == nil {
		return nil
	}
	return e.cfg.Puzzle.WordByID(*e.state.SelectedWordID)
}

// advanceCaret moves the caret to the next typeable cell of the
// selected word, staying put at the word's end
func (e *Engine) advanceCaret(pos model.Position) {
	word := e.selectedWord()
	if word == nil {
		return
	}
	for {
		next, ok := puzzle.NextCell(word, pos)
		if !ok {
			return
		}
		pos = next
		if e.cfg.Puzzle.Grid.PrefilledLetter(pos) == "" {
			e.state.SelectedCell = &pos
			return
		}
	}
}

// backspace clears the cell in place when it holds a letter; otherwise
// it retreats to the previous typeable cell and clears that one
func (e *Engine) backspace(pos model.Position) {
	if _, ok := e.state.CellInputs[pos.Key()]; ok {
		delete(e.state.CellInputs, pos.Key())
		return
	}
	word := e.selectedWord()
	if word == nil {
		return
	}
	for {
		prev, ok := puzzle.PreviousCell(word, pos)
		if !ok {
			return
		}
		pos = prev
		if e.cfg.Puzzle.Grid.PrefilledLetter(pos) == "" {
			e.state.SelectedCell = &pos
			delete(e.state.CellInputs, pos.Key())
			return
		}
	}
}

// SetSelectedCell moves the typing cursor
func (e *Engine) SetSelectedCell(actor model.PlayerIndex, pos model.Position) error {
	if err := e.requireTurn(actor, model.PhaseTyping); err != nil {
		return err
	}
	e.state.SelectedCell = &pos
	return nil
}

// SubmitWord checks the typed letters against the selected word. A
// correct spelling completes the word and moves to the trivia question;
// a wrong spelling emits an event and stays in the typing phase.
func (e *Engine) SubmitWord(actor model.PlayerIndex, id model.WordID) error {
	if err := e.requireTurn(actor, model.PhaseTyping); err != nil {
		return err
	}
	if e.state.SelectedWordID == nil || *e.state.SelectedWordID != id {
		return fmt.Errorf("%w: word %d is not selected", model.ErrWordNotFound, id)
	}
	word := e.cfg.Puzzle.WordByID(id)
	if word == nil {
		return fmt.Errorf("%w: word %d", model.ErrWordNotFound, id)
	}
	if e.state.IsWordCompleted(id) {
		return fmt.Errorf("%w: word %d", model.ErrWordCompleted, id)
	}
	if !puzzle.IsFullyFilled(word, e.state.CellInputs, &e.cfg.Puzzle.Grid) {
		return fmt.Errorf("%w: word %d", model.ErrWordNotFilled, id)
	}

	input := puzzle.BuildInput(word, e.state.CellInputs, &e.cfg.Puzzle.Grid)
	if !e.cfg.Scoring.ValidateWord(word, input) {
		e.emit(model.Event{Type: model.EventInvalidWord, PlayerIndex: actor, WordID: id, Phase: e.state.TurnPhase})
		return nil
	}

	e.completeWord(actor, word)
	return nil
}

// completeWord marks the word done, canonicalizes its letters on the
// grid and draws the trivia question. When the bank is exhausted the
// word scores its base points straight into feedback.
func (e *Engine) completeWord(actor model.PlayerIndex, word *model.Word) {
	e.state.CompletedWordIDs = append(e.state.CompletedWordIDs, word.ID)
	e.state.Stats.WordsCompleted[actor]++
	for _, c := range word.Cells() {
		if e.cfg.Puzzle.Grid.PrefilledLetter(c) == "" {
			e.state.CellInputs[c.Key()] = word.LetterAt(c)
		}
	}
	e.emit(model.Event{Type: model.EventWordCompleted, PlayerIndex: actor, WordID: word.ID})

	q, err := e.cfg.Questions.GetRandom(e.cfg.Language, e.cfg.Categories, e.state.UsedQuestionIDs)
	if err != nil {
		e.logger.Warn("no trivia question available, scoring base points",
			"word_id", word.ID, "error", err)
		points := e.cfg.Scoring.CalculateScore(word, false, false)
		e.resolveWord(actor, word, &model.Feedback{IsCorrect: false, PointsEarned: points}, points)
		return
	}

	e.state.UsedQuestionIDs[q.ID] = true
	e.state.CurrentQuestion = q
	e.state.TriviaTimeRemaining = TriviaTimerSeconds
	e.state.TurnPhase = model.PhaseQuestion
	e.emit(model.Event{Type: model.EventQuestionAsked, PlayerIndex: actor, WordID: word.ID, Phase: model.PhaseQuestion})
}

// SubmitAnswer resolves the pending trivia question
func (e *Engine) SubmitAnswer(actor model.PlayerIndex, answer string, usedHint bool) error {
	if err := e.requireTurn(actor, model.PhaseQuestion); err != nil {
		return err
	}
	if e.state.CurrentQuestion == nil || e.state.SelectedWordID == nil {
		return model.ErrNoQuestion
	}
	word := e.cfg.Puzzle.WordByID(*e.state.SelectedWordID)
	if word == nil {
		return model.ErrWordNotFound
	}

	isCorrect := e.cfg.Scoring.ValidateAnswer(e.state.CurrentQuestion, answer)
	points := e.cfg.Scoring.CalculateScore(word, isCorrect, usedHint)
	if isCorrect {
		e.state.Stats.CorrectAnswers[actor]++
	}

	fb := &model.Feedback{IsCorrect: isCorrect, PointsEarned: points}
	if !isCorrect {
		fb.CorrectAnswer = e.state.CurrentQuestion.Answer
	}
	e.resolveWord(actor, word, fb, points)
	return nil
}

// resolveWord applies points, records the completion and enters feedback
func (e *Engine) resolveWord(actor model.PlayerIndex, word *model.Word, fb *model.Feedback, points int) {
	e.state.Players[actor].Score += points
	e.state.LastFeedback = fb
	e.state.WordCompletions = append(e.state.WordCompletions, model.WordCompletion{
		WordID:      word.ID,
		PlayerIndex: actor,
		Points:      points,
	})
	e.state.TurnPhase = model.PhaseFeedback
	e.emit(model.Event{Type: model.EventAnswerResolved, PlayerIndex: actor, WordID: word.ID, Phase: model.PhaseFeedback, Points: points, Payload: fb})
}

// HintLetter reveals one wrong-or-empty letter of the selected word for
// a score cost. Revealing when every letter is already right is a no-op
// with no charge.
func (e *Engine) HintLetter(actor model.PlayerIndex) error {
	if err := e.requireTurn(actor, model.PhaseTyping); err != nil {
		return err
	}
	if e.state.SelectedWordID == nil {
		return model.ErrWordNotFound
	}
	word := e.cfg.Puzzle.WordByID(*e.state.SelectedWordID)
	if word == nil {
		return model.ErrWordNotFound
	}
	if e.state.Players[actor].Score < HintLetterCost {
		return model.ErrInsufficientScore
	}

	pos, letter, ok := e.cfg.Puzzles.HintCell(word, e.state.CellInputs, &e.cfg.Puzzle.Grid)
	if !ok {
		return nil
	}
	e.state.CellInputs[pos.Key()] = letter
	e.state.Players[actor].Score -= HintLetterCost
	e.emit(model.Event{Type: model.EventHintRevealed, PlayerIndex: actor, WordID: word.ID, Payload: pos})
	return nil
}

// HintOptions buys the multiple-choice view of an open question. The
// discount for answering with the hint is applied at SubmitAnswer via
// its usedHint flag.
func (e *Engine) HintOptions(actor model.PlayerIndex) error {
	if err := e.requireTurn(actor, model.PhaseQuestion); err != nil {
		return err
	}
	if e.state.CurrentQuestion == nil {
		return model.ErrNoQuestion
	}
	if e.state.Players[actor].Score < TriviaHintCost {
		return model.ErrInsufficientScore
	}

	e.state.Players[actor].Score -= TriviaHintCost
	e.emit(model.Event{Type: model.EventOptionsRevealed, PlayerIndex: actor, Phase: e.state.TurnPhase})
	return nil
}

// TurnTimeout forfeits the turn when the turn timer hits zero
func (e *Engine) TurnTimeout(actor model.PlayerIndex) error {
	if err := e.requireTurn(actor, model.PhaseSelecting, model.PhaseTyping); err != nil {
		return err
	}
	e.switchTurn()
	return nil
}

// TriviaTimeout resolves an expired question as a miss scoring base
// points, with the correct answer revealed
func (e *Engine) TriviaTimeout(actor model.PlayerIndex) error {
	if err := e.requireTurn(actor, model.PhaseQuestion); err != nil {
		return err
	}
	if e.state.CurrentQuestion == nil || e.state.SelectedWordID == nil {
		return model.ErrNoQuestion
	}
	word := e.cfg.Puzzle.WordByID(*e.state.SelectedWordID)
	if word == nil {
		return model.ErrWordNotFound
	}

	points := e.cfg.Scoring.CalculateScore(word, false, false)
	fb := &model.Feedback{IsCorrect: false, PointsEarned: points, CorrectAnswer: e.state.CurrentQuestion.Answer}
	e.resolveWord(actor, word, fb, points)
	return nil
}

// FeedbackElapsed leaves the feedback phase: the game ends when a
// victory condition holds, otherwise the turn passes
func (e *Engine) FeedbackElapsed() error {
	if e.state.Status != model.StatusPlaying {
		return model.ErrGameNotActive
	}
	if e.state.TurnPhase != model.PhaseFeedback {
		return fmt.Errorf("%w: %s", model.ErrWrongPhase, e.state.TurnPhase)
	}

	result := e.cfg.Scoring.CheckVictory(e.state.Players, len(e.state.CompletedWordIDs), len(e.cfg.Puzzle.Words))
	if result != scoring.ResultPlaying {
		e.finish()
		return nil
	}
	e.switchTurn()
	return nil
}

// Tick advances whichever countdown is active by one second, firing the
// matching timeout transition at zero. Feedback and finished states
// have no countdown.
func (e *Engine) Tick() {
	if e.state.Status != model.StatusPlaying {
		return
	}
	switch e.state.TurnPhase {
	case model.PhaseSelecting, model.PhaseTyping:
		if e.state.TurnTimeRemaining > 0 {
			e.state.TurnTimeRemaining--
		}
		if e.state.TurnTimeRemaining == 0 {
			_ = e.TurnTimeout(e.state.CurrentTurn)
		}
	case model.PhaseQuestion:
		if e.state.TriviaTimeRemaining > 0 {
			e.state.TriviaTimeRemaining--
		}
		if e.state.TriviaTimeRemaining == 0 {
			_ = e.TriviaTimeout(e.state.CurrentTurn)
		}
	}
}

// ApplyMove dispatches a wire move from the given player through the
// same validation as local actions. A rejected move emits an event, is
// logged and dropped; the state never changes.
func (e *Engine) ApplyMove(actor model.PlayerIndex, m *model.Move) error {
	if err := m.Validate(); err != nil {
		return e.reject(actor, m, err)
	}

	var err error
	switch m.Type {
	case model.MoveSelectWord:
		err = e.SelectWord(actor, m.WordID)
	case model.MoveCellInput:
		err = e.InputCell(actor, m.CellKey, m.Letter)
	case model.MoveSubmitWord:
		err = e.SubmitWord(actor, m.WordID)
	case model.MoveSubmitAnswer:
		err = e.SubmitAnswer(actor, m.Answer, m.UsedHint)
	case model.MoveHintRequest:
		if e.state.TurnPhase == model.PhaseQuestion {
			err = e.HintOptions(actor)
		} else {
			err = e.HintLetter(actor)
		}
	case model.MoveTimeout:
		if e.state.TurnPhase == model.PhaseQuestion {
			err = e.TriviaTimeout(actor)
		} else {
			err = e.TurnTimeout(actor)
		}
	default:
		err = fmt.Errorf("%w: %q", model.ErrMalformedMove, m.Type)
	}

	if err != nil {
		return e.reject(actor, m, err)
	}
	return nil
}

func (e *Engine) reject(actor model.PlayerIndex, m *model.Move, err error) error {
	e.logger.Warn("rejected move",
		"move_type", m.Type,
		"actor", int(actor),
		"current_turn", int(e.state.CurrentTurn),
		"phase", string(e.state.TurnPhase),
		"error", err)
	e.emit(model.Event{Type: model.EventMoveRejected, PlayerIndex: actor, Phase: e.state.TurnPhase, Payload: err})
	return err
}

func (e *Engine) switchTurn() {
	e.state.CurrentTurn = e.state.CurrentTurn.Opponent()
	e.state.TurnTimeRemaining = TurnTimerSeconds
	e.state.SelectedWordID = nil
	e.state.SelectedCell = nil
	e.state.TurnPhase = model.PhaseSelecting
	e.state.LastFeedback = nil
	e.state.CurrentQuestion = nil
	e.emit(model.Event{Type: model.EventTurnSwitched, PlayerIndex: e.state.CurrentTurn, Phase: model.PhaseSelecting})
}

func (e *Engine) finish() {
	e.state.Status = model.StatusFinished
	e.state.Stats.TotalSeconds = int(e.cfg.Clock.Now().Sub(e.state.StartedAt).Seconds())
	winner, ok := e.cfg.Scoring.Winner(e.state.Players)
	ev := model.Event{Type: model.EventGameFinished, Phase: e.state.TurnPhase}
	if ok {
		ev.PlayerIndex = winner
	}
	e.emit(ev)
}

func (e *Engine) requireTurn(actor model.PlayerIndex, phases ...model.TurnPhase) error {
	if e.state.Status != model.StatusPlaying {
		return model.ErrGameNotActive
	}
	if !actor.Valid() || actor != e.state.CurrentTurn {
		return fmt.Errorf("%w: player %d moved on player %d's turn", model.ErrNotPlayerTurn, actor, e.state.CurrentTurn)
	}
	for _, p := range phases {
		if e.state.TurnPhase == p {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", model.ErrWrongPhase, e.state.TurnPhase)
}

func (e *Engine) emit(ev model.Event) {
	if e.cfg.OnEvent != nil {
		e.cfg.OnEvent(ev)
	}
}

func parseCellKey(key string) (model.Position, error) {
	var pos model.Position
	if _, err := fmt.Sscanf(key, "%d-%d", &pos.Row, &pos.Col); err != nil {
		return pos, fmt.Errorf("%w: bad cell key %q", model.ErrMalformedMove, key)
	}
	return pos, nil
}
