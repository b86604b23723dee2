package model

import "time"

// SyncState is the full canonical snapshot the host broadcasts after
// every mutation while a game is active. Guests always perform a
// wholesale replace, never an incremental merge. Puzzle static data
// travels as the id only; guests fetch unknown puzzles from their own
// catalog before applying.
type SyncState struct {
	CurrentTurn         PlayerIndex       `json:"current_turn"`
	Players             [2]Player         `json:"players"`
	CompletedWordIDs    []WordID          `json:"completed_word_ids"`
	TurnPhase           TurnPhase         `json:"turn_phase"`
	CurrentQuestion     *Question         `json:"current_question,omitempty"`
	LastFeedback        *Feedback         `json:"last_feedback,omitempty"`
	SelectedWordID      *WordID           `json:"selected_word_id,omitempty"`
	CellInputs          map[string]string `json:"cell_inputs"`
	Status              GameStatus        `json:"status"`
	Stats               GameStats         `json:"game_stats"`
	WordCompletions     []WordCompletion  `json:"word_completions"`
	PuzzleID            PuzzleID          `json:"puzzle_id"`
	TurnTimeRemaining   int               `json:"turn_time_remaining"`
	TriviaTimeRemaining int               `json:"trivia_time_remaining"`
}

// SyncFromState extracts the syncable subset of a game state
func SyncFromState(s *GameState) *SyncState {
	c := s.Clone()
	return &SyncState{
		CurrentTurn:         c.CurrentTurn,
		Players:             c.Players,
		CompletedWordIDs:    c.CompletedWordIDs,
		TurnPhase:           c.TurnPhase,
		CurrentQuestion:     c.CurrentQuestion,
		LastFeedback:        c.LastFeedback,
		SelectedWordID:      c.SelectedWordID,
		CellInputs:          c.CellInputs,
		Status:              c.Status,
		Stats:               c.Stats,
		WordCompletions:     c.WordCompletions,
		PuzzleID:            c.PuzzleID,
		TurnTimeRemaining:   c.TurnTimeRemaining,
		TriviaTimeRemaining: c.TriviaTimeRemaining,
	}
}

// ApplyTo replaces the syncable fields of dst with the snapshot's. The
// operation is idempotent: applying the same snapshot twice leaves dst
// identical to applying it once.
func (ss *SyncState) ApplyTo(dst *GameState) {
	dst.CurrentTurn = ss.CurrentTurn
	dst.Players = ss.Players
	dst.CompletedWordIDs = append([]WordID(nil), ss.CompletedWordIDs...)
	dst.TurnPhase = ss.TurnPhase
	dst.CurrentQuestion = ss.CurrentQuestion
	dst.LastFeedback = ss.LastFeedback
	dst.SelectedWordID = ss.SelectedWordID
	dst.CellInputs = make(map[string]string, len(ss.CellInputs))
	for k, v := range ss.CellInputs {
		dst.CellInputs[k] = v
	}
	dst.Status = ss.Status
	dst.Stats = ss.Stats
	dst.WordCompletions = append([]WordCompletion(nil), ss.WordCompletions...)
	dst.PuzzleID = ss.PuzzleID
	dst.TurnTimeRemaining = ss.TurnTimeRemaining
	dst.TriviaTimeRemaining = ss.TriviaTimeRemaining
}

// SessionSnapshot is the client-local persisted form of an active game:
// the syncable state plus the host-only bookkeeping that must survive a
// reload within a session.
type SessionSnapshot struct {
	Sync            SyncState           `json:"sync"`
	Mode            GameMode            `json:"mode"`
	UsedQuestionIDs map[QuestionID]bool `json:"used_question_ids"`
	SelectedCell    *Position           `json:"selected_cell,omitempty"`
	StartedAt       time.Time           `json:"started_at"`
	RoomID          string              `json:"room_id,omitempty"`
	RoomCode        string              `json:"room_code,omitempty"`
	Role            PlayerRole          `json:"player_role,omitempty"`
}
