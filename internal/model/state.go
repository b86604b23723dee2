package model

import "time"

// GameStatus is the coarse lifecycle of a game
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished" // terminal
)

// GameMode selects who the second player is and where authority lives
type GameMode string

const (
	ModeSolo        GameMode = "solo"        // local human vs bot
	ModeLocal       GameMode = "local"       // two humans, one process
	ModeMultiplayer GameMode = "multiplayer" // host/guest over the relay
)

// TurnPhase is the fine-grained state of the acting player's turn
type TurnPhase string

const (
	PhaseSelecting TurnPhase = "selecting"
	PhaseTyping    TurnPhase = "typing"
	PhaseQuestion  TurnPhase = "question"
	PhaseFeedback  TurnPhase = "feedback"
)

// GameState is the single mutable aggregate for one game instance.
// Exactly one process owns the canonical copy: the host in networked
// games, the sole process otherwise. Guests hold a shadow copy that is
// wholesale-replaced on every sync.
type GameState struct {
	Status      GameStatus  `json:"status"`
	Mode        GameMode    `json:"mode"`
	CurrentTurn PlayerIndex `json:"current_turn"`
	Players     [2]Player   `json:"players"`

	PuzzleID         PuzzleID `json:"puzzle_id"`
	CompletedWordIDs []WordID `json:"completed_word_ids"`

	TurnPhase      TurnPhase         `json:"turn_phase"`
	SelectedWordID *WordID           `json:"selected_word_id,omitempty"`
	SelectedCell   *Position         `json:"selected_cell,omitempty"`
	CellInputs     map[string]string `json:"cell_inputs"`

	CurrentQuestion *Question `json:"current_question,omitempty"`
	LastFeedback    *Feedback `json:"last_feedback,omitempty"`

	UsedQuestionIDs map[QuestionID]bool `json:"used_question_ids"`

	Stats           GameStats        `json:"game_stats"`
	WordCompletions []WordCompletion `json:"word_completions"`

	TurnTimeRemaining   int `json:"turn_time_remaining"`
	TriviaTimeRemaining int `json:"trivia_time_remaining"`

	StartedAt time.Time `json:"started_at"`

	// Networked mode only
	RoomID   string     `json:"room_id,omitempty"`
	RoomCode string     `json:"room_code,omitempty"`
	Role     PlayerRole `json:"player_role,omitempty"`
}

// IsWordCompleted reports whether the word has already been completed
func (s *GameState) IsWordCompleted(id WordID) bool {
	for _, c := range s.CompletedWordIDs {
		if c == id {
			return true
		}
	}
	return false
}

// CurrentPlayer returns the player whose turn it is
func (s *GameState) CurrentPlayer() *Player {
	return &s.Players[s.CurrentTurn]
}

// Clone returns a deep copy, safe to hand to other goroutines
func (s *GameState) Clone() *GameState {
	out := *s

	out.CompletedWordIDs = append([]WordID(nil), s.CompletedWordIDs...)
	out.WordCompletions = append([]WordCompletion(nil), s.WordCompletions...)

	out.CellInputs = make(map[string]string, len(s.CellInputs))
	for k, v := range s.CellInputs {
		out.CellInputs[k] = v
	}

	out.UsedQuestionIDs = make(map[QuestionID]bool, len(s.UsedQuestionIDs))
	for k, v := range s.UsedQuestionIDs {
		out.UsedQuestionIDs[k] = v
	}

	if s.SelectedWordID != nil {
		id := *s.SelectedWordID
		out.SelectedWordID = &id
	}
	if s.SelectedCell != nil {
		cell := *s.SelectedCell
		out.SelectedCell = &cell
	}
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		q.Options = append([]string(nil), s.CurrentQuestion.Options...)
		out.CurrentQuestion = &q
	}
	if s.LastFeedback != nil {
		fb := *s.LastFeedback
		out.LastFeedback = &fb
	}

	return &out
}
