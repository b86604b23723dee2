package model

// EventType identifies the type of engine event
type EventType string

const (
	EventGameStarted     EventType = "game_started"
	EventWordSelected    EventType = "word_selected"
	EventWordDeselected  EventType = "word_deselected"
	EventCellInput       EventType = "cell_input"
	EventInvalidWord     EventType = "invalid_word"
	EventWordCompleted   EventType = "word_completed"
	EventQuestionAsked   EventType = "question_asked"
	EventAnswerResolved  EventType = "answer_resolved"
	EventHintRevealed    EventType = "hint_revealed"
	EventOptionsRevealed EventType = "options_revealed"
	EventTurnSwitched    EventType = "turn_switched"
	EventGameFinished    EventType = "game_finished"
	EventMoveRejected    EventType = "move_rejected"
)

// Event is emitted by the engine on every notable transition. Side-effect
// consumers (sound, haptics, sync, persistence) subscribe to these; they
// never own state.
type Event struct {
	Type        EventType
	PlayerIndex PlayerIndex
	WordID      WordID
	Phase       TurnPhase
	Points      int
	Payload     any // type-specific extras
}
