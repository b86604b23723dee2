package game

import "time"

// Gameplay tuning constants
const (
	TurnTimerSeconds   = 180
	TriviaTimerSeconds = 60

	FeedbackCorrectDuration   = 4 * time.Second
	FeedbackIncorrectDuration = 4 * time.Second

	HintLetterCost = 3
	TriviaHintCost = 5

	GridRows = 10
	GridCols = 12
)
