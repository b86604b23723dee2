package model

// PlayerIndex addresses one of the two players in a game
type PlayerIndex int

const (
	PlayerOne PlayerIndex = 0
	PlayerTwo PlayerIndex = 1
)

// Valid reports whether the index addresses a real player slot
func (i PlayerIndex) Valid() bool {
	return i == PlayerOne || i == PlayerTwo
}

// Opponent returns the other player's index
func (i PlayerIndex) Opponent() PlayerIndex {
	if i == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

// PlayerRole distinguishes the authoritative peer from the shadow peer
// in networked games
type PlayerRole string

const (
	RoleHost  PlayerRole = "host"
	RoleGuest PlayerRole = "guest"
)

// Index returns the player slot a role plays in: host is always player
// one, guest is always player two
func (r PlayerRole) Index() PlayerIndex {
	if r == RoleGuest {
		return PlayerTwo
	}
	return PlayerOne
}

// Player is a game participant
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	IsReady bool   `json:"is_ready"`
}

// GameStats accumulates per-player counters for the end-of-game summary
type GameStats struct {
	WordsCompleted [2]int `json:"words_completed_by_player"`
	CorrectAnswers [2]int `json:"correct_answers_by_player"`
	TotalSeconds   int    `json:"total_time_played"`
}

// WordCompletion is one entry of the append-only completion log
type WordCompletion struct {
	WordID      WordID      `json:"word_id"`
	PlayerIndex PlayerIndex `json:"player_index"`
	Points      int         `json:"points"`
}

// Feedback is the outcome of the most recent trivia attempt
type Feedback struct {
	IsCorrect     bool   `json:"is_correct"`
	PointsEarned  int    `json:"points_earned"`
	CorrectAnswer string `json:"correct_answer,omitempty"` // revealed only on a miss
}
