package bot

import (
	"time"

	"github.com/crossfire-game/crossfire-go/internal/dependencies/random"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/game"
)

// Bot tuning constants
const (
	Name = "Socrates"

	Accuracy        = 0.7
	HintProbability = 0.3

	ThinkMin = 3 * time.Second
	ThinkMax = 7 * time.Second
)

// Policy decides what the bot does; the Runner decides when. Keeping
// decisions behind an interface lets tests drive the Runner with a
// deterministic policy.
type Policy interface {
	// SelectWord picks the word to attempt from the uncompleted ones
	SelectWord(available []*model.Word) *model.Word

	// ShouldUseHint decides whether to buy the options hint, given the
	// bot's current score
	ShouldUseHint(score int) bool

	// AnswerQuestion produces the bot's answer. With the hint bought the
	// options are visible and the bot always answers correctly.
	AnswerQuestion(q *model.Question, usedHint bool) string

	// ThinkDelay returns how long the bot pretends to think
	ThinkDelay() time.Duration
}

// RandomPolicy answers correctly with a fixed probability and picks
// words uniformly
type RandomPolicy struct {
	random random.Random
}

// NewRandomPolicy creates the default bot policy
func NewRandomPolicy(rnd random.Random) *RandomPolicy {
	return &RandomPolicy{random: rnd}
}

var _ Policy = (*RandomPolicy)(nil)

func (p *RandomPolicy) SelectWord(available []*model.Word) *model.Word {
	if len(available) == 0 {
		return nil
	}
	return available[p.random.Intn(len(available))]
}

func (p *RandomPolicy) ShouldUseHint(score int) bool {
	if score < game.TriviaHintCost {
		return false
	}
	return p.random.Float64() < HintProbability
}

func (p *RandomPolicy) AnswerQuestion(q *model.Question, usedHint bool) string {
	if usedHint {
		return q.Answer
	}
	if p.random.Float64() < Accuracy {
		return q.Answer
	}
	if q.Type == model.QuestionMultipleChoice {
		wrong := q.WrongOptions()
		if len(wrong) > 0 {
			return wrong[p.random.Intn(len(wrong))]
		}
	}
	return ""
}

func (p *RandomPolicy) ThinkDelay() time.Duration {
	spread := ThinkMax - ThinkMin
	return ThinkMin + time.Duration(p.random.Float64()*float64(spread))
}
