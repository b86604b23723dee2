package bot_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crossfire-game/crossfire-go/internal/dependencies/mocks"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/bot"
	"github.com/crossfire-game/crossfire-go/internal/services/game"
)

func TestRandomPolicySelectWord(t *testing.T) {
	random := mocks.NewMockRandom()
	policy := bot.NewRandomPolicy(random)

	words := []*model.Word{{ID: 1}, {ID: 2}, {ID: 3}}
	random.QueueIntn(2)
	require.Equal(t, model.WordID(3), policy.SelectWord(words).ID)

	require.Nil(t, policy.SelectWord(nil))
}

func TestRandomPolicyAnswerQuestion(t *testing.T) {
	random := mocks.NewMockRandom()
	policy := bot.NewRandomPolicy(random)

	open := &model.Question{Type: model.QuestionOpen, Answer: "Paris"}
	mc := &model.Question{Type: model.QuestionMultipleChoice, Answer: "Water", Options: []string{"Water", "Salt", "Air"}}

	// With the hint the answer is always right
	require.Equal(t, "Paris", policy.AnswerQuestion(open, true))

	// Roll under accuracy: correct
	random.QueueFloat64(0.5)
	require.Equal(t, "Paris", policy.AnswerQuestion(open, false))

	// Roll over accuracy on an open question: blank answer
	random.QueueFloat64(0.9)
	require.Equal(t, "", policy.AnswerQuestion(open, false))

	// Roll over accuracy on multiple choice: a wrong option
	random.QueueFloat64(0.9)
	random.QueueIntn(1)
	require.Equal(t, "Air", policy.AnswerQuestion(mc, false))
}

func TestRandomPolicyShouldUseHint(t *testing.T) {
	random := mocks.NewMockRandom()
	policy := bot.NewRandomPolicy(random)

	// Too poor to afford the hint
	require.False(t, policy.ShouldUseHint(game.TriviaHintCost-1))

	random.QueueFloat64(0.1)
	require.True(t, policy.ShouldUseHint(20))

	random.QueueFloat64(0.9)
	require.False(t, policy.ShouldUseHint(20))
}

func TestRandomPolicyThinkDelay(t *testing.T) {
	random := mocks.NewMockRandom()
	policy := bot.NewRandomPolicy(random)

	random.QueueFloat64(0.0)
	require.Equal(t, bot.ThinkMin, policy.ThinkDelay())

	random.QueueFloat64(0.5)
	d := policy.ThinkDelay()
	require.Greater(t, d, bot.ThinkMin)
	require.Less(t, d, bot.ThinkMax)
}
