package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/crossfire-game/crossfire-go/internal/dependencies/mocks"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/puzzle"
	"github.com/crossfire-game/crossfire-go/internal/services/question"
	"github.com/crossfire-game/crossfire-go/internal/services/scoring"
)

type SessionTestSuite struct {
	suite.Suite

	clock   *mocks.MockClock
	random  *mocks.MockRandom
	session *Session

	snapshots []*model.SyncState
	events    []model.Event
}

func (s *SessionTestSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.snapshots = nil
	s.events = nil

	questions := question.New(s.random)
	questions.LoadQuestions(model.LanguageEnglish, []model.Question{
		{ID: "q1", Text: "Capital of France?", Type: model.QuestionOpen, Answer: "Paris", Category: model.CategoryGeography},
	})

	s.session = NewSession(Config{
		Mode:        model.ModeLocal,
		Puzzle:      enginePuzzle(),
		Language:    model.LanguageEnglish,
		PlayerNames: [2]string{"Ada", "Grace"},
		Scoring:     scoring.New(),
		Questions:   questions,
		Puzzles:     puzzle.New(s.random),
		Clock:       s.clock,
	})
	s.session.Subscribe(func(snap *model.SyncState) {
		s.snapshots = append(s.snapshots, snap)
	})
	s.session.OnEvent(func(ev model.Event) {
		s.events = append(s.events, ev)
	})
	s.session.Start()
}

func (s *SessionTestSuite) TearDownTest() {
	s.session.Close()
}

func (s *SessionTestSuite) completeWordIntoQuestion() {
	s.random.QueueIntn(0)
	s.Require().NoError(s.session.SelectWord(model.PlayerOne, 1))
	word := enginePuzzle().WordByID(1)
	for i, c := range word.Cells() {
		s.Require().NoError(s.session.InputCell(model.PlayerOne, c.Key(), string("CAT"[i])))
	}
	s.Require().NoError(s.session.SubmitWord(model.PlayerOne, 1))
}

func (s *SessionTestSuite) TestBroadcastsSnapshotOnEveryMutation() {
	s.Require().NoError(s.session.SelectWord(model.PlayerOne, 1))

	s.Require().NotEmpty(s.snapshots)
	last := s.snapshots[len(s.snapshots)-1]
	s.Equal(model.PhaseTyping, last.TurnPhase)
	s.Equal(model.WordID(1), *last.SelectedWordID)
}

func (s *SessionTestSuite) TestTickCountsDown() {
	before := s.session.State().TurnTimeRemaining
	s.clock.Advance(3 * time.Second)
	s.Equal(before-3, s.session.State().TurnTimeRemaining)
}

func (s *SessionTestSuite) TestTurnTimerExpiryPassesTurn() {
	s.clock.Advance(TurnTimerSeconds * time.Second)
	state := s.session.State()
	s.Equal(model.PlayerTwo, state.CurrentTurn)
	s.Equal(model.PhaseSelecting, state.TurnPhase)
}

func (s *SessionTestSuite) TestTriviaTimerExpiry() {
	s.completeWordIntoQuestion()

	s.clock.Advance(TriviaTimerSeconds * time.Second)
	state := s.session.State()
	s.Equal(model.PhaseFeedback, state.TurnPhase)
	s.False(state.LastFeedback.IsCorrect)
}

func (s *SessionTestSuite) TestFeedbackAutoAdvances() {
	s.completeWordIntoQuestion()
	s.Require().NoError(s.session.SubmitAnswer(model.PlayerOne, "paris", false))
	s.Equal(model.PhaseFeedback, s.session.State().TurnPhase)

	s.clock.Advance(FeedbackCorrectDuration)
	state := s.session.State()
	s.Equal(model.PlayerTwo, state.CurrentTurn)
	s.Equal(model.PhaseSelecting, state.TurnPhase)
}

func (s *SessionTestSuite) TestTurnTimerFrozenDuringQuestion() {
	s.completeWordIntoQuestion()
	before := s.session.State().TurnTimeRemaining

	s.clock.Advance(5 * time.Second)
	state := s.session.State()
	s.Equal(before, state.TurnTimeRemaining)
	s.Equal(TriviaTimerSeconds-5, state.TriviaTimeRemaining)
}

func (s *SessionTestSuite) TestRejectedMoveEmitsEventWithoutSnapshotChange() {
	err := s.session.ApplyMove(model.PlayerTwo, &model.Move{Type: model.MoveSelectWord, WordID: 1})
	s.ErrorIs(err, model.ErrNotPlayerTurn)

	s.Require().NotEmpty(s.events)
	s.Equal(model.EventMoveRejected, s.events[len(s.events)-1].Type)
	s.Equal(model.PhaseSelecting, s.session.State().TurnPhase)
}

func (s *SessionTestSuite) TestCloseStopsTimers() {
	s.session.Close()
	before := s.session.State().TurnTimeRemaining
	s.clock.Advance(10 * time.Second)
	s.Equal(before, s.session.State().TurnTimeRemaining)
}

func (s *SessionTestSuite) TestListenerMayReenterSession() {
	entered := false
	s.session.OnEvent(func(ev model.Event) {
		if ev.Type == model.EventWordSelected && !entered {
			entered = true
			_ = s.session.InputCell(model.PlayerOne, "0-0", "C")
		}
	})

	s.Require().NoError(s.session.SelectWord(model.PlayerOne, 1))
	s.True(entered)
	s.Equal("C", s.session.State().CellInputs["0-0"])
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}
