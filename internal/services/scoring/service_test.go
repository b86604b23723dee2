package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/scoring"
)

type ServiceTestSuite struct {
	suite.Suite

	service *scoring.Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.service = scoring.New()
}

func (s *ServiceTestSuite) TestWordBaseScore() {
	s.Equal(5, scoring.WordBaseScore("CAT"))   // 3+1+1
	s.Equal(5, scoring.WordBaseScore("cat"))   // case-insensitive
	s.Equal(22, scoring.WordBaseScore("QUIZ")) // 10+1+1+10
	s.Equal(3, scoring.WordBaseScore("AÑO"))   // Ñ counts 1
}

func (s *ServiceTestSuite) TestValidateWord() {
	w := &model.Word{Answer: "CAT"}
	s.True(s.service.ValidateWord(w, "cat"))
	s.True(s.service.ValidateWord(w, "CAT"))
	s.False(s.service.ValidateWord(w, "CAR"))
}

func (s *ServiceTestSuite) TestCalculateScore() {
	w := &model.Word{Answer: "CAT"} // base 5
	s.Equal(10, s.service.CalculateScore(w, true, false))
	s.Equal(7, s.service.CalculateScore(w, true, true)) // floor(5*1.5)
	s.Equal(5, s.service.CalculateScore(w, false, false))
	s.Equal(5, s.service.CalculateScore(w, false, true))
}

func (s *ServiceTestSuite) TestValidateAnswerExact() {
	q := &model.Question{Type: model.QuestionOpen, Answer: "Paris"}
	s.True(s.service.ValidateAnswer(q, "paris"))
	s.True(s.service.ValidateAnswer(q, "  PARIS  "))
	s.False(s.service.ValidateAnswer(q, "London"))
}

func (s *ServiceTestSuite) TestValidateAnswerDiacritics() {
	q := &model.Question{Type: model.QuestionOpen, Answer: "García Márquez"}
	s.True(s.service.ValidateAnswer(q, "garcia marquez"))
}

func (s *ServiceTestSuite) TestValidateAnswerPartialName() {
	q := &model.Question{Type: model.QuestionOpen, Answer: "Pablo Picasso"}
	s.True(s.service.ValidateAnswer(q, "Picasso"))
	s.False(s.service.ValidateAnswer(q, "Pablo Neruda"))
}

func (s *ServiceTestSuite) TestValidateAnswerStopWords() {
	q := &model.Question{Type: model.QuestionOpen, Answer: "The Nile"}
	s.True(s.service.ValidateAnswer(q, "nile"))
}

func (s *ServiceTestSuite) TestValidateAnswerSubstring() {
	q := &model.Question{Type: model.QuestionOpen, Answer: "Photosynthesis"}
	s.True(s.service.ValidateAnswer(q, "photosynthesi"))
	// Below the 3-character floor
	q2 := &model.Question{Type: model.QuestionOpen, Answer: "Oxygen"}
	s.False(s.service.ValidateAnswer(q2, "ox"))
}

func (s *ServiceTestSuite) TestValidateAnswerListRequiresAllItems() {
	q := &model.Question{Type: model.QuestionOpen, Answer: "Mercury, Venus, Earth"}
	s.True(s.service.ValidateAnswer(q, "earth venus mercury"))
	s.False(s.service.ValidateAnswer(q, "mercury venus"))
	s.False(s.service.ValidateAnswer(q, "mercury venus earth mars"))
}

func (s *ServiceTestSuite) TestValidateAnswerMultipleChoiceExactOnly() {
	q := &model.Question{Type: model.QuestionMultipleChoice, Answer: "Pablo Picasso"}
	s.True(s.service.ValidateAnswer(q, "pablo picasso"))
	s.False(s.service.ValidateAnswer(q, "Picasso"))
}

func (s *ServiceTestSuite) TestCheckVictory() {
	players := func(a, b int) [2]model.Player {
		return [2]model.Player{{Score: a}, {Score: b}}
	}

	s.Equal(scoring.ResultPlaying, s.service.CheckVictory(players(100, 90), 3, 8))
	s.Equal(scoring.ResultVictory, s.service.CheckVictory(players(150, 90), 3, 8))
	s.Equal(scoring.ResultTie, s.service.CheckVictory(players(150, 155), 3, 8))
	s.Equal(scoring.ResultVictory, s.service.CheckVictory(players(80, 70), 8, 8))
	s.Equal(scoring.ResultTie, s.service.CheckVictory(players(80, 80), 8, 8))
}

func (s *ServiceTestSuite) TestWinner() {
	winner, ok := s.service.Winner([2]model.Player{{Score: 10}, {Score: 20}})
	s.True(ok)
	s.Equal(model.PlayerTwo, winner)

	_, ok = s.service.Winner([2]model.Player{{Score: 10}, {Score: 10}})
	s.False(ok)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
