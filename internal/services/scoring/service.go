package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/crossfire-game/crossfire-go/internal/model"
)

// Points a player must reach to end the game
const VictoryPoints = 150

// letterValues assigns each crossword letter its base point value
var letterValues = map[rune]int{
	'A': 1, 'B': 3, 'C': 3, 'D': 2, 'E': 1, 'F': 4, 'G': 2, 'H': 4,
	'I': 1, 'J': 8, 'K': 5, 'L': 1, 'M': 3, 'N': 1, 'O': 1, 'P': 3,
	'Q': 10, 'R': 1, 'S': 1, 'T': 1, 'U': 1, 'V': 4, 'W': 4, 'X': 8,
	'Y': 4, 'Z': 10,
}

// WordBaseScore sums the letter values of a word. Letters outside A-Z
// (Ñ and accented vowels in Spanish puzzles) count 1.
func WordBaseScore(word string) int {
	total := 0
	for _, r := range strings.ToUpper(word) {
		if v, ok := letterValues[r]; ok {
			total += v
		} else if unicode.IsLetter(r) {
			total++
		}
	}
	return total
}

// GameResult classifies the game's standing after a scoring event
type GameResult string

const (
	ResultPlaying GameResult = "playing"
	ResultVictory GameResult = "victory"
	ResultTie     GameResult = "tie"
)

// Service implements word validation, answer validation and score
// calculation. It is stateless; everything it needs arrives as arguments.
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// ValidateWord reports whether the typed input spells the word's answer,
// case-insensitively
func (s *Service) ValidateWord(word *model.Word, input string) bool {
	return strings.EqualFold(word.Answer, input)
}

// CalculateScore returns the points for completing a word. A correct
// trivia answer doubles the base score; a correct answer reached with
// the options hint earns 1.5x rounded down; a miss keeps the base.
func (s *Service) CalculateScore(word *model.Word, isCorrect, usedHint bool) int {
	base := WordBaseScore(word.Answer)
	switch {
	case isCorrect && usedHint:
		return base * 3 / 2
	case isCorrect:
		return base * 2
	default:
		return base
	}
}

// ValidateAnswer reports whether a free-form trivia answer matches.
// Matching is tolerant for open questions: exact after normalization,
// key-word containment, or substring containment of 3+ characters.
// Multiple choice accepts only an exact normalized match.
func (s *Service) ValidateAnswer(question *model.Question, answer string) bool {
	normAnswer := Normalize(answer)
	normCorrect := Normalize(question.Answer)

	if normAnswer == normCorrect {
		return true
	}
	if question.Type == model.QuestionMultipleChoice {
		return false
	}

	correctWords := keyWords(question.Answer)
	answerWords := keyWords(answer)
	if len(answerWords) == 0 {
		return false
	}

	// Comma-separated list answers demand every item, order-free
	if strings.Contains(question.Answer, ",") {
		return sameWordSet(correctWords, answerWords)
	}

	// Partial names pass when every given word appears in the answer
	if subset(answerWords, correctWords) {
		return true
	}

	if len(normAnswer) >= 3 && strings.Contains(normCorrect, normAnswer) {
		return true
	}
	if len(normCorrect) >= 3 && strings.Contains(normAnswer, normCorrect) {
		return true
	}
	return false
}

// CheckVictory classifies the game after a scoring event: a tie when
// both players reached the threshold or scores are level with the word
// list exhausted, a victory when one condition holds for a single
// player, otherwise still playing
func (s *Service) CheckVictory(players [2]model.Player, completedWords, totalWords int) GameResult {
	oneReached := players[0].Score >= VictoryPoints
	twoReached := players[1].Score >= VictoryPoints

	switch {
	case oneReached && twoReached:
		return ResultTie
	case oneReached || twoReached:
		return ResultVictory
	case completedWords >= totalWords:
		if players[0].Score == players[1].Score {
			return ResultTie
		}
		return ResultVictory
	default:
		return ResultPlaying
	}
}

// Winner returns the index of the higher-scoring player, or ok=false on
// a tie
func (s *Service) Winner(players [2]model.Player) (model.PlayerIndex, bool) {
	if players[0].Score == players[1].Score {
		return 0, false
	}
	if players[0].Score > players[1].Score {
		return model.PlayerOne, true
	}
	return model.PlayerTwo, true
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims and strips combining diacritical marks so
// that "García" and "garcia" compare equal
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		return lowered
	}
	return stripped
}

// stopWords are filler words ignored during key-word matching, covering
// both supported languages
var stopWords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true, "de": true,
	"del": true, "en": true, "un": true, "una": true, "al": true,
	"lo": true, "y": true, "o": true, "con": true, "por": true, "para": true,
	"the": true, "a": true, "an": true, "of": true, "in": true,
	"on": true, "at": true, "to": true, "and": true, "or": true,
	"for": true, "with": true, "by": true,
}

func keyWords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', ';', ':', '.':
			return ' '
		}
		return r
	}, Normalize(text))

	var words []string
	for _, w := range strings.Fields(cleaned) {
		if !stopWords[w] {
			words = append(words, w)
		}
	}
	return words
}

func subset(sub, super []string) bool {
	for _, w := range sub {
		found := false
		for _, s := range super {
			if w == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sameWordSet(a, b []string) bool {
	return subset(a, b) && subset(b, a)
}

// Interface for dependency injection
type ServiceInterface interface {
	ValidateWord(word *model.Word, input string) bool
	CalculateScore(word *model.Word, isCorrect, usedHint bool) int
	ValidateAnswer(question *model.Question, answer string) bool
	CheckVictory(players [2]model.Player, completedWords, totalWords int) GameResult
	Winner(players [2]model.Player) (model.PlayerIndex, bool)
}

var _ ServiceInterface = (*Service)(nil)
