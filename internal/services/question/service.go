package question

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/crossfire-game/crossfire-go/internal/dependencies/random"
	"github.com/crossfire-game/crossfire-go/internal/model"
)

// Service holds per-language trivia banks and hands out questions that
// match a category filter while avoiding repeats within a game
type Service struct {
	random random.Random

	mu    sync.RWMutex
	banks map[model.Language][]model.Question
}

// New creates a new question Service
func New(rnd random.Random) *Service {
	return &Service{
		random: rnd,
		banks:  make(map[model.Language][]model.Question),
	}
}

// LoadQuestions installs a bank for a language
func (s *Service) LoadQuestions(lang model.Language, questions []model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks[lang] = questions
}

// LoadFromFile loads a bank from a JSON file (array of questions)
func (s *Service) LoadFromFile(lang model.Language, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.LoadFromBytes(lang, data)
}

// LoadFromBytes loads a bank from raw JSON
func (s *Service) LoadFromBytes(lang model.Language, data []byte) error {
	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return err
	}
	s.LoadQuestions(lang, questions)
	return nil
}

// QuestionCount returns the number of questions loaded for a language
func (s *Service) QuestionCount(lang model.Language) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.banks[lang])
}

// GetRandom returns a random question from the bank whose category is in
// categories (any category when the filter is empty), excluding ids in
// used. Returns ErrNoQuestion once every matching question has been
// used; callers fall back to feedback without trivia.
func (s *Service) GetRandom(lang model.Language, categories []model.Category, used map[model.QuestionID]bool) (*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bank, ok := s.banks[lang]
	if !ok || len(bank) == 0 {
		return nil, model.ErrCatalogNotLoaded
	}

	matching := filter(bank, categories, used)
	if len(matching) == 0 {
		return nil, model.ErrNoQuestion
	}

	q := matching[s.random.Intn(len(matching))]
	out := *q
	out.Options = append([]string(nil), q.Options...)
	return &out, nil
}

func filter(bank []model.Question, categories []model.Category, used map[model.QuestionID]bool) []*model.Question {
	var out []*model.Question
	for i := range bank {
		q := &bank[i]
		if used[q.ID] {
			continue
		}
		if len(categories) > 0 && !containsCategory(categories, q.Category) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func containsCategory(categories []model.Category, c model.Category) bool {
	for _, cat := range categories {
		if cat == c {
			return true
		}
	}
	return false
}

// Interface for dependency injection
type ServiceInterface interface {
	LoadQuestions(lang model.Language, questions []model.Question)
	LoadFromFile(lang model.Language, path string) error
	LoadFromBytes(lang model.Language, data []byte) error
	QuestionCount(lang model.Language) int
	GetRandom(lang model.Language, categories []model.Category, used map[model.QuestionID]bool) (*model.Question, error)
}

var _ ServiceInterface = (*Service)(nil)
