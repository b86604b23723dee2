package puzzle

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/crossfire-game/crossfire-go/internal/dependencies/random"
	"github.com/crossfire-game/crossfire-go/internal/model"
)

// Service holds the per-language puzzle catalogs and answers lookup and
// random-selection queries over them
type Service struct {
	random random.Random

	mu         sync.RWMutex
	catalogs   map[model.Language][]model.Puzzle
	lastPicked map[model.Language]model.PuzzleID
}

// New creates a new puzzle Service
func New(rnd random.Random) *Service {
	return &Service{
		random:     rnd,
		catalogs:   make(map[model.Language][]model.Puzzle),
		lastPicked: make(map[model.Language]model.PuzzleID),
	}
}

// LoadPuzzles installs a catalog for a language, validating every puzzle
func (s *Service) LoadPuzzles(lang model.Language, puzzles []model.Puzzle) error {
	for i := range puzzles {
		if err := puzzles[i].Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs[lang] = puzzles
	return nil
}

// LoadFromFile loads a catalog from a JSON file (array of puzzles)
func (s *Service) LoadFromFile(lang model.Language, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.LoadFromBytes(lang, data)
}

// LoadFromBytes loads a catalog from raw JSON
func (s *Service) LoadFromBytes(lang model.Language, data []byte) error {
	var puzzles []model.Puzzle
	if err := json.Unmarshal(data, &puzzles); err != nil {
		return err
	}
	return s.LoadPuzzles(lang, puzzles)
}

// GetByID returns the puzzle with the given id from the language catalog
func (s *Service) GetByID(lang model.Language, id model.PuzzleID) (*model.Puzzle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	catalog, ok := s.catalogs[lang]
	if !ok {
		return nil, model.ErrCatalogNotLoaded
	}
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i], nil
		}
	}
	return nil, model.ErrPuzzleNotFound
}

// GetRandom picks a pseudo-random puzzle, avoiding the immediately
// previous pick when the catalog allows it
func (s *Service) GetRandom(lang model.Language) (*model.Puzzle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, ok := s.catalogs[lang]
	if !ok || len(catalog) == 0 {
		return nil, model.ErrCatalogNotLoaded
	}
	if len(catalog) == 1 {
		s.lastPicked[lang] = catalog[0].ID
		return &catalog[0], nil
	}

	last, hasLast := s.lastPicked[lang]
	idx := s.random.Intn(len(catalog))
	if hasLast && catalog[idx].ID == last {
		idx = (idx + 1 + s.random.Intn(len(catalog)-1)) % len(catalog)
	}

	s.lastPicked[lang] = catalog[idx].ID
	return &catalog[idx], nil
}

// PuzzleCount returns the number of puzzles loaded for a language
func (s *Service) PuzzleCount(lang model.Language) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.catalogs[lang])
}

// HintCell picks uniformly among the word's cells that are neither
// prefilled nor already holding the correct letter, returning the cell
// and its correct letter. ok is false when every cell is already right.
func (s *Service) HintCell(word *model.Word, inputs map[string]string, grid *model.Grid) (model.Position, string, bool) {
	var candidates []model.Position
	for _, c := range word.Cells() {
		if grid.PrefilledLetter(c) != "" {
			continue
		}
		if inputs[c.Key()] != word.LetterAt(c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return model.Position{}, "", false
	}
	pick := candidates[s.random.Intn(len(candidates))]
	return pick, word.LetterAt(pick), true
}

// Interface for dependency injection
type ServiceInterface interface {
	LoadPuzzles(lang model.Language, puzzles []model.Puzzle) error
	LoadFromFile(lang model.Language, path string) error
	LoadFromBytes(lang model.Language, data []byte) error
	GetByID(lang model.Language, id model.PuzzleID) (*model.Puzzle, error)
	GetRandom(lang model.Language) (*model.Puzzle, error)
	PuzzleCount(lang model.Language) int
	HintCell(word *model.Word, inputs map[string]string, grid *model.Grid) (model.Position, string, bool)
}

var _ ServiceInterface = (*Service)(nil)
