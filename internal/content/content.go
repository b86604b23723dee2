// Package content embeds the default puzzle and question catalogs so the
// binary works without external data files. Deployments can still point
// the loaders at their own JSON via LoadFromFile.
package content

import (
	_ "embed"
	"fmt"

	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/puzzle"
	"github.com/crossfire-game/crossfire-go/internal/services/question"
)

//go:embed puzzles_en.json
var puzzlesEN []byte

//go:embed puzzles_es.json
var puzzlesES []byte

//go:embed questions_en.json
var questionsEN []byte

//go:embed questions_es.json
var questionsES []byte

// Puzzles returns the embedded puzzle catalog for a language
func Puzzles(lang model.Language) ([]byte, error) {
	switch lang {
	case model.LanguageEnglish:
		return puzzlesEN, nil
	case model.LanguageSpanish:
		return puzzlesES, nil
	default:
		return nil, fmt.Errorf("no embedded puzzles for language %q", lang)
	}
}

// Questions returns the embedded question bank for a language
func Questions(lang model.Language) ([]byte, error) {
	switch lang {
	case model.LanguageEnglish:
		return questionsEN, nil
	case model.LanguageSpanish:
		return questionsES, nil
	default:
		return nil, fmt.Errorf("no embedded questions for language %q", lang)
	}
}

// LoadDefaults fills both services with the embedded catalogs for every
// supported language
func LoadDefaults(puzzles *puzzle.Service, questions *question.Service) error {
	for _, lang := range []model.Language{model.LanguageEnglish, model.LanguageSpanish} {
		pdata, err := Puzzles(lang)
		if err != nil {
			return err
		}
		if err := puzzles.LoadFromBytes(lang, pdata); err != nil {
			return fmt.Errorf("loading %s puzzles: %w", lang, err)
		}

		qdata, err := Questions(lang)
		if err != nil {
			return err
		}
		if err := questions.LoadFromBytes(lang, qdata); err != nil {
			return fmt.Errorf("loading %s questions: %w", lang, err)
		}
	}
	return nil
}
