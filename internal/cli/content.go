package cli

import (
	"fmt"
	"strings"

	"github.com/crossfire-game/crossfire-go/internal/model"
)

// splitContentSpec parses "<lang>=<path>" override flags
func splitContentSpec(spec string) (model.Language, string, error) {
	lang, path, ok := strings.Cut(spec, "=")
	if !ok || path == "" {
		return "", "", fmt.Errorf("content override must be <lang>=<path>, got %q", spec)
	}
	switch model.Language(lang) {
	case model.LanguageEnglish, model.LanguageSpanish:
		return model.Language(lang), path, nil
	default:
		return "", "", fmt.Errorf("unsupported language %q", lang)
	}
}
