package translate

import (
	"fmt"
	"strings"

	"bisub/internal/services"
	"bisub/internal/services/llm"
)

// LengthMismatchError reports a translations array whose length differs from
// the number of texts sent.
type LengthMismatchError struct {
	Expected int
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("expected %d translations, got %d", e.Expected, e.Actual)
}

type translationsPayload struct {
	Translations *[]string `json:"translations"`
}

// DecodeTranslations parses a provider response into exactly expected strings.
// Code fences are stripped first. When a single text was sent and several
// elements come back, they are joined with newlines into one translation.
func DecodeTranslations(content string, expected int) ([]string, error) {
	var payload translationsPayload
	if err := llm.DecodeContent(content, &payload); err != nil {
		return nil, services.Wrap(services.ErrResponseFormat, "translate", "decode response", "invalid JSON", err)
	}
	if payload.Translations == nil {
		return nil, services.Wrap(services.ErrResponseFormat, "translate", "decode response", "missing translations array", nil)
	}
	translations := *payload.Translations
	if expected == 1 && len(translations) > 1 {
		return []string{strings.Join(translations, "\n")}, nil
	}
	if len(translations) != expected {
		return nil, services.Wrap(services.ErrResponseFormat, "translate", "decode response", "",
			&LengthMismatchError{Expected: expected, Actual: len(translations)})
	}
	return translations, nil
}
