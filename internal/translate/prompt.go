package translate

import (
	"encoding/json"
	"fmt"
	"strings"

	"bisub/internal/language"
)

const systemPromptTemplate = `You are a professional translator. Translate every element of the "texts" array into %s (%s) using a %s tone.

Rules:
- Translate each element independently and keep a strict 1:1 mapping with the input order.
- Never split one element into several, and never merge several elements into one.
- Preserve line breaks that appear inside an element.
- "previous_context", when present, is the already translated line that comes right before this batch. Use it only for continuity. Do not translate it and do not return it.
- Respond with only a JSON object of the form {"translations": ["..."]} containing exactly %d strings.
- Do not add explanations, notes, or Markdown code fences.`

// SystemPrompt builds the instruction shared by every provider.
func SystemPrompt(targetLanguage, tone string, count int) string {
	code := strings.TrimSpace(targetLanguage)
	if normalized, err := language.Normalize(code); err == nil {
		code = normalized
	}
	tone = strings.TrimSpace(tone)
	if tone == "" {
		tone = "neutral"
	}
	return fmt.Sprintf(systemPromptTemplate, language.DisplayName(code), code, tone, count)
}

type userPayload struct {
	Texts           []string `json:"texts"`
	PreviousContext string   `json:"previous_context,omitempty"`
}

// UserPrompt encodes the texts of one chunk together with the optional prior
// context line.
func UserPrompt(texts []string, priorContext string) (string, error) {
	payload := userPayload{
		Texts:           texts,
		PreviousContext: strings.TrimSpace(priorContext),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode user prompt: %w", err)
	}
	return string(data), nil
}
