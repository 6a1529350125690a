package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const snippetLimit = 160

// DecodeContent unmarshals model content into target. Content that fails to
// parse directly is retried after removing a Markdown fence and any prose
// around the outermost JSON object.
func DecodeContent(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}
	err := json.Unmarshal([]byte(trimmed), target)
	if err == nil {
		return nil
	}
	extracted := extractObject(trimmed)
	if extracted == trimmed {
		return fmt.Errorf("%w (payload snippet: %s)", err, snippet(trimmed))
	}
	if err := json.Unmarshal([]byte(extracted), target); err != nil {
		return fmt.Errorf("%w (extracted payload snippet: %s)", err, snippet(extracted))
	}
	return nil
}

func extractObject(content string) string {
	body := StripCodeFence(content)
	if body == "" || body[0] == '{' || body[0] == '[' {
		return body
	}
	start := strings.IndexByte(body, '{')
	end := strings.LastIndexByte(body, '}')
	if start < 0 || end <= start {
		return body
	}
	return strings.TrimSpace(body[start : end+1])
}

// StripCodeFence removes a surrounding ``` or ```json fence.
func StripCodeFence(content string) string {
	body, ok := strings.CutPrefix(strings.TrimSpace(content), "```")
	if !ok {
		return strings.TrimSpace(content)
	}
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// snippet collapses whitespace and truncates content for error messages.
func snippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	if runes := []rune(clean); len(runes) > snippetLimit {
		return string(runes[:snippetLimit]) + "..."
	}
	return clean
}
