package llm

import (
	"fmt"
	"strings"
)

// HTTPStatusError reports a non-2xx response from the endpoint.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, snippet(e.Body))
}

type emptyContentError struct {
	FinishReason string
	Refusal      string
	Snippet      string
}

func (e *emptyContentError) Error() string {
	return fmt.Sprintf("empty content (finish_reason=%q, refusal=%q, response_snippet=%s)",
		e.FinishReason, e.Refusal, e.Snippet)
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// chatChoice accepts the non-streaming message, a stray streaming delta, and
// the legacy completion text field. Local servers emit all three.
type chatChoice struct {
	Message      replyMessage `json:"message"`
	Delta        replyMessage `json:"delta"`
	Text         string       `json:"text"`
	FinishReason string       `json:"finish_reason"`
}

type replyMessage struct {
	Content   string `json:"content"`
	Refusal   string `json:"refusal"`
	ToolCalls []struct {
		Function struct {
			Arguments string `json:"arguments"`
		} `json:"function"`
	} `json:"tool_calls"`
	FunctionCall *struct {
		Arguments string `json:"arguments"`
	} `json:"function_call"`
}

// arguments returns JSON a model placed in a tool or function call instead
// of the content field.
func (m replyMessage) arguments() string {
	if m.FunctionCall != nil {
		if args := strings.TrimSpace(m.FunctionCall.Arguments); args != "" {
			return args
		}
	}
	for _, call := range m.ToolCalls {
		if args := strings.TrimSpace(call.Function.Arguments); args != "" {
			return args
		}
	}
	return ""
}

type extracted struct {
	text         string
	finishReason string
	refusal      string
}

func (r chatResponse) firstContent() extracted {
	var out extracted
	for _, choice := range r.Choices {
		if out.finishReason == "" {
			out.finishReason = strings.TrimSpace(choice.FinishReason)
		}
		if out.refusal == "" {
			out.refusal = firstNonEmpty(choice.Message.Refusal, choice.Delta.Refusal)
		}
		out.text = firstNonEmpty(
			choice.Message.Content,
			choice.Delta.Content,
			choice.Text,
			choice.Message.arguments(),
			choice.Delta.arguments(),
		)
		if out.text != "" {
			return out
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
