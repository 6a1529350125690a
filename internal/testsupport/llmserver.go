package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// TranslateFunc produces the translations array for one request's texts.
// Returning a non-zero status makes the server fail the request with it.
type TranslateFunc func(call int, texts []string) (translations []string, status int)

// LLMServer is a fake OpenAI-compatible chat completions endpoint.
type LLMServer struct {
	*httptest.Server

	mu       sync.Mutex
	calls    int
	contexts []string
}

// Prefixer translates every text as prefix+text.
func Prefixer(prefix string) TranslateFunc {
	return func(_ int, texts []string) ([]string, int) {
		out := make([]string, len(texts))
		for i, text := range texts {
			out[i] = prefix + text
		}
		return out, 0
	}
}

// NewLLMServer starts a fake provider answering with fn. The server's URL
// plus "/v1" is the base URL to configure.
func NewLLMServer(t testing.TB, fn TranslateFunc) *LLMServer {
	t.Helper()

	srv := &LLMServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Messages) < 2 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		var payload struct {
			Texts           []string `json:"texts"`
			PreviousContext string   `json:"previous_context"`
		}
		if err := json.Unmarshal([]byte(body.Messages[len(body.Messages)-1].Content), &payload); err != nil || payload.Texts == nil {
			// Health probes send a free-form prompt.
			writeCompletion(w, `{"ok":true}`)
			return
		}

		srv.mu.Lock()
		srv.calls++
		call := srv.calls
		srv.contexts = append(srv.contexts, payload.PreviousContext)
		srv.mu.Unlock()

		translations, status := fn(call, payload.Texts)
		if status != 0 {
			http.Error(w, strings.ToLower(http.StatusText(status)), status)
			return
		}
		content, _ := json.Marshal(map[string][]string{"translations": translations})
		writeCompletion(w, string(content))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// BaseURL returns the provider base URL for config.
func (s *LLMServer) BaseURL() string {
	return s.URL + "/v1"
}

// Calls returns the number of completion requests served.
func (s *LLMServer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Contexts returns the previous_context value of each request in order.
func (s *LLMServer) Contexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.contexts...)
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
}
