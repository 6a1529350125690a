package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bisub/internal/logging"
	"bisub/internal/services"
	"bisub/internal/services/gemini"
	"bisub/internal/services/llm"
)

func TestNewManagedProviderRequiresKey(t *testing.T) {
	if _, err := NewManagedProvider(gemini.Config{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := NewManagedProvider(gemini.Config{APIKey: "k", Model: "gpt-4"}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown model, got %v", err)
	}
	provider, err := NewManagedProvider(gemini.Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewManagedProvider returned error: %v", err)
	}
	if provider.Name() != "managed" || provider.Model() != gemini.DefaultModel {
		t.Fatalf("unexpected provider %s/%s", provider.Name(), provider.Model())
	}
}

func TestNewCompatibleProviderRequiresSettings(t *testing.T) {
	if _, err := NewCompatibleProvider(llm.Config{APIKey: "k", Model: "m"}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing base url, got %v", err)
	}
}

func TestCompatibleProviderEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": `{"translations":["Bonjour"]}`}},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	provider, err := NewCompatibleProvider(llm.Config{APIKey: "k", BaseURL: server.URL + "/v1", Model: "local"})
	if err != nil {
		t.Fatalf("NewCompatibleProvider returned error: %v", err)
	}
	batch := NewBatch(provider, DefaultPolicy(), logging.NewNop())
	got, err := batch.Translate(context.Background(), Request{Texts: []string{"Hello"}, TargetLanguage: "fr"})
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got[0] != "Bonjour" {
		t.Fatalf("unexpected translation %q", got[0])
	}
}

func TestManagedProviderEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"translations\":[\"Hallo\",\"Welt\"]}"}]}}]}`))
	}))
	defer server.Close()

	provider, err := NewManagedProvider(gemini.Config{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewManagedProvider returned error: %v", err)
	}
	batch := NewBatch(provider, DefaultPolicy(), logging.NewNop())
	got, err := batch.Translate(context.Background(), Request{Texts: []string{"Hello", "World"}, TargetLanguage: "de"})
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got[0] != "Hallo" || got[1] != "Welt" {
		t.Fatalf("unexpected translations %v", got)
	}
}
