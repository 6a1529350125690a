package translate

import (
	"errors"
	"strings"
	"testing"

	"bisub/internal/services"
)

func TestDecodeTranslations(t *testing.T) {
	got, err := DecodeTranslations("```json\n{\"translations\":[\"uno\",\"dos\"]}\n```", 2)
	if err != nil {
		t.Fatalf("DecodeTranslations returned error: %v", err)
	}
	if len(got) != 2 || got[0] != "uno" || got[1] != "dos" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestDecodeTranslationsOverSplit(t *testing.T) {
	got, err := DecodeTranslations(`{"translations":["a","b"]}`, 1)
	if err != nil {
		t.Fatalf("DecodeTranslations returned error: %v", err)
	}
	if len(got) != 1 || got[0] != "a\nb" {
		t.Fatalf("expected [\"a\\nb\"], got %q", got)
	}
}

func TestDecodeTranslationsFailures(t *testing.T) {
	cases := map[string]struct {
		content  string
		expected int
		contains string
	}{
		"invalid json":     {"not json at all", 1, "invalid JSON"},
		"missing field":    {`{"result":["a"]}`, 1, "missing translations array"},
		"length mismatch":  {`{"translations":["a","b"]}`, 3, "expected 3 translations, got 2"},
		"fewer for single": {`{"translations":[]}`, 1, "expected 1 translations, got 0"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeTranslations(tc.content, tc.expected)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrResponseFormat) {
				t.Fatalf("expected response format error, got %v", err)
			}
			if !services.Retryable(err) {
				t.Fatalf("response format errors must be retryable: %v", err)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Fatalf("expected %q in %q", tc.contains, err.Error())
			}
		})
	}
}
