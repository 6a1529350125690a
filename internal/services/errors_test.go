package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bisub/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransport, "llm", "chat completion", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"llm", "chat completion", "request failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected default transport marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{services.Wrap(services.ErrConfiguration, "gemini", "new client", "api key required", nil), false},
		{services.Wrap(services.ErrValidation, "translate", "request", "no target language", nil), false},
		{services.Wrap(services.ErrTransport, "llm", "send", "", errors.New("reset")), true},
		{services.Wrap(services.ErrResponseFormat, "translate", "decode", "", nil), true},
		{fmt.Errorf("plain: %w", context.DeadlineExceeded), true},
		{errors.New("unclassified"), true},
	}
	for _, tc := range cases {
		if got := services.Retryable(tc.err); got != tc.want {
			t.Fatalf("Retryable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestFailureKind(t *testing.T) {
	if kind := services.FailureKind(services.Wrap(services.ErrConfiguration, "x", "y", "", nil)); kind != "configuration" {
		t.Fatalf("unexpected kind %q", kind)
	}
	if kind := services.FailureKind(errors.New("other")); kind != "unknown" {
		t.Fatalf("unexpected kind %q", kind)
	}
	if kind := services.FailureKind(nil); kind != "" {
		t.Fatalf("unexpected kind %q for nil", kind)
	}
}
