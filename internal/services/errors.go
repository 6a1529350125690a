package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration    = errors.New("configuration error")
	ErrTransport        = errors.New("transport error")
	ErrResponseFormat   = errors.New("response format error")
	ErrExhaustedRetries = errors.New("retries exhausted")
	ErrValidation       = errors.New("validation error")
)

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether a failed provider attempt may be repeated.
// Configuration and validation problems are final; everything else,
// including unclassified errors, is worth another attempt.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrValidation):
		return false
	case errors.Is(err, ErrExhaustedRetries):
		return false
	default:
		return true
	}
}

// FailureKind maps an error to the short label persisted in the run history.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrExhaustedRetries):
		return "exhausted_retries"
	case errors.Is(err, ErrResponseFormat):
		return "response_format"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
