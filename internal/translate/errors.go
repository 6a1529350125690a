package translate

import (
	"fmt"

	"bisub/internal/services"
)

// ExhaustedRetriesError is returned once every attempt for a chunk has failed.
// Err holds the last attempt's failure.
type ExhaustedRetriesError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("translation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.Err
}

// Is reports a match against services.ErrExhaustedRetries.
func (e *ExhaustedRetriesError) Is(target error) bool {
	return target == services.ErrExhaustedRetries
}
