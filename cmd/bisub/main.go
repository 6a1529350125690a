package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"bisub/internal/services"
)

// Exit codes. Usage covers bad configuration and invalid input; interrupted
// runs exit like a shell would after SIGINT.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(reportError(err))
	}
}

func reportError(err error) int {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "interrupted")
		return exitInterrupted
	}
	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, services.ErrConfiguration) || errors.Is(err, services.ErrValidation) {
		return exitUsage
	}
	return exitFailure
}
