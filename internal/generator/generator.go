// Package generator wraps the external content generation model behind a
// small contract the pipeline steps can depend on.
package generator

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no API credentials are available.
// Configuration validation should catch this before a job ever runs.
var ErrNotConfigured = errors.New("content generator not configured")

// Result is the outcome of one generation call.
type Result struct {
	// Text is the raw model output. May be non-JSON even when JSON was
	// requested; callers must parse defensively.
	Text string
	// TokensUsed is input plus output tokens for the call.
	TokensUsed int
}

// Generator produces text from a prompt. Calls are bounded by the context and
// an implementation-level timeout; a timeout surfaces as an error.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (*Result, error)
}
