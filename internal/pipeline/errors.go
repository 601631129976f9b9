package pipeline

import "errors"

// Sentinel errors the HTTP layer maps onto status codes. Wrap them with
// fmt.Errorf("%w: ...") so errors.Is keeps working through the chain.
var (
	// ErrValidation marks a malformed request (missing page type, bad body).
	ErrValidation = errors.New("invalid request")

	// ErrInvalidStep marks an unknown step name, a non-forced re-run of a
	// completed step, or a step whose prerequisites have not produced output.
	ErrInvalidStep = errors.New("invalid pipeline step")

	// ErrAlreadyTerminal marks an advance attempt on a completed or failed job.
	ErrAlreadyTerminal = errors.New("job is in a terminal state")

	// ErrUpstream marks a content generation call that failed.
	ErrUpstream = errors.New("content generation failed")

	// ErrFetch marks a required site fetch that failed.
	ErrFetch = errors.New("site fetch failed")
)
