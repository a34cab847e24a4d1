package speech

import "errors"

// Error taxonomy of the gateway. Validation failures are client errors;
// everything the Edge service does wrong is a server error. An empty voice
// list is not an error at all.
var (
	// ErrInvalidArgument marks a request rejected before any external call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrServiceUnavailable marks a failure to reach the Edge service.
	ErrServiceUnavailable = errors.New("speech service unavailable")

	// ErrSynthesis marks a synthesis turn that failed after it started.
	ErrSynthesis = errors.New("synthesis failed")
)
