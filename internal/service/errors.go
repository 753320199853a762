package service

import "errors"

// Error kinds returned by the services. Handlers map these to HTTP
// status codes with errors.Is; everything else is a 500.
var (
	// ErrNotFound means a plan, slot, meal or entry id did not resolve.
	// No state is mutated when it is returned.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means a day index, meal type or quantity was out
	// of range. Rejected before any mutation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSuggestionUnavailable means the suggestion provider failed or
	// timed out. Existing plan state is untouched; callers may retry.
	ErrSuggestionUnavailable = errors.New("suggestion unavailable")

	// ErrInconsistent means stored totals disagreed with the sum over
	// slots. The totals are repaired from the slots when detected.
	ErrInconsistent = errors.New("totals inconsistent with slots")
)
