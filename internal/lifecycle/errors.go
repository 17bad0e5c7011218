package lifecycle

import "errors"

var (
	// ErrInvalidState indicates the cached entity no longer satisfies the
	// action's precondition; the view is stale and needs a re-sync.
	ErrInvalidState = errors.New("entity not in required state")
	// ErrAlreadyProcessed guards request idempotency: approve or reject on a
	// terminal request must fail rather than double-apply.
	ErrAlreadyProcessed = errors.New("request already processed")
	// ErrNotFound indicates the entity is absent from the cached scope.
	ErrNotFound = errors.New("entity not in cache")
	// ErrValidation indicates a client-side input check failed before any
	// network call was made.
	ErrValidation = errors.New("validation failed")
)
