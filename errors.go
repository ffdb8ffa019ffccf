package equeue

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrInvalidSize is returned by Create/CreateInplace when the requested
	// region size cannot hold even a single minimal-size slot.
	ErrInvalidSize = errors.New("equeue: invalid region size")

	// ErrDispatchAlreadyRunning is returned by Dispatch when another
	// goroutine is already dispatching the same Queue. Only one dispatcher
	// per Queue is supported at a time.
	ErrDispatchAlreadyRunning = errors.New("equeue: dispatch already running")
)

// wrapConstructError wraps a construction-time failure (region or
// primitive setup) the way Create/CreateInplace report it: an error
// satisfying errors.Is against the cause, with the failing stage named.
func wrapConstructError(stage string, cause error) error {
	return fmt.Errorf("equeue: construct %s: %w", stage, cause)
}
