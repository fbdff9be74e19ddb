// api/errors/resilience_errors.go
package errors

import "errors"

var (
	// ErrCircuitOpen is returned without calling the dependency while the
	// breaker cools down.
	ErrCircuitOpen           = errors.New("circuit open")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrDrainInProgress       = errors.New("queue drain already in progress")
)
