// Package generation orchestrates content-generation operations: cache
// lookup, remote-call resilience, response repair and validation, and the
// local synthesis fallback. No remote-provider error ever escapes to the
// caller; only request contract violations do.
package generation

import "fmt"

// RequestError is a contract violation in the caller's request (missing
// required fields, unknown operation). It is surfaced directly rather than
// masked by the fallback path.
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid generation request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid generation request: %s", e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// malformedError marks a remote response that could not be parsed or failed
// schema validation after repair. It counts as a breaker failure and sends
// the operation to the local path without being retried.
type malformedError struct {
	Cause error
}

func (e *malformedError) Error() string {
	return fmt.Sprintf("malformed remote response: %v", e.Cause)
}

func (e *malformedError) Unwrap() error {
	return e.Cause
}
