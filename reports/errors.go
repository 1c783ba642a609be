package reports

import (
	"errors"
	"fmt"
)

// ErrScopeMissing means no business identifier was configured for the request.
// It is fatal to generation and surfaced to the user immediately; no retry.
var ErrScopeMissing = errors.New("business scope is not configured")

// ErrSuperseded means a newer generate call for the same scope was issued
// while this one was in flight. The result was discarded, not adopted.
var ErrSuperseded = errors.New("report generation superseded by a newer request")

// TransportError wraps a remote report-service failure. It is recovered via
// the local aggregator and surfaced only when the fallback also fails.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote report service unreachable (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
