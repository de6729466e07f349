package gateway

import "fmt"

// ErrorKind classifies a failed scoring call. Any kind causes the sample to
// be dropped from the surrogate fit; none are retried by the engine.
type ErrorKind string

const (
	ErrTimeout    ErrorKind = "timeout"
	ErrHTTP       ErrorKind = "http_error"
	ErrConnection ErrorKind = "connection_error"
	ErrParse      ErrorKind = "parse_error"
)

// CallError is a typed per-call scoring failure
type CallError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *CallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("scoring call failed (%s, status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("scoring call failed (%s): %v", e.Kind, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
