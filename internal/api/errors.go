package api

import "fmt"

// The four failure kinds every caller distinguishes. ValidationError never
// reaches the network; the other three classify what came back (or didn't).

// ValidationError reports input rejected before any request was sent.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// Validationf builds a ValidationError.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a 404: the referenced record no longer exists.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string {
	if e.Detail == "" {
		return "not found"
	}
	return e.Detail
}

// RemoteError is any other non-2xx response. Detail carries the server's
// human-readable message verbatim.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server error (http %d)", e.Status)
	}
	return e.Detail
}

// TransportError means no response was received at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "connection error: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
