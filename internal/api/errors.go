package api

import (
	"errors"
	"fmt"
)

// Every failure the client can surface folds into one of these four.
// All of them are recoverable at the screen level: the last good
// snapshot, aggregate, and queue persist unchanged and polling
// continues on the next tick.
var (
	ErrUnauthorized      = errors.New("api: unauthorized")
	ErrUnavailable       = errors.New("api: service unavailable")
	ErrMalformedResponse = errors.New("api: malformed response")
	ErrOperationRejected = errors.New("api: operation rejected")
)

// RejectionError carries the server's stated reason for declining a
// command (clear-table, order placement). It matches
// ErrOperationRejected under errors.Is.
type RejectionError struct {
	Op     string
	Status int
	Reason string
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("api: %s rejected (status %d)", e.Op, e.Status)
	}
	return fmt.Sprintf("api: %s rejected: %s", e.Op, e.Reason)
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrOperationRejected
}
