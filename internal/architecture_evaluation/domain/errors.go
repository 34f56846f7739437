package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrConnectionNotAllowed   = errors.New("connection not allowed")
	ErrInvalidProfile         = errors.New("invalid heuristic profile")
	ErrInvalidComponentType   = errors.New("invalid component type")
	ErrInvalidSubtype         = errors.New("invalid subtype")
	ErrInvalidLinkType        = errors.New("invalid link type")
	ErrArchitectureNameNeeded = errors.New("architecture name required")
	ErrAlreadyAttached        = errors.New("already attached to the architecture")
	ErrBodyRequired           = errors.New("request body required")
)

// NotFoundError carries the id that failed to resolve.
type NotFoundError struct {
	Kind string // "architecture", "component", "link"
	ID   string
}

func NotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type ValueError struct {
	Kind  string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Value)
}

func (e *ValueError) Unwrap() error { return e.Err }

// ConnectionError explains why the rule engine refused a link.
type ConnectionError struct {
	Reason string
}

func (e *ConnectionError) Error() string { return e.Reason }

func (e *ConnectionError) Unwrap() error { return ErrConnectionNotAllowed }
