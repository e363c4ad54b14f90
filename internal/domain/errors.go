package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the scheduling engine.
var (
	// ErrNotFound is returned when an event or session id is absent from the
	// backing store.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned when a non-privileged caller attempts a
	// mutation. No state change happens.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidation is returned when a draft fails validation before any
	// persistence call is made.
	ErrValidation = errors.New("validation failed")
)

// OrphanContainerError reports that a container event was created but the
// session attach failed, leaving the container behind. Callers should surface
// the container id so it can be cleaned up instead of silently leaking.
type OrphanContainerError struct {
	ContainerEventID string
	Err              error
}

func (e *OrphanContainerError) Error() string {
	return fmt.Sprintf("session attach failed, container event %s left behind: %v", e.ContainerEventID, e.Err)
}

func (e *OrphanContainerError) Unwrap() error {
	return e.Err
}
