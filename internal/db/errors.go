package db

import (
	"fmt"

	"github.com/google/uuid"
)

// Entity names used in store errors
const (
	EntityJob       = "job"
	EntityCandidate = "candidate"
	EntityTask      = "task"
)

// NotFoundError is returned when a record is absent, or when a job exists but
// is not active where an active version is required.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
	Detail string
}

func (e *NotFoundError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s not found: %s", e.Entity, e.ID, e.Detail)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError is returned when a candidate was modified since it was loaded.
type ConflictError struct {
	CandidateID uuid.UUID
	Version     int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("candidate %s changed since version %d", e.CandidateID, e.Version)
}

// PersistenceError wraps an unexpected storage failure.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Cause: err}
}
