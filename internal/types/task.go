package types

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus constants
const (
	TaskStatusPending   = "pending"
	TaskStatusSucceeded = "succeeded"
	TaskStatusFailed    = "failed"
)

// TaskKind constants
const (
	TaskKindJobInsert       = "job_insert"
	TaskKindJobUpdate       = "job_update"
	TaskKindCandidateInsert = "candidate_insert"
	TaskKindCandidateUpdate = "candidate_update"
)

// Task tracks one background pipeline run.
type Task struct {
	ID        uuid.UUID `json:"task_id"`
	Kind      string    `json:"kind"`
	EntityID  uuid.UUID `json:"entity_id"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the task has finished.
func (t *Task) Terminal() bool {
	return t.Status == TaskStatusSucceeded || t.Status == TaskStatusFailed
}

// Receipt acknowledges a submission before background processing completes.
type Receipt struct {
	Success       bool       `json:"success"`
	TaskID        uuid.UUID  `json:"task_id"`
	JobID         *uuid.UUID `json:"job_id,omitempty"`
	PreviousJobID *uuid.UUID `json:"previous_job_id,omitempty"`
	NewJobID      *uuid.UUID `json:"new_job_id,omitempty"`
	CandidateID   *uuid.UUID `json:"candidate_id,omitempty"`
	Message       string     `json:"message"`
}
