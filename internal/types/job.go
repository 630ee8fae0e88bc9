// Package types provides the request, response and domain shapes shared across the candidate matcher.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Job status constants
const (
	JobStatusActive   = "active"
	JobStatusInactive = "inactive"
)

// Budget is the salary range offered for a job.
type Budget struct {
	Min      int    `json:"min" validate:"gte=0"`
	Max      int    `json:"max" validate:"gtefield=Min"`
	Currency string `json:"currency" validate:"required,len=3"`
}

// JobInput is the payload accepted by job submission and job update.
type JobInput struct {
	JobTitle       string   `json:"job_title" validate:"required"`
	JobDescription string   `json:"job_description" validate:"required"`
	Budget         Budget   `json:"budget"`
	Location       string   `json:"location" validate:"required"`
	CompanyName    string   `json:"company_name" validate:"required"`
	EmploymentType string   `json:"employment_type" validate:"required"`
	RequiredSkills []string `json:"required_skills" validate:"required,min=1,dive,required"`
}

// Validate validates the JobInput using the validator.
func (j *JobInput) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}

// Requirements holds what the extractor derived from a job description.
// Field names follow the extractor's JSON contract.
type Requirements struct {
	Tenure             int      `json:"tenure"`
	IsRequiredBachelor bool     `json:"is_required_bachelor"`
	IsRequiredMaster   bool     `json:"is_required_master"`
	BachelorProgram    []string `json:"bachelor_program"`
	MasterProgram      []string `json:"master_program"`
}

// JobVersion is one link of a job version chain.
type JobVersion struct {
	JobID             uuid.UUID  `json:"job_id"`
	Status            string     `json:"status"`
	PreviousVersionID *uuid.UUID `json:"previous_version_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// JobStatus is returned by the job status lookup. Versions run newest first,
// starting at the requested id. Task is the most recent pipeline task for the id.
type JobStatus struct {
	JobID    uuid.UUID    `json:"job_id"`
	Versions []JobVersion `json:"versions"`
	Task     *Task        `json:"task,omitempty"`
}
