package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-matcher/internal/features"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// Job is one immutable job version row.
type Job struct {
	JobID             uuid.UUID
	ChainID           uuid.UUID
	PreviousVersionID *uuid.UUID
	Status            string

	JobTitle       string
	JobDescription string
	BudgetMin      int
	BudgetMax      int
	BudgetCurrency string
	Location       string
	CompanyName    string
	EmploymentType string
	RequiredSkills string

	Tenure          int
	IsBachelor      bool
	IsMaster        bool
	BachelorProgram string
	MasterProgram   string

	Embedding []float32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob builds an unsaved job row from the submitted fields and extracted requirements.
func NewJob(id uuid.UUID, in types.JobInput, req types.Requirements, embedding []float32) *Job {
	return &Job{
		JobID:           id,
		Status:          types.JobStatusActive,
		JobTitle:        in.JobTitle,
		JobDescription:  in.JobDescription,
		BudgetMin:       in.Budget.Min,
		BudgetMax:       in.Budget.Max,
		BudgetCurrency:  in.Budget.Currency,
		Location:        in.Location,
		CompanyName:     in.CompanyName,
		EmploymentType:  in.EmploymentType,
		RequiredSkills:  features.JoinList(in.RequiredSkills),
		Tenure:          req.Tenure,
		IsBachelor:      req.IsRequiredBachelor,
		IsMaster:        req.IsRequiredMaster,
		BachelorProgram: features.JoinList(req.BachelorProgram),
		MasterProgram:   features.JoinList(req.MasterProgram),
		Embedding:       embedding,
	}
}

// Input returns the descriptive fields in submission form.
func (j *Job) Input() types.JobInput {
	return types.JobInput{
		JobTitle:       j.JobTitle,
		JobDescription: j.JobDescription,
		Budget: types.Budget{
			Min:      j.BudgetMin,
			Max:      j.BudgetMax,
			Currency: j.BudgetCurrency,
		},
		Location:       j.Location,
		CompanyName:    j.CompanyName,
		EmploymentType: j.EmploymentType,
		RequiredSkills: features.SplitList(j.RequiredSkills),
	}
}

// Version returns the chain link view of the row.
func (j *Job) Version() types.JobVersion {
	return types.JobVersion{
		JobID:             j.JobID,
		Status:            j.Status,
		PreviousVersionID: j.PreviousVersionID,
		CreatedAt:         j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
}
