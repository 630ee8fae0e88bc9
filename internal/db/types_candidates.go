package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-matcher/internal/features"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// Candidate is the stored projection of a candidate profile. Profile keeps the
// full submitted record so that updates can re-derive every projection.
type Candidate struct {
	CandidateID uuid.UUID
	Version     int

	FirstName string
	LastName  string
	Birthdate *time.Time
	Email     string
	Phone     string
	Address   string
	Skills    string

	CurrentCompany   string
	CurrentRole      string
	CurrentStartDate *time.Time
	CurrentEndDate   *time.Time

	PreviousCompany   *string
	PreviousRole      *string
	PreviousStartDate *time.Time
	PreviousEndDate   *time.Time

	BachelorInstitution    *string
	BachelorDegree         *string
	BachelorGraduationYear *int
	HasBachelor            bool

	MasterInstitution    *string
	MasterDegree         *string
	MasterGraduationYear *int
	HasMaster            bool

	Tenure    int
	Profile   types.CandidateInput
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCandidate projects a profile and its derived features into a row.
// Version is left at zero; the store assigns it.
func NewCandidate(id uuid.UUID, profile types.CandidateInput, f *features.CandidateFeatures, embedding []float32) *Candidate {
	c := &Candidate{
		CandidateID:      id,
		FirstName:        deref(profile.FirstName),
		LastName:         deref(profile.LastName),
		Birthdate:        parseDate(deref(profile.Birthdate)),
		Email:            deref(profile.Email),
		Phone:            deref(profile.Phone),
		Address:          deref(profile.Address),
		Skills:           features.JoinList(f.Skills),
		CurrentCompany:   f.Current.Company,
		CurrentRole:      f.Current.Role,
		CurrentStartDate: parseDate(f.Current.StartDate),
		CurrentEndDate:   parseDate(f.Current.EndDate),
		Tenure:           f.Tenure,
		Profile:          profile,
		Embedding:        embedding,
	}
	if f.Previous != nil {
		c.PreviousCompany = &f.Previous.Company
		c.PreviousRole = &f.Previous.Role
		c.PreviousStartDate = parseDate(f.Previous.StartDate)
		c.PreviousEndDate = parseDate(f.Previous.EndDate)
	}
	if f.Bachelor != nil {
		c.HasBachelor = true
		c.BachelorInstitution = &f.Bachelor.Institution
		c.BachelorDegree = &f.Bachelor.Degree
		c.BachelorGraduationYear = f.Bachelor.YearOfGraduation
	}
	if f.Master != nil {
		c.HasMaster = true
		c.MasterInstitution = &f.Master.Institution
		c.MasterDegree = &f.Master.Degree
		c.MasterGraduationYear = f.Master.YearOfGraduation
	}
	return c
}

// parseDate returns nil for empty or unparseable dates.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(types.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
