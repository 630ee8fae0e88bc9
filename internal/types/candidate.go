package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DateLayout is the calendar date format used for birthdates and experience intervals.
const DateLayout = "2006-01-02"

// Experience is one employment interval. An empty EndDate means the role is ongoing.
type Experience struct {
	Company   string `json:"company,omitempty"`
	Role      string `json:"role,omitempty"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Education is one degree entry.
type Education struct {
	Institution      string `json:"institution,omitempty"`
	Degree           string `json:"degree,omitempty"`
	YearOfGraduation *int   `json:"year_of_graduation,omitempty" validate:"omitempty,gte=1900,lte=2200"`
}

// CandidateInput is the payload for candidate submission and candidate update.
// Every field is optional; on update only the supplied (non-nil) fields replace
// the stored ones.
type CandidateInput struct {
	FirstName   *string      `json:"first_name,omitempty"`
	LastName    *string      `json:"last_name,omitempty"`
	Birthdate   *string      `json:"birthdate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Age         *int         `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Email       *string      `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string      `json:"phone,omitempty"`
	Address     *string      `json:"address,omitempty"`
	Skills      []string     `json:"skills,omitempty" validate:"omitempty,dive,required"`
	Experiences []Experience `json:"experiences,omitempty" validate:"omitempty,dive"`
	Education   []Education  `json:"education,omitempty" validate:"omitempty,dive"`
}

// Validate validates the CandidateInput using the validator.
func (c *CandidateInput) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// Overlay returns a copy of c with every non-nil field of update applied on top.
func (c CandidateInput) Overlay(update CandidateInput) CandidateInput {
	merged := c
	if update.FirstName != nil {
		merged.FirstName = update.FirstName
	}
	if update.LastName != nil {
		merged.LastName = update.LastName
	}
	if update.Birthdate != nil {
		merged.Birthdate = update.Birthdate
	}
	if update.Age != nil {
		merged.Age = update.Age
	}
	if update.Email != nil {
		merged.Email = update.Email
	}
	if update.Phone != nil {
		merged.Phone = update.Phone
	}
	if update.Address != nil {
		merged.Address = update.Address
	}
	if update.Skills != nil {
		merged.Skills = update.Skills
	}
	if update.Experiences != nil {
		merged.Experiences = update.Experiences
	}
	if update.Education != nil {
		merged.Education = update.Education
	}
	return merged
}

// CandidateStatus is returned by the candidate status lookup.
type CandidateStatus struct {
	Exists      bool       `json:"exists"`
	CandidateID uuid.UUID  `json:"candidate_id"`
	Version     int        `json:"version,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Task        *Task      `json:"task,omitempty"`
}
