// Package features renders jobs and candidates into the text fed to the embedding oracle.
package features

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/candidate-matcher/internal/types"
)

const noPreviousRole = "None"

// Composer builds deterministic embedding text. Now is the clock used for
// ongoing experiences; it defaults to time.Now.
type Composer struct {
	Now func() time.Time
}

// NewComposer creates a Composer using the wall clock.
func NewComposer() *Composer {
	return &Composer{Now: time.Now}
}

// CandidateFeatures is everything derived from a candidate record.
type CandidateFeatures struct {
	Text     string
	Tenure   int
	Skills   []string
	Current  types.Experience
	Previous *types.Experience
	Bachelor *types.Education
	Master   *types.Education
}

// JobText renders a job and its extracted requirements.
func (c *Composer) JobText(job types.JobInput, req types.Requirements) (string, error) {
	if strings.TrimSpace(job.JobTitle) == "" {
		return "", &MalformedRecordError{Field: "job_title", Message: "is required"}
	}
	if strings.TrimSpace(job.JobDescription) == "" {
		return "", &MalformedRecordError{Field: "job_description", Message: "is required"}
	}
	if len(job.RequiredSkills) == 0 {
		return "", &MalformedRecordError{Field: "required_skills", Message: "at least one skill is required"}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Looking for %s with description: %s. required skills: %s.",
		job.JobTitle, job.JobDescription, JoinList(job.RequiredSkills)))

	if req.Tenure != 0 {
		sb.WriteString(fmt.Sprintf(" with tenure %d", req.Tenure))
	}
	if req.IsRequiredBachelor || req.IsRequiredMaster {
		education := JoinList(req.BachelorProgram) + " " + JoinList(req.MasterProgram)
		sb.WriteString(fmt.Sprintf(" with education background %s", education))
	}
	return sb.String(), nil
}

// Candidate derives the tenure, projections and text for a candidate.
// The last experience is the current one and the one before it the previous one.
func (c *Composer) Candidate(in types.CandidateInput) (*CandidateFeatures, error) {
	if len(in.Experiences) == 0 {
		return nil, &MalformedRecordError{Field: "experiences", Message: "a current experience is required"}
	}
	if len(in.Education) == 0 {
		return nil, &MalformedRecordError{Field: "education", Message: "at least one education entry is required"}
	}
	if len(in.Skills) == 0 {
		return nil, &MalformedRecordError{Field: "skills", Message: "at least one skill is required"}
	}

	current := in.Experiences[len(in.Experiences)-1]
	if current.Role == "" || current.Company == "" {
		return nil, &MalformedRecordError{Field: "experiences", Message: "current experience needs a role and a company"}
	}
	var previous *types.Experience
	if len(in.Experiences) > 1 {
		p := in.Experiences[len(in.Experiences)-2]
		previous = &p
	}

	tenure, err := CalculateTenure(in.Experiences, c.now())
	if err != nil {
		return nil, err
	}

	previousRole := noPreviousRole
	if previous != nil && previous.Role != "" {
		previousRole = previous.Role
	}

	entries := make([]string, 0, len(in.Education))
	for _, edu := range in.Education {
		entries = append(entries, fmt.Sprintf("%s from %s", edu.Degree, edu.Institution))
	}

	text := fmt.Sprintf(
		"Candidate with %d years of experience as %s at %s. Previously worked as %s. Skills include %s. Education: %s.",
		tenure, current.Role, current.Company, previousRole, JoinList(in.Skills), strings.Join(entries, ", "),
	)

	bachelor, master := SelectEducation(in.Education)
	return &CandidateFeatures{
		Text:     text,
		Tenure:   tenure,
		Skills:   in.Skills,
		Current:  current,
		Previous: previous,
		Bachelor: bachelor,
		Master:   master,
	}, nil
}

func (c *Composer) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// JoinList renders a list the way it is persisted: comma and space separated.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// SplitList reverses JoinList. An empty string yields nil.
func SplitList(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
