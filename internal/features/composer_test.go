package features

import (
	"errors"
	"testing"
	"time"

	"github.com/jonathan/candidate-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedComposer() *Composer {
	return &Composer{Now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }}
}

func sampleJob() types.JobInput {
	return types.JobInput{
		JobTitle:       "Data Engineer",
		JobDescription: "Own the warehouse",
		RequiredSkills: []string{"Python", "SQL"},
	}
}

func TestJobText(t *testing.T) {
	c := fixedComposer()

	tests := []struct {
		name string
		req  types.Requirements
		want string
	}{
		{
			name: "no requirements",
			req:  types.Requirements{},
			want: "Looking for Data Engineer with description: Own the warehouse. required skills: Python, SQL.",
		},
		{
			name: "tenure clause",
			req:  types.Requirements{Tenure: 3},
			want: "Looking for Data Engineer with description: Own the warehouse. required skills: Python, SQL. with tenure 3",
		},
		{
			name: "education clause",
			req: types.Requirements{
				IsRequiredBachelor: true,
				BachelorProgram:    []string{"Computer Science", "Statistics"},
				MasterProgram:      []string{"Data Science"},
			},
			want: "Looking for Data Engineer with description: Own the warehouse. required skills: Python, SQL." +
				" with education background Computer Science, Statistics Data Science",
		},
		{
			name: "programs without flags are ignored",
			req:  types.Requirements{BachelorProgram: []string{"Physics"}},
			want: "Looking for Data Engineer with description: Own the warehouse. required skills: Python, SQL.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.JobText(sampleJob(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJobText_Deterministic(t *testing.T) {
	c := fixedComposer()
	req := types.Requirements{Tenure: 2, IsRequiredMaster: true, MasterProgram: []string{"AI"}}
	first, err := c.JobText(sampleJob(), req)
	require.NoError(t, err)
	second, err := c.JobText(sampleJob(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestJobText_Malformed(t *testing.T) {
	c := fixedComposer()
	job := sampleJob()
	job.RequiredSkills = nil

	_, err := c.JobText(job, types.Requirements{})
	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "required_skills", malformed.Field)
}

func sampleCandidate() types.CandidateInput {
	return types.CandidateInput{
		Skills: []string{"Go", "Kubernetes"},
		Experiences: []types.Experience{
			{Company: "Old Corp", Role: "Intern", StartDate: "2018-01-01", EndDate: "2019-01-01"},
			{Company: "Mid Corp", Role: "Developer", StartDate: "2019-01-01", EndDate: "2021-01-01"},
			{Company: "Acme", Role: "Senior Developer", StartDate: "2021-01-01", EndDate: "2023-07-01"},
		},
		Education: []types.Education{
			{Institution: "ITB", Degree: "B.Sc. CS"},
			{Institution: "UI", Degree: "M.Sc. AI"},
		},
	}
}

func TestCandidate(t *testing.T) {
	c := fixedComposer()

	f, err := c.Candidate(sampleCandidate())
	require.NoError(t, err)

	assert.Equal(t, 5, f.Tenure) // 12 + 24 + 30 months
	assert.Equal(t, "Acme", f.Current.Company)
	require.NotNil(t, f.Previous)
	assert.Equal(t, "Developer", f.Previous.Role)
	require.NotNil(t, f.Bachelor)
	require.NotNil(t, f.Master)
	assert.Equal(t,
		"Candidate with 5 years of experience as Senior Developer at Acme. Previously worked as Developer."+
			" Skills include Go, Kubernetes. Education: B.Sc. CS from ITB, M.Sc. AI from UI.",
		f.Text)
}

func TestCandidate_NoPreviousExperience(t *testing.T) {
	c := fixedComposer()
	in := sampleCandidate()
	in.Experiences = in.Experiences[2:]

	f, err := c.Candidate(in)
	require.NoError(t, err)
	assert.Nil(t, f.Previous)
	assert.Contains(t, f.Text, "Previously worked as None.")
}

func TestCandidate_Malformed(t *testing.T) {
	c := fixedComposer()

	tests := []struct {
		name   string
		mutate func(in *types.CandidateInput)
		field  string
	}{
		{name: "no experiences", mutate: func(in *types.CandidateInput) { in.Experiences = nil }, field: "experiences"},
		{name: "no education", mutate: func(in *types.CandidateInput) { in.Education = nil }, field: "education"},
		{name: "no skills", mutate: func(in *types.CandidateInput) { in.Skills = []string{} }, field: "skills"},
		{
			name: "current without role",
			mutate: func(in *types.CandidateInput) {
				in.Experiences = []types.Experience{{Company: "Acme", StartDate: "2020-01-01"}}
			},
			field: "experiences",
		},
		{
			name: "bad dates",
			mutate: func(in *types.CandidateInput) {
				in.Experiences[0].StartDate = "yesterday"
			},
			field: "experiences[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleCandidate()
			tt.mutate(&in)
			_, err := c.Candidate(in)
			var malformed *MalformedRecordError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, tt.field, malformed.Field)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"Go", "SQL"}, SplitList("Go, SQL"))
	assert.Equal(t, []string{"Go", "SQL"}, SplitList(JoinList([]string{"Go", "SQL"})))
}
