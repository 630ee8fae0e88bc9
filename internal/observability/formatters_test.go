package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/candidate-matcher/internal/types"
)

func TestPrintMatchResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &types.MatchResponse{
		JobID:           uuid.New(),
		TotalCandidates: 2,
		Candidates: []types.MatchResult{
			{CandidateID: uuid.New(), FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", SimilarityScore: 1.92},
			{CandidateID: uuid.New(), FirstName: "Alan", SimilarityScore: 1.5},
		},
	}

	p.PrintMatchResults(resp)
	output := buf.String()

	assert.Contains(t, output, "MATCHED CANDIDATES")
	assert.Contains(t, output, "#1   Ada Lovelace  1.9200")
	assert.Contains(t, output, "#2   Alan  1.5000")
	assert.Contains(t, output, "ada@example.com")
	assert.Less(t, strings.Index(output, "Ada"), strings.Index(output, "Alan"))
}

func TestPrintMatchResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchResults(&types.MatchResponse{JobID: uuid.New(), Candidates: []types.MatchResult{}})
	assert.Contains(t, buf.String(), "No candidate passes")

	buf.Reset()
	p.PrintMatchResults(nil)
	assert.Empty(t, buf.String())
}

func TestPrintJobStatus(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	versions := make([]types.JobVersion, 7)
	for i := range versions {
		versions[i] = types.JobVersion{JobID: uuid.New(), Status: types.JobStatusInactive, CreatedAt: now}
	}
	versions[0].Status = types.JobStatusActive

	p.PrintJobStatus(&types.JobStatus{
		JobID:    versions[0].JobID,
		Versions: versions,
		Task:     &types.Task{ID: uuid.New(), Kind: types.TaskKindJobUpdate, Status: types.TaskStatusSucceeded},
	})
	output := buf.String()

	assert.Contains(t, output, "JOB STATUS")
	assert.Contains(t, output, "Versions (7)")
	assert.Contains(t, output, "2024-03-01T12:00:00Z")
	assert.Contains(t, output, "... and 2 older")
	assert.Contains(t, output, "job_update")
}

func TestPrintJobStatus_Pending(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobStatus(&types.JobStatus{
		JobID:    uuid.New(),
		Versions: []types.JobVersion{},
		Task:     &types.Task{ID: uuid.New(), Kind: types.TaskKindJobInsert, Status: types.TaskStatusPending},
	})

	assert.Contains(t, buf.String(), "No stored version yet.")
	assert.Contains(t, buf.String(), "pending, still running")
}

func TestTaskLine(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name    string
		status  string
		reason  string
		want    string
		running bool
	}{
		{name: "pending", status: types.TaskStatusPending, want: "pending", running: true},
		{name: "succeeded", status: types.TaskStatusSucceeded, want: "succeeded"},
		{name: "failed with reason", status: types.TaskStatusFailed, reason: "quota", want: "failed: quota"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := taskLine(&types.Task{ID: id, Kind: types.TaskKindJobInsert, Status: tt.status, Reason: tt.reason})
			assert.Contains(t, line, id.String())
			assert.Contains(t, line, tt.want)
			assert.Equal(t, tt.running, strings.Contains(line, "still running"))
		})
	}
}

func TestPrintCandidateStatus(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCandidateStatus(&types.CandidateStatus{
		CandidateID: uuid.New(),
		Task: &types.Task{
			ID:     uuid.New(),
			Kind:   types.TaskKindCandidateInsert,
			Status: types.TaskStatusFailed,
			Reason: "malformed record: experiences: start_date is required",
		},
	})
	output := buf.String()

	assert.Contains(t, output, "Not stored yet.")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "...")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcdefg...", clip("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", clip(strings.Repeat("é", 20), 10))
}
