// Package observability renders matcher results as boxed text for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/candidate-matcher/internal/types"
)

const (
	// boxWidth is the width of formatted output boxes, borders included
	boxWidth = 64
	// maxVersionsToShow bounds the job history listing
	maxVersionsToShow = 5
)

// Printer writes formatted summaries to out.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintMatchResults lists ranked candidates with their similarity scores.
func (p *Printer) PrintMatchResults(resp *types.MatchResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:        %s\n", resp.JobID))
	sb.WriteString(fmt.Sprintf("Candidates: %d\n", resp.TotalCandidates))

	if len(resp.Candidates) == 0 {
		sb.WriteString("\nNo candidate passes the job's filters.")
	}
	for i, c := range resp.Candidates {
		name := strings.TrimSpace(c.FirstName + " " + c.LastName)
		sb.WriteString(fmt.Sprintf("\n#%-3d %s  %.4f\n", i+1, name, c.SimilarityScore))
		sb.WriteString(fmt.Sprintf("     %s\n", c.CandidateID))
		if c.Email != "" {
			sb.WriteString(fmt.Sprintf("     %s\n", c.Email))
		}
	}

	p.printBox("MATCHED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobStatus outputs the version chain ending at a job, newest first.
func (p *Printer) PrintJobStatus(status *types.JobStatus) {
	if status == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job: %s\n", status.JobID))
	if status.Task != nil {
		sb.WriteString(taskLine(status.Task))
	}

	if len(status.Versions) == 0 {
		sb.WriteString("\nNo stored version yet.")
	} else {
		sb.WriteString(fmt.Sprintf("\nVersions (%d):\n", len(status.Versions)))
		count := min(len(status.Versions), maxVersionsToShow)
		for _, v := range status.Versions[:count] {
			sb.WriteString(fmt.Sprintf("  • %s  %-8s  %s\n", v.JobID, v.Status, v.CreatedAt.UTC().Format(time.RFC3339)))
		}
		if len(status.Versions) > maxVersionsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d older\n", len(status.Versions)-maxVersionsToShow))
		}
	}

	p.printBox("JOB STATUS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidateStatus outputs whether a candidate is stored and at which version.
func (p *Printer) PrintCandidateStatus(status *types.CandidateStatus) {
	if status == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", status.CandidateID))
	if status.Exists {
		sb.WriteString(fmt.Sprintf("Version:   %d\n", status.Version))
		if status.UpdatedAt != nil {
			sb.WriteString(fmt.Sprintf("Updated:   %s\n", status.UpdatedAt.UTC().Format(time.RFC3339)))
		}
	} else {
		sb.WriteString("Not stored yet.\n")
	}
	if status.Task != nil {
		sb.WriteString(taskLine(status.Task))
	}

	p.printBox("CANDIDATE STATUS", strings.TrimSuffix(sb.String(), "\n"))
}

func taskLine(t *types.Task) string {
	line := fmt.Sprintf("Task: %s\n  %s %s", t.ID, t.Kind, t.Status)
	if !t.Terminal() {
		line += ", still running"
	}
	if t.Reason != "" {
		line += ": " + t.Reason
	}
	return line + "\n"
}
