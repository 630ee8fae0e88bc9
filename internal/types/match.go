package types

import "github.com/google/uuid"

// MatchResult is one ranked candidate for a job.
type MatchResult struct {
	CandidateID     uuid.UUID `json:"candidate_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	SimilarityScore float64   `json:"similarity_score"`
}

// MatchResponse wraps the ranked candidates for a job.
type MatchResponse struct {
	JobID           uuid.UUID     `json:"job_id"`
	TotalCandidates int           `json:"total_candidates"`
	Candidates      []MatchResult `json:"candidates"`
}
