package db

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// MatchCandidates ranks candidates against job as it was loaded. Candidates must
// reach the job's tenure and hold every degree level it requires. The score is
// one minus the negative inner product of the two embeddings; ties are broken by
// candidate_id so that results are stable. The jobs table is not read again, so
// the ranking belongs to the version the caller resolved even if it is replaced
// concurrently.
func (db *DB) MatchCandidates(ctx context.Context, job *Job, limit int) ([]types.MatchResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.candidate_id, c.first_name, c.last_name, c.email,
		        1 - ($1::vector <#> c.candidate_embedding) AS similarity_score
		 FROM candidates c
		 WHERE c.candidate_tenure >= $2 AND
		       CASE WHEN $3::boolean THEN c.has_bachelor ELSE TRUE END AND
		       CASE WHEN $4::boolean THEN c.has_master ELSE TRUE END
		 ORDER BY similarity_score DESC, c.candidate_id
		 LIMIT $5`,
		pgvector.NewVector(job.Embedding), job.Tenure, job.IsBachelor, job.IsMaster, limit,
	)
	if err != nil {
		return nil, persistErr("match candidates", err)
	}
	defer rows.Close()

	results := []types.MatchResult{}
	for rows.Next() {
		var r types.MatchResult
		if err := rows.Scan(&r.CandidateID, &r.FirstName, &r.LastName, &r.Email, &r.SimilarityScore); err != nil {
			return nil, persistErr("scan match", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("match candidates", err)
	}
	return results, nil
}
