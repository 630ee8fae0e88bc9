package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

const jobColumns = `job_id, chain_id, previous_version_id, status, job_title, job_description,
	budget_min, budget_max, budget_currency, location, company_name, employment_type,
	required_skills, tenure, is_bachelor, is_master, bachelor_program, master_program,
	job_embedding, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var j Job
	var budgetMin, budgetMax *int
	var currency, location, company, employment *string
	var vec pgvector.Vector
	err := row.Scan(&j.JobID, &j.ChainID, &j.PreviousVersionID, &j.Status, &j.JobTitle,
		&j.JobDescription, &budgetMin, &budgetMax, &currency, &location, &company, &employment,
		&j.RequiredSkills, &j.Tenure, &j.IsBachelor, &j.IsMaster, &j.BachelorProgram,
		&j.MasterProgram, &vec, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.BudgetMin = deref(budgetMin)
	j.BudgetMax = deref(budgetMax)
	j.BudgetCurrency = deref(currency)
	j.Location = deref(location)
	j.CompanyName = deref(company)
	j.EmploymentType = deref(employment)
	j.Embedding = vec.Slice()
	return &j, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// InsertJob stores j as the active root of a new chain.
func (db *DB) InsertJob(ctx context.Context, j *Job) error {
	j.ChainID = j.JobID
	j.PreviousVersionID = nil
	if err := insertJob(ctx, db.pool, j); err != nil {
		return persistErr("insert job", err)
	}
	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertJob(ctx context.Context, q querier, j *Job) error {
	j.Status = types.JobStatusActive
	return q.QueryRow(ctx,
		`INSERT INTO jobs (job_id, chain_id, previous_version_id, status, job_title, job_description,
		                   budget_min, budget_max, budget_currency, location, company_name,
		                   employment_type, required_skills, tenure, is_bachelor, is_master,
		                   bachelor_program, master_program, job_embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING created_at, updated_at`,
		j.JobID, j.ChainID, j.PreviousVersionID, j.Status, j.JobTitle, j.JobDescription,
		j.BudgetMin, j.BudgetMax, j.BudgetCurrency, j.Location, j.CompanyName,
		j.EmploymentType, j.RequiredSkills, j.Tenure, j.IsBachelor, j.IsMaster,
		j.BachelorProgram, j.MasterProgram, pgvector.NewVector(j.Embedding),
	).Scan(&j.CreatedAt, &j.UpdatedAt)
}

// DeactivateAndChain flips the active predecessor to inactive and stores next
// as its active successor, in one transaction. A predecessor that is absent or
// already inactive yields NotFoundError and leaves the store unchanged.
func (db *DB) DeactivateAndChain(ctx context.Context, previousID uuid.UUID, next *Job) error {
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		var chainID uuid.UUID
		err := tx.QueryRow(ctx,
			`UPDATE jobs SET status = 'inactive', updated_at = NOW()
			 WHERE job_id = $1 AND status = 'active'
			 RETURNING chain_id`,
			previousID,
		).Scan(&chainID)
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: EntityJob, ID: previousID, Detail: "no active version"}
		}
		if err != nil {
			return persistErr("deactivate job", err)
		}

		next.ChainID = chainID
		next.PreviousVersionID = &previousID
		if err := insertJob(ctx, tx, next); err != nil {
			return persistErr("insert job version", err)
		}
		return nil
	})
	if err != nil {
		var nf *NotFoundError
		var pe *PersistenceError
		if errors.As(err, &nf) || errors.As(err, &pe) {
			return err
		}
		return persistErr("chain job", err)
	}
	return nil
}

// GetJob retrieves a job version regardless of status.
func (db *DB) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE job_id = $1`, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: EntityJob, ID: jobID}
	}
	if err != nil {
		return nil, persistErr("get job", err)
	}
	return j, nil
}

// GetActiveJob retrieves a job version only if it is the active one.
func (db *DB) GetActiveJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE job_id = $1 AND status = 'active'`, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: EntityJob, ID: jobID, Detail: "no active version"}
	}
	if err != nil {
		return nil, persistErr("get active job", err)
	}
	return j, nil
}

// ListJobVersions walks the chain backwards from jobID through previous_version_id.
// The first element is jobID itself.
func (db *DB) ListJobVersions(ctx context.Context, jobID uuid.UUID) ([]types.JobVersion, error) {
	rows, err := db.pool.Query(ctx,
		`WITH RECURSIVE chain AS (
		     SELECT job_id, status, previous_version_id, created_at, updated_at, 0 AS depth
		     FROM jobs WHERE job_id = $1
		     UNION ALL
		     SELECT j.job_id, j.status, j.previous_version_id, j.created_at, j.updated_at, c.depth + 1
		     FROM jobs j JOIN chain c ON j.job_id = c.previous_version_id
		 )
		 SELECT job_id, status, previous_version_id, created_at, updated_at
		 FROM chain ORDER BY depth`,
		jobID,
	)
	if err != nil {
		return nil, persistErr("list job versions", err)
	}
	defer rows.Close()

	var versions []types.JobVersion
	for rows.Next() {
		var v types.JobVersion
		if err := rows.Scan(&v.JobID, &v.Status, &v.PreviousVersionID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, persistErr("scan job version", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list job versions", err)
	}
	if len(versions) == 0 {
		return nil, &NotFoundError{Entity: EntityJob, ID: jobID}
	}
	return versions, nil
}
