package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// -----------------------------------------------------------------------------
// Candidate Methods
// -----------------------------------------------------------------------------

const candidateColumns = `candidate_id, version, first_name, last_name, birthdate, email, phone, address,
	skills, current_company, current_job_role, current_start_date, current_end_date,
	previous_company, previous_job_role, previous_start_date, previous_end_date,
	bachelor_institution, bachelor_degree, bachelor_graduation_year, has_bachelor,
	master_institution, master_degree, master_graduation_year, has_master,
	candidate_tenure, profile, candidate_embedding, created_at, updated_at`

func scanCandidate(row rowScanner) (*Candidate, error) {
	var c Candidate
	var profileJSON []byte
	var vec pgvector.Vector
	err := row.Scan(&c.CandidateID, &c.Version, &c.FirstName, &c.LastName, &c.Birthdate,
		&c.Email, &c.Phone, &c.Address, &c.Skills, &c.CurrentCompany, &c.CurrentRole,
		&c.CurrentStartDate, &c.CurrentEndDate, &c.PreviousCompany, &c.PreviousRole,
		&c.PreviousStartDate, &c.PreviousEndDate, &c.BachelorInstitution, &c.BachelorDegree,
		&c.BachelorGraduationYear, &c.HasBachelor, &c.MasterInstitution, &c.MasterDegree,
		&c.MasterGraduationYear, &c.HasMaster, &c.Tenure, &profileJSON, &vec,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profileJSON, &c.Profile); err != nil {
		return nil, fmt.Errorf("failed to decode candidate profile: %w", err)
	}
	c.Embedding = vec.Slice()
	return &c, nil
}

// UpsertCandidate inserts c when c.Version is zero. Otherwise it replaces the
// row only if the stored version still equals c.Version, returning ConflictError
// when it does not. On success c.Version holds the new version.
func (db *DB) UpsertCandidate(ctx context.Context, c *Candidate) error {
	profileJSON, err := json.Marshal(c.Profile)
	if err != nil {
		return persistErr("marshal candidate profile", err)
	}
	args := []any{
		c.CandidateID, c.FirstName, c.LastName, c.Birthdate, c.Email, c.Phone, c.Address,
		c.Skills, c.CurrentCompany, c.CurrentRole, c.CurrentStartDate, c.CurrentEndDate,
		c.PreviousCompany, c.PreviousRole, c.PreviousStartDate, c.PreviousEndDate,
		c.BachelorInstitution, c.BachelorDegree, c.BachelorGraduationYear, c.HasBachelor,
		c.MasterInstitution, c.MasterDegree, c.MasterGraduationYear, c.HasMaster,
		c.Tenure, profileJSON, pgvector.NewVector(c.Embedding),
	}

	if c.Version == 0 {
		err = db.pool.QueryRow(ctx,
			`INSERT INTO candidates (candidate_id, first_name, last_name, birthdate, email, phone, address,
			     skills, current_company, current_job_role, current_start_date, current_end_date,
			     previous_company, previous_job_role, previous_start_date, previous_end_date,
			     bachelor_institution, bachelor_degree, bachelor_graduation_year, has_bachelor,
			     master_institution, master_degree, master_graduation_year, has_master,
			     candidate_tenure, profile, candidate_embedding, version)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			         $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, 1)
			 RETURNING version, created_at, updated_at`,
			args...,
		).Scan(&c.Version, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return persistErr("insert candidate", err)
		}
		return nil
	}

	err = db.pool.QueryRow(ctx,
		`UPDATE candidates SET
		     first_name = $2, last_name = $3, birthdate = $4, email = $5, phone = $6, address = $7,
		     skills = $8, current_company = $9, current_job_role = $10, current_start_date = $11,
		     current_end_date = $12, previous_company = $13, previous_job_role = $14,
		     previous_start_date = $15, previous_end_date = $16, bachelor_institution = $17,
		     bachelor_degree = $18, bachelor_graduation_year = $19, has_bachelor = $20,
		     master_institution = $21, master_degree = $22, master_graduation_year = $23,
		     has_master = $24, candidate_tenure = $25, profile = $26, candidate_embedding = $27,
		     version = version + 1, updated_at = NOW()
		 WHERE candidate_id = $1 AND version = $28
		 RETURNING version, created_at, updated_at`,
		append(args, c.Version)...,
	).Scan(&c.Version, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &ConflictError{CandidateID: c.CandidateID, Version: c.Version}
	}
	if err != nil {
		return persistErr("update candidate", err)
	}
	return nil
}

// GetCandidate retrieves a candidate by id.
func (db *DB) GetCandidate(ctx context.Context, candidateID uuid.UUID) (*Candidate, error) {
	c, err := scanCandidate(db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE candidate_id = $1`, candidateID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: EntityCandidate, ID: candidateID}
	}
	if err != nil {
		return nil, persistErr("get candidate", err)
	}
	return c, nil
}
