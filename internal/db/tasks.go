package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Pipeline Task Methods
// -----------------------------------------------------------------------------

const taskColumns = `id, kind, entity_id, status, reason, created_at, updated_at`

func scanTask(row rowScanner) (*types.Task, error) {
	var t types.Task
	if err := row.Scan(&t.ID, &t.Kind, &t.EntityID, &t.Status, &t.Reason, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask records a pending task for entityID.
func (db *DB) CreateTask(ctx context.Context, taskID uuid.UUID, kind string, entityID uuid.UUID) (*types.Task, error) {
	t, err := scanTask(db.pool.QueryRow(ctx,
		`INSERT INTO pipeline_tasks (id, kind, entity_id, status)
		 VALUES ($1, $2, $3, 'pending')
		 RETURNING `+taskColumns,
		taskID, kind, entityID,
	))
	if err != nil {
		return nil, persistErr("create task", err)
	}
	return t, nil
}

// FinishTask moves a pending task to succeeded or failed. Finished tasks are not changed.
func (db *DB) FinishTask(ctx context.Context, taskID uuid.UUID, status, reason string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE pipeline_tasks SET status = $2, reason = $3, updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`,
		taskID, status, reason,
	)
	if err != nil {
		return persistErr("finish task", err)
	}
	return nil
}

// GetTask retrieves a task by id.
func (db *DB) GetTask(ctx context.Context, taskID uuid.UUID) (*types.Task, error) {
	t, err := scanTask(db.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM pipeline_tasks WHERE id = $1`, taskID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: EntityTask, ID: taskID}
	}
	if err != nil {
		return nil, persistErr("get task", err)
	}
	return t, nil
}

// LatestTaskForEntity returns the most recent task for entityID, or nil if there is none.
func (db *DB) LatestTaskForEntity(ctx context.Context, entityID uuid.UUID) (*types.Task, error) {
	t, err := scanTask(db.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM pipeline_tasks
		 WHERE entity_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT 1`,
		entityID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("get latest task", err)
	}
	return t, nil
}
