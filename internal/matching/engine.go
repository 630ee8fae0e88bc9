// Package matching ranks candidates for an active job.
package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/metrics"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// Defaults for the number of returned candidates
const (
	DefaultTopK = 10
	MaxTopK     = 100
)

// InvalidTopKError is returned for a non-positive result size.
type InvalidTopKError struct {
	TopK int
}

func (e *InvalidTopKError) Error() string {
	return fmt.Sprintf("total_candidate must be positive, got %d", e.TopK)
}

// Store is the read side of the record store used for matching.
type Store interface {
	GetActiveJob(ctx context.Context, jobID uuid.UUID) (*db.Job, error)
	MatchCandidates(ctx context.Context, job *db.Job, limit int) ([]types.MatchResult, error)
}

// Engine answers match queries.
type Engine struct {
	store       Store
	defaultTopK int
	maxTopK     int
	logger      *zap.Logger
}

// Options tunes an Engine. Zero values fall back to the package defaults.
type Options struct {
	DefaultTopK int
	MaxTopK     int
}

// NewEngine creates an Engine over store.
func NewEngine(store Store, opts Options, logger *zap.Logger) *Engine {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = DefaultTopK
	}
	if opts.MaxTopK <= 0 {
		opts.MaxTopK = MaxTopK
	}
	if opts.DefaultTopK > opts.MaxTopK {
		opts.DefaultTopK = opts.MaxTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, defaultTopK: opts.DefaultTopK, maxTopK: opts.MaxTopK, logger: logger}
}

// ResolveTopK applies the default to a missing value and clamps large ones.
func (e *Engine) ResolveTopK(topK *int) (int, error) {
	if topK == nil {
		return e.defaultTopK, nil
	}
	if *topK <= 0 {
		return 0, &InvalidTopKError{TopK: *topK}
	}
	if *topK > e.maxTopK {
		return e.maxTopK, nil
	}
	return *topK, nil
}

// Match returns up to topK candidates passing the job's tenure and degree
// filters, best first. A job without an active version yields NotFoundError.
func (e *Engine) Match(ctx context.Context, jobID uuid.UUID, topK *int) (resp *types.MatchResponse, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveMatch(matchOutcome(err), time.Since(start))
	}()

	limit, err := e.ResolveTopK(topK)
	if err != nil {
		return nil, err
	}

	job, err := e.store.GetActiveJob(ctx, jobID)
	if err != nil {
		return nil, asStoreError("load job", err)
	}

	results, err := e.store.MatchCandidates(ctx, job, limit)
	if err != nil {
		e.logger.Error("match query failed", zap.String("job_id", jobID.String()), zap.Error(err))
		return nil, asStoreError("match candidates", err)
	}
	if results == nil {
		results = []types.MatchResult{}
	}

	e.logger.Debug("matched candidates",
		zap.String("job_id", jobID.String()),
		zap.Int("limit", limit),
		zap.Int("count", len(results)))

	return &types.MatchResponse{
		JobID:           jobID,
		TotalCandidates: len(results),
		Candidates:      results,
	}, nil
}

// asStoreError keeps NotFoundError and PersistenceError as they are and wraps
// anything else in a PersistenceError.
func asStoreError(op string, err error) error {
	var nf *db.NotFoundError
	var pe *db.PersistenceError
	if errors.As(err, &nf) || errors.As(err, &pe) {
		return err
	}
	return &db.PersistenceError{Op: op, Cause: err}
}

func matchOutcome(err error) string {
	var nf *db.NotFoundError
	var bad *InvalidTopKError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &bad):
		return "invalid"
	default:
		return "error"
	}
}
