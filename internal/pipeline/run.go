package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/locking"
	"github.com/jonathan/candidate-matcher/internal/logging"
	"github.com/jonathan/candidate-matcher/internal/metrics"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// finishTimeout bounds recording a task outcome after the run itself ended.
const finishTimeout = 10 * time.Second

// execute runs fn and records its outcome on the task.
func (s *Service) execute(ctx context.Context, taskID uuid.UUID, kind string, entityID uuid.UUID, fn func(ctx context.Context) error) {
	start := time.Now()
	logger := s.logger.With(
		zap.String(logging.FieldTaskID, taskID.String()),
		zap.String(logging.FieldKind, kind),
		zap.String(entityField(kind), entityID.String()),
	)

	runCtx := ctx
	if s.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.opts.TaskTimeout)
		defer cancel()
	}

	status, reason := types.TaskStatusSucceeded, ""
	if err := fn(runCtx); err != nil {
		status, reason = types.TaskStatusFailed, taskReason(err)
		logger.Error("task failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
	} else {
		logger.Info("task succeeded", zap.Duration("elapsed", time.Since(start)))
	}
	metrics.ObserveTask(kind, status, time.Since(start))

	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()
	if err := s.store.FinishTask(finishCtx, taskID, status, reason); err != nil {
		logger.Error("failed to record task outcome", zap.Error(err))
	}
}

// maxReasonRunes caps the failure reason stored on a task.
const maxReasonRunes = 1000

// taskReason renders err as text the tasks table will accept.
func taskReason(err error) string {
	return logging.Truncate(strings.ToValidUTF8(err.Error(), "\uFFFD"), maxReasonRunes)
}

func entityField(kind string) string {
	switch kind {
	case types.TaskKindCandidateInsert, types.TaskKindCandidateUpdate:
		return logging.FieldCandidateID
	default:
		return logging.FieldJobID
	}
}

// buildJob extracts requirements, composes the text and embeds it.
func (s *Service) buildJob(ctx context.Context, jobID uuid.UUID, in types.JobInput) (*db.Job, error) {
	req, err := s.extractor.Extract(ctx, in.JobDescription)
	if err != nil {
		return nil, err
	}
	text, err := s.composer.JobText(in, *req)
	if err != nil {
		return nil, err
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return db.NewJob(jobID, in, *req, vec), nil
}

func (s *Service) runJobInsert(ctx context.Context, jobID uuid.UUID, in types.JobInput) error {
	job, err := s.buildJob(ctx, jobID, in)
	if err != nil {
		return err
	}
	return s.store.InsertJob(ctx, job)
}

// runJobUpdate fails closed when previousID has no active version. The check
// up front avoids oracle calls; DeactivateAndChain re-checks atomically.
func (s *Service) runJobUpdate(ctx context.Context, previousID, newID uuid.UUID, in types.JobInput) error {
	if _, err := s.store.GetActiveJob(ctx, previousID); err != nil {
		return err
	}
	job, err := s.buildJob(ctx, newID, in)
	if err != nil {
		return err
	}
	return s.store.DeactivateAndChain(ctx, previousID, job)
}

// buildCandidate composes, embeds and projects a full profile.
func (s *Service) buildCandidate(ctx context.Context, candidateID uuid.UUID, profile types.CandidateInput) (*db.Candidate, error) {
	f, err := s.composer.Candidate(profile)
	if err != nil {
		return nil, err
	}
	vec, err := s.embedder.Embed(ctx, f.Text)
	if err != nil {
		return nil, err
	}
	return db.NewCandidate(candidateID, profile, f, vec), nil
}

func (s *Service) runCandidateInsert(ctx context.Context, candidateID uuid.UUID, in types.CandidateInput) error {
	c, err := s.buildCandidate(ctx, candidateID, in)
	if err != nil {
		return err
	}
	return s.store.UpsertCandidate(ctx, c)
}

// runCandidateUpdate overlays update on the stored profile and re-derives
// everything. It holds the candidate lock, and a version conflict from a
// writer outside the lock restarts from the load, up to UpdateAttempts times.
func (s *Service) runCandidateUpdate(ctx context.Context, candidateID uuid.UUID, update types.CandidateInput) error {
	unlock, err := s.locker.Lock(ctx, locking.CandidateKey(candidateID.String()))
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release candidate lock",
				zap.String(logging.FieldCandidateID, candidateID.String()), zap.Error(err))
		}
	}()

	var lastErr error
	for attempt := 1; attempt <= s.opts.UpdateAttempts; attempt++ {
		stored, err := s.store.GetCandidate(ctx, candidateID)
		if err != nil {
			return err
		}

		merged := stored.Profile.Overlay(update)
		c, err := s.buildCandidate(ctx, candidateID, merged)
		if err != nil {
			return err
		}
		c.Version = stored.Version

		err = s.store.UpsertCandidate(ctx, c)
		var conflict *db.ConflictError
		if !errors.As(err, &conflict) {
			return err
		}
		lastErr = err
		s.logger.Debug("candidate changed during update, retrying",
			zap.String(logging.FieldCandidateID, candidateID.String()), zap.Int("attempt", attempt))
	}
	return lastErr
}
