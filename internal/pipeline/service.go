// Package pipeline accepts job and candidate submissions and processes them
// in the background: extraction, feature composition, embedding and storage.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-matcher/internal/db"
	"github.com/jonathan/candidate-matcher/internal/embedding"
	"github.com/jonathan/candidate-matcher/internal/extraction"
	"github.com/jonathan/candidate-matcher/internal/features"
	"github.com/jonathan/candidate-matcher/internal/locking"
	"github.com/jonathan/candidate-matcher/internal/logging"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// Store is the record store used by the pipeline.
type Store interface {
	InsertJob(ctx context.Context, j *db.Job) error
	DeactivateAndChain(ctx context.Context, previousID uuid.UUID, next *db.Job) error
	GetActiveJob(ctx context.Context, jobID uuid.UUID) (*db.Job, error)
	ListJobVersions(ctx context.Context, jobID uuid.UUID) ([]types.JobVersion, error)

	UpsertCandidate(ctx context.Context, c *db.Candidate) error
	GetCandidate(ctx context.Context, candidateID uuid.UUID) (*db.Candidate, error)

	CreateTask(ctx context.Context, taskID uuid.UUID, kind string, entityID uuid.UUID) (*types.Task, error)
	FinishTask(ctx context.Context, taskID uuid.UUID, status, reason string) error
	GetTask(ctx context.Context, taskID uuid.UUID) (*types.Task, error)
	LatestTaskForEntity(ctx context.Context, entityID uuid.UUID) (*types.Task, error)
}

// Options sizes the service.
type Options struct {
	Workers        int
	QueueSize      int
	UpdateAttempts int
	// TaskTimeout bounds a single background run. Zero means no limit.
	TaskTimeout time.Duration
}

// Deps are the collaborators of a Service.
type Deps struct {
	Store     Store
	Extractor extraction.Extractor
	Embedder  embedding.Gateway
	Composer  *features.Composer
	Locker    locking.Locker
}

// Service is the caller-facing entry point for submissions and status lookups.
type Service struct {
	store     Store
	extractor extraction.Extractor
	embedder  embedding.Gateway
	composer  *features.Composer
	locker    locking.Locker
	pool      *Pool
	opts      Options
	logger    *zap.Logger
}

// NewService creates a Service and starts its worker pool.
func NewService(deps Deps, opts Options, logger *zap.Logger) *Service {
	if opts.UpdateAttempts < 1 {
		opts.UpdateAttempts = 1
	}
	if deps.Composer == nil {
		deps.Composer = features.NewComposer()
	}
	if deps.Locker == nil {
		deps.Locker = locking.NewLocalLocker()
	}
	return &Service{
		store:     deps.Store,
		extractor: deps.Extractor,
		embedder:  deps.Embedder,
		composer:  deps.Composer,
		locker:    deps.Locker,
		pool:      NewPool(opts.Workers, opts.QueueSize),
		opts:      opts,
		logger:    logging.WithFields(logger),
	}
}

// Stop drains the worker pool.
func (s *Service) Stop(ctx context.Context) error {
	return s.pool.Stop(ctx)
}

// SubmitJob accepts a new job. The job id is generated here and returned at once.
func (s *Service) SubmitJob(ctx context.Context, in types.JobInput) (*types.Receipt, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	jobID := uuid.New()
	taskID, err := s.enqueue(ctx, types.TaskKindJobInsert, jobID, func(ctx context.Context) error {
		return s.runJobInsert(ctx, jobID, in)
	})
	if err != nil {
		return nil, err
	}
	return &types.Receipt{
		Success: true,
		TaskID:  taskID,
		JobID:   &jobID,
		Message: "Job processing started",
	}, nil
}

// SubmitJobUpdate accepts a replacement for the active job previousID.
func (s *Service) SubmitJobUpdate(ctx context.Context, previousID uuid.UUID, in types.JobInput) (*types.Receipt, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	newID := uuid.New()
	taskID, err := s.enqueue(ctx, types.TaskKindJobUpdate, newID, func(ctx context.Context) error {
		return s.runJobUpdate(ctx, previousID, newID, in)
	})
	if err != nil {
		return nil, err
	}
	return &types.Receipt{
		Success:       true,
		TaskID:        taskID,
		PreviousJobID: &previousID,
		NewJobID:      &newID,
		Message:       "Job update started",
	}, nil
}

// SubmitCandidate accepts a new candidate profile.
func (s *Service) SubmitCandidate(ctx context.Context, in types.CandidateInput) (*types.Receipt, error) {
	if err := in.ValidateNew(); err != nil {
		return nil, err
	}
	candidateID := uuid.New()
	taskID, err := s.enqueue(ctx, types.TaskKindCandidateInsert, candidateID, func(ctx context.Context) error {
		return s.runCandidateInsert(ctx, candidateID, in)
	})
	if err != nil {
		return nil, err
	}
	return &types.Receipt{
		Success:     true,
		TaskID:      taskID,
		CandidateID: &candidateID,
		Message:     "Candidate processing started",
	}, nil
}

// SubmitCandidateUpdate accepts a partial profile for an existing candidate.
func (s *Service) SubmitCandidateUpdate(ctx context.Context, candidateID uuid.UUID, update types.CandidateInput) (*types.Receipt, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	taskID, err := s.enqueue(ctx, types.TaskKindCandidateUpdate, candidateID, func(ctx context.Context) error {
		return s.runCandidateUpdate(ctx, candidateID, update)
	})
	if err != nil {
		return nil, err
	}
	return &types.Receipt{
		Success:     true,
		TaskID:      taskID,
		CandidateID: &candidateID,
		Message:     "Candidate update started",
	}, nil
}

// GetJobStatus returns the version history ending at jobID plus the latest task
// for it. A job still being processed has a task but no versions yet.
func (s *Service) GetJobStatus(ctx context.Context, jobID uuid.UUID) (*types.JobStatus, error) {
	return JobStatus(ctx, s.store, jobID)
}

// JobHistory is the read side needed to report on a job.
type JobHistory interface {
	ListJobVersions(ctx context.Context, jobID uuid.UUID) ([]types.JobVersion, error)
	LatestTaskForEntity(ctx context.Context, entityID uuid.UUID) (*types.Task, error)
}

// JobStatus assembles the status of jobID from store. A job that only has a
// task so far is reported with no versions.
func JobStatus(ctx context.Context, store JobHistory, jobID uuid.UUID) (*types.JobStatus, error) {
	task, err := store.LatestTaskForEntity(ctx, jobID)
	if err != nil {
		return nil, err
	}
	versions, err := store.ListJobVersions(ctx, jobID)
	if err != nil {
		var nf *db.NotFoundError
		if !errors.As(err, &nf) || task == nil {
			return nil, err
		}
		versions = []types.JobVersion{}
	}
	return &types.JobStatus{JobID: jobID, Versions: versions, Task: task}, nil
}

// GetCandidateStatus reports whether the candidate is stored, with its latest task.
func (s *Service) GetCandidateStatus(ctx context.Context, candidateID uuid.UUID) (*types.CandidateStatus, error) {
	task, err := s.store.LatestTaskForEntity(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetCandidate(ctx, candidateID)
	if err != nil {
		var nf *db.NotFoundError
		if !errors.As(err, &nf) || task == nil {
			return nil, err
		}
		return &types.CandidateStatus{Exists: false, CandidateID: candidateID, Task: task}, nil
	}
	return &types.CandidateStatus{
		Exists:      true,
		CandidateID: candidateID,
		Version:     c.Version,
		CreatedAt:   &c.CreatedAt,
		UpdatedAt:   &c.UpdatedAt,
		Task:        task,
	}, nil
}

// GetTask returns a task by id.
func (s *Service) GetTask(ctx context.Context, taskID uuid.UUID) (*types.Task, error) {
	return s.store.GetTask(ctx, taskID)
}

// enqueue records a pending task and hands fn to the pool. A full queue marks
// the task failed and returns ErrQueueFull.
func (s *Service) enqueue(ctx context.Context, kind string, entityID uuid.UUID, fn func(ctx context.Context) error) (uuid.UUID, error) {
	taskID := uuid.New()
	if _, err := s.store.CreateTask(ctx, taskID, kind, entityID); err != nil {
		return uuid.Nil, err
	}

	err := s.pool.Submit(func(ctx context.Context) {
		s.execute(ctx, taskID, kind, entityID, fn)
	})
	if err != nil {
		if ferr := s.store.FinishTask(ctx, taskID, types.TaskStatusFailed, err.Error()); ferr != nil {
			s.logger.Warn("failed to record rejected task", zap.String(logging.FieldTaskID, taskID.String()), zap.Error(ferr))
		}
		return uuid.Nil, err
	}
	return taskID, nil
}
