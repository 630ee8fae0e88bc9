//go:build integration

package db

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-matcher/internal/features"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// getTestDB returns a migrated database connection for integration tests
func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	if _, err := Migrate(ctx, dsn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Each test starts from an empty store
	_, _ = db.pool.Exec(ctx, "DELETE FROM jobs WHERE previous_version_id IS NOT NULL")
	_, _ = db.pool.Exec(ctx, "DELETE FROM jobs")
	_, _ = db.pool.Exec(ctx, "DELETE FROM candidates")
	_, _ = db.pool.Exec(ctx, "DELETE FROM pipeline_tasks")

	return db
}

// unitVector returns a 32-dimension vector with weight at index i.
func unitVector(i int, weight float32) []float32 {
	v := make([]float32, 32)
	v[i] = weight
	return v
}

func insertTestCandidate(t *testing.T, db *DB, name string, tenure int, bachelor, master bool, vec []float32) uuid.UUID {
	t.Helper()
	id := uuid.New()
	c := &Candidate{
		CandidateID:    id,
		FirstName:      name,
		Email:          name + "@example.com",
		Skills:         "Go",
		CurrentCompany: "Acme",
		CurrentRole:    "Engineer",
		HasBachelor:    bachelor,
		HasMaster:      master,
		Tenure:         tenure,
		Profile:        types.CandidateInput{FirstName: &name},
		Embedding:      vec,
	}
	require.NoError(t, db.UpsertCandidate(context.Background(), c))
	return id
}

func TestIntegration_JobChain(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	root := NewJob(uuid.New(), sampleJobInput(), types.Requirements{Tenure: 2}, unitVector(0, 1))
	require.NoError(t, db.InsertJob(ctx, root))

	t.Run("descriptive fields round-trip", func(t *testing.T) {
		got, err := db.GetJob(ctx, root.JobID)
		require.NoError(t, err)
		assert.Equal(t, sampleJobInput(), got.Input())
		assert.Equal(t, root.JobID, got.ChainID)
		assert.Len(t, got.Embedding, 32)
	})

	second := NewJob(uuid.New(), sampleJobInput(), types.Requirements{Tenure: 3}, unitVector(1, 1))
	require.NoError(t, db.DeactivateAndChain(ctx, root.JobID, second))

	t.Run("exactly one active version per chain", func(t *testing.T) {
		var active int
		err := db.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM jobs WHERE chain_id = $1 AND status = 'active'`, root.JobID,
		).Scan(&active)
		require.NoError(t, err)
		assert.Equal(t, 1, active)

		_, err = db.GetActiveJob(ctx, root.JobID)
		var nf *NotFoundError
		assert.True(t, errors.As(err, &nf))

		got, err := db.GetActiveJob(ctx, second.JobID)
		require.NoError(t, err)
		assert.Equal(t, root.JobID, *got.PreviousVersionID)
	})

	t.Run("update against inactive predecessor leaves store unchanged", func(t *testing.T) {
		var before int
		require.NoError(t, db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&before))

		stale := NewJob(uuid.New(), sampleJobInput(), types.Requirements{}, unitVector(2, 1))
		err := db.DeactivateAndChain(ctx, root.JobID, stale)
		var nf *NotFoundError
		require.True(t, errors.As(err, &nf), "got %v", err)

		var after int
		require.NoError(t, db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&after))
		assert.Equal(t, before, after)

		_, err = db.GetJob(ctx, stale.JobID)
		assert.True(t, errors.As(err, &nf))
		got, err := db.GetActiveJob(ctx, second.JobID)
		require.NoError(t, err)
		assert.Equal(t, types.JobStatusActive, got.Status)
	})

	t.Run("version history walks backwards", func(t *testing.T) {
		versions, err := db.ListJobVersions(ctx, second.JobID)
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, second.JobID, versions[0].JobID)
		assert.Equal(t, types.JobStatusActive, versions[0].Status)
		assert.Equal(t, root.JobID, versions[1].JobID)
		assert.Equal(t, types.JobStatusInactive, versions[1].Status)
	})
}

func TestIntegration_JobChain_FailedInsertRollsBack(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	root := NewJob(uuid.New(), sampleJobInput(), types.Requirements{Tenure: 2}, unitVector(0, 1))
	require.NoError(t, db.InsertJob(ctx, root))

	// Reusing an existing job_id fails the insert after the predecessor was flipped.
	clash := NewJob(root.JobID, sampleJobInput(), types.Requirements{Tenure: 3}, unitVector(1, 1))
	err := db.DeactivateAndChain(ctx, root.JobID, clash)
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe), "got %v", err)

	got, err := db.GetActiveJob(ctx, root.JobID)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusActive, got.Status)
	assert.Equal(t, 2, got.Tenure)

	var total int
	require.NoError(t, db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total))
	assert.Equal(t, 1, total)
}

func TestIntegration_JobChain_ConcurrentUpdates(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	root := NewJob(uuid.New(), sampleJobInput(), types.Requirements{Tenure: 2}, unitVector(0, 1))
	require.NoError(t, db.InsertJob(ctx, root))

	const writers = 2
	errs := make([]error, writers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			next := NewJob(uuid.New(), sampleJobInput(), types.Requirements{Tenure: 3 + i}, unitVector(i+1, 1))
			errs[i] = db.DeactivateAndChain(ctx, root.JobID, next)
		}(i)
	}
	close(start)
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		var nf *NotFoundError
		switch {
		case err == nil:
			won++
		case errors.As(err, &nf):
			lost++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	var active, total int
	require.NoError(t, db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE chain_id = $1 AND status = 'active'`, root.JobID,
	).Scan(&active))
	require.NoError(t, db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE chain_id = $1`, root.JobID,
	).Scan(&total))
	assert.Equal(t, 1, active)
	assert.Equal(t, 2, total)
}

func TestIntegration_JobChain_LongHistory(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	tests := []struct {
		name    string
		updates int
	}{
		{name: "single update", updates: 1},
		{name: "four updates", updates: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewJob(uuid.New(), sampleJobInput(), types.Requirements{}, unitVector(0, 1))
			require.NoError(t, db.InsertJob(ctx, root))

			ids := []uuid.UUID{root.JobID}
			head := root.JobID
			for i := 0; i < tt.updates; i++ {
				next := NewJob(uuid.New(), sampleJobInput(), types.Requirements{Tenure: i + 1}, unitVector(i+1, 1))
				require.NoError(t, db.DeactivateAndChain(ctx, head, next))
				head = next.JobID
				ids = append(ids, head)
			}

			var inactive, active int
			require.NoError(t, db.pool.QueryRow(ctx,
				`SELECT COUNT(*) FILTER (WHERE status = 'inactive'), COUNT(*) FILTER (WHERE status = 'active')
				 FROM jobs WHERE chain_id = $1`, root.JobID,
			).Scan(&inactive, &active))
			assert.Equal(t, tt.updates, inactive)
			assert.Equal(t, 1, active)

			versions, err := db.ListJobVersions(ctx, head)
			require.NoError(t, err)
			require.Len(t, versions, tt.updates+1)
			seen := make(map[uuid.UUID]bool, len(versions))
			for i, v := range versions {
				assert.False(t, seen[v.JobID], "version %s repeated", v.JobID)
				seen[v.JobID] = true
				assert.Equal(t, ids[len(ids)-1-i], v.JobID)
			}
			assert.Equal(t, types.JobStatusActive, versions[0].Status)
			assert.Nil(t, versions[len(versions)-1].PreviousVersionID)
		})
	}
}

func TestIntegration_CandidateVersioning(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	profile := types.CandidateInput{
		FirstName: strPtr("Grace"),
		Email:     strPtr("grace@example.com"),
		Phone:     strPtr("111"),
		Skills:    []string{"COBOL"},
		Experiences: []types.Experience{
			{Company: "Navy", Role: "Officer", StartDate: "2010-01-01", EndDate: "2015-01-01"},
		},
		Education: []types.Education{{Institution: "Yale", Degree: "Master of Science"}},
	}
	f, err := features.NewComposer().Candidate(profile)
	require.NoError(t, err)

	c := NewCandidate(uuid.New(), profile, f, unitVector(0, 1))
	require.NoError(t, db.UpsertCandidate(ctx, c))
	assert.Equal(t, 1, c.Version)

	stored, err := db.GetCandidate(ctx, c.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, profile, stored.Profile)
	assert.True(t, stored.HasMaster)

	stale := *stored
	stored.Phone = "222"
	require.NoError(t, db.UpsertCandidate(ctx, stored))
	assert.Equal(t, 2, stored.Version)

	stale.Phone = "333"
	err = db.UpsertCandidate(ctx, &stale)
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))

	got, err := db.GetCandidate(ctx, c.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, "222", got.Phone)

	_, err = db.GetCandidate(ctx, uuid.New())
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestIntegration_MatchCandidates(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	job := NewJob(uuid.New(), sampleJobInput(),
		types.Requirements{Tenure: 2, IsRequiredBachelor: true}, unitVector(0, 1))
	require.NoError(t, db.InsertJob(ctx, job))

	best := insertTestCandidate(t, db, "best", 5, true, false, unitVector(0, 0.9))
	good := insertTestCandidate(t, db, "good", 2, true, true, unitVector(0, 0.5))
	insertTestCandidate(t, db, "junior", 1, true, false, unitVector(0, 1))
	insertTestCandidate(t, db, "nodegree", 9, false, false, unitVector(0, 1))
	far := insertTestCandidate(t, db, "far", 3, true, false, unitVector(5, 1))

	results, err := db.MatchCandidates(ctx, job, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, best, results[0].CandidateID)
	assert.Equal(t, good, results[1].CandidateID)
	assert.Equal(t, far, results[2].CandidateID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].SimilarityScore, results[i].SimilarityScore)
	}
	assert.InDelta(t, 1.9, results[0].SimilarityScore, 1e-5)

	limited, err := db.MatchCandidates(ctx, job, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	// A replacement committed after the job was loaded does not empty the ranking.
	successor := NewJob(uuid.New(), sampleJobInput(), types.Requirements{Tenure: 50}, unitVector(1, 1))
	require.NoError(t, db.DeactivateAndChain(ctx, job.JobID, successor))
	stale, err := db.MatchCandidates(ctx, job, 10)
	require.NoError(t, err)
	assert.Len(t, stale, 3)
}

func TestIntegration_Tasks(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	entity := uuid.New()
	task, err := db.CreateTask(ctx, uuid.New(), types.TaskKindJobInsert, entity)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStatusPending, task.Status)

	require.NoError(t, db.FinishTask(ctx, task.ID, types.TaskStatusFailed, "embedding unavailable"))
	require.NoError(t, db.FinishTask(ctx, task.ID, types.TaskStatusSucceeded, ""))

	got, err := db.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStatusFailed, got.Status)
	assert.Equal(t, "embedding unavailable", got.Reason)

	latest, err := db.LatestTaskForEntity(ctx, entity)
	require.NoError(t, err)
	assert.Equal(t, task.ID, latest.ID)

	none, err := db.LatestTaskForEntity(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, none)
}
