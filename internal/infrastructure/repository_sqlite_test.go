package infrastructure

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/mediafire-dl-go/internal/domain"
)

func setupTestRepo(t *testing.T) (*SQLiteRunRepository, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "repo-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewSQLiteRunRepository(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}
	return repo, cleanup
}

func finishedRun(t *testing.T, repo *SQLiteRunRepository, url string, startedAt time.Time, outcomes ...domain.Outcome) *domain.Run {
	t.Helper()
	run := domain.NewRun(url, "/tmp/out")
	run.StartedAt = startedAt
	require.NoError(t, repo.CreateRun(run))

	records := make([]*domain.JobRecord, 0, len(outcomes))
	succeeded := 0
	for _, o := range outcomes {
		if o.Succeeded() {
			succeeded++
		}
		records = append(records, domain.NewJobRecord(run.ID, o))
	}
	run.Total = len(outcomes)
	run.MarkFinished(succeeded, len(outcomes)-succeeded)
	require.NoError(t, repo.FinishRun(run, records))
	return run
}

func outcome(id string, size int64, err error) domain.Outcome {
	job := domain.NewJob(id, id+".bin", "/tmp/out/"+id+".bin", "https://example.com/"+id, size)
	return domain.Outcome{Job: job, Err: err, Duration: 150 * time.Millisecond}
}

func TestFinishRun_StoresRunAndRecords(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	run := finishedRun(t, repo, "https://www.mediafire.com/folder/abc", time.Now(),
		outcome("a", 10, nil),
		outcome("b", 20, errors.New("unexpected status 404 Not Found")),
		outcome("c", 30, nil),
	)

	found, err := repo.FindRunByID(run.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 3, found.Total)
	assert.Equal(t, 2, found.Succeeded)
	assert.Equal(t, 1, found.Failed)
	assert.NotNil(t, found.FinishedAt)

	jobs, err := repo.FindJobs(run.ID, "")
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "a", jobs[0].RemoteID)
	assert.Equal(t, int64(150), jobs[0].DurationMs)

	failed, err := repo.FindJobs(run.ID, domain.JobFailed)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].RemoteID)
	assert.Contains(t, failed[0].ErrorMessage, "404")
}

func TestFindJobs_OrderedByCompletionTime(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	base := time.Now().Add(-time.Minute)
	first := outcome("first", 1, errors.New("unexpected status 404 Not Found"))
	first.CompletedAt = base
	second := outcome("second", 1, nil)
	second.CompletedAt = base.Add(time.Second)
	third := outcome("third", 1, nil)
	third.CompletedAt = base.Add(2 * time.Second)

	// successes are persisted before failures; the listing must not follow that
	run := finishedRun(t, repo, "https://www.mediafire.com/folder/abc", time.Now(), third, second, first)

	jobs, err := repo.FindJobs(run.ID, "")
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "first", jobs[0].RemoteID)
	assert.Equal(t, "second", jobs[1].RemoteID)
	assert.Equal(t, "third", jobs[2].RemoteID)
}

func TestFindRunByID_ReturnsNilWhenNoMatch(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	found, err := repo.FindRunByID("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFindRuns_NewestFirstWithLimit(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	base := time.Now().Add(-time.Hour)
	oldest := finishedRun(t, repo, "https://www.mediafire.com/file/one", base)
	middle := finishedRun(t, repo, "https://www.mediafire.com/file/two", base.Add(time.Minute))
	newest := finishedRun(t, repo, "https://www.mediafire.com/file/three", base.Add(2*time.Minute))

	all, err := repo.FindRuns(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newest.ID, all[0].ID)
	assert.Equal(t, middle.ID, all[1].ID)
	assert.Equal(t, oldest.ID, all[2].ID)

	limited, err := repo.FindRuns(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, newest.ID, limited[0].ID)
}

func TestGetStats_AggregatesAcrossRuns(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, &domain.HistoryStats{}, stats)

	finishedRun(t, repo, "https://www.mediafire.com/folder/x", time.Now(),
		outcome("a", 100, nil),
		outcome("b", 50, errors.New("boom")),
	)
	finishedRun(t, repo, "https://www.mediafire.com/file/y", time.Now(),
		outcome("c", 25, nil),
	)

	stats, err = repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Runs)
	assert.Equal(t, int64(3), stats.Jobs)
	assert.Equal(t, int64(2), stats.Succeeded)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(125), stats.Bytes)
}

func TestFinishRun_WithoutRecords(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	run := finishedRun(t, repo, "https://www.mediafire.com/folder/empty", time.Now())

	jobs, err := repo.FindJobs(run.ID, "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
