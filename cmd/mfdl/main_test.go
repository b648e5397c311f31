package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mediafire-dl-go/internal/app"
	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"github.com/yourusername/mediafire-dl-go/internal/infrastructure"
)

func TestPrintReport_ListsFailedPaths(t *testing.T) {
	ok := domain.Outcome{Job: domain.NewJob("a", "a.txt", "/out/a.txt", "https://x/a", 1)}
	bad := domain.Outcome{Job: domain.NewJob("b", "b.txt", "/out/b.txt", "https://x/b", 1), Err: errors.New("404")}

	var buf bytes.Buffer
	printReport(&buf, &app.Report{
		Total:      3,
		Successful: []domain.Outcome{ok, ok},
		Failed:     []domain.Outcome{bad},
		Elapsed:    1500 * time.Millisecond,
	})

	out := buf.String()
	assert.Contains(t, out, "Downloaded 2 of 3 files in 1.5s")
	assert.Contains(t, out, "Failed downloads:\n  /out/b.txt\n")
}

func TestPrintReport_NoFailures(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &app.Report{Total: 1, Successful: []domain.Outcome{{Job: domain.NewJob("a", "a", "/a", "u", 0)}}})

	assert.NotContains(t, buf.String(), "Failed downloads")
}

func TestShowRun(t *testing.T) {
	repo, err := infrastructure.NewSQLiteRunRepository(t.TempDir() + "/history.db")
	require.NoError(t, err)
	defer repo.Close()

	run := domain.NewRun("https://www.mediafire.com/folder/abc", "/out")
	require.NoError(t, repo.CreateRun(run))
	run.Total = 2
	run.MarkFinished(1, 1)
	require.NoError(t, repo.FinishRun(run, []*domain.JobRecord{
		domain.NewJobRecord(run.ID, domain.Outcome{Job: domain.NewJob("a", "a.txt", "/out/a.txt", "u", 5)}),
		domain.NewJobRecord(run.ID, domain.Outcome{Job: domain.NewJob("b", "b.txt", "/out/b.txt", "u", 7), Err: errors.New("unexpected status 404")}),
	}))

	var buf bytes.Buffer
	require.NoError(t, showRun(&buf, repo, run.ID, domain.JobFailed))
	out := buf.String()
	assert.Contains(t, out, "1 succeeded, 1 failed of 2")
	assert.Contains(t, out, "/out/b.txt")
	assert.NotContains(t, out, "/out/a.txt")

	assert.Error(t, showRun(&buf, repo, "missing", ""))
	assert.Error(t, showRun(&buf, repo, run.ID, "queued"))

	buf.Reset()
	runs, err := repo.FindRuns(0)
	require.NoError(t, err)
	printRuns(&buf, runs)
	assert.Contains(t, buf.String(), run.ID[:8])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 8))
	assert.Equal(t, "abcde...", truncate("abcdefghijk", 8))
}
