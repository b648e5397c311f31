package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/mediafire-dl-go/internal/domain"
)

// fakeTransferer records every job it sees and fails the ones listed in failIDs
type fakeTransferer struct {
	mu      sync.Mutex
	seen    []string
	counts  map[string]int
	failIDs map[string]bool
	delay   time.Duration
}

func newFakeTransferer(failIDs ...string) *fakeTransferer {
	f := &fakeTransferer{counts: make(map[string]int), failIDs: make(map[string]bool)}
	for _, id := range failIDs {
		f.failIDs[id] = true
	}
	return f
}

func (f *fakeTransferer) Transfer(ctx context.Context, job *domain.Job) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	f.seen = append(f.seen, job.ID)
	f.counts[job.ID]++
	f.mu.Unlock()

	if f.failIDs[job.ID] {
		return &domain.TransferError{Kind: domain.TransferHTTP, StatusCode: 404, Err: fmt.Errorf("not found")}
	}
	return nil
}

func (f *fakeTransferer) order() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

// fakeResolver returns a fixed job list or error
type fakeResolver struct {
	jobs []*domain.Job
	err  error
	got  domain.ShareLink
}

func (r *fakeResolver) Resolve(ctx context.Context, link domain.ShareLink, outputDir string) ([]*domain.Job, error) {
	r.got = link
	return r.jobs, r.err
}

// recordingDisplay captures every completed value passed to Update
type recordingDisplay struct {
	mu        sync.Mutex
	resolving []string
	total     int
	updates   []int
	messages  []string
	finished  int
}

func (d *recordingDisplay) Resolving(message string) {
	d.mu.Lock()
	d.resolving = append(d.resolving, message)
	d.mu.Unlock()
}

func (d *recordingDisplay) Start(total int) {
	d.mu.Lock()
	d.total = total
	d.mu.Unlock()
}

func (d *recordingDisplay) Update(completed int, message string) {
	d.mu.Lock()
	d.updates = append(d.updates, completed)
	d.messages = append(d.messages, message)
	d.mu.Unlock()
}

func (d *recordingDisplay) Finish() {
	d.mu.Lock()
	d.finished++
	d.mu.Unlock()
}

// fakeRunRepo keeps runs in memory
type fakeRunRepo struct {
	mu      sync.Mutex
	runs    map[string]*domain.Run
	records []*domain.JobRecord
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[string]*domain.Run)}
}

func (r *fakeRunRepo) CreateRun(run *domain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return nil
}

func (r *fakeRunRepo) FinishRun(run *domain.Run, records []*domain.JobRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	r.records = append(r.records, records...)
	return nil
}

func (r *fakeRunRepo) FindRuns(limit int) ([]*domain.Run, error) {
	return nil, nil
}

func (r *fakeRunRepo) FindRunByID(id string) (*domain.Run, error) {
	return r.runs[id], nil
}

func (r *fakeRunRepo) FindJobs(runID string, status domain.JobStatus) ([]*domain.JobRecord, error) {
	return nil, nil
}

func (r *fakeRunRepo) GetStats() (*domain.HistoryStats, error) {
	return nil, nil
}

// fakeNotifier counts notifications
type fakeNotifier struct {
	calls     int
	succeeded int
	failed    int
}

func (n *fakeNotifier) NotifyRunFinished(url string, succeeded, failed int) {
	n.calls++
	n.succeeded = succeeded
	n.failed = failed
}

func makeJobs(n int) []*domain.Job {
	jobs := make([]*domain.Job, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("job-%03d", i)
		jobs = append(jobs, domain.NewJob(id, id+".bin", "/tmp/out/"+id+".bin", "https://example.com/"+id, 1))
	}
	return jobs
}
