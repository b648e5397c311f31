package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"github.com/yourusername/mediafire-dl-go/pkg/logger"
)

// State is a phase of one orchestrated run
type State string

const (
	StateIdle      State = "idle"
	StateResolving State = "resolving"
	StateSeeding   State = "seeding"
	StateDraining  State = "draining"
	StateReporting State = "reporting"
	StateDone      State = "done"
)

// Notifier is told about finished runs
type Notifier interface {
	NotifyRunFinished(url string, succeeded, failed int)
}

// Report is the result of one run
type Report struct {
	RunID      string
	URL        string
	OutputDir  string
	Total      int
	Successful []domain.Outcome
	Failed     []domain.Outcome
	Elapsed    time.Duration
	ResolveErr error
}

// FailedPaths returns the destination path of every failed job
func (r *Report) FailedPaths() []string {
	paths := make([]string, 0, len(r.Failed))
	for _, o := range r.Failed {
		paths = append(paths, o.Job.DestinationPath)
	}
	return paths
}

// Orchestrator resolves a share URL into jobs and drives them through the worker pool
type Orchestrator struct {
	resolver   domain.Resolver
	transferer domain.Transferer
	repo       domain.RunRepository
	notifier   Notifier
	display    ProgressDisplay
	log        *logger.LoggerAdapter

	mu    sync.RWMutex
	state State
}

// NewOrchestrator creates an orchestrator; repo, notifier and display may be nil
func NewOrchestrator(
	resolver domain.Resolver,
	transferer domain.Transferer,
	repo domain.RunRepository,
	notifier Notifier,
	display ProgressDisplay,
	log *logger.LoggerAdapter,
) *Orchestrator {
	if log == nil {
		log = logger.NewNopAdapter()
	}
	if display == nil {
		display = NopDisplay{}
	}
	return &Orchestrator{
		resolver:   resolver,
		transferer: transferer,
		repo:       repo,
		notifier:   notifier,
		display:    display,
		log:        log,
		state:      StateIdle,
	}
}

// State returns the current phase
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	o.log.General().Debug("Orchestrator state", zap.String("state", string(s)))
}

// Run downloads everything behind rawURL into outputDir with maxConcurrent workers.
// It returns domain.ErrNothingToDownload when no job was produced. Individual
// job failures are reported in Report.Failed, never as an error.
func (o *Orchestrator) Run(ctx context.Context, rawURL, outputDir string, maxConcurrent int) (*Report, error) {
	started := time.Now()
	report := &Report{URL: rawURL, OutputDir: outputDir}

	o.setState(StateResolving)
	o.display.Resolving("Fetching data")
	jobs, resolveErr := o.resolve(ctx, rawURL, outputDir)
	report.ResolveErr = resolveErr

	o.setState(StateSeeding)
	queue := NewJobQueue()
	for _, job := range jobs {
		queue.Push(job)
	}
	report.Total = queue.Len()

	if report.Total == 0 {
		o.display.Finish()
		o.setState(StateDone)
		report.Elapsed = time.Since(started)
		if resolveErr != nil {
			return report, fmt.Errorf("%w: %v", domain.ErrNothingToDownload, resolveErr)
		}
		return report, domain.ErrNothingToDownload
	}

	progress := NewProgress(o.display)
	progress.SetTotal(report.Total)
	tracker := NewOutcomeTracker()
	run := o.startRun(rawURL, outputDir)
	if run != nil {
		report.RunID = run.ID
	}

	o.setState(StateDraining)
	o.log.General().Info("Starting downloads",
		zap.Int("jobs", report.Total),
		zap.Int("workers", maxConcurrent))

	pool := NewWorkerPool(queue, o.transferer, tracker, progress, maxConcurrent, o.log)
	if err := pool.Start(ctx); err != nil {
		o.setState(StateDone)
		return report, err
	}

	var drainErr error
	select {
	case <-progress.Done():
	case <-ctx.Done():
		drainErr = ctx.Err()
	}
	if err := pool.Stop(); err != nil {
		o.log.LogAppError("Failed to stop worker pool", zap.Error(err))
	}
	progress.Finish()

	o.setState(StateReporting)
	report.Successful = tracker.Successful()
	report.Failed = tracker.Failed()
	report.Elapsed = time.Since(started)
	o.finishRun(run, report)

	o.log.LogQueueEvent("run_finished",
		zap.String("run_id", report.RunID),
		zap.String("url", rawURL),
		zap.Int("total", report.Total),
		zap.Int("succeeded", len(report.Successful)),
		zap.Int("failed", len(report.Failed)),
		zap.Duration("elapsed", report.Elapsed))

	if o.notifier != nil {
		o.notifier.NotifyRunFinished(rawURL, len(report.Successful), len(report.Failed))
	}

	o.setState(StateDone)
	return report, drainErr
}

// resolve never fails the run by itself; an error only explains an empty job list
func (o *Orchestrator) resolve(ctx context.Context, rawURL, outputDir string) ([]*domain.Job, error) {
	link, ok := domain.ParseShareURL(rawURL)
	if !ok {
		err := &domain.ResolutionError{Key: rawURL, Err: errors.New("not a MediaFire file or folder link")}
		o.log.General().Warn("Unrecognised URL", zap.String("url", rawURL))
		return nil, err
	}

	o.log.LogQueueEvent("run_resolving",
		zap.String("kind", string(link.Kind)),
		zap.String("key", link.Key))

	jobs, err := o.resolver.Resolve(ctx, link, outputDir)
	if err != nil {
		o.log.General().Warn("Failed to resolve share link",
			zap.String("key", link.Key),
			zap.Error(err))
		var resErr *domain.ResolutionError
		if !errors.As(err, &resErr) {
			err = &domain.ResolutionError{Key: link.Key, Err: err}
		}
		return nil, err
	}

	o.log.LogQueueEvent("run_resolved",
		zap.String("key", link.Key),
		zap.Int("jobs", len(jobs)))
	return jobs, nil
}

func (o *Orchestrator) startRun(rawURL, outputDir string) *domain.Run {
	if o.repo == nil {
		return nil
	}
	run := domain.NewRun(rawURL, outputDir)
	if err := o.repo.CreateRun(run); err != nil {
		o.log.LogAppError("Failed to record run", zap.Error(err))
		return nil
	}
	return run
}

func (o *Orchestrator) finishRun(run *domain.Run, report *Report) {
	if o.repo == nil || run == nil {
		return
	}

	run.Total = report.Total
	run.MarkFinished(len(report.Successful), len(report.Failed))

	records := make([]*domain.JobRecord, 0, len(report.Successful)+len(report.Failed))
	for _, outcome := range report.Successful {
		records = append(records, domain.NewJobRecord(run.ID, outcome))
	}
	for _, outcome := range report.Failed {
		records = append(records, domain.NewJobRecord(run.ID, outcome))
	}

	if err := o.repo.FinishRun(run, records); err != nil {
		o.log.LogAppError("Failed to record run outcome",
			zap.String("run_id", run.ID),
			zap.Error(err))
	}
}
