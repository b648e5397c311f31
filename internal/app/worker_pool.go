package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"github.com/yourusername/mediafire-dl-go/pkg/logger"
)

// WorkerPool runs a fixed number of symmetric workers draining a JobQueue
type WorkerPool struct {
	queue      *JobQueue
	transferer domain.Transferer
	tracker    *OutcomeTracker
	progress   *Progress
	size       int
	log        *logger.LoggerAdapter

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	workerWg sync.WaitGroup
}

// NewWorkerPool creates a pool of size workers
func NewWorkerPool(
	queue *JobQueue,
	transferer domain.Transferer,
	tracker *OutcomeTracker,
	progress *Progress,
	size int,
	log *logger.LoggerAdapter,
) *WorkerPool {
	if log == nil {
		log = logger.NewNopAdapter()
	}
	return &WorkerPool{
		queue:      queue,
		transferer: transferer,
		tracker:    tracker,
		progress:   progress,
		size:       size,
		log:        log,
	}
}

// Start spawns exactly size workers. They run until Stop or ctx cancellation.
func (wp *WorkerPool) Start(ctx context.Context) error {
	if wp.size < 1 {
		return fmt.Errorf("worker pool size must be at least 1, got %d", wp.size)
	}

	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.running {
		return fmt.Errorf("worker pool already running")
	}
	wp.running = true

	workerCtx, cancel := context.WithCancel(ctx)
	wp.cancel = cancel

	wp.log.LogQueueEvent("pool_started", zap.Int("workers", wp.size))
	for id := 1; id <= wp.size; id++ {
		wp.workerWg.Add(1)
		go wp.worker(workerCtx, id)
	}
	return nil
}

// Stop cancels idle and in-flight workers and waits for them to exit
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	if !wp.running {
		wp.mu.Unlock()
		return fmt.Errorf("worker pool not running")
	}
	wp.running = false
	wp.cancel()
	wp.mu.Unlock()

	wp.workerWg.Wait()
	wp.log.LogQueueEvent("pool_stopped")
	return nil
}

// IsRunning returns whether the pool has been started and not stopped
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.running
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.workerWg.Done()

	for {
		job, err := wp.queue.Pop(ctx)
		if err != nil {
			return
		}

		wp.log.LogQueueEvent("job_started",
			zap.Int("worker", id),
			zap.String("id", job.ID),
			zap.String("url", job.DownloadURL))

		start := time.Now()
		err = wp.runJob(ctx, job)
		finished := time.Now()
		outcome := domain.Outcome{Job: job, Err: err, Duration: finished.Sub(start), CompletedAt: finished}

		wp.tracker.Record(outcome)
		successful, failed := wp.tracker.Snapshot()
		wp.progress.Tick(successful, failed)

		if err != nil {
			wp.log.LogQueueEvent("job_failed",
				zap.Int("worker", id),
				zap.String("id", job.ID),
				zap.String("path", job.DestinationPath),
				zap.Error(err))
			continue
		}
		wp.log.LogQueueEvent("job_completed",
			zap.Int("worker", id),
			zap.String("id", job.ID),
			zap.String("path", job.DestinationPath),
			zap.Int64("size", job.SizeBytes),
			zap.Duration("elapsed", outcome.Duration))
	}
}

// runJob keeps a panicking transfer from taking the worker down with it
func (wp *WorkerPool) runJob(ctx context.Context, job *domain.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			wp.log.LogAppError("Transfer panicked",
				zap.String("id", job.ID),
				zap.Any("panic", r))
			err = fmt.Errorf("transfer panicked: %v", r)
		}
	}()
	return wp.transferer.Transfer(ctx, job)
}
