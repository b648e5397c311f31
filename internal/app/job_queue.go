package app

import (
	"context"
	"sync"

	"github.com/yourusername/mediafire-dl-go/internal/domain"
)

// JobQueue is an unbounded multi-producer/multi-consumer FIFO of jobs.
// Push never blocks; Pop blocks until a job is available or ctx is done.
type JobQueue struct {
	mu      sync.Mutex
	items   []*domain.Job
	waiters []chan *domain.Job
}

// NewJobQueue creates an empty queue
func NewJobQueue() *JobQueue {
	return &JobQueue{}
}

// Push appends a job to the tail, handing it straight to the oldest waiting consumer if any
func (q *JobQueue) Push(job *domain.Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.waiters) > 0 {
		w := q.waiters[0]
		q.waiters = q.waiters[1:]
		w <- job // buffered, never blocks
		return
	}
	q.items = append(q.items, job)
}

// Pop removes and returns the head job, waiting for one if the queue is empty
func (q *JobQueue) Pop(ctx context.Context) (*domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q.mu.Lock()
	if len(q.items) > 0 {
		job := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()
		return job, nil
	}

	w := make(chan *domain.Job, 1)
	q.waiters = append(q.waiters, w)
	q.mu.Unlock()

	select {
	case job := <-w:
		return job, nil
	case <-ctx.Done():
		q.mu.Lock()
		defer q.mu.Unlock()
		q.removeWaiter(w)
		// a push may have won the race with cancellation
		select {
		case job := <-w:
			q.items = append([]*domain.Job{job}, q.items...)
		default:
		}
		return nil, ctx.Err()
	}
}

// Len returns the number of pending jobs
func (q *JobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *JobQueue) removeWaiter(w chan *domain.Job) {
	for i, candidate := range q.waiters {
		if candidate == w {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			return
		}
	}
}
