package app

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ProgressDisplay renders aggregate progress; implementations need not be thread-safe.
// Resolving is shown while the share link is looked up, before Start.
type ProgressDisplay interface {
	Resolving(message string)
	Start(total int)
	Update(completed int, message string)
	Finish()
}

// NopDisplay discards all progress output
type NopDisplay struct{}

func (NopDisplay) Resolving(string)   {}
func (NopDisplay) Start(int)          {}
func (NopDisplay) Update(int, string) {}
func (NopDisplay) Finish()            {}

// Progress counts completed jobs against a fixed total and signals drain.
// Done is closed by the tick that brings completed up to total.
type Progress struct {
	display ProgressDisplay

	mu        sync.Mutex
	total     int
	totalSet  bool
	completed atomic.Int64
	message   string
	finished  bool

	done     chan struct{}
	doneOnce sync.Once
}

// NewProgress creates a progress tracker drawing on display (nil = no output)
func NewProgress(display ProgressDisplay) *Progress {
	if display == nil {
		display = NopDisplay{}
	}
	return &Progress{
		display: display,
		done:    make(chan struct{}),
	}
}

// SetTotal fixes the number of jobs; only the first call has effect
func (p *Progress) SetTotal(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.totalSet {
		return
	}
	p.totalSet = true
	p.total = n
	p.message = "Downloading"
	p.display.Start(n)
	p.display.Update(0, p.message)

	if n <= 0 {
		p.markDone()
	}
}

// Tick records one completed job and refreshes the status message.
// Ticks beyond total are ignored and reported as false.
func (p *Progress) Tick(successful, failed int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	completed := int(p.completed.Load())
	if !p.totalSet || completed >= p.total {
		return false
	}
	completed = int(p.completed.Add(1))

	p.message = fmt.Sprintf("Successful downloads %d - Failed downloads %d", successful, failed)
	p.display.Update(completed, p.message)

	if completed == p.total {
		p.markDone()
	}
	return true
}

// Completed returns the number of ticks so far
func (p *Progress) Completed() int {
	return int(p.completed.Load())
}

// Total returns the total set by SetTotal
func (p *Progress) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Message returns the current status message
func (p *Progress) Message() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.message
}

// IsDrained reports whether every job has completed
func (p *Progress) IsDrained() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalSet && int(p.completed.Load()) >= p.total
}

// Done is closed once the pipeline is drained
func (p *Progress) Done() <-chan struct{} {
	return p.done
}

// Finish finalises the display; later calls are no-ops
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finished {
		return
	}
	p.finished = true
	p.display.Finish()
}

func (p *Progress) markDone() {
	p.doneOnce.Do(func() { close(p.done) })
}
