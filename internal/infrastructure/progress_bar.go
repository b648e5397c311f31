package infrastructure

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar renders aggregate job progress on a terminal. It implements app.ProgressDisplay.
type ProgressBar struct {
	mu     sync.Mutex
	writer io.Writer
	bar    *progressbar.ProgressBar

	spinner     *progressbar.ProgressBar
	spinnerStop chan struct{}
	spinnerDone chan struct{}
}

const spinnerInterval = 100 * time.Millisecond

// NewProgressBar creates a progress bar writing to w (stderr when nil)
func NewProgressBar(w io.Writer) *ProgressBar {
	if w == nil {
		w = os.Stderr
	}
	return &ProgressBar{writer: w}
}

// Resolving shows an animated spinner until Start or Finish
func (p *ProgressBar) Resolving(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		p.spinner.Describe(message)
		return
	}

	p.spinner = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
	p.spinnerStop = make(chan struct{})
	p.spinnerDone = make(chan struct{})
	go spin(p.spinner, p.spinnerStop, p.spinnerDone)
}

func spin(spinner *progressbar.ProgressBar, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			spinner.Add(1)
		}
	}
}

// stopSpinner must be called with mu held
func (p *ProgressBar) stopSpinner() {
	if p.spinner == nil {
		return
	}
	close(p.spinnerStop)
	<-p.spinnerDone
	p.spinner.Clear()
	p.spinner = nil
}

// Start replaces any spinner with the bar for total jobs
func (p *ProgressBar) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()

	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionSetItsString("file"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			io.WriteString(p.writer, "\n")
		}),
	)
}

// Update moves the bar to completed and replaces its description
func (p *ProgressBar) Update(completed int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	p.bar.Describe(message)
	p.bar.Set(completed)
}

// Finish completes the bar, leaving the last frame on screen
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()

	if p.bar == nil {
		return
	}
	if p.bar.IsFinished() {
		return
	}
	p.bar.Exit()
	io.WriteString(p.writer, "\n")
}
