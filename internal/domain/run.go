package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run is one invocation of the pipeline against a share URL
type Run struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	URL        string     `json:"url" gorm:"not null"`
	OutputDir  string     `json:"output_dir"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at" gorm:"index"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NewRun creates a new run record
func NewRun(url, outputDir string) *Run {
	return &Run{
		ID:        uuid.New().String(),
		URL:       url,
		OutputDir: outputDir,
		StartedAt: time.Now(),
	}
}

// MarkFinished stores the final counts of the run
func (r *Run) MarkFinished(succeeded, failed int) {
	r.Succeeded = succeeded
	r.Failed = failed
	now := time.Now()
	r.FinishedAt = &now
}

// JobRecord is the persisted outcome of one job within a run
type JobRecord struct {
	ID              uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	RunID           string    `json:"run_id" gorm:"not null;index"`
	RemoteID        string    `json:"remote_id"`
	Filename        string    `json:"filename"`
	DestinationPath string    `json:"destination_path"`
	SizeBytes       int64     `json:"size_bytes"`
	Status          JobStatus `json:"status" gorm:"not null;index"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	DurationMs      int64     `json:"duration_ms"`
	CompletedAt     time.Time `json:"completed_at" gorm:"index"`
}

// NewJobRecord converts a terminated outcome into a record for runID
func NewJobRecord(runID string, outcome Outcome) *JobRecord {
	rec := &JobRecord{
		RunID:           runID,
		RemoteID:        outcome.Job.ID,
		Filename:        outcome.Job.Filename,
		DestinationPath: outcome.Job.DestinationPath,
		SizeBytes:       outcome.Job.SizeBytes,
		Status:          JobSucceeded,
		DurationMs:      outcome.Duration.Milliseconds(),
		CompletedAt:     outcome.CompletedAt,
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}
	if outcome.Err != nil {
		rec.Status = JobFailed
		rec.ErrorMessage = outcome.Err.Error()
	}
	return rec
}
