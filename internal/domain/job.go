package domain

import (
	"time"
)

// Job describes one remote file to fetch and where to put it.
// A Job is built once by the resolver and never mutated after it is queued.
type Job struct {
	ID              string // MediaFire quick key
	Filename        string
	DestinationPath string
	SizeBytes       int64
	DownloadURL     string
}

// NewJob creates a new download job
func NewJob(id, filename, destinationPath, downloadURL string, size int64) *Job {
	return &Job{
		ID:              id,
		Filename:        filename,
		DestinationPath: destinationPath,
		SizeBytes:       size,
		DownloadURL:     downloadURL,
	}
}

// Outcome is a terminated transfer attempt, as held by the outcome partitions.
type Outcome struct {
	Job         *Job
	Err         error
	Duration    time.Duration
	CompletedAt time.Time
}

// Succeeded reports whether the transfer finished without error
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// JobStatus is the persisted terminal state of a job
type JobStatus string

const (
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// ValidateJobStatus checks if a status filter is valid
func ValidateJobStatus(status JobStatus) bool {
	return status == JobSucceeded || status == JobFailed
}
