package domain

// RunRepository defines the interface for run history persistence
type RunRepository interface {
	// CreateRun stores a run at start
	CreateRun(run *Run) error

	// FinishRun updates the run and stores all job records in one transaction
	FinishRun(run *Run, records []*JobRecord) error

	// FindRuns returns the most recent runs first, at most limit (0 = all)
	FindRuns(limit int) ([]*Run, error)

	// FindRunByID finds a run by ID
	FindRunByID(id string) (*Run, error)

	// FindJobs returns the job records of a run, optionally filtered by status
	FindJobs(runID string, status JobStatus) ([]*JobRecord, error)

	// GetStats returns aggregate history statistics
	GetStats() (*HistoryStats, error)
}

// HistoryStats represents aggregate statistics over all runs
type HistoryStats struct {
	Runs      int64 `json:"runs"`
	Jobs      int64 `json:"jobs"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Bytes     int64 `json:"bytes"`
}
