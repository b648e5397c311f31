package domain

import "context"

// Resolver turns a share link into the flat list of jobs to run
type Resolver interface {
	// Resolve returns one job per remote file, with destinations under outputDir
	Resolve(ctx context.Context, link ShareLink, outputDir string) ([]*Job, error)
}

// Transferer performs a single transfer attempt for one job
type Transferer interface {
	// Transfer downloads job.DownloadURL to job.DestinationPath.
	// Failures are returned as *TransferError.
	Transfer(ctx context.Context, job *Job) error
}
