package domain

import "context"

// JobRepository persists queued poster batches.
type JobRepository interface {
	// Enqueue stores a job unless one with the same idempotency key exists;
	// existing reports which happened.
	Enqueue(ctx context.Context, job *PosterJob) (existing bool, err error)
	// Claim moves the oldest queued job to running. ErrNotFound means the
	// queue is empty.
	Claim(ctx context.Context) (*PosterJob, error)
	// FindByKey returns the job a user queued under an idempotency key, or
	// ErrNotFound.
	FindByKey(ctx context.Context, userID, idempotencyKey string) (*PosterJob, error)
	Complete(ctx context.Context, jobID string, status JobStatus, results []VariantResult, errMsg string) error
	GetForUser(ctx context.Context, jobID, userID string) (*PosterJob, error)
}

// AssetRepository persists generated posters.
type AssetRepository interface {
	Save(ctx context.Context, asset *PosterAsset) error
	ListByJob(ctx context.Context, jobID, userID string) ([]PosterAsset, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]PosterAsset, error)
	GetByID(ctx context.Context, assetID string) (*PosterAsset, error)
}
