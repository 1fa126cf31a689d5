package domain

import "time"

// JobStatus enumerates poster job lifecycle states.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	// JobStatusPartial means some variants failed while at least one succeeded.
	JobStatusPartial JobStatus = "partial"
	JobStatusFailed  JobStatus = "failed"
)

// Terminal reports whether the job will not change any more.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSucceeded || s == JobStatusPartial || s == JobStatusFailed
}

// JobStatusFor derives the terminal status of a batch from its success count.
func JobStatusFor(succeeded, total int) JobStatus {
	switch {
	case total > 0 && succeeded == total:
		return JobStatusSucceeded
	case succeeded > 0:
		return JobStatusPartial
	default:
		return JobStatusFailed
	}
}

// PosterJob is a queued batch generation.
type PosterJob struct {
	ID             string
	UserID         string
	IdempotencyKey string
	Status         JobStatus
	Form           FormData
	Variants       int
	Results        []VariantResult
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// VariantResult is the persisted summary of one variant of a job.
type VariantResult struct {
	Index          int      `json:"index"`
	RecipeID       string   `json:"recipe_id,omitempty"`
	AssetID        string   `json:"asset_id,omitempty"`
	Model          string   `json:"model,omitempty"`
	TargetLanguage Language `json:"target_language,omitempty"`
	WasTranslated  bool     `json:"was_translated"`
	Error          string   `json:"error,omitempty"`
}
