package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"poster-server/internal/domain"
	"poster-server/internal/infra"
	"poster-server/internal/sqlinline"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql}
}

// Enqueue inserts a queued job. A replayed idempotency key returns the
// existing job's ID and status instead.
func (r *JobRepositoryPG) Enqueue(ctx context.Context, job *domain.PosterJob) (bool, error) {
	form, err := json.Marshal(job.Form)
	if err != nil {
		return false, fmt.Errorf("encode form: %w", err)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QEnqueuePosterJob, job.UserID, job.IdempotencyKey, form, job.Variants)
	var existing bool
	if err := row.Scan(&job.ID, &job.Status, &existing); err != nil {
		return false, err
	}
	return existing, nil
}

// Claim locks and returns the oldest queued job.
func (r *JobRepositoryPG) Claim(ctx context.Context) (*domain.PosterJob, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QWorkerClaimJob)
	var job domain.PosterJob
	var form []byte
	if err := row.Scan(&job.ID, &job.UserID, &job.IdempotencyKey, &form, &job.Variants); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(form, &job.Form); err != nil {
		return &job, fmt.Errorf("decode form of job %s: %w", job.ID, err)
	}
	job.Status = domain.JobStatusRunning
	return &job, nil
}

// Complete records the terminal status and per-variant results.
func (r *JobRepositoryPG) Complete(ctx context.Context, jobID string, status domain.JobStatus, results []domain.VariantResult, errMsg string) error {
	if results == nil {
		results = []domain.VariantResult{}
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = r.sql.Exec(ctx, sqlinline.QCompleteJob, jobID, string(status), raw, errMsg)
	return err
}

// GetForUser fetches a job owned by userID.
func (r *JobRepositoryPG) GetForUser(ctx context.Context, jobID, userID string) (*domain.PosterJob, error) {
	return scanJob(r.sql.QueryRow(ctx, sqlinline.QSelectJobStatus, jobID, userID))
}

// FindByKey fetches the job userID queued under idempotencyKey.
func (r *JobRepositoryPG) FindByKey(ctx context.Context, userID, idempotencyKey string) (*domain.PosterJob, error) {
	return scanJob(r.sql.QueryRow(ctx, sqlinline.QSelectJobByKey, userID, idempotencyKey))
}

func scanJob(row pgx.Row) (*domain.PosterJob, error) {
	var job domain.PosterJob
	var results []byte
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.IdempotencyKey,
		&job.Status,
		&job.Variants,
		&results,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &job.Results); err != nil {
			return nil, fmt.Errorf("decode results of job %s: %w", job.ID, err)
		}
	}
	return &job, nil
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)

// RequeueStale returns running jobs untouched for olderThan to the queue.
func (r *JobRepositoryPG) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QRequeueStaleJobs, int(olderThan.Seconds()))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// FailStale marks stale jobs that ran out of attempts as failed.
func (r *JobRepositoryPG) FailStale(ctx context.Context, olderThan time.Duration) ([]domain.PosterJob, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QFailStaleJobs, int(olderThan.Seconds()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.PosterJob
	for rows.Next() {
		job := domain.PosterJob{Status: domain.JobStatusFailed}
		if err := rows.Scan(&job.ID, &job.UserID, &job.IdempotencyKey, &job.Variants); err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}
