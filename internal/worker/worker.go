// Package worker drains the poster job queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"poster-server/internal/domain"
	"poster-server/internal/infra"
	"poster-server/internal/pipeline"
	"poster-server/internal/posterstore"
	"poster-server/internal/usage"
)

// Runner generates a batch of variants.
type Runner interface {
	RunBatch(ctx context.Context, requestID string, form domain.FormData, n int) ([]pipeline.Result, error)
}

// Saver stores one successful variant.
type Saver interface {
	Save(ctx context.Context, t posterstore.Target, res pipeline.Result) (*domain.PosterAsset, error)
}

// Refunder returns reserved credits.
type Refunder interface {
	Refund(ctx context.Context, userID, idempotencyKey string, amount int) error
}

// StaleJobs recovers jobs abandoned by a crashed worker.
type StaleJobs interface {
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
	FailStale(ctx context.Context, olderThan time.Duration) ([]domain.PosterJob, error)
}

type Config struct {
	PollInterval      time.Duration
	StaleAfter        time.Duration
	CreditsPerVariant int
}

type Worker struct {
	jobs    domain.JobRepository
	stale   StaleJobs
	runner  Runner
	saver   Saver
	credits Refunder
	usage   usage.Sink
	cfg     Config
	logger  infra.Logger

	processed *prometheus.CounterVec
	duration  prometheus.Histogram
}

// Deps groups the collaborators of a Worker. Stale may be nil.
type Deps struct {
	Jobs    domain.JobRepository
	Stale   StaleJobs
	Runner  Runner
	Saver   Saver
	Credits Refunder
	Usage   usage.Sink
}

func New(deps Deps, cfg Config, reg prometheus.Registerer, logger infra.Logger) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 15 * time.Minute
	}
	if cfg.CreditsPerVariant <= 0 {
		cfg.CreditsPerVariant = 1
	}
	factory := promauto.With(reg)
	return &Worker{
		jobs:    deps.Jobs,
		stale:   deps.Stale,
		runner:  deps.Runner,
		saver:   deps.Saver,
		credits: deps.Credits,
		usage:   deps.Usage,
		cfg:     cfg,
		logger:  logger,
		processed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "poster_worker_jobs_total",
			Help: "Poster jobs finished by the worker, by terminal status.",
		}, []string{"status"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "poster_worker_job_duration_seconds",
			Help:    "Wall time of one poster job.",
			Buckets: prometheus.ExponentialBuckets(5, 2, 8),
		}),
	}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Dur("poll_interval", w.cfg.PollInterval).Msg("worker: started")
	ticker := time.NewTicker(w.cfg.StaleAfter / 3)
	defer ticker.Stop()
	w.recoverStale(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.recoverStale(ctx)
		default:
		}

		ok, err := w.ProcessNext(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error().Err(err).Msg("worker: failed to process job")
		}
		if ok {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.cfg.PollInterval):
		}
	}
}

// ProcessNext claims and runs one job. It reports false when the queue was
// empty.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	job, err := w.jobs.Claim(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		if job == nil {
			return false, fmt.Errorf("claim job: %w", err)
		}
		// The row was claimed but its form is unreadable.
		w.finish(ctx, job, domain.JobStatusFailed, nil, err.Error())
		w.refund(ctx, job, job.Variants)
		return true, nil
	}
	w.handle(ctx, job)
	return true, nil
}

func (w *Worker) handle(ctx context.Context, job *domain.PosterJob) {
	started := time.Now()
	defer func() { w.duration.Observe(time.Since(started).Seconds()) }()

	log := w.logger.With().Str("job_id", job.ID).Str("user_id", job.UserID).Int("variants", job.Variants).Logger()
	log.Info().Msg("worker: picked job")

	results, err := w.runner.RunBatch(ctx, job.ID, job.Form, job.Variants)
	if err != nil {
		log.Warn().Err(err).Msg("worker: job rejected")
		w.finish(ctx, job, domain.JobStatusFailed, nil, err.Error())
		w.refund(ctx, job, job.Variants)
		return
	}
	w.recordUsage(ctx, job.UserID, pipeline.Usage(results))

	target := posterstore.Target{OwnerID: job.UserID, JobID: job.ID, RequestID: job.ID, Format: job.Form.OutputFormat}
	assetIDs := map[int]string{}
	succeeded := 0
	for i, res := range results {
		if !res.OK() {
			continue
		}
		asset, err := w.saver.Save(ctx, target, res)
		if err != nil {
			log.Error().Err(err).Int("variant", res.Index).Msg("worker: save poster failed")
			results[i].Err = err
			continue
		}
		assetIDs[res.Index] = asset.ID
		succeeded++
	}

	status := domain.JobStatusFor(succeeded, len(results))
	errMsg := ""
	if status == domain.JobStatusFailed {
		errMsg = "no variant could be generated"
	}
	w.finish(ctx, job, status, posterstore.Summaries(results, assetIDs), errMsg)
	w.refund(ctx, job, len(results)-succeeded)
	log.Info().Str("status", string(status)).Int("succeeded", succeeded).Dur("took", time.Since(started)).Msg("worker: job finished")
}

func (w *Worker) finish(ctx context.Context, job *domain.PosterJob, status domain.JobStatus, results []domain.VariantResult, errMsg string) {
	w.processed.WithLabelValues(string(status)).Inc()
	if err := w.jobs.Complete(context.WithoutCancel(ctx), job.ID, status, results, errMsg); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Msg("worker: update status failed")
	}
}

// refund returns the credits of failed variants. Every job is refunded at
// most once.
func (w *Worker) refund(ctx context.Context, job *domain.PosterJob, failed int) {
	if w.credits == nil || failed <= 0 || job.IdempotencyKey == "" {
		return
	}
	amount := failed * w.cfg.CreditsPerVariant
	if err := w.credits.Refund(context.WithoutCancel(ctx), job.UserID, job.IdempotencyKey, amount); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID).Int("amount", amount).Msg("worker: refund failed")
	}
}

func (w *Worker) recordUsage(ctx context.Context, ownerID string, records []domain.GenerationUsage) {
	if w.usage == nil || len(records) == 0 {
		return
	}
	if err := w.usage.Record(context.WithoutCancel(ctx), ownerID, records); err != nil {
		w.logger.Error().Err(err).Str("user_id", ownerID).Msg("worker: usage persist failed")
	}
}

func (w *Worker) recoverStale(ctx context.Context) {
	if w.stale == nil {
		return
	}
	n, err := w.stale.RequeueStale(ctx, w.cfg.StaleAfter)
	if err != nil {
		w.logger.Error().Err(err).Msg("worker: requeue stale jobs failed")
	} else if n > 0 {
		w.logger.Warn().Int64("jobs", n).Msg("worker: requeued stale jobs")
	}
	failed, err := w.stale.FailStale(ctx, w.cfg.StaleAfter)
	if err != nil {
		w.logger.Error().Err(err).Msg("worker: fail stale jobs failed")
		return
	}
	for i := range failed {
		w.processed.WithLabelValues(string(domain.JobStatusFailed)).Inc()
		w.refund(ctx, &failed[i], failed[i].Variants)
	}
}
