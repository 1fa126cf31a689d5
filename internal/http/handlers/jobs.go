package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"

	"poster-server/internal/domain"
	"poster-server/pkg/zip"
)

type jobResponse struct {
	ID        string                 `json:"id"`
	Status    domain.JobStatus       `json:"status"`
	Variants  int                    `json:"variants"`
	Results   []domain.VariantResult `json:"results,omitempty"`
	Error     string                 `json:"error,omitempty"`
	CreatedAt *time.Time             `json:"created_at,omitempty"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
}

func jobView(job *domain.PosterJob) jobResponse {
	resp := jobResponse{
		ID:       job.ID,
		Status:   job.Status,
		Variants: job.Variants,
		Results:  job.Results,
		Error:    job.ErrorMessage,
	}
	if !job.CreatedAt.IsZero() {
		resp.CreatedAt = &job.CreatedAt
	}
	if !job.UpdatedAt.IsZero() {
		resp.UpdatedAt = &job.UpdatedAt
	}
	return resp
}

// EnqueueJob queues a batch for the worker. Credits are reserved first; a
// replayed Idempotency-Key returns the job created by the first request.
func (a *App) EnqueueJob(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.fail(w, r, domain.ErrUnauthorized)
		return
	}
	form, n, err := a.decodeGenerate(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	key := idempotencyKey(r)
	cost := n * a.creditsPerVariant()
	if _, err := a.Credits.Reserve(r.Context(), userID, key, cost); err != nil {
		if errors.Is(err, domain.ErrDuplicateOperation) {
			a.replayJob(w, r, userID, key)
			return
		}
		a.fail(w, r, err)
		return
	}

	job := &domain.PosterJob{UserID: userID, IdempotencyKey: key, Form: form, Variants: n}
	existing, err := a.Jobs.Enqueue(r.Context(), job)
	if err != nil {
		a.refund(r, userID, key, cost)
		a.fail(w, r, fmt.Errorf("enqueue job: %w", err))
		return
	}
	if existing {
		a.json(w, http.StatusOK, jobView(job))
		return
	}
	a.Logger.Info().Str("job_id", job.ID).Str("user_id", userID).Int("variants", n).Msg("poster job queued")
	a.json(w, http.StatusAccepted, jobView(job))
}

// replayJob answers a reused key with the job it paid for. Keys spent on a
// synchronous generation, or refunded after a failed enqueue, own no job.
func (a *App) replayJob(w http.ResponseWriter, r *http.Request, userID, key string) {
	job, err := a.Jobs.FindByKey(r.Context(), userID, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrDuplicateOperation
		}
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, jobView(job))
}

func (a *App) GetJob(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.fail(w, r, domain.ErrUnauthorized)
		return
	}
	job, err := a.Jobs.GetForUser(r.Context(), chi.URLParam(r, "job_id"), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, jobView(job))
}

func (a *App) ListJobAssets(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.fail(w, r, domain.ErrUnauthorized)
		return
	}
	assets, err := a.Assets.ListByJob(r.Context(), chi.URLParam(r, "job_id"), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": a.assetViews(assets)})
}

// DownloadJobZip bundles every stored poster of a job into one archive.
func (a *App) DownloadJobZip(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.fail(w, r, domain.ErrUnauthorized)
		return
	}
	jobID := chi.URLParam(r, "job_id")
	assets, err := a.Assets.ListByJob(r.Context(), jobID, userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if len(assets) == 0 {
		a.fail(w, r, domain.ErrNotFound)
		return
	}
	entries := make([]zip.Asset, 0, len(assets))
	for _, asset := range assets {
		data, err := a.Files.Read(r.Context(), asset.StorageKey)
		if err != nil {
			a.Logger.Warn().Err(err).Str("asset_id", asset.ID).Msg("zip: skipping unreadable poster")
			continue
		}
		entries = append(entries, zip.Asset{
			Filename: path.Base(asset.StorageKey),
			MIME:     asset.MimeType,
			Data:     data,
			Modified: asset.CreatedAt,
		})
	}
	archive, err := zip.ArchiveAssets(entries)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="posters-%s.zip"`, jobID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
