package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"poster-server/internal/domain"
	"poster-server/internal/infra"
	"poster-server/internal/middleware"
	"poster-server/internal/pipeline"
	"poster-server/internal/posterstore"
	"poster-server/internal/usage"
)

// PosterRunner runs batches of poster generations.
type PosterRunner interface {
	RunBatch(ctx context.Context, requestID string, form domain.FormData, n int) ([]pipeline.Result, error)
	MaxVariants() int
}

// RecipeCatalog lists the creative recipes of a category.
type RecipeCatalog interface {
	List(category domain.Category) []domain.Recipe
}

// CreditLedger is the credit gate plus balance lookups.
type CreditLedger interface {
	Reserve(ctx context.Context, userID, idempotencyKey string, amount int) (int, error)
	Refund(ctx context.Context, userID, idempotencyKey string, amount int) error
	Balance(ctx context.Context, userID string) (int, error)
}

// UsageReporter aggregates persisted usage records.
type UsageReporter interface {
	Summary(ctx context.Context, ownerID string, since time.Time) ([]usage.RouteSummary, error)
}

// FileReader loads stored poster bytes.
type FileReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// AssetSaver persists a successful variant.
type AssetSaver interface {
	Save(ctx context.Context, t posterstore.Target, res pipeline.Result) (*domain.PosterAsset, error)
}

type App struct {
	Config      *infra.Config
	Logger      zerolog.Logger
	Posters     PosterRunner
	Recipes     RecipeCatalog
	Credits     CreditLedger
	Usage       usage.Sink
	UsageReport UsageReporter
	Jobs        domain.JobRepository
	Assets      domain.AssetRepository
	Saver       AssetSaver
	Files       FileReader
	Active      *pipeline.ActiveRequests
	Metrics     http.Handler
	Ping        func(ctx context.Context) error
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code          string   `json:"code"`
	Message       string   `json:"message"`
	MissingFields []string `json:"missing_fields,omitempty"`
	Problems      []string `json:"problems,omitempty"`
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorResponse{Code: code, Message: message})
}

// fail maps a domain error onto an HTTP status with a localized message.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	locale := middleware.LocaleFromContext(r.Context())
	status, code := statusFor(err)
	resp := errorResponse{Code: code, Message: localizedMessage(locale, code)}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, k := range verr.Missing {
			resp.MissingFields = append(resp.MissingFields, string(k))
		}
		resp.Problems = verr.Problems
	} else if errors.Is(err, domain.ErrValidation) {
		resp.Problems = []string{err.Error()}
	}
	if status >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("request failed")
	}
	a.json(w, status, resp)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusPaymentRequired, "quota_exceeded"
	case errors.Is(err, domain.ErrDuplicateOperation):
		return http.StatusConflict, "duplicate_operation"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrCapacity):
		return http.StatusServiceUnavailable, "capacity"
	case errors.Is(err, domain.ErrGenerationFailed), errors.Is(err, domain.ErrNoImageInResponse), errors.Is(err, domain.ErrPostProcess):
		return http.StatusBadGateway, "generation_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) assetURL(storageKey string) string {
	base := ""
	if a.Config != nil {
		base = strings.TrimRight(a.Config.StorageBaseURL, "/")
	}
	return base + "/" + strings.TrimLeft(storageKey, "/")
}

func (a *App) creditsPerVariant() int {
	if a.Config == nil || a.Config.CreditsPerVariant <= 0 {
		return 1
	}
	return a.Config.CreditsPerVariant
}

// recordUsage persists usage even when the request was cancelled or superseded.
func (a *App) recordUsage(ctx context.Context, ownerID string, records []domain.GenerationUsage) {
	if a.Usage == nil || len(records) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := a.Usage.Record(ctx, ownerID, records); err != nil {
		a.Logger.Error().Err(err).Str("user_id", ownerID).Int("records", len(records)).Msg("usage: persist failed")
	}
}
