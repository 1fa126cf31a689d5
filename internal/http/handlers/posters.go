package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"poster-server/internal/domain"
	"poster-server/internal/middleware"
	"poster-server/internal/pipeline"
	"poster-server/internal/posterstore"
)

const maxBodyBytes = 32 << 20

type generateRequest struct {
	Form     domain.FormData `json:"form"`
	Variants int             `json:"variants"`
}

type variantResponse struct {
	Index          int             `json:"index"`
	RecipeID       string          `json:"recipe_id,omitempty"`
	Name           string          `json:"name,omitempty"`
	DataURI        string          `json:"data_uri,omitempty"`
	MimeType       string          `json:"mime_type,omitempty"`
	Width          int             `json:"width,omitempty"`
	Height         int             `json:"height,omitempty"`
	Model          string          `json:"model,omitempty"`
	TargetLanguage domain.Language `json:"target_language,omitempty"`
	WasTranslated  bool            `json:"was_translated"`
	AssetID        string          `json:"asset_id,omitempty"`
	URL            string          `json:"url,omitempty"`
	Error          string          `json:"error,omitempty"`
}

type generateResponse struct {
	RequestID        string            `json:"request_id"`
	Succeeded        int               `json:"succeeded"`
	Failed           int               `json:"failed"`
	CreditsRemaining int               `json:"credits_remaining"`
	Variants         []variantResponse `json:"variants"`
}

// decodeGenerate reads and validates a generation request. Nothing external
// is called for a request that fails here.
func (a *App) decodeGenerate(r *http.Request) (domain.FormData, int, error) {
	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return domain.FormData{}, 0, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	n := req.Variants
	if n <= 0 {
		n = 1
	}
	if limit := a.Posters.MaxVariants(); n > limit {
		return domain.FormData{}, 0, fmt.Errorf("%w: at most %d variants per request", domain.ErrValidation, limit)
	}
	form, err := pipeline.Prepare(req.Form)
	if err != nil {
		return domain.FormData{}, 0, err
	}
	return form, n, nil
}

func idempotencyKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("Idempotency-Key")); key != "" {
		return key
	}
	return uuid.NewString()
}

// GeneratePosters runs a batch synchronously and returns the designs inline.
func (a *App) GeneratePosters(w http.ResponseWriter, r *http.Request) {
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
	remaining, err := a.Credits.Reserve(r.Context(), userID, key, cost)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	session := strings.TrimSpace(r.Header.Get("X-Session-ID"))
	ctx, requestID, done := a.Active.Begin(r.Context(), session)
	defer done()

	log := a.Logger.With().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("generation_id", requestID).
		Str("user_id", userID).
		Logger()

	results, err := a.Posters.RunBatch(ctx, requestID, form, n)
	if err != nil {
		a.refund(r, userID, key, cost)
		a.fail(w, r, err)
		return
	}
	a.recordUsage(r.Context(), userID, pipeline.Usage(results))

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}

	if !a.Active.IsActive(session, requestID) {
		a.refund(r, userID, key, cost)
		log.Info().Msg("poster batch superseded")
		a.json(w, http.StatusConflict, errorResponse{
			Code:    "superseded",
			Message: localizedMessage(middleware.LocaleFromContext(r.Context()), "superseded"),
		})
		return
	}
	if failed > 0 {
		a.refund(r, userID, key, failed*a.creditsPerVariant())
		remaining += failed * a.creditsPerVariant()
	}

	resp := generateResponse{
		RequestID:        requestID,
		Succeeded:        len(results) - failed,
		Failed:           failed,
		CreditsRemaining: remaining,
		Variants:         make([]variantResponse, 0, len(results)),
	}
	target := posterstore.Target{OwnerID: userID, RequestID: requestID, Format: form.OutputFormat}
	for _, res := range results {
		resp.Variants = append(resp.Variants, a.variantView(r, target, res))
	}

	log.Info().Int("variants", n).Int("failed", failed).Msg("poster batch finished")

	if failed == len(results) {
		status, code := statusFor(batchError(results))
		if status != http.StatusServiceUnavailable {
			status, code = http.StatusBadGateway, "generation_failed"
		}
		w.Header().Set("X-Error-Code", code)
		a.json(w, status, resp)
		return
	}
	a.json(w, http.StatusOK, resp)
}

func (a *App) variantView(r *http.Request, target posterstore.Target, res pipeline.Result) variantResponse {
	v := variantResponse{
		Index:          res.Index,
		RecipeID:       res.RecipeID,
		Model:          res.ModelUsed,
		TargetLanguage: res.TargetLanguage,
		WasTranslated:  res.WasTranslated,
	}
	if !res.OK() {
		if res.Err != nil {
			v.Error = res.Err.Error()
		}
		return v
	}
	v.Name = res.Design.Name
	v.DataURI = res.Design.DataURI
	v.MimeType = res.Design.MimeType
	v.Width = res.Design.Width
	v.Height = res.Design.Height
	if a.Saver == nil {
		return v
	}
	asset, err := a.Saver.Save(r.Context(), target, res)
	if err != nil {
		a.Logger.Error().Err(err).Str("generation_id", target.RequestID).Int("variant", res.Index).Msg("poster save failed")
		return v
	}
	v.AssetID = asset.ID
	v.URL = a.assetURL(asset.StorageKey)
	return v
}

// batchError picks the error that best describes a fully failed batch.
// Capacity wins so callers know to retry later.
func batchError(results []pipeline.Result) error {
	var first error
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		if errors.Is(res.Err, domain.ErrCapacity) {
			return res.Err
		}
		if first == nil {
			first = res.Err
		}
	}
	if first == nil {
		return domain.ErrGenerationFailed
	}
	return first
}

func (a *App) refund(r *http.Request, userID, key string, amount int) {
	if amount <= 0 {
		return
	}
	if err := a.Credits.Refund(context.WithoutCancel(r.Context()), userID, key, amount); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Int("amount", amount).Msg("credits: refund failed")
	}
}
