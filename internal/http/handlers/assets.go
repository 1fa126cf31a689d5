package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"poster-server/internal/domain"
)

type assetResponse struct {
	domain.PosterAsset
	URL string `json:"url"`
}

func (a *App) assetViews(assets []domain.PosterAsset) []assetResponse {
	out := make([]assetResponse, 0, len(assets))
	for _, asset := range assets {
		out = append(out, assetResponse{PosterAsset: asset, URL: a.assetURL(asset.StorageKey)})
	}
	return out
}

func (a *App) ListAssets(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.fail(w, r, domain.ErrUnauthorized)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	assets, err := a.Assets.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": a.assetViews(assets)})
}

func (a *App) DownloadAsset(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.fail(w, r, domain.ErrUnauthorized)
		return
	}
	asset, err := a.Assets.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	// Other users' assets are reported as missing.
	if asset.UserID != userID {
		a.fail(w, r, domain.ErrNotFound)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"url":           a.assetURL(asset.StorageKey),
		"mime":          asset.MimeType,
		"width":         asset.Width,
		"height":        asset.Height,
		"output_format": asset.Format,
	})
}
