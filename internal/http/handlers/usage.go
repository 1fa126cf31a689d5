package handlers

import (
	"fmt"
	"net/http"
	"time"

	"poster-server/internal/domain"
)

// GetUsage reports the caller's generation usage per route since ?since=
// (RFC 3339). The default window is the last 30 days.
func (a *App) GetUsage(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.fail(w, r, domain.ErrUnauthorized)
		return
	}
	since := time.Now().UTC().AddDate(0, 0, -30)
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			a.fail(w, r, fmt.Errorf("%w: since must be RFC 3339", domain.ErrValidation))
			return
		}
		since = t
	}
	summary, err := a.UsageReport.Summary(r.Context(), userID, since)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"since": since, "routes": summary})
}

func (a *App) GetCredits(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.fail(w, r, domain.ErrUnauthorized)
		return
	}
	balance, err := a.Credits.Balance(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"balance":             balance,
		"credits_per_variant": a.creditsPerVariant(),
	})
}
