package handlers

import (
	"context"
	"net/http"
	"time"
)

// Health reports liveness. When a database ping is wired, a failing ping
// turns the probe into 503.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if a.Posters != nil {
		body["max_variants"] = a.Posters.MaxVariants()
	}
	if a.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Ping(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("health: database ping failed")
			body["status"] = "degraded"
			a.json(w, http.StatusServiceUnavailable, body)
			return
		}
	}
	a.json(w, http.StatusOK, body)
}
