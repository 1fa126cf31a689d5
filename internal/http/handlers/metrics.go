package handlers

import "net/http"

// ServeMetrics exposes the Prometheus registry when one is wired.
func (a *App) ServeMetrics(w http.ResponseWriter, r *http.Request) {
	if a.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	a.Metrics.ServeHTTP(w, r)
}
