package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"poster-server/internal/http/handlers"
	"poster-server/internal/middleware"
)

// Options carries the optional collaborators of the router.
type Options struct {
	// CountryLookup resolves client countries for locale detection.
	CountryLookup middleware.CountryLookup
	// StaticDir serves stored posters under /static when set.
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.CORSOrigins),
		middleware.I18N("en", opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	r.Get("/v1/recipes", app.ListRecipes)
	r.Handle("/metrics", http.HandlerFunc(app.ServeMetrics))

	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Handle("/static/*", fs)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		limit := middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute)
		r.Route("/v1/posters", func(r chi.Router) {
			r.With(limit).Post("/generate", app.GeneratePosters)
			r.With(limit).Post("/jobs", app.EnqueueJob)
			r.Get("/jobs/{job_id}", app.GetJob)
			r.Get("/jobs/{job_id}/assets", app.ListJobAssets)
			r.Get("/jobs/{job_id}/zip", app.DownloadJobZip)
		})
		r.Route("/v1/assets", func(r chi.Router) {
			r.Get("/", app.ListAssets)
			r.Get("/{id}/download", app.DownloadAsset)
		})
		r.Get("/v1/credits", app.GetCredits)
		r.Get("/v1/usage", app.GetUsage)
	})

	return r
}
