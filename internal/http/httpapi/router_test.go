package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"poster-server/internal/http/handlers"
	"poster-server/internal/infra"
	"poster-server/internal/middleware"
)

type fixedLedger struct{}

func (fixedLedger) Reserve(context.Context, string, string, int) (int, error) { return 0, nil }
func (fixedLedger) Refund(context.Context, string, string, int) error         { return nil }
func (fixedLedger) Balance(context.Context, string) (int, error)             { return 7, nil }

func newTestApp() *handlers.App {
	return &handlers.App{
		Config:  &infra.Config{JWTSecret: "secret", RateLimitPerMin: 30},
		Logger:  zerolog.New(io.Discard),
		Credits: fixedLedger{},
	}
}

func TestHealthIsPublic(t *testing.T) {
	router := NewRouter(newTestApp(), Options{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := NewRouter(newTestApp(), Options{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/credits", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, err := middleware.SignJWT("secret", "user-1", middleware.TokenClaims{}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/credits", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStaticServesStoredPosters(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "posters"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "posters", "a.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	router := NewRouter(newTestApp(), Options{StaticDir: dir})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/posters/a.jpg", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "jpeg" {
		t.Fatalf("unexpected static response %d %q", rec.Code, rec.Body.String())
	}
}
