package infra

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadConfigDefaultStorageBaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "http://localhost:8080/static"
	if cfg.StorageBaseURL != expected {
		t.Fatalf("StorageBaseURL mismatch: got %q want %q", cfg.StorageBaseURL, expected)
	}
}

func TestLoadConfigInheritsPortInStorageBaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "1919")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "http://localhost:1919/static"
	if cfg.StorageBaseURL != expected {
		t.Fatalf("StorageBaseURL mismatch: got %q want %q", cfg.StorageBaseURL, expected)
	}
}

func TestLoadConfigPosterDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("POSTER_MAX_VARIANTS", "")
	t.Setenv("POSTER_BATCH_INTERVAL_MS", "")
	t.Setenv("GEMINI_IMAGE_FALLBACK_MODEL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PosterMaxVariants != 4 {
		t.Fatalf("PosterMaxVariants = %d, want 4", cfg.PosterMaxVariants)
	}
	if cfg.PosterBatchInterval != 500*time.Millisecond {
		t.Fatalf("PosterBatchInterval = %s, want 500ms", cfg.PosterBatchInterval)
	}
	if cfg.GeminiImageFallbackModel != "gemini-2.5-flash-image" {
		t.Fatalf("GeminiImageFallbackModel = %q", cfg.GeminiImageFallbackModel)
	}
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("POSTER_BATCH_INTERVAL_MS", "250")
	t.Setenv("POSTER_BATCH_CONCURRENCY", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, ,https://admin.example.com ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PosterBatchInterval != 250*time.Millisecond {
		t.Fatalf("PosterBatchInterval = %s, want 250ms", cfg.PosterBatchInterval)
	}
	if cfg.PosterBatchConcurrency != 3 {
		t.Fatalf("PosterBatchConcurrency = %d, want 3", cfg.PosterBatchConcurrency)
	}
	expected := []string{"https://app.example.com", "https://admin.example.com"}
	if len(cfg.CORSOrigins) != len(expected) {
		t.Fatalf("CORSOrigins = %#v, want %#v", cfg.CORSOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSOrigins[i] != origin {
			t.Fatalf("CORSOrigins[%d] = %q, want %q", i, cfg.CORSOrigins[i], origin)
		}
	}
}

func TestLoadConfigRejectsUnknownPromptProvider(t *testing.T) {
	setRequired(t)
	t.Setenv("PROMPT_PROVIDER", "qwen")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}
