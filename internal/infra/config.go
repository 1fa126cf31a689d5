package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	DBMaxConns     int
	JWTSecret      string
	StoragePath    string
	StorageBaseURL string
	GeoIPDBPath    string
	CORSOrigins    []string

	PromptProvider           string
	GeminiAPIKey             string
	GeminiBaseURL            string
	GeminiTextModel          string
	GeminiImageModel         string
	GeminiImageFallbackModel string
	GeminiMaxRetries         int
	GeminiTimeout            time.Duration
	OpenAIAPIKey             string
	OpenAIModel              string
	OpenAIBaseURL            string
	OpenAIOrg                string

	PosterMaxVariants      int
	PosterBatchConcurrency int
	PosterBatchInterval    time.Duration
	ImageCacheTTL          time.Duration
	CreditsPerVariant      int

	WorkerPollInterval time.Duration
	WorkerStaleAfter   time.Duration
	WorkerMetricsPort  string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           port,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxConns:     getEnvInt("DB_MAX_CONNS", 10),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%s/static", port)),
		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),
		CORSOrigins:    getEnvList("CORS_ALLOWED_ORIGINS"),

		PromptProvider:           getEnv("PROMPT_PROVIDER", "gemini"),
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:            getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTextModel:          getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel:         getEnv("GEMINI_IMAGE_MODEL", "gemini-3-pro-image-preview"),
		GeminiImageFallbackModel: getEnv("GEMINI_IMAGE_FALLBACK_MODEL", "gemini-2.5-flash-image"),
		GeminiMaxRetries:         getEnvInt("GEMINI_MAX_RETRIES", 2),
		GeminiTimeout:            time.Second * time.Duration(getEnvInt("GEMINI_TIMEOUT_SECONDS", 120)),
		OpenAIAPIKey:             os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:              getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:            getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:                os.Getenv("OPENAI_ORG"),

		PosterMaxVariants:      getEnvInt("POSTER_MAX_VARIANTS", 4),
		PosterBatchConcurrency: getEnvInt("POSTER_BATCH_CONCURRENCY", 2),
		PosterBatchInterval:    getEnvDuration("POSTER_BATCH_INTERVAL_MS", time.Millisecond, 500*time.Millisecond),
		ImageCacheTTL:          getEnvDuration("IMAGE_CACHE_TTL_SECONDS", time.Second, 10*time.Minute),
		CreditsPerVariant:      getEnvInt("CREDITS_PER_VARIANT", 1),

		WorkerPollInterval: getEnvDuration("WORKER_POLL_INTERVAL_MS", time.Millisecond, 2*time.Second),
		WorkerStaleAfter:   getEnvDuration("WORKER_STALE_AFTER_SECONDS", time.Second, 15*time.Minute),
		WorkerMetricsPort:  os.Getenv("WORKER_METRICS_PORT"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.PosterMaxVariants < 1 {
		return nil, fmt.Errorf("POSTER_MAX_VARIANTS must be at least 1")
	}

	switch cfg.PromptProvider {
	case "gemini", "openai":
	default:
		return nil, fmt.Errorf("PROMPT_PROVIDER %q is not supported", cfg.PromptProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvDuration reads an integer count of unit.
func getEnvDuration(key string, unit, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return time.Duration(i) * unit
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
