// Package bootstrap wires the poster pipeline from configuration for the API
// and the worker.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"poster-server/internal/contextprep"
	"poster-server/internal/generation"
	"poster-server/internal/imaging"
	"poster-server/internal/infra"
	"poster-server/internal/infra/credentials"
	"poster-server/internal/pipeline"
	"poster-server/internal/providers/genai"
	"poster-server/internal/providers/textgen"
	"poster-server/internal/recipe"
	"poster-server/internal/usage"
)

// PosterStack is everything a process needs to generate and account posters.
type PosterStack struct {
	Pipeline *pipeline.Pipeline
	Recipes  *recipe.Selector
	Usage    usage.Sink
	Store    *usage.Store
	Models   generation.Models
	Gemini   *genai.Client
}

// NewPosterStack builds the pipeline. API keys missing from cfg are looked up
// in integration_tokens; without a Gemini key the client runs in synthetic
// mode. Usage metrics register on reg.
func NewPosterStack(ctx context.Context, cfg *infra.Config, sql infra.SQLExecutor, reg prometheus.Registerer, logger *infra.Logger) (*PosterStack, error) {
	creds := credentials.NewStore(sql)

	geminiKey, err := creds.Resolve(ctx, credentials.ProviderGemini, cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("bootstrap: failed to load gemini api key from store")
	}

	httpClient := &http.Client{Timeout: cfg.GeminiTimeout}
	client, err := genai.NewClient(genai.Options{
		APIKey:     geminiKey,
		BaseURL:    cfg.GeminiBaseURL,
		TextModel:  cfg.GeminiTextModel,
		MaxRetries: cfg.GeminiMaxRetries,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("configure gemini client: %w", err)
	}
	if client.Synthetic() {
		logger.Warn().
			Str("model", cfg.GeminiImageModel).
			Msg("bootstrap: gemini api key missing, posters will be synthetic placeholders")
	}

	openAIKey := cfg.OpenAIAPIKey
	if cfg.PromptProvider == textgen.ProviderOpenAI {
		openAIKey, err = creds.Resolve(ctx, credentials.ProviderOpenAI, cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("load openai api key: %w", err)
		}
	}
	text, err := textgen.New(textgen.Config{
		Provider: cfg.PromptProvider,
		Gemini:   client,
		OpenAI: textgen.OpenAIOptions{
			APIKey:       openAIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   httpClient,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("configure text generator: %w", err)
	}

	models := generation.Models{
		Primary:  cfg.GeminiImageModel,
		Fallback: cfg.GeminiImageFallbackModel,
	}
	recipes := recipe.NewSelector(recipe.DefaultPools(), nil)
	p := pipeline.New(
		recipes,
		imaging.NewCompressor(cfg.ImageCacheTTL),
		contextprep.NewPreparer(text, logger),
		generation.NewOrchestrator(client, models, logger),
		pipeline.Config{
			MaxVariants: cfg.PosterMaxVariants,
			Concurrency: cfg.PosterBatchConcurrency,
			Interval:    cfg.PosterBatchInterval,
		},
		logger,
	)

	store := usage.NewStore(sql)
	logger.Info().
		Str("text_provider", cfg.PromptProvider).
		Str("text_model", text.Model()).
		Str("image_model", models.Primary).
		Str("fallback_model", models.Fallback).
		Msg("bootstrap: poster pipeline ready")

	return &PosterStack{
		Pipeline: p,
		Recipes:  recipes,
		Usage:    usage.Fanout{store, usage.NewMetricsSink(reg)},
		Store:    store,
		Models:   models,
		Gemini:   client,
	}, nil
}
