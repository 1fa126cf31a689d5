// Package textgen exposes the single text-generation capability used for
// field translation and design briefs, backed by Gemini or OpenAI.
package textgen

import (
	"context"
	"fmt"
	"strings"

	"poster-server/internal/domain"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Request is a single text-generation call. Images are attached after the
// prompt in order.
type Request struct {
	System string
	Prompt string
	Images []domain.ImagePart
	// JSON asks the backend for a JSON object response.
	JSON        bool
	Temperature float64
}

// Result is the generated text with its token counts.
type Result struct {
	Text  string
	Model string
	Usage domain.TokenUsage
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
	Model() string
}

// Config selects and configures a backend.
type Config struct {
	Provider string
	Gemini   GeminiTextClient
	OpenAI   OpenAIOptions
}

// New returns the backend named by cfg.Provider. Unknown providers fall back
// to Gemini.
func New(cfg Config) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI:
		return NewOpenAI(cfg.OpenAI)
	case ProviderGemini, "":
		if cfg.Gemini == nil {
			return nil, fmt.Errorf("textgen: gemini client is required")
		}
		return NewGemini(cfg.Gemini), nil
	default:
		if cfg.Gemini == nil {
			return nil, fmt.Errorf("textgen: unknown provider %q", cfg.Provider)
		}
		return NewGemini(cfg.Gemini), nil
	}
}
