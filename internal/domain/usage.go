package domain

import "time"

// UsageRoute tags which external call a usage record describes.
type UsageRoute string

const (
	RouteTranslate        UsageRoute = "translate"
	RouteDesignBrief      UsageRoute = "design_brief"
	RouteGeneratePrimary  UsageRoute = "generate_primary"
	RouteGenerateFallback UsageRoute = "generate_fallback"
)

// GenerationUsage describes one external call attempt. Records are created
// once and never mutated.
type GenerationUsage struct {
	ID           string        `json:"id"`
	RequestID    string        `json:"request_id,omitempty"`
	Route        UsageRoute    `json:"route"`
	Model        string        `json:"model"`
	InputTokens  int           `json:"input_tokens"`
	OutputTokens int           `json:"output_tokens"`
	ImageCount   int           `json:"image_count"`
	Duration     time.Duration `json:"duration"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// TokenUsage carries the counters returned by an external service.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}
