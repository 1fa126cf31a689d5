// Package generation invokes the image model with a fail-fast primary attempt
// and a single fallback attempt on capacity errors.
package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"poster-server/internal/domain"
	"poster-server/internal/infra"
	"poster-server/internal/providers/genai"
	"poster-server/internal/usage"
)

// State is a step of the primary/fallback state machine.
type State string

const (
	StateIdle            State = "idle"
	StatePrimaryAttempt  State = "primary_attempt"
	StatePrimaryFailed   State = "primary_failed"
	StateFallbackAttempt State = "fallback_attempt"
	StateSuccess         State = "success"
	StateFatal           State = "fatal"
)

// ImageClient is the multimodal service contract shared by both model tiers.
type ImageClient interface {
	GenerateContent(ctx context.Context, model string, req genai.Request, maxRetries int) (*genai.Response, error)
}

// Models names the two capability tiers.
type Models struct {
	Primary  string
	Fallback string
}

// Request is one poster generation.
type Request struct {
	RequestID string
	Bundle    domain.PromptBundle
	Format    domain.FormatSpec
}

// Outcome is the terminal result of Generate. Usage holds one record per
// attempt in attempt order; Image is set only when State is StateSuccess.
type Outcome struct {
	State     State
	ModelUsed string
	Image     *genai.Image
	Usage     []domain.GenerationUsage
	Path      []State
	Err       error
}

// FellBack reports whether the fallback tier was tried.
func (o Outcome) FellBack() bool {
	for _, s := range o.Path {
		if s == StateFallbackAttempt {
			return true
		}
	}
	return false
}

// Orchestrator runs the state machine against an ImageClient.
type Orchestrator struct {
	client ImageClient
	models Models
	logger *infra.Logger
}

// NewOrchestrator builds an orchestrator. A nil logger discards output.
func NewOrchestrator(client ImageClient, models Models, logger *infra.Logger) *Orchestrator {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Orchestrator{client: client, models: models, logger: logger}
}

// Models returns the configured tiers.
func (o *Orchestrator) Models() Models {
	return o.models
}

// Generate walks Idle -> PrimaryAttempt -> {Success | PrimaryFailed};
// PrimaryFailed -> Fatal unless the failure is a capacity error, in which
// case FallbackAttempt -> {Success | Fatal}.
func (o *Orchestrator) Generate(ctx context.Context, req Request) Outcome {
	var (
		out     Outcome
		lastErr error
		state   = StateIdle
	)
	gen := buildRequest(req)

	for {
		out.Path = append(out.Path, state)
		switch state {
		case StateIdle:
			state = StatePrimaryAttempt

		case StatePrimaryAttempt:
			img, rec, err := o.attempt(ctx, req.RequestID, o.models.Primary, domain.RouteGeneratePrimary, gen, 0)
			out.Usage = append(out.Usage, rec)
			out.ModelUsed = o.models.Primary
			if err != nil {
				lastErr = err
				state = StatePrimaryFailed
				continue
			}
			out.Image = img
			state = StateSuccess

		case StatePrimaryFailed:
			if !IsCapacityError(lastErr) || o.models.Fallback == "" || ctx.Err() != nil {
				state = StateFatal
				continue
			}
			o.logger.Warn().
				Err(lastErr).
				Str("request_id", req.RequestID).
				Str("model", o.models.Primary).
				Str("fallback_model", o.models.Fallback).
				Msg("generation: primary model over capacity; trying fallback")
			state = StateFallbackAttempt

		case StateFallbackAttempt:
			img, rec, err := o.attempt(ctx, req.RequestID, o.models.Fallback, domain.RouteGenerateFallback, gen, genai.DefaultRetries)
			out.Usage = append(out.Usage, rec)
			out.ModelUsed = o.models.Fallback
			if err != nil {
				lastErr = err
				state = StateFatal
				continue
			}
			out.Image = img
			state = StateSuccess

		case StateSuccess:
			out.State = state
			return out

		case StateFatal:
			out.State = state
			out.Err = fatalError(lastErr)
			o.logger.Error().
				Err(lastErr).
				Str("request_id", req.RequestID).
				Str("model", out.ModelUsed).
				Msg("generation: failed")
			return out
		}
	}
}

// attempt makes one call and always returns its usage record.
func (o *Orchestrator) attempt(ctx context.Context, requestID, model string, route domain.UsageRoute, req genai.Request, retries int) (*genai.Image, domain.GenerationUsage, error) {
	timer := usage.Start(requestID, route, model)
	resp, err := o.client.GenerateContent(ctx, model, req, retries)
	if err != nil {
		return nil, timer.Record(domain.TokenUsage{}, 0, err), err
	}
	if len(resp.Images) == 0 {
		err := fmt.Errorf("%w (finish reason %q)", domain.ErrNoImageInResponse, resp.FinishReason)
		return nil, timer.Record(resp.Usage, 0, err), err
	}
	img := resp.Images[0]
	return &img, timer.Record(resp.Usage, len(resp.Images), nil), nil
}

func fatalError(err error) error {
	switch {
	case err == nil:
		return domain.ErrGenerationFailed
	case errors.Is(err, domain.ErrNoImageInResponse):
		return err
	case IsCapacityError(err):
		return fmt.Errorf("%w: %w", domain.ErrCapacity, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
}

func buildRequest(req Request) genai.Request {
	parts := []genai.Part{genai.TextPart(req.Bundle.UserPrompt)}
	for i, img := range req.Bundle.Images {
		if len(img.Data) == 0 {
			continue
		}
		parts = append(parts,
			genai.TextPart(fmt.Sprintf("Image %d (%s):", i+1, strings.ToLower(string(img.Role)))),
			genai.ImagePart(img.MimeType, img.Data),
		)
	}
	return genai.Request{
		SystemInstruction: req.Bundle.SystemPrompt,
		Parts:             parts,
		WantImage:         true,
		AspectRatio:       req.Format.AspectRatio,
		ImageSize:         req.Format.ImageSize,
	}
}
