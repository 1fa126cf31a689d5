package textgen

import (
	"context"
	"errors"

	"poster-server/internal/providers/genai"
)

// GeminiTextClient is the subset of genai.Client used for text calls.
type GeminiTextClient interface {
	GenerateText(ctx context.Context, req genai.Request) (*genai.Response, error)
	TextModel() string
}

// Gemini generates text through the Gemini text model.
type Gemini struct {
	client GeminiTextClient
}

// NewGemini wraps a Gemini client.
func NewGemini(client GeminiTextClient) *Gemini {
	return &Gemini{client: client}
}

func (g *Gemini) Model() string {
	return g.client.TextModel()
}

func (g *Gemini) Generate(ctx context.Context, req Request) (*Result, error) {
	parts := make([]genai.Part, 0, len(req.Images)+1)
	parts = append(parts, genai.TextPart(req.Prompt))
	for _, img := range req.Images {
		parts = append(parts, genai.ImagePart(img.MimeType, img.Data))
	}
	resp, err := g.client.GenerateText(ctx, genai.Request{
		SystemInstruction: req.System,
		Parts:             parts,
		ResponseJSON:      req.JSON,
		Temperature:       req.Temperature,
	})
	if err != nil {
		return nil, err
	}
	out := &Result{Text: resp.Text, Model: g.Model(), Usage: resp.Usage}
	if out.Text == "" {
		return out, errors.New("gemini returned empty text")
	}
	return out, nil
}

var _ Generator = (*Gemini)(nil)
