// Package genai is the client for the Gemini generateContent REST API.
package genai

import (
	"encoding/base64"
	"strings"

	"poster-server/internal/domain"
)

// Part is one element of the user turn: either text or inline image bytes.
type Part struct {
	Text     string
	MimeType string
	Data     []byte
}

// TextPart returns a text part.
func TextPart(text string) Part { return Part{Text: text} }

// ImagePart returns an inline image part.
func ImagePart(mime string, data []byte) Part { return Part{MimeType: mime, Data: data} }

// Request is a single generateContent call.
type Request struct {
	SystemInstruction string
	Parts             []Part
	// WantImage asks for IMAGE and TEXT response modalities.
	WantImage    bool
	AspectRatio  string
	ImageSize    string
	ResponseJSON bool
	Temperature  float64
}

// Image is an image returned by the service.
type Image struct {
	MimeType string
	Data     []byte
}

// Response is the decoded result of a call.
type Response struct {
	Text         string
	Images       []Image
	Usage        domain.TokenUsage
	FinishReason string
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

type generationConfig struct {
	Temperature        float64      `json:"temperature,omitempty"`
	ResponseMimeType   string       `json:"responseMimeType,omitempty"`
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	ImageConfig        *imageConfig `json:"imageConfig,omitempty"`
}

type generateContentRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type generateContentResponse struct {
	Candidates    []candidate   `json:"candidates"`
	UsageMetadata usageMetadata `json:"usageMetadata"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

func buildPayload(req Request) generateContentRequest {
	parts := make([]part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if len(p.Data) > 0 {
			parts = append(parts, part{InlineData: &blob{
				MimeType: p.MimeType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			}})
			continue
		}
		if strings.TrimSpace(p.Text) != "" {
			parts = append(parts, part{Text: p.Text})
		}
	}

	payload := generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature: req.Temperature,
		},
	}
	if sys := strings.TrimSpace(req.SystemInstruction); sys != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: sys}}}
	}
	if req.WantImage {
		payload.GenerationConfig.ResponseModalities = []string{"IMAGE", "TEXT"}
		if req.AspectRatio != "" || req.ImageSize != "" {
			payload.GenerationConfig.ImageConfig = &imageConfig{AspectRatio: req.AspectRatio, ImageSize: req.ImageSize}
		}
	} else if req.ResponseJSON {
		payload.GenerationConfig.ResponseMimeType = "application/json"
	}
	return payload
}

func (r generateContentResponse) toResponse() *Response {
	out := &Response{
		Usage: domain.TokenUsage{
			InputTokens:  r.UsageMetadata.PromptTokenCount,
			OutputTokens: r.UsageMetadata.CandidatesTokenCount,
		},
	}
	var text strings.Builder
	for _, cand := range r.Candidates {
		if out.FinishReason == "" {
			out.FinishReason = cand.FinishReason
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil || len(data) == 0 {
					continue
				}
				mime := p.InlineData.MimeType
				if mime == "" {
					mime = "image/png"
				}
				if strings.HasPrefix(mime, "image/") {
					out.Images = append(out.Images, Image{MimeType: mime, Data: data})
				}
				continue
			}
			if p.Text != "" {
				if text.Len() > 0 {
					text.WriteString("\n")
				}
				text.WriteString(p.Text)
			}
		}
	}
	out.Text = strings.TrimSpace(text.String())
	return out
}
