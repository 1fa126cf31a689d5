package genai

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"poster-server/internal/domain"
)

// syntheticResponse renders a deterministic striped placeholder so the rest
// of the pipeline stays exercisable without credentials.
func (c *Client) syntheticResponse(model string, req Request) *Response {
	var prompt strings.Builder
	prompt.WriteString(req.SystemInstruction)
	for _, p := range req.Parts {
		prompt.WriteString(p.Text)
		prompt.WriteString(strconv.Itoa(len(p.Data)))
	}
	seed := deterministicSeed(model, req.AspectRatio, prompt.String())
	width, height := normalizeAspect(req.AspectRatio)
	img := renderSyntheticImage(width, height, seed)

	c.logger.Debug().
		Str("model", model).
		Str("aspect_ratio", req.AspectRatio).
		Msg("genai: generated synthetic poster")

	return &Response{
		Text:   "synthetic poster",
		Images: []Image{{MimeType: "image/png", Data: img}},
		Usage: domain.TokenUsage{
			InputTokens:  len(strings.Fields(prompt.String())),
			OutputTokens: 0,
		},
		FinishReason: "STOP",
	}
}

func renderSyntheticImage(width, height int, seed string) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripeHeight := max(32, height/12)
	for y := 0; y < height; y += stripeHeight * 2 {
		stripe := image.Rect(0, y, width, min(height, y+stripeHeight))
		draw.Draw(img, stripe, &image.Uniform{accent}, image.Point{}, draw.Over)
	}

	diagonal := colorFromSeed(seed, 2)
	for x := 0; x < max(width, height); x += max(16, width/32) {
		for y := 0; y < height; y++ {
			xx := x + y
			if xx >= width {
				break
			}
			img.Set(xx, y, diagonal)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func colorFromSeed(seed string, shift int) color.RGBA {
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	return color.RGBA{R: hexByte(segment[0:2]), G: hexByte(segment[2:4]), B: hexByte(segment[4:6]), A: 255}
}

func hexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

// normalizeAspect picks a modest placeholder size; the post-processor
// stretches it to the final format anyway.
func normalizeAspect(aspect string) (int, int) {
	parts := strings.Split(strings.TrimSpace(aspect), ":")
	if len(parts) == 2 {
		a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
		b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errA == nil && errB == nil && a > 0 && b > 0 {
			if a >= b {
				return 512, 512 * b / a
			}
			return 512 * a / b, 512
		}
	}
	return 512, 512
}
