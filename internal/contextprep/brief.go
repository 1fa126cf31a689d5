package contextprep

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"poster-server/internal/domain"
	"poster-server/internal/providers/textgen"
	"poster-server/internal/usage"
)

const maxBriefLength = 1200

const briefSystem = `You are an art director preparing a poster. Look at the attached images and write a design brief of 3 to 5 sentences in English. Cover: how to compose the product in the layout, what the product is and what makes it appealing, and which colors the logo uses so the palette can match it. Plain prose only, no lists, no headings, no quoted slogans.`

// brief asks for a short design brief from the attached images. It is
// skipped when no image was supplied.
func (p *Preparer) brief(ctx context.Context, in Input) Result[string] {
	if len(in.Images) == 0 {
		return Result[string]{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Business category: %s.\nAttached images in order:\n", in.Form.Category)
	for i, img := range in.Images {
		fmt.Fprintf(&b, "%d. %s image\n", i+1, img.Role)
	}

	timer := usage.Start(in.RequestID, domain.RouteDesignBrief, p.gen.Model())
	res, err := p.gen.Generate(ctx, textgen.Request{
		System:      briefSystem,
		Prompt:      b.String(),
		Images:      in.Images,
		Temperature: 0.4,
	})
	if err != nil {
		rec := timer.Record(domain.TokenUsage{}, 0, err)
		return Result[string]{Err: fmt.Errorf("design brief: %w", err), Usage: &rec}
	}
	text := normalizeBrief(res.Text)
	if text == "" {
		berr := errors.New("design brief: empty response")
		rec := timer.Record(res.Usage, 0, berr)
		return Result[string]{Err: berr, Usage: &rec}
	}
	rec := timer.Record(res.Usage, 0, nil)
	return Result[string]{Value: text, Usage: &rec}
}

func normalizeBrief(raw string) string {
	text := strings.Join(strings.Fields(raw), " ")
	if len(text) <= maxBriefLength {
		return text
	}
	cut := text[:maxBriefLength]
	if i := strings.LastIndex(cut, ". "); i > 0 {
		return cut[:i+1]
	}
	return strings.ToValidUTF8(cut, "")
}
