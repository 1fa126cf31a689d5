package contextprep

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"poster-server/internal/domain"
	"poster-server/internal/providers/textgen"
	"poster-server/internal/usage"
)

// Translation holds the accepted translated values. Fields and dropdowns the
// service omitted, blanked or mangled are absent and keep their original text.
type Translation struct {
	Fields    map[domain.FieldKey]string
	Dropdowns map[string]string
}

var numeralPattern = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)*`)

const translateSystem = `You translate short marketing copy for a poster. Respond only with a JSON object that has exactly the keys you were given. Keep brand names, phone numbers and web addresses unchanged. In prices and quantities keep every numeral exactly as written (same digits, Western Arabic numerals) and translate only currency or unit words. Never add text that is not in the input.`

// translate rewrites the translatable fields into the target language. It is
// skipped when both languages match or nothing needs translating.
func (p *Preparer) translate(ctx context.Context, in Input) Result[Translation] {
	if in.Source == in.Target {
		return Result[Translation]{}
	}
	fields := in.Form.TranslatableFields()
	if len(fields) == 0 {
		return Result[Translation]{}
	}

	payload := map[string]string{}
	for key, value := range fields {
		payload[string(key)] = value
	}
	dropdowns := map[string]string{}
	if label := domain.DropdownLabel(domain.DropdownCTA, in.Form.CTA); label != "" {
		dropdowns[domain.DropdownCTA] = label
		payload[domain.DropdownCTA] = label
	}
	if label := domain.DropdownLabel(domain.DropdownBadge, in.Form.Badge); label != "" {
		dropdowns[domain.DropdownBadge] = label
		payload[domain.DropdownBadge] = label
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return Result[Translation]{Err: fmt.Errorf("encode fields: %w", err)}
	}
	prompt := fmt.Sprintf("Translate the values of this JSON object from %s to %s:\n%s",
		in.Source.Name(), in.Target.Name(), encoded)

	timer := usage.Start(in.RequestID, domain.RouteTranslate, p.gen.Model())
	res, err := p.gen.Generate(ctx, textgen.Request{
		System:      translateSystem,
		Prompt:      prompt,
		JSON:        true,
		Temperature: 0.2,
	})
	var tokens domain.TokenUsage
	if res != nil {
		tokens = res.Usage
	}
	if err != nil {
		rec := timer.Record(domain.TokenUsage{}, 0, err)
		return Result[Translation]{Err: fmt.Errorf("translate fields: %w", err), Usage: &rec}
	}

	translated, err := textgen.ParseJSON[map[string]string](res.Text)
	if err != nil {
		perr := fmt.Errorf("parse translation: %w", err)
		rec := timer.Record(tokens, 0, perr)
		return Result[Translation]{Err: perr, Usage: &rec}
	}
	rec := timer.Record(tokens, 0, nil)

	out := Translation{Fields: map[domain.FieldKey]string{}, Dropdowns: map[string]string{}}
	for key, original := range fields {
		value := strings.TrimSpace(translated[string(key)])
		if value == "" {
			continue
		}
		if spec, ok := domain.FieldSpecFor(in.Form.Category, key); ok && spec.Numeric && !sameNumerals(original, value) {
			continue
		}
		out.Fields[key] = value
	}
	for name := range dropdowns {
		if value := strings.TrimSpace(translated[name]); value != "" {
			out.Dropdowns[name] = value
		}
	}
	return Result[Translation]{Value: out, Usage: &rec}
}

// sameNumerals reports whether both strings carry the same numbers in order.
func sameNumerals(original, translated string) bool {
	return slices.Equal(numeralPattern.FindAllString(original, -1), numeralPattern.FindAllString(translated, -1))
}
