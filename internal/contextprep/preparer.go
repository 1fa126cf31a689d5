// Package contextprep runs the two side calls that precede prompt assembly:
// field translation and the visual design brief. Neither is fatal; each
// failure falls back to a default and is reported alongside its usage record.
package contextprep

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"poster-server/internal/domain"
	"poster-server/internal/infra"
	"poster-server/internal/providers/textgen"
)

// Result is the outcome of one isolated side call. Usage is nil only when
// the call was skipped.
type Result[T any] struct {
	Value T
	Err   error
	Usage *domain.GenerationUsage
}

// Skipped reports whether the call was never made.
func (r Result[T]) Skipped() bool {
	return r.Usage == nil
}

// Input is everything the preparer needs for one generation.
type Input struct {
	RequestID string
	Form      domain.FormData
	Source    domain.Language
	Target    domain.Language
	// Images are the compressed inspiration, product and logo images.
	Images []domain.ImagePart
}

// Output combines both side calls.
type Output struct {
	Context     domain.TranslatedContext
	Translation Result[Translation]
	Brief       Result[string]
}

// Usage returns the usage records of the calls that were made.
func (o Output) Usage() []domain.GenerationUsage {
	var out []domain.GenerationUsage
	if o.Translation.Usage != nil {
		out = append(out, *o.Translation.Usage)
	}
	if o.Brief.Usage != nil {
		out = append(out, *o.Brief.Usage)
	}
	return out
}

// Preparer runs translation and the design brief against a text generator.
type Preparer struct {
	gen    textgen.Generator
	logger *infra.Logger
}

// NewPreparer builds a preparer. A nil logger discards output.
func NewPreparer(gen textgen.Generator, logger *infra.Logger) *Preparer {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Preparer{gen: gen, logger: logger}
}

// Prepare runs both side calls concurrently and combines them. It never
// returns an error: failures are recovered into defaults.
func (p *Preparer) Prepare(ctx context.Context, in Input) Output {
	var (
		g           errgroup.Group
		translation Result[Translation]
		brief       Result[string]
	)
	g.Go(func() error {
		translation = p.translate(ctx, in)
		return nil
	})
	g.Go(func() error {
		brief = p.brief(ctx, in)
		return nil
	})
	_ = g.Wait()

	if translation.Err != nil {
		p.logger.Warn().
			Err(translation.Err).
			Str("request_id", in.RequestID).
			Str("route", string(domain.RouteTranslate)).
			Msg("contextprep: translation failed; using original fields")
	}
	if brief.Err != nil {
		p.logger.Warn().
			Err(brief.Err).
			Str("request_id", in.RequestID).
			Str("route", string(domain.RouteDesignBrief)).
			Msg("contextprep: design brief failed; continuing without brief")
	}

	return Output{
		Context:     combine(in, translation, brief),
		Translation: translation,
		Brief:       brief,
	}
}

func combine(in Input, translation Result[Translation], brief Result[string]) domain.TranslatedContext {
	form := in.Form.Clone()
	tc := domain.TranslatedContext{
		SourceLanguage:   in.Source,
		TargetLanguage:   in.Target,
		TranslatedFields: map[domain.FieldKey]bool{},
	}
	if translation.Err == nil {
		for key, value := range translation.Value.Fields {
			form.Fields[key] = value
			tc.TranslatedFields[key] = true
		}
		if len(translation.Value.Dropdowns) > 0 {
			tc.DropdownOverrides = translation.Value.Dropdowns
		}
	}
	tc.WasTranslated = len(tc.TranslatedFields) > 0
	if brief.Err == nil {
		tc.DesignBrief = brief.Value
	}
	tc.Form = form
	return tc
}
