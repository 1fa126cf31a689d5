// Package pipeline runs a poster generation end to end: recipe and language
// resolution, image compression, context preparation, prompt assembly,
// generation and post-processing.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"poster-server/internal/contextprep"
	"poster-server/internal/domain"
	"poster-server/internal/generation"
	"poster-server/internal/imaging"
	"poster-server/internal/infra"
	"poster-server/internal/langdetect"
	"poster-server/internal/posterprompt"
)

// RecipeSource draws distinct recipes for a category.
type RecipeSource interface {
	Select(category domain.Category, n int) []domain.Recipe
}

// Preparer runs translation and the design brief.
type Preparer interface {
	Prepare(ctx context.Context, in contextprep.Input) contextprep.Output
}

// Generator runs the primary/fallback generation state machine.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) generation.Outcome
}

// Config bounds batch execution.
type Config struct {
	MaxVariants int
	Concurrency int
	// Interval spaces out invocation starts within a batch.
	Interval time.Duration
}

// Result is the structured outcome of one pipeline invocation. Usage is
// populated on failure too.
type Result struct {
	Index          int                      `json:"index"`
	RequestID      string                   `json:"request_id"`
	RecipeID       string                   `json:"recipe_id,omitempty"`
	Design         *domain.GeneratedDesign  `json:"design,omitempty"`
	TargetLanguage domain.Language          `json:"target_language,omitempty"`
	WasTranslated  bool                     `json:"was_translated"`
	ModelUsed      string                   `json:"model_used,omitempty"`
	Usage          []domain.GenerationUsage `json:"usage"`
	Err            error                    `json:"-"`
}

// OK reports whether the invocation produced a design.
func (r Result) OK() bool {
	return r.Err == nil && r.Design != nil
}

// Pipeline wires the generation stages together.
type Pipeline struct {
	recipes    RecipeSource
	compressor *imaging.Compressor
	preparer   Preparer
	generator  Generator
	cfg        Config
	limiter    *rate.Limiter
	logger     *infra.Logger
}

// New builds a pipeline. A nil logger discards output.
func New(recipes RecipeSource, compressor *imaging.Compressor, preparer Preparer, generator Generator, cfg Config, logger *infra.Logger) *Pipeline {
	if cfg.MaxVariants <= 0 {
		cfg.MaxVariants = 4
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Interval), 1)
	}
	if compressor == nil {
		compressor = imaging.NewCompressor(0)
	}
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Pipeline{
		recipes:    recipes,
		compressor: compressor,
		preparer:   preparer,
		generator:  generator,
		cfg:        cfg,
		limiter:    limiter,
		logger:     logger,
	}
}

// MaxVariants returns the largest accepted batch size.
func (p *Pipeline) MaxVariants() int {
	return p.cfg.MaxVariants
}

// Prepare normalizes and validates a form. Validation failures are returned
// before any external call is made.
func Prepare(form domain.FormData) (domain.FormData, error) {
	out := form.Clone()
	out.Normalize()
	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}

// Run executes one invocation. A nil recipe means plain generation without
// creative direction.
func (p *Pipeline) Run(ctx context.Context, requestID string, form domain.FormData, r *domain.Recipe) Result {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	res := Result{RequestID: requestID}
	if r != nil {
		res.RecipeID = r.ID
	}

	form, err := Prepare(form)
	if err != nil {
		res.Err = err
		return res
	}
	spec, ok := domain.LookupFormat(form.OutputFormat)
	if !ok {
		res.Err = fmt.Errorf("%w: unknown output format %q", domain.ErrValidation, form.OutputFormat)
		return res
	}

	target := langdetect.Target(form)
	source := langdetect.ResolveFields(form)
	res.TargetLanguage = target

	images := p.compressImages(ctx, form)

	prepared := p.preparer.Prepare(ctx, contextprep.Input{
		RequestID: requestID,
		Form:      form,
		Source:    source,
		Target:    target,
		Images:    images,
	})
	res.Usage = append(res.Usage, prepared.Usage()...)
	res.WasTranslated = prepared.Context.WasTranslated

	bundle := posterprompt.Assemble(posterprompt.Input{
		Context: prepared.Context,
		Recipe:  r,
		Format:  spec,
		Images:  images,
	})

	outcome := p.generator.Generate(ctx, generation.Request{
		RequestID: requestID,
		Bundle:    bundle,
		Format:    spec,
	})
	res.Usage = append(res.Usage, outcome.Usage...)
	res.ModelUsed = outcome.ModelUsed
	if outcome.Err != nil {
		res.Err = outcome.Err
		return res
	}

	processed, err := imaging.PostProcess(outcome.Image.Data, spec.Width, spec.Height)
	if err != nil {
		res.Err = err
		return res
	}
	res.Design = &domain.GeneratedDesign{
		Name:     designName(r, form.Category),
		DataURI:  processed.DataURI,
		MimeType: processed.MimeType,
		Width:    processed.Width,
		Height:   processed.Height,
		Model:    outcome.ModelUsed,
	}
	if r != nil {
		res.Design.RecipeID = r.ID
	}
	return res
}

// compressImages normalizes the form's images concurrently. Images that fail
// to decode are dropped.
func (p *Pipeline) compressImages(ctx context.Context, form domain.FormData) []domain.ImagePart {
	type job struct {
		role domain.ImageRole
		uri  string
	}
	var jobs []job
	for _, uri := range form.InspirationImages {
		jobs = append(jobs, job{role: domain.ImageRoleInspiration, uri: uri})
	}
	if form.ProductImage != "" {
		jobs = append(jobs, job{role: domain.ImageRoleProduct, uri: form.ProductImage})
	}
	if form.LogoImage != "" {
		jobs = append(jobs, job{role: domain.ImageRoleLogo, uri: form.LogoImage})
	}
	if len(jobs) == 0 {
		return nil
	}

	compressed := make([]*imaging.Compressed, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() error {
			compressed[i] = p.compressor.Compress(j.uri, imaging.OptionsFor(j.role))
			return nil
		})
	}
	_ = g.Wait()

	parts := make([]domain.ImagePart, 0, len(jobs))
	for i, c := range compressed {
		if c == nil {
			p.logger.Warn().
				Str("role", string(jobs[i].role)).
				Msg("pipeline: dropping undecodable image")
			continue
		}
		parts = append(parts, c.Part(jobs[i].role))
	}
	return parts
}

var titleCase = cases.Title(language.English)

func designName(r *domain.Recipe, category domain.Category) string {
	if r != nil && r.Name != "" {
		return r.Name
	}
	return titleCase.String(string(category)) + " Poster"
}
