package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"

	"golang.org/x/sync/errgroup"

	"poster-server/internal/domain"
)

// RunBatch generates n independent variants of the same form. Each variant
// gets its own recipe and runs as a separate invocation; one failing variant
// never prevents the others from completing. Results are ordered by index.
// The returned error is non-nil only when the form itself is invalid, in
// which case no external call was made.
func (p *Pipeline) RunBatch(ctx context.Context, requestID string, form domain.FormData, n int) ([]Result, error) {
	if n <= 0 {
		n = 1
	}
	if n > p.cfg.MaxVariants {
		return nil, fmt.Errorf("%w: at most %d variants per request", domain.ErrValidation, p.cfg.MaxVariants)
	}
	form, err := Prepare(form)
	if err != nil {
		return nil, err
	}

	recipes := p.recipes.Select(form.Category, n)
	results := make([]Result, n)

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)
	for i := 0; i < n; i++ {
		var r *domain.Recipe
		if i < len(recipes) {
			rc := recipes[i]
			r = &rc
		} else if extra := p.recipes.Select(form.Category, 1); len(extra) == 1 {
			r = &extra[0]
		}
		variantID := fmt.Sprintf("%s-%d", requestID, i)
		g.Go(func() error {
			defer func() {
				if v := recover(); v != nil {
					p.logger.Error().
						Str("request_id", requestID).
						Int("variant", i).
						Interface("panic", v).
						Bytes("stack", debug.Stack()).
						Msg("pipeline: variant panicked")
					res := Result{
						Index:     i,
						RequestID: variantID,
						Err:       fmt.Errorf("%w: panic: %v", domain.ErrGenerationFailed, v),
					}
					if r != nil {
						res.RecipeID = r.ID
					}
					results[i] = res
				}
			}()
			if err := p.limiter.Wait(ctx); err != nil {
				results[i] = Result{Index: i, RequestID: variantID, Err: err}
				return nil
			}
			res := p.Run(ctx, variantID, form, r)
			res.Index = i
			if res.Err != nil {
				p.logger.Warn().
					Err(res.Err).
					Str("request_id", requestID).
					Int("variant", i).
					Str("model", res.ModelUsed).
					Msg("pipeline: variant failed")
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(results, func(a, b int) bool { return results[a].Index < results[b].Index })
	return results, nil
}

// Usage flattens the usage records of every result.
func Usage(results []Result) []domain.GenerationUsage {
	var out []domain.GenerationUsage
	for _, r := range results {
		out = append(out, r.Usage...)
	}
	return out
}
