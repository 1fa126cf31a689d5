package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"poster-server/internal/domain"
)

type recipeResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category domain.Category `json:"category"`
}

type categoryResponse struct {
	Category domain.Category    `json:"category"`
	Fields   []domain.FieldSpec `json:"fields"`
	CTAs     []string           `json:"ctas"`
	Recipes  []recipeResponse   `json:"recipes"`
}

// ListRecipes describes the form schema and creative recipes of one category,
// or of every category when none is given.
func (a *App) ListRecipes(w http.ResponseWriter, r *http.Request) {
	categories := domain.Categories
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		c := domain.Category(strings.ToLower(raw))
		if !c.Valid() {
			a.fail(w, r, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, raw))
			return
		}
		categories = []domain.Category{c}
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		item := categoryResponse{Category: c, Fields: domain.Schema(c), CTAs: domain.CTAOptions(c)}
		for _, rc := range a.Recipes.List(c) {
			item.Recipes = append(item.Recipes, recipeResponse{ID: rc.ID, Name: rc.Name, Category: rc.Category})
		}
		out = append(out, item)
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":   out,
		"formats": outputFormats(),
		"badges":  domain.Badges,
	})
}

func outputFormats() []domain.FormatSpec {
	all := []domain.OutputFormat{
		domain.FormatSquarePost,
		domain.FormatPortraitPost,
		domain.FormatStory,
		domain.FormatLandscapeBanner,
		domain.FormatPrintFlyer,
	}
	out := make([]domain.FormatSpec, 0, len(all))
	for _, f := range all {
		if spec, ok := domain.LookupFormat(f); ok {
			out = append(out, spec)
		}
	}
	return out
}
