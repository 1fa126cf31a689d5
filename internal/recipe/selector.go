// Package recipe holds the per-category pools of creative directives and
// draws non-repeating recipes for a generation batch.
package recipe

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"poster-server/internal/domain"
)

// Pools is a read-only table of recipes per category.
type Pools map[domain.Category][]domain.Recipe

// Selector draws recipes from an injected pool table. The pools are never
// mutated; every draw shuffles a private copy.
type Selector struct {
	pools Pools
	byID  map[string]domain.Recipe

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSelector returns a selector over pools. A nil rnd seeds one from the
// global source.
func NewSelector(pools Pools, rnd *rand.Rand) *Selector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}
	byID := make(map[string]domain.Recipe)
	for _, list := range pools {
		for _, r := range list {
			byID[r.ID] = r
		}
	}
	return &Selector{pools: pools, byID: byID, rnd: rnd}
}

// Select returns min(n, pool size) distinct recipes for the category in
// random order. An empty pool or n <= 0 yields an empty slice.
func (s *Selector) Select(category domain.Category, n int) []domain.Recipe {
	pool := s.pools[category]
	if n <= 0 || len(pool) == 0 {
		return []domain.Recipe{}
	}
	shuffled := make([]domain.Recipe, len(pool))
	copy(shuffled, pool)

	s.mu.Lock()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	s.mu.Unlock()

	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// Lookup finds a recipe by ID across all categories.
func (s *Selector) Lookup(id string) (domain.Recipe, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// List returns the category's recipes ordered by ID.
func (s *Selector) List(category domain.Category) []domain.Recipe {
	out := make([]domain.Recipe, len(s.pools[category]))
	copy(out, s.pools[category])
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FormatForPrompt renders a recipe as loose creative guidance, appending the
// campaign amendment when the recipe has one.
func FormatForPrompt(r domain.Recipe, campaign domain.CampaignType) string {
	if strings.TrimSpace(r.Directive) == "" {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Creative direction %q (interpret loosely, as inspiration rather than a literal specification):\n", r.Name)
	b.WriteString(strings.TrimSpace(r.Directive))
	if amendment := strings.TrimSpace(r.Amendment(campaign)); amendment != "" {
		b.WriteString("\nFor this campaign: ")
		b.WriteString(amendment)
	}
	return b.String()
}
