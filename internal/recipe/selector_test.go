package recipe

import (
	"math/rand"
	"strings"
	"testing"

	"poster-server/internal/domain"
)

func TestSelectReturnsDistinctRecipes(t *testing.T) {
	s := NewSelector(DefaultPools(), rand.New(rand.NewSource(7)))
	for _, c := range domain.Categories {
		poolSize := len(DefaultPools()[c])
		for trial := 0; trial < 50; trial++ {
			got := s.Select(c, poolSize)
			if len(got) != poolSize {
				t.Fatalf("Select(%s, %d) returned %d recipes", c, poolSize, len(got))
			}
			seen := map[string]bool{}
			for _, r := range got {
				if seen[r.ID] {
					t.Fatalf("Select(%s) returned duplicate %q", c, r.ID)
				}
				seen[r.ID] = true
				if r.Category != c {
					t.Fatalf("recipe %q has category %q, want %q", r.ID, r.Category, c)
				}
			}
		}
	}
}

func TestSelectCapsAtPoolSize(t *testing.T) {
	pools := Pools{domain.CategoryRetail: {
		{ID: "a", Category: domain.CategoryRetail},
		{ID: "b", Category: domain.CategoryRetail},
	}}
	s := NewSelector(pools, rand.New(rand.NewSource(1)))
	if got := s.Select(domain.CategoryRetail, 5); len(got) != 2 {
		t.Fatalf("len(Select) = %d, want 2", len(got))
	}
}

func TestSelectEmptyPool(t *testing.T) {
	s := NewSelector(Pools{}, nil)
	got := s.Select(domain.CategoryBeauty, 3)
	if got == nil || len(got) != 0 {
		t.Fatalf("Select on empty pool = %#v, want empty slice", got)
	}
	if got := s.Select(domain.CategoryBeauty, 0); len(got) != 0 {
		t.Fatalf("Select with n=0 = %d recipes", len(got))
	}
}

func TestSelectDoesNotMutatePool(t *testing.T) {
	pools := Pools{domain.CategoryService: {
		{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"},
	}}
	s := NewSelector(pools, rand.New(rand.NewSource(42)))
	for i := 0; i < 20; i++ {
		s.Select(domain.CategoryService, 4)
	}
	for i, want := range []string{"1", "2", "3", "4"} {
		if pools[domain.CategoryService][i].ID != want {
			t.Fatalf("pool[%d] = %q, want %q", i, pools[domain.CategoryService][i].ID, want)
		}
	}
}

func TestLookupAndList(t *testing.T) {
	s := NewSelector(DefaultPools(), nil)
	r, ok := s.Lookup("fashion-runway")
	if !ok || r.Category != domain.CategoryFashion {
		t.Fatalf("Lookup(fashion-runway) = %+v, %v", r, ok)
	}
	if _, ok := s.Lookup("missing"); ok {
		t.Fatal("Lookup(missing) reported found")
	}
	list := s.List(domain.CategoryRetail)
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}

func TestFormatForPromptAppendsAmendment(t *testing.T) {
	r := domain.Recipe{
		ID:        "x",
		Name:      "Night Market",
		Directive: "Lantern-lit stalls.",
		CampaignAmendments: map[domain.CampaignType]string{
			domain.CampaignRamadan: "Add crescent garlands.",
		},
	}
	got := FormatForPrompt(r, domain.CampaignRamadan)
	if !strings.Contains(got, "Lantern-lit stalls.") || !strings.Contains(got, "Add crescent garlands.") {
		t.Fatalf("FormatForPrompt(ramadan) = %q", got)
	}
	if !strings.Contains(got, "interpret loosely") {
		t.Fatalf("FormatForPrompt missing loose-guidance framing: %q", got)
	}
	if plain := FormatForPrompt(r, domain.CampaignStandard); strings.Contains(plain, "crescent") {
		t.Fatalf("standard campaign got amendment: %q", plain)
	}
	if empty := FormatForPrompt(domain.Recipe{}, domain.CampaignStandard); empty != "" {
		t.Fatalf("FormatForPrompt(empty) = %q, want empty", empty)
	}
}
