package contextprep

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poster-server/internal/domain"
	"poster-server/internal/providers/textgen"
)

type stubGenerator struct {
	mu        sync.Mutex
	translate func(req textgen.Request) (*textgen.Result, error)
	brief     func(req textgen.Request) (*textgen.Result, error)
	calls     map[string]int
	prompts   []string
}

func (s *stubGenerator) Model() string { return "text-model" }

func (s *stubGenerator) Generate(ctx context.Context, req textgen.Request) (*textgen.Result, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.prompts = append(s.prompts, req.Prompt)
	kind := "brief"
	if req.JSON {
		kind = "translate"
	}
	s.calls[kind]++
	s.mu.Unlock()

	if kind == "translate" {
		if s.translate == nil {
			return nil, errors.New("unexpected translate call")
		}
		return s.translate(req)
	}
	if s.brief == nil {
		return nil, errors.New("unexpected brief call")
	}
	return s.brief(req)
}

func text(s string) func(textgen.Request) (*textgen.Result, error) {
	return func(textgen.Request) (*textgen.Result, error) {
		return &textgen.Result{Text: s, Usage: domain.TokenUsage{InputTokens: 10, OutputTokens: 5}}, nil
	}
}

func fail(msg string) func(textgen.Request) (*textgen.Result, error) {
	return func(textgen.Request) (*textgen.Result, error) {
		return nil, errors.New(msg)
	}
}

func restaurantForm(fields map[domain.FieldKey]string) domain.FormData {
	return domain.FormData{
		Category: domain.CategoryRestaurant,
		Fields:   fields,
		CTA:      "order_now",
	}
}

var logo = domain.ImagePart{Role: domain.ImageRoleLogo, MimeType: "image/png", Data: []byte("png")}

func TestPrepareSkipsTranslationForSameLanguage(t *testing.T) {
	gen := &stubGenerator{}
	out := NewPreparer(gen, nil).Prepare(context.Background(), Input{
		Form:   restaurantForm(map[domain.FieldKey]string{domain.FieldHeadline: "Fresh pizza"}),
		Source: domain.LanguageEnglish,
		Target: domain.LanguageEnglish,
	})

	assert.False(t, out.Context.WasTranslated)
	assert.True(t, out.Translation.Skipped())
	assert.True(t, out.Brief.Skipped())
	assert.Empty(t, out.Usage())
	assert.Equal(t, "Fresh pizza", out.Context.Form.Fields[domain.FieldHeadline])
	assert.Zero(t, gen.calls["translate"])
}

func TestPreparePreservesNumeralsInPrice(t *testing.T) {
	gen := &stubGenerator{translate: text(`{"price":"20 شيكل","headline":"بيتزا طازجة","cta":"اطلب الآن"}`)}
	out := NewPreparer(gen, nil).Prepare(context.Background(), Input{
		Form: restaurantForm(map[domain.FieldKey]string{
			domain.FieldHeadline: "Fresh pizza",
			domain.FieldPrice:    "20 shekels",
		}),
		Source: domain.LanguageEnglish,
		Target: domain.LanguageArabic,
	})

	require.NoError(t, out.Translation.Err)
	assert.True(t, out.Context.WasTranslated)
	price := out.Context.Form.Fields[domain.FieldPrice]
	assert.Equal(t, "20 شيكل", price)
	assert.Contains(t, price, "20")
	assert.NotContains(t, price, "shekels")
	assert.Equal(t, "اطلب الآن", out.Context.DropdownOverrides[domain.DropdownCTA])
	require.Len(t, out.Usage(), 1)
	assert.Equal(t, domain.RouteTranslate, out.Usage()[0].Route)
	assert.True(t, out.Usage()[0].Success)
}

func TestPrepareRejectsChangedNumerals(t *testing.T) {
	gen := &stubGenerator{translate: text(`{"price":"٢٠ شيكل","headline":"بيتزا"}`)}
	out := NewPreparer(gen, nil).Prepare(context.Background(), Input{
		Form: restaurantForm(map[domain.FieldKey]string{
			domain.FieldHeadline: "Pizza",
			domain.FieldPrice:    "20 shekels",
		}),
		Source: domain.LanguageEnglish,
		Target: domain.LanguageArabic,
	})

	assert.Equal(t, "20 shekels", out.Context.Form.Fields[domain.FieldPrice])
	assert.False(t, out.Context.TranslatedFields[domain.FieldPrice])
	assert.True(t, out.Context.TranslatedFields[domain.FieldHeadline])
}

func TestPreparePerFieldFallback(t *testing.T) {
	gen := &stubGenerator{translate: text(`{"headline":"פיצה טרייה","description":"  "}`)}
	out := NewPreparer(gen, nil).Prepare(context.Background(), Input{
		Form: restaurantForm(map[domain.FieldKey]string{
			domain.FieldHeadline:    "Fresh pizza",
			domain.FieldDescription: "Stone baked",
			domain.FieldOffer:       "Two for one",
		}),
		Source: domain.LanguageEnglish,
		Target: domain.LanguageHebrew,
	})

	fields := out.Context.Form.Fields
	assert.Equal(t, "פיצה טרייה", fields[domain.FieldHeadline])
	assert.Equal(t, "Stone baked", fields[domain.FieldDescription])
	assert.Equal(t, "Two for one", fields[domain.FieldOffer])
	assert.True(t, out.Context.RenderVerbatim(domain.FieldHeadline))
	assert.False(t, out.Context.RenderVerbatim(domain.FieldDescription))
}

func TestPrepareUnparseableTranslationKeepsAllFields(t *testing.T) {
	gen := &stubGenerator{translate: text("sorry, I cannot help with that")}
	form := restaurantForm(map[domain.FieldKey]string{domain.FieldHeadline: "Fresh pizza"})
	out := NewPreparer(gen, nil).Prepare(context.Background(), Input{
		Form:   form,
		Source: domain.LanguageEnglish,
		Target: domain.LanguageArabic,
	})

	require.Error(t, out.Translation.Err)
	assert.False(t, out.Context.WasTranslated)
	assert.Equal(t, "Fresh pizza", out.Context.Form.Fields[domain.FieldHeadline])
	require.NotNil(t, out.Translation.Usage)
	assert.False(t, out.Translation.Usage.Success)
	assert.Equal(t, 10, out.Translation.Usage.InputTokens)
}

func TestPrepareBriefSurvivesTranslationFailure(t *testing.T) {
	gen := &stubGenerator{
		translate: fail("rate limit"),
		brief:     text("Center the pizza. Use the red from the logo."),
	}
	out := NewPreparer(gen, nil).Prepare(context.Background(), Input{
		Form:   restaurantForm(map[domain.FieldKey]string{domain.FieldHeadline: "بيتزا"}),
		Source: domain.LanguageArabic,
		Target: domain.LanguageEnglish,
		Images: []domain.ImagePart{logo},
	})

	assert.False(t, out.Context.WasTranslated)
	assert.Equal(t, "Center the pizza. Use the red from the logo.", out.Context.DesignBrief)
	records := out.Usage()
	require.Len(t, records, 2)
	assert.False(t, records[0].Success)
	assert.Zero(t, records[0].InputTokens)
	assert.Equal(t, "translate fields: rate limit", out.Translation.Err.Error())
	assert.True(t, records[1].Success)
	assert.Equal(t, domain.RouteDesignBrief, records[1].Route)
}

func TestPrepareBriefFailureLeavesBriefEmpty(t *testing.T) {
	gen := &stubGenerator{brief: fail("invalid image")}
	out := NewPreparer(gen, nil).Prepare(context.Background(), Input{
		Form:   restaurantForm(map[domain.FieldKey]string{domain.FieldHeadline: "Pizza"}),
		Source: domain.LanguageEnglish,
		Target: domain.LanguageEnglish,
		Images: []domain.ImagePart{logo},
	})

	assert.Empty(t, out.Context.DesignBrief)
	require.Error(t, out.Brief.Err)
	require.Len(t, out.Usage(), 1)
	assert.Equal(t, "invalid image", out.Usage()[0].Error)
}

func TestPrepareDoesNotMutateInputForm(t *testing.T) {
	gen := &stubGenerator{translate: text(`{"headline":"بيتزا"}`)}
	form := restaurantForm(map[domain.FieldKey]string{domain.FieldHeadline: "Pizza"})
	NewPreparer(gen, nil).Prepare(context.Background(), Input{
		Form:   form,
		Source: domain.LanguageEnglish,
		Target: domain.LanguageArabic,
	})
	assert.Equal(t, "Pizza", form.Fields[domain.FieldHeadline])
}

func TestNormalizeBriefTruncatesAtSentence(t *testing.T) {
	long := strings.Repeat("Place the product on the left. ", 60)
	got := normalizeBrief(long)
	assert.LessOrEqual(t, len(got), maxBriefLength)
	assert.True(t, strings.HasSuffix(got, "."))
}

func TestSameNumerals(t *testing.T) {
	assert.True(t, sameNumerals("20 USD", "20 دولار"))
	assert.True(t, sameNumerals("from 1,250.50", "à partir de 1,250.50"))
	assert.False(t, sameNumerals("20 USD", "25 دولار"))
	assert.False(t, sameNumerals("20 USD", "عشرون دولار"))
}
