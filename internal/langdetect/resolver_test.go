package langdetect

import (
	"testing"

	"poster-server/internal/domain"
)

func TestResolveSingleScript(t *testing.T) {
	cases := []struct {
		name string
		text string
		want domain.Language
	}{
		{name: "latin", text: "Fresh pizza every day", want: domain.LanguageEnglish},
		{name: "arabic", text: "بيتزا طازجة كل يوم", want: domain.LanguageArabic},
		{name: "hebrew", text: "פיצה טרייה כל יום", want: domain.LanguageHebrew},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.text); got != tc.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestResolveDefaultsForEmptyOrNumeric(t *testing.T) {
	for _, text := range []string{"", "   ", "12345", "20.50 - 30%", "https://example.com/menu"} {
		if got := Resolve(text); got != domain.DefaultLanguage {
			t.Fatalf("Resolve(%q) = %q, want default %q", text, got, domain.DefaultLanguage)
		}
	}
}

func TestResolveTieDefaultsToEnglish(t *testing.T) {
	// three Latin letters against three Hebrew letters
	if got := Resolve("abc", "אבג"); got != domain.LanguageEnglish {
		t.Fatalf("tie resolved to %q, want %q", got, domain.LanguageEnglish)
	}
}

func TestResolveMajorityAcrossFields(t *testing.T) {
	got := Resolve("Pizza", "بيتزا طازجة مع الجبن", "WiFi")
	if got != domain.LanguageArabic {
		t.Fatalf("Resolve = %q, want %q", got, domain.LanguageArabic)
	}
}

func TestCountIgnoresURLsAndDigits(t *testing.T) {
	c := Count("www.shop.example 2024 !!! ש")
	if c.Latin != 0 || c.Hebrew != 1 {
		t.Fatalf("Count = %+v, want only one Hebrew letter", c)
	}
}

func TestTargetPrefersExplicitPosterLanguage(t *testing.T) {
	form := domain.FormData{
		Category:       domain.CategoryRestaurant,
		Fields:         map[domain.FieldKey]string{domain.FieldHeadline: "Shawarma plate"},
		PosterLanguage: "ar",
	}
	if got := Target(form); got != domain.LanguageArabic {
		t.Fatalf("Target = %q, want %q", got, domain.LanguageArabic)
	}
	form.PosterLanguage = ""
	if got := Target(form); got != domain.LanguageEnglish {
		t.Fatalf("Target without explicit language = %q, want %q", got, domain.LanguageEnglish)
	}
}

func TestResolveFieldsSkipsNonFreeText(t *testing.T) {
	form := domain.FormData{
		Category: domain.CategoryRetail,
		Fields: map[domain.FieldKey]string{
			domain.FieldHeadline: "חולצה",
			domain.FieldWebsite:  "shop.example.com/summer-collection-sale",
		},
	}
	if got := ResolveFields(form); got != domain.LanguageHebrew {
		t.Fatalf("ResolveFields = %q, want %q", got, domain.LanguageHebrew)
	}
}
