// Package langdetect decides which language a set of free-text fields is
// written in by counting letters per script.
package langdetect

import (
	"regexp"
	"unicode"

	"poster-server/internal/domain"
)

var urlPattern = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)

// Counts holds per-script letter counts.
type Counts struct {
	Arabic int
	Hebrew int
	Latin  int
}

// Count strips URLs, numerals and punctuation and tallies the remaining
// letters by script.
func Count(texts ...string) Counts {
	var c Counts
	for _, text := range texts {
		text = urlPattern.ReplaceAllString(text, " ")
		for _, r := range text {
			switch {
			case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r), unicode.IsSpace(r):
				continue
			case unicode.Is(unicode.Arabic, r):
				if unicode.IsLetter(r) {
					c.Arabic++
				}
			case unicode.Is(unicode.Hebrew, r):
				if unicode.IsLetter(r) {
					c.Hebrew++
				}
			case unicode.Is(unicode.Latin, r):
				c.Latin++
			}
		}
	}
	return c
}

// Resolve returns the language whose script has the strictly highest count.
// Ties and empty input resolve to the default language.
func Resolve(texts ...string) domain.Language {
	return Count(texts...).Language()
}

// Language picks the winning script of the counts.
func (c Counts) Language() domain.Language {
	switch {
	case c.Arabic > c.Hebrew && c.Arabic > c.Latin:
		return domain.LanguageArabic
	case c.Hebrew > c.Arabic && c.Hebrew > c.Latin:
		return domain.LanguageHebrew
	case c.Latin > c.Arabic && c.Latin > c.Hebrew:
		return domain.LanguageEnglish
	default:
		return domain.DefaultLanguage
	}
}

// ResolveFields resolves the language of a form's free-text fields.
func ResolveFields(form domain.FormData) domain.Language {
	fields := form.FreeTextFields()
	texts := make([]string, 0, len(fields))
	for _, v := range fields {
		texts = append(texts, v)
	}
	return Resolve(texts...)
}

// Target returns the poster language: the explicit choice on the form when it
// names a supported language, otherwise the language of the input itself.
func Target(form domain.FormData) domain.Language {
	if lang, ok := domain.ParseLanguage(form.PosterLanguage); ok {
		return lang
	}
	return ResolveFields(form)
}
