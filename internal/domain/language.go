package domain

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is the resolved poster or input language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageHebrew  Language = "he"
)

// DefaultLanguage is used for ties, empty input and unknown values.
const DefaultLanguage = LanguageEnglish

// Languages lists every supported language.
var Languages = []Language{LanguageEnglish, LanguageArabic, LanguageHebrew}

// ParseLanguage normalizes a user supplied language code. The boolean reports
// whether the input named a supported language.
func ParseLanguage(raw string) (Language, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLanguage, false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return DefaultLanguage, false
	}
	base, _ := tag.Base()
	for _, l := range Languages {
		if base.String() == string(l) {
			return l, true
		}
	}
	return DefaultLanguage, false
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

// Tag returns the BCP-47 tag of the language.
func (l Language) Tag() language.Tag {
	if !l.Valid() {
		return language.English
	}
	return language.MustParse(string(l))
}

// Name returns the English display name, e.g. "Arabic".
func (l Language) Name() string {
	return display.English.Tags().Name(l.Tag())
}

// RightToLeft reports whether the language's script is written right to left.
func (l Language) RightToLeft() bool {
	return l == LanguageArabic || l == LanguageHebrew
}
