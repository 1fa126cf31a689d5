package posterprompt

import (
	"strings"

	"poster-server/internal/domain"
)

// ResolveDropdown picks the display text of a dropdown value: a non-empty
// override always wins over the static table entry.
func ResolveDropdown(static, override string) string {
	if o := strings.TrimSpace(override); o != "" {
		return o
	}
	return static
}

// staticDropdown looks up the static display text for lang. The boolean is
// false when the table had no entry for lang and English was used instead.
func staticDropdown(dropdown, id string, lang domain.Language) (string, bool) {
	table := domain.DropdownTable(dropdown, id)
	if text, ok := table[lang]; ok && text != "" {
		return text, true
	}
	return table[domain.LanguageEnglish], lang == domain.LanguageEnglish
}

// dropdownLine resolves one dropdown to an inventory line. ok is false when
// the option is unset or unknown.
func dropdownLine(tc domain.TranslatedContext, dropdown, id, role string) (domain.InventoryLine, bool) {
	if strings.TrimSpace(id) == "" {
		return domain.InventoryLine{}, false
	}
	static, native := staticDropdown(dropdown, id, tc.TargetLanguage)
	override := tc.DropdownOverrides[dropdown]
	text := strings.TrimSpace(ResolveDropdown(static, override))
	if text == "" {
		return domain.InventoryLine{}, false
	}
	return domain.InventoryLine{
		Role:     role,
		Key:      dropdown,
		Text:     text,
		Verbatim: native || strings.TrimSpace(override) != "",
	}, true
}
