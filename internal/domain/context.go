package domain

// TranslatedContext is the outcome of context preparation: the form with
// translated values substituted plus the optional design brief.
type TranslatedContext struct {
	Form           FormData
	SourceLanguage Language
	TargetLanguage Language
	// WasTranslated is true when at least one field holds a translated value.
	WasTranslated bool
	// TranslatedFields marks the fields whose value came back from translation.
	TranslatedFields map[FieldKey]bool
	// DesignBrief is empty when no brief could be produced.
	DesignBrief string
	// DropdownOverrides holds AI-translated display text keyed by dropdown name
	// ("cta", "badge"). Present entries win over static lookup tables.
	DropdownOverrides map[string]string
}

// RenderVerbatim reports whether a field's value is already in the target
// language and must be rendered exactly as given.
func (c TranslatedContext) RenderVerbatim(key FieldKey) bool {
	if c.SourceLanguage == c.TargetLanguage {
		return true
	}
	return c.WasTranslated && c.TranslatedFields[key]
}
