package posterprompt

import (
	"fmt"
	"strings"

	"poster-server/internal/domain"
)

// BuildInventory lists every literal string the poster may show: each shown,
// non-empty field of the category in schema order, then the CTA and badge.
func BuildInventory(tc domain.TranslatedContext) []domain.InventoryLine {
	var lines []domain.InventoryLine
	for _, spec := range domain.Schema(tc.Form.Category) {
		if !spec.Shown {
			continue
		}
		text := tc.Form.Field(spec.Key)
		if text == "" {
			continue
		}
		verbatim := tc.RenderVerbatim(spec.Key)
		if !spec.FreeText && !spec.Numeric {
			verbatim = true
		}
		lines = append(lines, domain.InventoryLine{
			Role:     spec.Role,
			Key:      string(spec.Key),
			Text:     text,
			Verbatim: verbatim,
		})
	}
	if line, ok := dropdownLine(tc, domain.DropdownCTA, tc.Form.CTA, "cta"); ok {
		lines = append(lines, line)
	}
	if line, ok := dropdownLine(tc, domain.DropdownBadge, tc.Form.Badge, "badge"); ok {
		lines = append(lines, line)
	}
	return lines
}

func renderInventory(b *strings.Builder, lines []domain.InventoryLine, target domain.Language) {
	for i, line := range lines {
		label := roleLabels[line.Role]
		if label == "" {
			label = line.Role
		}
		instruction := "render exactly as written, character for character"
		if !line.Verbatim {
			instruction = "translate to " + target.Name() + ", then render only the translation"
		}
		fmt.Fprintf(b, "%d. [%s] %q : %s\n", i+1, label, lineBreaks.Replace(line.Text), instruction)
	}
}

// lineBreaks keeps each inventory entry on one line.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
