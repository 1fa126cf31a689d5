// Package posterprompt turns a prepared generation context into the system
// and user prompts sent to the image model.
package posterprompt

import (
	"fmt"
	"sort"
	"strings"

	"poster-server/internal/domain"
	"poster-server/internal/recipe"
)

// Input is what the assembler needs for one poster.
type Input struct {
	Context domain.TranslatedContext
	// Recipe is nil for plain generation without creative direction.
	Recipe *domain.Recipe
	Format domain.FormatSpec
	Images []domain.ImagePart
}

var imageOrder = map[domain.ImageRole]int{
	domain.ImageRoleInspiration: 0,
	domain.ImageRoleProduct:     1,
	domain.ImageRoleLogo:        2,
}

// Assemble builds the prompt bundle. Images are ordered inspiration, product,
// logo, matching the numbering used in the user prompt.
func Assemble(in Input) domain.PromptBundle {
	images := make([]domain.ImagePart, len(in.Images))
	copy(images, in.Images)
	sort.SliceStable(images, func(i, j int) bool {
		return imageOrder[images[i].Role] < imageOrder[images[j].Role]
	})

	inventory := BuildInventory(in.Context)
	return domain.PromptBundle{
		SystemPrompt: systemPrompt(in, images),
		UserPrompt:   userPrompt(in, inventory, images),
		Inventory:    inventory,
		Images:       images,
	}
}

func hasRole(images []domain.ImagePart, role domain.ImageRole) bool {
	for _, img := range images {
		if img.Role == role {
			return true
		}
	}
	return false
}

func systemPrompt(in Input, images []domain.ImagePart) string {
	tc := in.Context
	style := categoryStyles[tc.Form.Category]
	var b strings.Builder

	fmt.Fprintf(&b, "You design a single finished marketing poster for a %s business.\n\n", tc.Form.Category)

	b.WriteString("STYLE\n")
	b.WriteString(style.Aesthetic)
	b.WriteString("\n\n")

	b.WriteString("PALETTE\n")
	b.WriteString(paletteRule(tc.Form.BrandKit, hasRole(images, domain.ImageRoleLogo), style.Palette))
	b.WriteString("\n\n")

	b.WriteString("CAMPAIGN\n")
	if motif, ok := campaignMotifs[tc.Form.CampaignType]; ok {
		b.WriteString(motif)
	} else {
		b.WriteString(standardMotifRule)
	}
	b.WriteString("\n\n")

	b.WriteString("TEXT RULES\n")
	fmt.Fprintf(&b, "- All poster text is in %s.", tc.TargetLanguage.Name())
	if tc.TargetLanguage.RightToLeft() {
		b.WriteString(" Set it right-to-left with correct letter shaping and joining; never mirror or reverse the letters.")
	}
	b.WriteString("\n")
	b.WriteString("- Render ONLY the strings listed in the EXACT TEXT INVENTORY of the user message, each exactly once.\n")
	b.WriteString("- Do not invent slogans, labels, hashtags, prices, dates, watermarks or decorative lettering. Text in reference images must not be copied.\n")
	b.WriteString("- Spelling, digits and punctuation of inventory strings must match exactly.\n")
	b.WriteString("- Business context and design notes are background information and must never appear as text.\n\n")

	b.WriteString("IMAGE RULES\n")
	if hasRole(images, domain.ImageRoleProduct) {
		b.WriteString("- Place the supplied product photo exactly once, unmodified: do not redraw, recolor, crop away or duplicate the product.\n")
	}
	if hasRole(images, domain.ImageRoleLogo) {
		b.WriteString("- Place the supplied logo exactly once, unmodified, at a legible size; do not redraw or recolor it.\n")
	}
	if hasRole(images, domain.ImageRoleInspiration) {
		b.WriteString("- Inspiration images guide mood, layout and style only; do not reproduce their products, people or text.\n")
	}
	fmt.Fprintf(&b, "- Compose for a %s canvas (%dx%d px) and fill it edge to edge.\n", in.Format.AspectRatio, in.Format.Width, in.Format.Height)
	b.WriteString("- Return exactly one image.")
	return b.String()
}

func paletteRule(brandKit []string, hasLogo bool, categoryPalette string) string {
	if len(brandKit) > 0 {
		return fmt.Sprintf("Use the brand kit colors %s as the dominant palette; they override any category default.", strings.Join(brandKit, ", "))
	}
	if hasLogo {
		return fmt.Sprintf("Derive the palette from the colors of the supplied logo. Only if the logo is monochrome or unreadable, fall back to %s.", categoryPalette)
	}
	return fmt.Sprintf("Use a palette of %s.", categoryPalette)
}

func userPrompt(in Input, inventory []domain.InventoryLine, images []domain.ImagePart) string {
	tc := in.Context
	var b strings.Builder

	b.WriteString("BUSINESS CONTEXT (for understanding only; never render this text)\n")
	fmt.Fprintf(&b, "Category: %s.", tc.Form.Category)
	for _, spec := range domain.Schema(tc.Form.Category) {
		if spec.Shown {
			continue
		}
		if v := tc.Form.Field(spec.Key); v != "" {
			fmt.Fprintf(&b, " %s: %s.", spec.Label, v)
		}
	}
	b.WriteString("\n\n")

	if in.Recipe != nil {
		if direction := recipe.FormatForPrompt(*in.Recipe, tc.Form.CampaignType); direction != "" {
			b.WriteString("CREATIVE DIRECTION\n")
			b.WriteString(direction)
			b.WriteString("\n\n")
		}
	}

	if brief := strings.TrimSpace(tc.DesignBrief); brief != "" {
		b.WriteString("DESIGN NOTES (from the supplied images)\n")
		b.WriteString(brief)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "EXACT TEXT INVENTORY (target language: %s)\n", tc.TargetLanguage.Name())
	if len(inventory) == 0 {
		b.WriteString("(none: the poster carries no text)\n")
	}
	renderInventory(&b, inventory, tc.TargetLanguage)

	if len(images) > 0 {
		b.WriteString("\nATTACHED IMAGES\n")
		for i, img := range images {
			fmt.Fprintf(&b, "Image %d: %s\n", i+1, describeImage(img.Role))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeImage(role domain.ImageRole) string {
	switch role {
	case domain.ImageRoleProduct:
		return "product photo, place once, unmodified"
	case domain.ImageRoleLogo:
		return "logo, place once, unmodified"
	default:
		return "inspiration reference for style only"
	}
}
