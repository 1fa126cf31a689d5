package posterprompt

import "poster-server/internal/domain"

type categoryStyle struct {
	Aesthetic string
	Palette   string
}

var categoryStyles = map[domain.Category]categoryStyle{
	domain.CategoryRestaurant: {
		Aesthetic: "Appetizing food photography feel: rich textures, warm light, the dish as the undisputed hero, clear hierarchy between dish name and price.",
		Palette:   "warm tomato red, saffron yellow, charcoal and cream",
	},
	domain.CategoryRetail: {
		Aesthetic: "Clean commercial product advertising: crisp edges, strong focal point on the product, price and offer easy to read at a glance.",
		Palette:   "bright blue, white, sunny yellow accents",
	},
	domain.CategoryService: {
		Aesthetic: "Trustworthy and professional: orderly grid, generous whitespace, simple iconography, contact details clearly grouped.",
		Palette:   "deep teal, slate grey, white and a single coral accent",
	},
	domain.CategoryFashion: {
		Aesthetic: "Editorial fashion look: confident typography, dramatic framing of the garment, premium minimal layout.",
		Palette:   "black, ivory and one seasonal accent color",
	},
	domain.CategoryBeauty: {
		Aesthetic: "Soft, elegant and calm: gentle gradients, delicate serif type, luminous skin-care lighting.",
		Palette:   "blush pink, champagne gold, soft white",
	},
}

var campaignMotifs = map[domain.CampaignType]string{
	domain.CampaignRamadan: "This is a Ramadan campaign. Include tasteful Ramadan motifs such as a crescent moon, lanterns, stars or geometric arabesque patterns, kept secondary to the product.",
	domain.CampaignNewYear: "This is a New Year campaign. Include festive New Year motifs such as fireworks, confetti, sparkles or champagne-gold accents, kept secondary to the product.",
}

const standardMotifRule = "This is a standard, non-seasonal campaign. Do NOT include any seasonal or holiday motifs (no crescents, lanterns, fireworks, confetti, snowflakes, pumpkins or similar), even if a reference image contains them."

var roleLabels = map[string]string{
	"brand":       "business name",
	"headline":    "headline",
	"tagline":     "tagline",
	"description": "description",
	"price":       "price",
	"offer":       "offer",
	"contact":     "contact",
	"cta":         "call to action",
	"badge":       "badge",
}
