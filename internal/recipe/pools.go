package recipe

import "poster-server/internal/domain"

func ramadan(s string) map[domain.CampaignType]string {
	return map[domain.CampaignType]string{domain.CampaignRamadan: s}
}

func seasonal(ramadanNote, newYearNote string) map[domain.CampaignType]string {
	return map[domain.CampaignType]string{
		domain.CampaignRamadan: ramadanNote,
		domain.CampaignNewYear: newYearNote,
	}
}

// DefaultPools returns the built-in recipe tables. Each call returns a fresh
// table so callers cannot alter another selector's pools.
func DefaultPools() Pools {
	return Pools{
		domain.CategoryRestaurant: {
			{
				ID: "restaurant-overhead-feast", Name: "Overhead Feast", Category: domain.CategoryRestaurant,
				Directive: "Top-down flat-lay of the dish on a textured table surface, generous negative space at the top for the headline, warm natural window light.",
				CampaignAmendments: seasonal(
					"Set the table for iftar at dusk with dates and a glass of water near the dish.",
					"Add a subtle confetti scatter around the plate and a midnight blue backdrop.",
				),
			},
			{
				ID: "restaurant-steam-closeup", Name: "Steam Close-up", Category: domain.CategoryRestaurant,
				Directive: "Tight macro close-up of the hero dish with visible steam, shallow depth of field, dark moody background that makes the food glow.",
			},
			{
				ID: "restaurant-street-poster", Name: "Street Poster", Category: domain.CategoryRestaurant,
				Directive: "Bold street-food poster: cut-out dish photo, thick sans-serif headline, high-contrast color blocks and a stamped price tag.",
				CampaignAmendments: ramadan("Use lantern-lit evening street ambience behind the cut-out."),
			},
			{
				ID: "restaurant-menu-board", Name: "Chalk Menu Board", Category: domain.CategoryRestaurant,
				Directive: "Chalkboard menu aesthetic with hand-drawn dividers, the dish photo framed like a pinned polaroid.",
			},
			{
				ID: "restaurant-minimal-plate", Name: "Minimal Plate", Category: domain.CategoryRestaurant,
				Directive: "Minimal fine-dining layout: single plate centered on a solid pastel field, thin elegant typography, lots of breathing room.",
				CampaignAmendments: seasonal(
					"Introduce a soft crescent moon shape in the pastel field.",
					"Introduce thin gold sparkle accents around the plate rim.",
				),
			},
		},
		domain.CategoryRetail: {
			{
				ID: "retail-hero-shelf", Name: "Hero Shelf", Category: domain.CategoryRetail,
				Directive: "Product standing on a clean pedestal with a soft shadow, gradient backdrop, price displayed in a rounded pill shape.",
				CampaignAmendments: seasonal(
					"Frame the pedestal with a decorative arch and warm lantern glow.",
					"Add festive ribbon curls and a countdown-clock feel to the composition.",
				),
			},
			{
				ID: "retail-sale-burst", Name: "Sale Burst", Category: domain.CategoryRetail,
				Directive: "Energetic sale layout with a starburst shape behind the offer, diagonal stripes and the product tilted slightly for motion.",
			},
			{
				ID: "retail-lifestyle", Name: "Lifestyle Moment", Category: domain.CategoryRetail,
				Directive: "Place the product in an everyday lifestyle scene that shows it in use, candid framing, text panel on one side.",
			},
			{
				ID: "retail-grid-catalog", Name: "Catalog Grid", Category: domain.CategoryRetail,
				Directive: "Catalog-page look: product on white in a modular grid layout with crisp dividers and a bold header band.",
			},
		},
		domain.CategoryService: {
			{
				ID: "service-trust-badge", Name: "Trust & Expertise", Category: domain.CategoryService,
				Directive: "Professional, reassuring composition with clean geometric shapes, an icon-like illustration of the service and a clear contact strip at the bottom.",
			},
			{
				ID: "service-before-after", Name: "Before / After", Category: domain.CategoryService,
				Directive: "Split composition suggesting transformation, left side muted and right side vivid, headline bridging both halves.",
			},
			{
				ID: "service-friendly-illustration", Name: "Friendly Illustration", Category: domain.CategoryService,
				Directive: "Flat vector illustration style with rounded characters performing the service, cheerful palette, generous margins.",
				CampaignAmendments: seasonal(
					"Dress the scene with crescent and star garlands in the background.",
					"Add fireworks silhouettes in the sky of the illustration.",
				),
			},
			{
				ID: "service-bold-type", Name: "Bold Typography", Category: domain.CategoryService,
				Directive: "Typography-led poster: oversized headline as the main visual, small supporting graphic, strong contrast.",
			},
		},
		domain.CategoryFashion: {
			{
				ID: "fashion-editorial", Name: "Editorial Cover", Category: domain.CategoryFashion,
				Directive: "Magazine-cover editorial layout, the garment dominating the frame, refined serif headline overlapping the image.",
				CampaignAmendments: seasonal(
					"Use rich jewel tones and modest styling cues suited to Eid shopping.",
					"Use metallic accents and a night-out party mood.",
				),
			},
			{
				ID: "fashion-runway", Name: "Runway Light", Category: domain.CategoryFashion,
				Directive: "Runway spotlight on a dark stage, dramatic rim lighting on the product, minimal text in thin uppercase.",
			},
			{
				ID: "fashion-color-block", Name: "Color Block", Category: domain.CategoryFashion,
				Directive: "Playful color-block backdrop in two complementary tones, product cut-out with a hard drop shadow, sticker-style offer tag.",
			},
			{
				ID: "fashion-flatlay", Name: "Outfit Flat-lay", Category: domain.CategoryFashion,
				Directive: "Outfit flat-lay on linen fabric with accessories arranged around the hero piece, airy natural light.",
			},
		},
		domain.CategoryBeauty: {
			{
				ID: "beauty-spa-calm", Name: "Spa Calm", Category: domain.CategoryBeauty,
				Directive: "Calm spa atmosphere with soft focus botanicals, water ripples and pastel tones, elegant light typography.",
				CampaignAmendments: ramadan("Add a gentle golden-hour glow suggesting the evening before Eid."),
			},
			{
				ID: "beauty-glow-portrait", Name: "Glow Portrait", Category: domain.CategoryBeauty,
				Directive: "Radiant beauty close-up lighting with dewy highlights, the treatment or product presented like a luxury item.",
			},
			{
				ID: "beauty-marble-luxe", Name: "Marble Luxe", Category: domain.CategoryBeauty,
				Directive: "White marble surface with gold accents, product arranged with a single flower, premium serif headline.",
				CampaignAmendments: seasonal(
					"Add delicate arabesque line patterns in the gold accents.",
					"Add champagne-colored bokeh in the background.",
				),
			},
			{
				ID: "beauty-fresh-pop", Name: "Fresh Pop", Category: domain.CategoryBeauty,
				Directive: "Fresh, youthful composition with bright fruit or petal elements splashing around the product and rounded shapes.",
			},
		},
	}
}
