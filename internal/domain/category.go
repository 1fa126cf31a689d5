package domain

// Category enumerates the business categories a poster can be generated for.
type Category string

const (
	CategoryRestaurant Category = "restaurant"
	CategoryRetail     Category = "retail"
	CategoryService    Category = "service"
	CategoryFashion    Category = "fashion"
	CategoryBeauty     Category = "beauty"
)

// Categories lists every supported category in display order.
var Categories = []Category{
	CategoryRestaurant,
	CategoryRetail,
	CategoryService,
	CategoryFashion,
	CategoryBeauty,
}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	_, ok := categorySchemas[c]
	return ok
}

// FieldKey names a text field of the poster form.
type FieldKey string

const (
	FieldBusinessName    FieldKey = "business_name"
	FieldHeadline        FieldKey = "headline"
	FieldTagline         FieldKey = "tagline"
	FieldDescription     FieldKey = "description"
	FieldPrice           FieldKey = "price"
	FieldOriginalPrice   FieldKey = "original_price"
	FieldOffer           FieldKey = "offer"
	FieldAddress         FieldKey = "address"
	FieldPhone           FieldKey = "phone"
	FieldWebsite         FieldKey = "website"
	FieldBusinessContext FieldKey = "business_context"
)

// FieldSpec describes how a category uses one form field.
type FieldSpec struct {
	Key   FieldKey
	Label string
	// Role is the inventory tag the field is rendered under.
	Role     string
	Required bool
	// Shown marks fields whose value may be rendered on the poster.
	Shown bool
	// FreeText marks fields used for language detection and translation.
	FreeText bool
	// Numeric marks price-like fields whose numerals must survive translation.
	Numeric bool
}

// CampaignType is a seasonal or thematic overlay.
type CampaignType string

const (
	CampaignStandard CampaignType = "standard"
	CampaignRamadan  CampaignType = "ramadan"
	CampaignNewYear  CampaignType = "new_year"
)

// CampaignTypes lists supported campaign types.
var CampaignTypes = []CampaignType{CampaignStandard, CampaignRamadan, CampaignNewYear}

// Valid reports whether the campaign type is known.
func (c CampaignType) Valid() bool {
	for _, known := range CampaignTypes {
		if c == known {
			return true
		}
	}
	return false
}

// Seasonal reports whether the campaign carries seasonal motifs.
func (c CampaignType) Seasonal() bool {
	return c != CampaignStandard && c != ""
}

// Badge values are optional decorative labels shown on the poster.
const (
	BadgeNone       = ""
	BadgeNew        = "new"
	BadgeBestseller = "bestseller"
	BadgeLimited    = "limited"
	BadgeSale       = "sale"
)

// Badges lists the accepted badge identifiers.
var Badges = []string{BadgeNew, BadgeBestseller, BadgeLimited, BadgeSale}

func field(key FieldKey, label, role string, required, shown, freeText, numeric bool) FieldSpec {
	return FieldSpec{Key: key, Label: label, Role: role, Required: required, Shown: shown, FreeText: freeText, Numeric: numeric}
}

var categorySchemas = map[Category][]FieldSpec{
	CategoryRestaurant: {
		field(FieldBusinessName, "Restaurant name", "brand", true, true, true, false),
		field(FieldHeadline, "Dish or menu item", "headline", true, true, true, false),
		field(FieldDescription, "Dish description", "description", false, true, true, false),
		field(FieldPrice, "Price", "price", false, true, false, true),
		field(FieldOffer, "Special offer", "offer", false, true, true, false),
		field(FieldAddress, "Address", "contact", false, true, true, false),
		field(FieldPhone, "Phone", "contact", false, true, false, false),
		field(FieldBusinessContext, "About the restaurant", "context", false, false, true, false),
	},
	CategoryRetail: {
		field(FieldBusinessName, "Store name", "brand", true, true, true, false),
		field(FieldHeadline, "Product name", "headline", true, true, true, false),
		field(FieldTagline, "Tagline", "tagline", false, true, true, false),
		field(FieldPrice, "Price", "price", false, true, false, true),
		field(FieldOriginalPrice, "Original price", "price", false, true, false, true),
		field(FieldOffer, "Discount", "offer", false, true, true, false),
		field(FieldWebsite, "Website", "contact", false, true, false, false),
		field(FieldBusinessContext, "About the store", "context", false, false, true, false),
	},
	CategoryService: {
		field(FieldBusinessName, "Business name", "brand", true, true, true, false),
		field(FieldHeadline, "Service name", "headline", true, true, true, false),
		field(FieldDescription, "Key benefits", "description", false, true, true, false),
		field(FieldPrice, "Starting price", "price", false, true, false, true),
		field(FieldPhone, "Phone", "contact", false, true, false, false),
		field(FieldWebsite, "Website", "contact", false, true, false, false),
		field(FieldBusinessContext, "About the business", "context", false, false, true, false),
	},
	CategoryFashion: {
		field(FieldBusinessName, "Brand name", "brand", true, true, true, false),
		field(FieldHeadline, "Collection name", "headline", true, true, true, false),
		field(FieldTagline, "Tagline", "tagline", false, true, true, false),
		field(FieldPrice, "Price", "price", false, true, false, true),
		field(FieldOffer, "Discount", "offer", false, true, true, false),
		field(FieldWebsite, "Website", "contact", false, true, false, false),
		field(FieldBusinessContext, "About the brand", "context", false, false, true, false),
	},
	CategoryBeauty: {
		field(FieldBusinessName, "Salon or clinic name", "brand", true, true, true, false),
		field(FieldHeadline, "Treatment name", "headline", true, true, true, false),
		field(FieldDescription, "Benefits", "description", false, true, true, false),
		field(FieldPrice, "Price", "price", false, true, false, true),
		field(FieldOffer, "Special offer", "offer", false, true, true, false),
		field(FieldPhone, "Phone", "contact", false, true, false, false),
		field(FieldBusinessContext, "About the salon", "context", false, false, true, false),
	},
}

var categoryCTAs = map[Category][]string{
	CategoryRestaurant: {"order_now", "reserve_table", "visit_us", "call_now"},
	CategoryRetail:     {"shop_now", "visit_store", "order_online"},
	CategoryService:    {"book_now", "call_now", "get_quote"},
	CategoryFashion:    {"shop_now", "new_collection", "visit_store"},
	CategoryBeauty:     {"book_now", "call_now", "visit_us"},
}

// Schema returns the field schema of a category. Unknown categories yield nil.
func Schema(c Category) []FieldSpec {
	specs := categorySchemas[c]
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out
}

// FieldSpecFor looks up the spec of one field for a category.
func FieldSpecFor(c Category, key FieldKey) (FieldSpec, bool) {
	for _, spec := range categorySchemas[c] {
		if spec.Key == key {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// CTAOptions returns the call-to-action identifiers accepted for a category.
func CTAOptions(c Category) []string {
	opts := categoryCTAs[c]
	out := make([]string, len(opts))
	copy(out, opts)
	return out
}
