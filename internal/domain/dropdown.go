package domain

// Dropdown names used as keys of TranslatedContext.DropdownOverrides.
const (
	DropdownCTA   = "cta"
	DropdownBadge = "badge"
)

var ctaLabels = map[string]map[Language]string{
	"order_now":      {LanguageEnglish: "Order now", LanguageArabic: "اطلب الآن", LanguageHebrew: "הזמינו עכשיו"},
	"reserve_table":  {LanguageEnglish: "Reserve a table", LanguageArabic: "احجز طاولتك", LanguageHebrew: "הזמינו שולחן"},
	"visit_us":       {LanguageEnglish: "Visit us", LanguageArabic: "تفضلوا بزيارتنا", LanguageHebrew: "בקרו אותנו"},
	"call_now":       {LanguageEnglish: "Call now", LanguageArabic: "اتصل الآن", LanguageHebrew: "התקשרו עכשיו"},
	"shop_now":       {LanguageEnglish: "Shop now", LanguageArabic: "تسوق الآن", LanguageHebrew: "קנו עכשיו"},
	"visit_store":    {LanguageEnglish: "Visit our store", LanguageArabic: "زوروا متجرنا", LanguageHebrew: "בקרו בחנות"},
	"order_online":   {LanguageEnglish: "Order online", LanguageArabic: "اطلب أونلاين", LanguageHebrew: "הזמינו אונליין"},
	"book_now":       {LanguageEnglish: "Book now", LanguageArabic: "احجز الآن", LanguageHebrew: "קבעו תור"},
	"get_quote":      {LanguageEnglish: "Get a quote", LanguageArabic: "اطلب عرض سعر", LanguageHebrew: "קבלו הצעת מחיר"},
	"new_collection": {LanguageEnglish: "Discover the new collection", LanguageArabic: "اكتشف التشكيلة الجديدة", LanguageHebrew: "גלו את הקולקציה החדשה"},
}

var badgeLabels = map[string]map[Language]string{
	BadgeNew:        {LanguageEnglish: "New", LanguageArabic: "جديد", LanguageHebrew: "חדש"},
	BadgeBestseller: {LanguageEnglish: "Bestseller", LanguageArabic: "الأكثر مبيعاً", LanguageHebrew: "רב מכר"},
	BadgeLimited:    {LanguageEnglish: "Limited offer", LanguageArabic: "عرض محدود", LanguageHebrew: "מבצע מוגבל"},
	BadgeSale:       {LanguageEnglish: "Sale", LanguageArabic: "تخفيضات", LanguageHebrew: "מבצע"},
}

// DropdownTable returns the static display text of a dropdown option per
// language. Unknown options yield nil.
func DropdownTable(dropdown, id string) map[Language]string {
	switch dropdown {
	case DropdownCTA:
		return ctaLabels[id]
	case DropdownBadge:
		return badgeLabels[id]
	}
	return nil
}

// DropdownLabel returns the English display text of a dropdown option.
func DropdownLabel(dropdown, id string) string {
	return DropdownTable(dropdown, id)[LanguageEnglish]
}
