package domain

// Recipe is a reusable creative directive biasing one generation's visual style.
// Recipes are immutable values shared read-only between generations.
type Recipe struct {
	ID                 string
	Name               string
	Category           Category
	Directive          string
	CampaignAmendments map[CampaignType]string
}

// Amendment returns the campaign-specific addition to the directive, if any.
func (r Recipe) Amendment(c CampaignType) string {
	if r.CampaignAmendments == nil {
		return ""
	}
	return r.CampaignAmendments[c]
}
