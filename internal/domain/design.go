package domain

// GeneratedDesign is a finished poster. It only exists for successful
// generations and is never partially populated.
type GeneratedDesign struct {
	Name     string `json:"name"`
	DataURI  string `json:"data_uri"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Model    string `json:"model"`
	RecipeID string `json:"recipe_id,omitempty"`
}
