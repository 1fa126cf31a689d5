package domain

import "time"

// PosterAsset is a stored poster image.
type PosterAsset struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	JobID        string       `json:"job_id,omitempty"`
	VariantIndex int          `json:"variant_index"`
	RecipeID     string       `json:"recipe_id,omitempty"`
	Name         string       `json:"name"`
	StorageKey   string       `json:"storage_key"`
	MimeType     string       `json:"mime"`
	Bytes        int64        `json:"bytes"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	Format       OutputFormat `json:"output_format"`
	Language     Language     `json:"language"`
	Model        string       `json:"model"`
	CreatedAt    time.Time    `json:"created_at"`
}
