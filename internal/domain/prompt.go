package domain

// ImageRole tags how the generation service must treat an attached image.
type ImageRole string

const (
	ImageRoleInspiration ImageRole = "inspiration"
	ImageRoleProduct     ImageRole = "product"
	ImageRoleLogo        ImageRole = "logo"
)

// ImagePart is an encoded image attached to a prompt.
type ImagePart struct {
	Role     ImageRole
	MimeType string
	Data     []byte
}

// InventoryLine is one literal string the poster may display.
type InventoryLine struct {
	Role string
	// Key is the source field, or "cta"/"badge" for dropdown values.
	Key      string
	Text     string
	Verbatim bool
}

// PromptBundle is the assembled request for the generation service.
type PromptBundle struct {
	SystemPrompt string
	UserPrompt   string
	Inventory    []InventoryLine
	Images       []ImagePart
}
