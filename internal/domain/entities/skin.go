package entities

// AssetHandle references a decoded skin image. The core never looks inside.
type AssetHandle struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// SkinRecord is one loaded skin for a creature type.
type SkinRecord struct {
	TypeKey string      `json:"type"`
	ID      int         `json:"id"`
	Asset   AssetHandle `json:"asset"`
}
