package entities

// Attribute field names stored in the host's per-creature string bag.
// Stored keys are prefixed with the configured namespace.
const (
	FieldShortID  = "short-id"
	FieldSkinID   = "skin-id"
	FieldEditLock = "edit-lock"
	FieldUnowned  = "unowned"

	// World scope fields.
	FieldCreatureCount = "creature-count"
)

// WorldRef is the attribute scope used for per-world fields.
const WorldRef = "@world"

// NoSkin is the stored skin-id of a creature without a custom skin.
const NoSkin = "0"
