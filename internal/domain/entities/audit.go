package entities

import "time"

// Audit actions recorded for operator mutations.
const (
	ActionSetSkin   = "set_skin"
	ActionRandomize = "randomize_skin"
	ActionRename    = "rename"
	ActionClear     = "clear_properties"
	ActionReassign  = "reassign_id"
	ActionUnlock    = "force_unlock"
)

// AuditEntry represents a logged action against a creature.
type AuditEntry struct {
	ID          int64          `json:"id"`
	Action      string         `json:"action"`
	CreatureRef string         `json:"creature_ref,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
