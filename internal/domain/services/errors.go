package services

import "errors"

// Failures reported by the skin and identity operations. They are never fatal
// and leave the creature untouched.
var (
	ErrSkinNotFound     = errors.New("skin not found")
	ErrNoSkinsAvailable = errors.New("no skins available")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrLocked           = errors.New("currently being edited")
	ErrCatalogNotReady  = errors.New("skin catalog not ready")
	ErrCreatureNotFound = errors.New("creature not found")
)

// IsLocked reports whether err is an edit lock denial.
func IsLocked(err error) bool {
	return errors.Is(err, ErrLocked)
}
