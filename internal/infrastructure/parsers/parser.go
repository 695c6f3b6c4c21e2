// Package parsers provides parsers for importing creature rosters from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawCreature represents a roster entry parsed from an external source before validation.
type RawCreature struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Rider    string `json:"rider,omitempty"`
	Juvenile bool   `json:"juvenile,omitempty"`
	Sheared  bool   `json:"sheared,omitempty"`
	Coop     bool   `json:"coop,omitempty"`
	// ShortID and SkinID are written by export for reference; import gives
	// every added creature fresh fields.
	ShortID int `json:"short_id,omitempty"`
	SkinID  int `json:"skin_id,omitempty"`
	LineNum int `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing rosters from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawCreature, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}
