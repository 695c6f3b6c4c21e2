package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses a roster from a JSON array.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed creatures.
func (p *JSONParser) Parse(r io.Reader) ([]RawCreature, error) {
	var creatures []RawCreature

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&creatures); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Array index + 1
	for i := range creatures {
		creatures[i].LineNum = i + 1
	}

	return creatures, nil
}
