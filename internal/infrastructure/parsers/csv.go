package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVParser parses a roster from CSV.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed creatures.
// Expected columns: name, type, and optionally rider, juvenile, sheared, coop.
func (p *CSVParser) Parse(r io.Reader) ([]RawCreature, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range []string{"name", "type"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawCreatures.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawCreature, error) {
	var creatures []RawCreature
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		c, err := p.parseRecord(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		creatures = append(creatures, c)
	}

	return creatures, nil
}

// parseRecord converts a CSV record to a RawCreature.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (RawCreature, error) {
	c := RawCreature{
		Name:    getColumn(record, colIndex, "name"),
		Type:    getColumn(record, colIndex, "type"),
		Rider:   getColumn(record, colIndex, "rider"),
		LineNum: lineNum,
	}

	flags := []struct {
		col string
		dst *bool
	}{
		{"juvenile", &c.Juvenile},
		{"sheared", &c.Sheared},
		{"coop", &c.Coop},
	}
	for _, f := range flags {
		v := getColumn(record, colIndex, f.col)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return RawCreature{}, fmt.Errorf("line %d: invalid %s value %q: %w", lineNum, f.col, v, err)
		}
		*f.dst = b
	}

	return c, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
