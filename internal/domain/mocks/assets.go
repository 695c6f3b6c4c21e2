package mocks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ersonp/menagerie/internal/domain/entities"
)

// AssetSource is an in-memory ports.AssetSource over a fixed file list.
type AssetSource struct {
	Files []string
	// Broken lists base names whose decode fails.
	Broken map[string]bool
	// Opened records every decoded path in order.
	Opened []string
	Err    error
}

// NewAssetSource creates a source serving the given paths in the given order.
func NewAssetSource(files ...string) *AssetSource {
	return &AssetSource{
		Files:  files,
		Broken: make(map[string]bool),
	}
}

// Enumerate returns the configured files under root.
func (m *AssetSource) Enumerate(_ context.Context, root string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		result = append(result, filepath.Join(root, f))
	}
	return result, nil
}

// Open returns a handle for path, or an error for broken files.
func (m *AssetSource) Open(_ context.Context, path string) (entities.AssetHandle, error) {
	if m.Broken[filepath.Base(path)] {
		return entities.AssetHandle{}, fmt.Errorf("decoding %s: corrupt image", path)
	}
	m.Opened = append(m.Opened, path)
	return entities.AssetHandle{
		Path:   path,
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Width:  32,
		Height: 32,
	}, nil
}
