// Package filesystem provides an AssetSource reading skins from a directory tree.
package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png" // PNG skins
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ersonp/menagerie/internal/domain/entities"
)

// Decoder reads the header of a skin file into an asset handle.
type Decoder func(r io.Reader) (entities.AssetHandle, error)

// xnbMagic starts every compiled XNB asset.
var xnbMagic = []byte("XNB")

// Source implements ports.AssetSource over the local filesystem.
type Source struct {
	decoders map[string]Decoder
}

// NewSource creates a source decoding PNG images and XNB containers.
func NewSource() *Source {
	return &Source{
		decoders: map[string]Decoder{
			".png": decodeImage,
			".xnb": decodeXNB,
		},
	}
}

// Register adds or replaces the decoder for an extension.
func (s *Source) Register(ext string, d Decoder) {
	s.decoders[strings.ToLower(ext)] = d
}

// Enumerate lists every regular file under root, sorted by path.
func (s *Source) Enumerate(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading skins directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("skins path is not a directory: %s", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking skins directory: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Open decodes the file at path with the decoder for its extension.
// Extensions without a decoder only need to be readable.
func (s *Source) Open(_ context.Context, path string) (entities.AssetHandle, error) {
	f, err := os.Open(path)
	if err != nil {
		return entities.AssetHandle{}, fmt.Errorf("opening skin: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := s.decoders[ext]
	if !ok {
		decode = decodeOpaque
	}

	handle, err := decode(f)
	if err != nil {
		return entities.AssetHandle{}, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	handle.Path = path
	if handle.Format == "" {
		handle.Format = strings.TrimPrefix(ext, ".")
	}
	return handle, nil
}

func decodeImage(r io.Reader) (entities.AssetHandle, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return entities.AssetHandle{}, err
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return entities.AssetHandle{}, errors.New("empty image")
	}
	return entities.AssetHandle{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func decodeXNB(r io.Reader) (entities.AssetHandle, error) {
	header := make([]byte, len(xnbMagic))
	if _, err := io.ReadFull(r, header); err != nil {
		return entities.AssetHandle{}, fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(header, xnbMagic) {
		return entities.AssetHandle{}, errors.New("not an XNB file")
	}
	return entities.AssetHandle{Format: "xnb"}, nil
}

func decodeOpaque(r io.Reader) (entities.AssetHandle, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return entities.AssetHandle{}, errors.New("empty file")
	}
	return entities.AssetHandle{}, nil
}
