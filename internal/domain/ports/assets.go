package ports

import (
	"context"

	"github.com/ersonp/menagerie/internal/domain/entities"
)

// AssetSource enumerates and decodes skin files.
type AssetSource interface {
	// Enumerate lists every file under root recursively, in a stable order.
	Enumerate(ctx context.Context, root string) ([]string, error)

	// Open decodes the file at path into an asset handle.
	Open(ctx context.Context, path string) (entities.AssetHandle, error)
}
