package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/ports"
	"github.com/ersonp/menagerie/internal/domain/services"
)

// CatalogHandler reports on the loaded skin catalog and validates skin folders.
type CatalogHandler struct {
	registry   *services.TypeRegistry
	catalog    *services.SkinAssetCatalog
	source     ports.AssetSource
	extensions []string
	logger     *slog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(registry *services.TypeRegistry, catalog *services.SkinAssetCatalog, source ports.AssetSource, extensions []string, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{
		registry:   registry,
		catalog:    catalog,
		source:     source,
		extensions: extensions,
		logger:     logger,
	}
}

// TypeSkins is the loaded skin set of one type.
type TypeSkins struct {
	TypeKey string
	Skins   []entities.SkinRecord
}

// HandleSkins returns the loaded skins of one type, or of every type with
// skins when typeArg is empty.
func (h *CatalogHandler) HandleSkins(typeArg string) ([]TypeSkins, error) {
	catalog, ok := h.catalog.Catalog()
	if !ok {
		return nil, services.ErrCatalogNotReady
	}

	if typeArg != "" {
		key := entities.SanitizeTypeKey(typeArg)
		if !h.registry.IsRegistered(key) {
			return nil, fmt.Errorf("unknown creature type %q", typeArg)
		}
		return []TypeSkins{{TypeKey: key, Skins: catalog.Records(key)}}, nil
	}

	var result []TypeSkins
	for _, key := range h.registry.List() {
		if records := catalog.Records(key); len(records) > 0 {
			result = append(result, TypeSkins{TypeKey: key, Skins: records})
		}
	}
	return result, nil
}

// HandleCheck scans a skin folder without touching the live catalog and
// returns what a load would accept and reject.
func (h *CatalogHandler) HandleCheck(ctx context.Context, root string) (*services.SkinCatalog, *services.Diagnostics, error) {
	return services.BuildCatalog(ctx, h.registry, h.source, h.extensions, root, h.logger)
}

// HandleReload rescans root into the live catalog.
func (h *CatalogHandler) HandleReload(ctx context.Context, root string) (*services.Diagnostics, error) {
	if err := h.catalog.LoadAll(ctx, root); err != nil {
		return nil, err
	}
	return h.catalog.Diagnostics(), nil
}
