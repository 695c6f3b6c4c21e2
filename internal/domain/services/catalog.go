package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/ports"
)

// DefaultExtensions are the skin file extensions accepted when none are configured.
var DefaultExtensions = []string{".png", ".xnb"}

// Bucket names the reason a skin file was not loaded.
type Bucket string

// Buckets, in the order the filename checks run.
const (
	BucketInvalidExtension Bucket = "invalid_extension"
	BucketUnknownType      Bucket = "unknown_type"
	BucketMissingID        Bucket = "missing_id"
	BucketNonNumericID     Bucket = "non_numeric_id"
	BucketIDOutOfRange     Bucket = "id_out_of_range"
	BucketUndecodable      Bucket = "undecodable"
	BucketDuplicate        Bucket = "duplicate"
)

// Buckets lists every bucket in reporting order.
var Buckets = []Bucket{
	BucketInvalidExtension,
	BucketUnknownType,
	BucketMissingID,
	BucketNonNumericID,
	BucketIDOutOfRange,
	BucketUndecodable,
	BucketDuplicate,
}

// Diagnostics summarizes a catalog load. All lists are sorted.
type Diagnostics struct {
	Rejected map[Bucket][]string
	// Incomplete holds the skin IDs pruned per type for lacking a variant partner.
	Incomplete map[string][]int
	// Skinless lists registered types that ended up with no skins.
	Skinless []string
	Loaded   int
}

// Count returns the number of files rejected into a bucket.
func (d *Diagnostics) Count(b Bucket) int {
	return len(d.Rejected[b])
}

// Clean reports whether nothing was rejected or pruned.
func (d *Diagnostics) Clean() bool {
	for _, files := range d.Rejected {
		if len(files) > 0 {
			return false
		}
	}
	return len(d.Incomplete) == 0
}

// SkinCatalog is the immutable type-indexed skin index.
type SkinCatalog struct {
	skins map[string]map[int]entities.SkinRecord
	ids   map[string][]int
	types []string
}

// Has reports whether (typeKey, id) is loaded.
func (c *SkinCatalog) Has(typeKey string, id int) bool {
	_, ok := c.skins[typeKey][id]
	return ok
}

// Get returns the record at (typeKey, id).
func (c *SkinCatalog) Get(typeKey string, id int) (entities.SkinRecord, bool) {
	rec, ok := c.skins[typeKey][id]
	return rec, ok
}

// IDs returns the sorted skin IDs of a type. The slice must not be modified.
func (c *SkinCatalog) IDs(typeKey string) []int {
	return c.ids[typeKey]
}

// Count returns the number of skins of a type.
func (c *SkinCatalog) Count(typeKey string) int {
	return len(c.skins[typeKey])
}

// Types returns the sorted keys that have at least one skin.
func (c *SkinCatalog) Types() []string {
	return c.types
}

// Records returns the skins of a type ordered by ID.
func (c *SkinCatalog) Records(typeKey string) []entities.SkinRecord {
	ids := c.ids[typeKey]
	records := make([]entities.SkinRecord, len(ids))
	for i, id := range ids {
		records[i] = c.skins[typeKey][id]
	}
	return records
}

// ParseSkinFilename runs the ordered filename checks on a path of the form
// <type>_<id>.<ext>. It returns the first failing bucket, or "" with the
// parsed key and ID.
func ParseSkinFilename(path string, extensions map[string]bool, registry *TypeRegistry) (string, int, Bucket) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	parts := strings.SplitN(name, "_", 2)
	typeKey := entities.SanitizeTypeKey(parts[0])

	if !extensions[strings.ToLower(ext)] {
		return "", 0, BucketInvalidExtension
	}
	if !registry.IsRegistered(typeKey) {
		return "", 0, BucketUnknownType
	}
	if len(parts) != 2 {
		return "", 0, BucketMissingID
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, BucketNonNumericID
	}
	if id < 1 {
		return "", 0, BucketIDOutOfRange
	}
	return typeKey, id, ""
}

// CatalogBuilder accumulates skins for a single load.
type CatalogBuilder struct {
	registry   *TypeRegistry
	source     ports.AssetSource
	extensions map[string]bool
	logger     *slog.Logger

	skins    map[string]map[int]entities.SkinRecord
	rejected map[Bucket][]string
	enforced bool
}

// NewCatalogBuilder creates a builder. Extensions are matched case-insensitively.
func NewCatalogBuilder(registry *TypeRegistry, source ports.AssetSource, extensions []string, logger *slog.Logger) *CatalogBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}
	return &CatalogBuilder{
		registry:   registry,
		source:     source,
		extensions: allowed,
		logger:     logger,
		skins:      make(map[string]map[int]entities.SkinRecord),
		rejected:   make(map[Bucket][]string),
	}
}

// Ingest validates one file and inserts it. It returns the bucket the file
// was rejected into, or "" when the skin was added.
func (b *CatalogBuilder) Ingest(ctx context.Context, path string) Bucket {
	fileName := filepath.Base(path)

	typeKey, id, bucket := ParseSkinFilename(path, b.extensions, b.registry)
	if bucket != "" {
		b.reject(bucket, fileName)
		return bucket
	}

	if _, exists := b.skins[typeKey][id]; exists {
		b.logger.Debug("ignored skin with duplicate type and id", "file", fileName, "type", typeKey, "id", id)
		b.reject(BucketDuplicate, fileName)
		return BucketDuplicate
	}

	asset, err := b.source.Open(ctx, path)
	if err != nil {
		b.logger.Debug("skin failed to decode", "file", fileName, "error", err)
		b.reject(BucketUndecodable, fileName)
		return BucketUndecodable
	}

	if b.skins[typeKey] == nil {
		b.skins[typeKey] = make(map[int]entities.SkinRecord)
	}
	b.skins[typeKey][id] = entities.SkinRecord{TypeKey: typeKey, ID: id, Asset: asset}
	return ""
}

func (b *CatalogBuilder) reject(bucket Bucket, fileName string) {
	b.rejected[bucket] = append(b.rejected[bucket], fileName)
}

// EnforceCompleteSets prunes skins that lack their variant partner, so every
// registered juvenile or seasonal set carries exactly the IDs of its base set.
// A set with no files counts as empty: a base whose variant has no skins loses
// all of its own. It returns the removed IDs per type, sorted. Only the first
// call prunes.
func (b *CatalogBuilder) EnforceCompleteSets() map[string][]int {
	removed := make(map[string][]int)
	if b.enforced {
		return removed
	}
	b.enforced = true

	var derived []entities.CreatureType
	for _, ct := range b.registry.Types() {
		if ct.IsDerived() {
			derived = append(derived, ct)
		}
	}

	// Removing from a base set can break a sibling variant that was already
	// checked, so repeat until a pass removes nothing.
	for {
		pass := b.incompletePass(derived)
		if len(pass) == 0 {
			break
		}
		for key, ids := range pass {
			for id := range ids {
				delete(b.skins[key], id)
				removed[key] = append(removed[key], id)
			}
			if len(b.skins[key]) == 0 {
				delete(b.skins, key)
			}
		}
	}

	for key := range removed {
		sort.Ints(removed[key])
	}
	return removed
}

func (b *CatalogBuilder) incompletePass(derived []entities.CreatureType) map[string]map[int]bool {
	marked := make(map[string]map[int]bool)
	mark := func(key string, id int) {
		if marked[key] == nil {
			marked[key] = make(map[int]bool)
		}
		marked[key][id] = true
	}

	for _, ct := range derived {
		variant := b.skins[ct.Key]
		baseSet := b.skins[ct.DerivedFrom]

		for id := range variant {
			if _, ok := baseSet[id]; !ok {
				mark(ct.Key, id)
			}
		}
		for id := range baseSet {
			if _, ok := variant[id]; !ok {
				mark(ct.DerivedFrom, id)
			}
		}
	}
	return marked
}

// Build freezes the accumulated skins into a catalog.
func (b *CatalogBuilder) Build() *SkinCatalog {
	c := &SkinCatalog{
		skins: make(map[string]map[int]entities.SkinRecord, len(b.skins)),
		ids:   make(map[string][]int, len(b.skins)),
	}
	for key, set := range b.skins {
		if len(set) == 0 {
			continue
		}
		frozen := make(map[int]entities.SkinRecord, len(set))
		ids := make([]int, 0, len(set))
		for id, rec := range set {
			frozen[id] = rec
			ids = append(ids, id)
		}
		sort.Ints(ids)
		c.skins[key] = frozen
		c.ids[key] = ids
		c.types = append(c.types, key)
	}
	sort.Strings(c.types)
	return c
}

// Rejected returns the rejected file names per bucket, sorted.
func (b *CatalogBuilder) Rejected() map[Bucket][]string {
	result := make(map[Bucket][]string, len(b.rejected))
	for bucket, files := range b.rejected {
		sorted := append([]string(nil), files...)
		sort.Strings(sorted)
		result[bucket] = sorted
	}
	return result
}

// BuildCatalog scans root, validates every file, prunes incomplete sets and
// returns the frozen catalog with its diagnostics.
func BuildCatalog(ctx context.Context, registry *TypeRegistry, source ports.AssetSource, extensions []string, root string, logger *slog.Logger) (*SkinCatalog, *Diagnostics, error) {
	paths, err := source.Enumerate(ctx, root)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerating skins: %w", err)
	}

	builder := NewCatalogBuilder(registry, source, extensions, logger)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		builder.Ingest(ctx, path)
	}

	incomplete := builder.EnforceCompleteSets()
	catalog := builder.Build()

	diag := &Diagnostics{
		Rejected:   builder.Rejected(),
		Incomplete: incomplete,
	}
	for _, key := range registry.List() {
		if catalog.Count(key) == 0 {
			diag.Skinless = append(diag.Skinless, key)
		}
		diag.Loaded += catalog.Count(key)
	}
	sort.Strings(diag.Skinless)
	return catalog, diag, nil
}

// SkinAssetCatalog owns the session's skin catalog. The catalog is absent
// until LoadAll completes, then read-only.
type SkinAssetCatalog struct {
	registry   *TypeRegistry
	source     ports.AssetSource
	extensions []string
	logger     *slog.Logger

	current atomic.Pointer[SkinCatalog]
	mu      sync.Mutex
	diag    *Diagnostics
}

// NewSkinAssetCatalog creates a not-yet-ready catalog service.
func NewSkinAssetCatalog(registry *TypeRegistry, source ports.AssetSource, extensions []string, logger *slog.Logger) *SkinAssetCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &SkinAssetCatalog{
		registry:   registry,
		source:     source,
		extensions: extensions,
		logger:     logger,
	}
}

// LoadAll builds and publishes the catalog. It runs once per session.
func (s *SkinAssetCatalog) LoadAll(ctx context.Context, root string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Load() != nil {
		return errors.New("skin catalog already loaded")
	}

	catalog, diag, err := BuildCatalog(ctx, s.registry, s.source, s.extensions, root, s.logger)
	if err != nil {
		return err
	}

	s.report(catalog, diag)
	s.diag = diag
	s.current.Store(catalog)
	return nil
}

// Ready reports whether the catalog has been published.
func (s *SkinAssetCatalog) Ready() bool {
	return s.current.Load() != nil
}

// Catalog returns the published catalog and whether it is ready.
func (s *SkinAssetCatalog) Catalog() (*SkinCatalog, bool) {
	c := s.current.Load()
	return c, c != nil
}

// Diagnostics returns the diagnostics of the last load, nil before LoadAll.
func (s *SkinAssetCatalog) Diagnostics() *Diagnostics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diag
}

func (s *SkinAssetCatalog) report(catalog *SkinCatalog, diag *Diagnostics) {
	messages := map[Bucket]string{
		BucketInvalidExtension: "ignored skins with invalid extension",
		BucketUnknownType:      "ignored skins not named after a registered creature type",
		BucketMissingID:        "ignored skins with no skin id",
		BucketNonNumericID:     "ignored skins with an id that is not a number",
		BucketIDOutOfRange:     "ignored skins with an id below 1",
		BucketUndecodable:      "ignored skins that failed to decode",
	}
	for _, bucket := range Buckets {
		files := diag.Rejected[bucket]
		if len(files) == 0 || bucket == BucketDuplicate {
			continue
		}
		s.logger.Warn(messages[bucket], "files", strings.Join(files, ", "))
	}
	if diag.Count(BucketInvalidExtension) > 0 {
		s.logger.Debug("accepted skin extensions", "extensions", strings.Join(s.extensions, ", "))
	}

	for _, key := range sortedKeys(diag.Incomplete) {
		s.logger.Warn("incomplete skin set not loaded (missing paired juvenile, seasonal, or adult skin)",
			"type", key, "ids", joinInts(diag.Incomplete[key]))
	}
	if len(diag.Skinless) > 0 {
		s.logger.Debug("creature types with no skins", "types", strings.Join(diag.Skinless, ", "))
	}
	for _, key := range catalog.Types() {
		s.logger.Debug("skins loaded", "type", key, "count", catalog.Count(key), "ids", joinInts(catalog.IDs(key)))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
