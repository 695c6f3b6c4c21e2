package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/mocks"
)

func testRegistry() *TypeRegistry {
	r := NewTypeRegistry(nil, discardLogger())
	r.Register("cow", entities.ClassLivestock, true, false)
	r.Register("pig", entities.ClassLivestock, false, false)
	r.Register("sheep", entities.ClassLivestock, true, true)
	r.Register("cat", entities.ClassPet, false, false)
	return r
}

func TestParseSkinFilename(t *testing.T) {
	exts := map[string]bool{".png": true, ".xnb": true}
	tests := []struct {
		path       string
		wantKey    string
		wantID     int
		wantBucket Bucket
	}{
		{"skins/cow_3.png", "cow", 3, ""},
		{"skins/nested/Cow_12.PNG", "cow", 12, ""},
		{"babycow_1.xnb", "babycow", 1, ""},
		{"cow_1.gif", "", 0, BucketInvalidExtension},
		{"readme", "", 0, BucketInvalidExtension},
		{"dragon_1.png", "", 0, BucketUnknownType},
		{"pig.png", "", 0, BucketMissingID},
		{"cow_x.png", "", 0, BucketNonNumericID},
		{"cow_1_2.png", "", 0, BucketNonNumericID},
		{"cow_.png", "", 0, BucketNonNumericID},
		{"cow_0.png", "", 0, BucketIDOutOfRange},
		{"cow_-4.png", "", 0, BucketIDOutOfRange},
	}

	r := testRegistry()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			key, id, bucket := ParseSkinFilename(tt.path, exts, r)

			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestCatalogBuilder_Ingest_Duplicate(t *testing.T) {
	source := mocks.NewAssetSource()
	b := NewCatalogBuilder(testRegistry(), source, nil, discardLogger())

	assert.Equal(t, Bucket(""), b.Ingest(context.Background(), "a/cat_1.png"))
	assert.Equal(t, BucketDuplicate, b.Ingest(context.Background(), "b/cat_1.xnb"))

	catalog := b.Build()
	rec, ok := catalog.Get("cat", 1)
	require.True(t, ok)
	assert.Equal(t, "a/cat_1.png", rec.Asset.Path)
	assert.Equal(t, []string{"cat_1.xnb"}, b.Rejected()[BucketDuplicate])
	assert.Equal(t, []string{"a/cat_1.png"}, source.Opened)
}

func TestCatalogBuilder_Ingest_Undecodable(t *testing.T) {
	source := mocks.NewAssetSource()
	source.Broken["cat_2.png"] = true
	b := NewCatalogBuilder(testRegistry(), source, nil, discardLogger())

	bucket := b.Ingest(context.Background(), "cat_2.png")

	assert.Equal(t, BucketUndecodable, bucket)
	assert.Zero(t, b.Build().Count("cat"))
}

func TestCatalogBuilder_CustomExtensions(t *testing.T) {
	b := NewCatalogBuilder(testRegistry(), mocks.NewAssetSource(), []string{"PNG", ".webp"}, discardLogger())

	assert.Equal(t, Bucket(""), b.Ingest(context.Background(), "cat_1.png"))
	assert.Equal(t, Bucket(""), b.Ingest(context.Background(), "cat_2.WEBP"))
	assert.Equal(t, BucketInvalidExtension, b.Ingest(context.Background(), "cat_3.xnb"))
}

func TestCatalogBuilder_EnforceCompleteSets(t *testing.T) {
	tests := []struct {
		name        string
		files       []string
		want        map[string][]int
		wantRemoved map[string][]int
	}{
		{
			name:        "symmetric sets untouched",
			files:       []string{"cow_1.png", "cow_2.png", "babycow_1.png", "babycow_2.png"},
			want:        map[string][]int{"cow": {1, 2}, "babycow": {1, 2}},
			wantRemoved: map[string][]int{},
		},
		{
			name:        "base without juvenile partner",
			files:       []string{"cow_1.png", "cow_2.png", "babycow_1.png"},
			want:        map[string][]int{"cow": {1}, "babycow": {1}},
			wantRemoved: map[string][]int{"cow": {2}},
		},
		{
			name:        "juvenile without base partner",
			files:       []string{"cow_1.png", "babycow_1.png", "babycow_5.png"},
			want:        map[string][]int{"cow": {1}, "babycow": {1}},
			wantRemoved: map[string][]int{"babycow": {5}},
		},
		{
			name:        "empty base drops derived set",
			files:       []string{"babycow_1.png", "babycow_2.png"},
			want:        map[string][]int{},
			wantRemoved: map[string][]int{"babycow": {1, 2}},
		},
		{
			name:        "base without juvenile files emptied",
			files:       []string{"cow_1.png", "cow_2.png"},
			want:        map[string][]int{},
			wantRemoved: map[string][]int{"cow": {1, 2}},
		},
		{
			name:        "base without variant types kept",
			files:       []string{"pig_1.png", "pig_7.png"},
			want:        map[string][]int{"pig": {1, 7}},
			wantRemoved: map[string][]int{},
		},
		{
			name:        "missing seasonal set empties sheep family",
			files:       []string{"sheep_1.png", "babysheep_1.png"},
			want:        map[string][]int{},
			wantRemoved: map[string][]int{"sheep": {1}, "babysheep": {1}},
		},
		{
			name:  "sibling variants converge",
			files: []string{"sheep_1.png", "sheep_2.png", "babysheep_1.png", "babysheep_2.png", "shearedsheep_1.png"},
			want: map[string][]int{
				"sheep": {1}, "babysheep": {1}, "shearedsheep": {1},
			},
			wantRemoved: map[string][]int{"sheep": {2}, "babysheep": {2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCatalogBuilder(testRegistry(), mocks.NewAssetSource(), nil, discardLogger())
			for _, f := range tt.files {
				require.Equal(t, Bucket(""), b.Ingest(context.Background(), f))
			}

			removed := b.EnforceCompleteSets()
			catalog := b.Build()

			assert.Equal(t, tt.wantRemoved, removed)
			got := make(map[string][]int)
			for _, key := range catalog.Types() {
				got[key] = catalog.IDs(key)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogBuilder_EnforceCompleteSets_RunsOnce(t *testing.T) {
	b := NewCatalogBuilder(testRegistry(), mocks.NewAssetSource(), nil, discardLogger())
	b.Ingest(context.Background(), "cow_1.png")
	b.Ingest(context.Background(), "cow_2.png")
	b.Ingest(context.Background(), "babycow_1.png")

	first := b.EnforceCompleteSets()
	second := b.EnforceCompleteSets()

	assert.Equal(t, []int{2}, first["cow"])
	assert.Empty(t, second)
}

func TestCatalogBuilder_EnforceCompleteSets_PrefixedBaseType(t *testing.T) {
	r := testRegistry()
	require.True(t, r.Register("babydoll", entities.ClassPet, false, false))
	b := NewCatalogBuilder(r, mocks.NewAssetSource(), nil, discardLogger())
	require.Equal(t, Bucket(""), b.Ingest(context.Background(), "babydoll_1.png"))
	require.Equal(t, Bucket(""), b.Ingest(context.Background(), "babydoll_2.png"))

	removed := b.EnforceCompleteSets()

	assert.Empty(t, removed)
	assert.Equal(t, []int{1, 2}, b.Build().IDs("babydoll"))
}

func TestBuildCatalog_MixedPack(t *testing.T) {
	source := mocks.NewAssetSource(
		"cow_1.png", "cow_2.png", "babycow_1.png",
		"cow_x.png", "pig.png", "dragon_1.png", "cow_0.png", "notes.txt",
	)
	r := testRegistry()

	catalog, diag, err := BuildCatalog(context.Background(), r, source, nil, "skins", discardLogger())

	require.NoError(t, err)
	assert.Equal(t, []int{1}, catalog.IDs("cow"))
	assert.Equal(t, []int{1}, catalog.IDs("babycow"))
	assert.Equal(t, []string{"babycow", "cow"}, catalog.Types())

	assert.Equal(t, []string{"cow_x.png"}, diag.Rejected[BucketNonNumericID])
	assert.Equal(t, []string{"pig.png"}, diag.Rejected[BucketMissingID])
	assert.Equal(t, []string{"dragon_1.png"}, diag.Rejected[BucketUnknownType])
	assert.Equal(t, []string{"cow_0.png"}, diag.Rejected[BucketIDOutOfRange])
	assert.Equal(t, []string{"notes.txt"}, diag.Rejected[BucketInvalidExtension])
	assert.Equal(t, map[string][]int{"cow": {2}}, diag.Incomplete)
	assert.Equal(t, 2, diag.Loaded)
	assert.Contains(t, diag.Skinless, "pig")
	assert.False(t, diag.Clean())
}

func TestBuildCatalog_EnumerateError(t *testing.T) {
	source := mocks.NewAssetSource()
	source.Err = errors.New("permission denied")

	_, _, err := BuildCatalog(context.Background(), testRegistry(), source, nil, "skins", discardLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "enumerating skins")
}

func TestSkinAssetCatalog_LoadAll(t *testing.T) {
	s := NewSkinAssetCatalog(testRegistry(), mocks.NewAssetSource("cat_1.png", "cat_2.png"), nil, discardLogger())
	assert.False(t, s.Ready())
	assert.Nil(t, s.Diagnostics())

	require.NoError(t, s.LoadAll(context.Background(), "skins"))

	catalog, ok := s.Catalog()
	require.True(t, ok)
	assert.True(t, s.Ready())
	assert.Equal(t, 2, catalog.Count("cat"))
	assert.True(t, s.Diagnostics().Clean())

	err := s.LoadAll(context.Background(), "skins")
	assert.ErrorContains(t, err, "already loaded")
}

func TestSkinAssetCatalog_LoadAll_UnreadableRootStaysNotReady(t *testing.T) {
	source := mocks.NewAssetSource()
	source.Err = errors.New("no such directory")
	s := NewSkinAssetCatalog(testRegistry(), source, nil, discardLogger())

	err := s.LoadAll(context.Background(), "missing")

	require.Error(t, err)
	assert.False(t, s.Ready())
	_, ok := s.Catalog()
	assert.False(t, ok)
}

func TestSkinCatalog_Records(t *testing.T) {
	s := NewSkinAssetCatalog(testRegistry(), mocks.NewAssetSource("cat_3.png", "cat_1.png"), nil, discardLogger())
	require.NoError(t, s.LoadAll(context.Background(), "skins"))
	catalog, _ := s.Catalog()

	records := catalog.Records("cat")

	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, 3, records[1].ID)
	assert.True(t, catalog.Has("cat", 3))
	assert.False(t, catalog.Has("cat", 2))
	assert.Empty(t, catalog.Records("dog"))
}

func TestCatalogBuilder_DerivedSetsMatchBase(t *testing.T) {
	keys := []string{"cow", "babycow", "sheep", "babysheep", "shearedsheep", "pig"}

	rapid.Check(t, func(t *rapid.T) {
		files := rapid.SliceOf(rapid.Custom(func(t *rapid.T) string {
			key := rapid.SampledFrom(keys).Draw(t, "key")
			id := rapid.IntRange(1, 6).Draw(t, "id")
			return fmt.Sprintf("%s_%d.png", key, id)
		})).Draw(t, "files")

		b := NewCatalogBuilder(testRegistry(), mocks.NewAssetSource(), nil, discardLogger())
		for _, f := range files {
			b.Ingest(context.Background(), f)
		}
		b.EnforceCompleteSets()
		catalog := b.Build()

		for _, ct := range testRegistry().Types() {
			if !ct.IsDerived() {
				continue
			}
			key, base := ct.Key, ct.DerivedFrom
			if fmt.Sprint(catalog.IDs(key)) != fmt.Sprint(catalog.IDs(base)) {
				t.Fatalf("%s ids %v differ from %s ids %v", key, catalog.IDs(key), base, catalog.IDs(base))
			}
		}
	})
}
