package ingestion

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/dictionary"
	"github.com/poiesic/catalogmatch/storage"
	"github.com/poiesic/catalogmatch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepositories(t *testing.T) (storage.CatalogRepository, storage.SynonymRepository) {
	t.Helper()
	catalogRepo, synonymRepo, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		synonymRepo.Close()
		catalogRepo.Close()
		backend.Close()
	})
	return catalogRepo, synonymRepo
}

// failingCatalog fails AddEntries from the given call on.
type failingCatalog struct {
	storage.CatalogRepository
	failFrom int
	calls    int
}

func (f *failingCatalog) AddEntries(ctx context.Context, table string, entries ...*core.CatalogEntry) ([]*core.CatalogEntry, error) {
	f.calls++
	if f.calls >= f.failFrom {
		return nil, errors.New("disk full")
	}
	return f.CatalogRepository.AddEntries(ctx, table, entries...)
}

func TestNewImporter(t *testing.T) {
	catalogRepo, synonymRepo := setupTestRepositories(t)

	t.Run("valid importer", func(t *testing.T) {
		imp, err := NewImporter(catalogRepo, synonymRepo)
		require.NoError(t, err)
		assert.Equal(t, defaultBatchSize, imp.batchSize)
		assert.NotNil(t, imp.logger)
	})

	t.Run("with options", func(t *testing.T) {
		imp, err := NewImporter(catalogRepo, synonymRepo, WithBatchSize(10), WithLogger(nil), WithProgress(&bytes.Buffer{}))
		require.NoError(t, err)
		assert.Equal(t, 10, imp.batchSize)
		assert.NotNil(t, imp.logger)
	})

	t.Run("invalid batch size", func(t *testing.T) {
		_, err := NewImporter(catalogRepo, synonymRepo, WithBatchSize(0))
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})

	t.Run("nil catalog repository", func(t *testing.T) {
		_, err := NewImporter(nil, synonymRepo)
		assert.Equal(t, ErrCatalogRepositoryRequired, err)
	})

	t.Run("nil synonym repository", func(t *testing.T) {
		_, err := NewImporter(catalogRepo, nil)
		assert.Equal(t, ErrSynonymRepositoryRequired, err)
	})
}

func TestImportEntries(t *testing.T) {
	catalogRepo, synonymRepo := setupTestRepositories(t)
	progress := &bytes.Buffer{}
	imp, err := NewImporter(catalogRepo, synonymRepo, WithBatchSize(2), WithProgress(progress))
	require.NoError(t, err)
	ctx := context.Background()

	n, err := imp.ImportEntries(ctx, "materials", []string{
		"Пеноплэкс Комфорт 50мм", "  ", "Кран шаровой BVR-R DN32", "Гипсокартон Knauf", "Плита OSB 9мм",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	count, err := catalogRepo.Count(ctx, "materials")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	page, err := catalogRepo.FetchPage(ctx, "materials", 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.Equal(t, core.ID(1), page[0].Id)
	assert.Equal(t, "Пеноплэкс Комфорт 50мм", page[0].Name)

	assert.Contains(t, progress.String(), "entries: 4/4 (100.0%)")
}

func TestImportEntries_PartialFailure(t *testing.T) {
	catalogRepo, synonymRepo := setupTestRepositories(t)
	failing := &failingCatalog{CatalogRepository: catalogRepo, failFrom: 2}
	imp, err := NewImporter(failing, synonymRepo, WithBatchSize(2))
	require.NoError(t, err)

	n, err := imp.ImportEntries(context.Background(), "materials", []string{"a1", "a2", "a3", "a4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 2, n)

	count, err := catalogRepo.Count(context.Background(), "materials")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestImportEntries_Canceled(t *testing.T) {
	catalogRepo, synonymRepo := setupTestRepositories(t)
	imp, err := NewImporter(catalogRepo, synonymRepo)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := imp.ImportEntries(ctx, "materials", []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestImportSynonyms_ResetsDictionary(t *testing.T) {
	catalogRepo, synonymRepo := setupTestRepositories(t)
	dict, err := dictionary.New(synonymRepo)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, dict.Initialize(ctx))

	imp, err := NewImporter(catalogRepo, synonymRepo, WithDictionary(dict))
	require.NoError(t, err)

	n, err := imp.ImportSynonyms(ctx, []*core.SynonymEntry{
		{Kind: core.SynonymKindUnit, Canonical: "м³", Aliases: []string{"куб.м"}},
		{Kind: core.SynonymKindMaterial, Canonical: "гипсокартон", Aliases: []string{"гкл"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, dict.Initialized(), "synonym writes must invalidate the loaded dictionary")

	require.NoError(t, dict.Initialize(ctx))
	assert.Equal(t, "м³", dict.FindUnit("куб.м").Unit)
	assert.Len(t, dict.Expansions("гкл"), 1)
}

func TestImportSynonyms_Invalid(t *testing.T) {
	catalogRepo, synonymRepo := setupTestRepositories(t)
	imp, err := NewImporter(catalogRepo, synonymRepo)
	require.NoError(t, err)

	n, err := imp.ImportSynonyms(context.Background(), []*core.SynonymEntry{
		{Kind: core.SynonymKindUnit, Canonical: "шт"},
		{Kind: core.SynonymKindUnit, Canonical: " "},
	})
	assert.ErrorIs(t, err, core.ErrInvalidSynonymEntry)
	assert.Zero(t, n)

	count, err := synonymRepo.CountSynonyms(context.Background(), core.SynonymKindUnit)
	require.NoError(t, err)
	assert.Zero(t, count, "nothing is written when any entry is invalid")
}

func TestImportSeed(t *testing.T) {
	catalogRepo, synonymRepo := setupTestRepositories(t)
	imp, err := NewImporter(catalogRepo, synonymRepo)
	require.NoError(t, err)
	ctx := context.Background()

	seed := &Seed{
		Catalog: []CatalogSeed{
			{Names: []string{"Пеноплэкс Комфорт 50мм"}},
			{Table: "fittings", Names: []string{"Кран шаровой BVR-R DN32", "Фильтр DN32"}},
		},
		MaterialSynonyms: []SynonymSeed{{Canonical: "пеноплэкс", Aliases: []string{"xps"}}},
		Units:            []SynonymSeed{{Canonical: "шт", Aliases: []string{"штука"}}},
	}

	summary, err := imp.ImportSeed(ctx, seed, "materials")
	require.NoError(t, err)
	assert.Equal(t, Summary{Entries: 3, Synonyms: 2}, summary)

	count, err := catalogRepo.Count(ctx, "materials")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, err = catalogRepo.Count(ctx, "fittings")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
