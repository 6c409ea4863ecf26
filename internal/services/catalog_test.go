package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestCatalogService_ListAll(t *testing.T) {
	stores := setupStores(t)
	svc := NewCatalogService(stores.catalog)

	books, err := svc.ListAll()
	require.NoError(t, err)
	assert.Empty(t, books)

	stores.seedCatalog(t)
	books, err = svc.ListAll()
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Dune", books[0].Title)
}

func TestCatalogService_Get(t *testing.T) {
	stores := setupStores(t)
	seeded := stores.seedCatalog(t)
	svc := NewCatalogService(stores.catalog)

	book, err := svc.Get(seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", book.Title)

	_, err = svc.Get(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_ListByGenre(t *testing.T) {
	stores := setupStores(t)
	stores.seedCatalog(t)
	svc := NewCatalogService(stores.catalog)

	books, err := svc.ListByGenre("Sci-Fi")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	books, err = svc.ListByGenre("sci-fi")
	require.NoError(t, err)
	assert.Empty(t, books, "genre match is case-sensitive")

	books, err = svc.ListByGenre("Poetry")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestCatalogService_Genres(t *testing.T) {
	stores := setupStores(t)
	stores.seedCatalog(t)
	svc := NewCatalogService(stores.catalog)

	genres, err := svc.Genres()
	require.NoError(t, err)
	assert.Equal(t, []string{"Fantasy", "Sci-Fi"}, genres)
}

func TestParseCatalog(t *testing.T) {
	entries, err := ParseCatalog(strings.NewReader(`[
		{"title": "Dune", "writer": "Frank Herbert", "genre": "Sci-Fi", "img": "dune.jpg"},
		{"title": "Untitled Draft"}
	]`))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Frank Herbert", entries[0].Writer)

	_, err = ParseCatalog(strings.NewReader(`{"title": "not an array"}`))
	assert.Error(t, err)
}

func TestCatalogImporter_AppliesDefaults(t *testing.T) {
	stores := setupStores(t)
	importer := NewCatalogImporter(stores.catalog)

	result, err := importer.Import([]CatalogEntry{
		{Title: "Dune", Writer: "Frank Herbert", Genre: "Sci-Fi", Img: "dune.jpg"},
		{Title: "Untitled Draft"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.BooksImported)

	books, err := stores.catalog.ListBooks()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, entities.UnknownWriter, books[1].Writer)
	assert.Equal(t, entities.UnknownGenre, books[1].Genre)
	assert.Equal(t, entities.DefaultCover, books[1].Image)
}

func TestCatalogImporter_RejectsMissingTitle(t *testing.T) {
	stores := setupStores(t)
	importer := NewCatalogImporter(stores.catalog)

	_, err := importer.Import([]CatalogEntry{
		{Title: "Dune"},
		{Title: "  ", Writer: "Nobody"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 1")

	books, err := stores.catalog.ListBooks()
	require.NoError(t, err)
	assert.Empty(t, books, "a rejected import stores nothing")
}
