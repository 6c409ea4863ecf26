package services

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// CatalogEntry is one book of a catalog import file.
type CatalogEntry struct {
	Title  string `json:"title"`
	Writer string `json:"writer"`
	Genre  string `json:"genre"`
	Img    string `json:"img"`
}

// ImportResult contains the outcome of a catalog import.
type ImportResult struct {
	BooksImported int
}

// CatalogImporter loads books into the shared catalog.
type CatalogImporter struct {
	store CatalogWriter
}

// NewCatalogImporter creates a new CatalogImporter.
func NewCatalogImporter(store CatalogWriter) *CatalogImporter {
	return &CatalogImporter{store: store}
}

// ParseCatalog decodes a JSON array of catalog entries.
func ParseCatalog(r io.Reader) ([]CatalogEntry, error) {
	var entries []CatalogEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return entries, nil
}

// Import converts entries to books and stores them in one transaction.
// Missing writer and genre default to "N/A" and a missing image to the
// placeholder cover. Any entry without a title rejects the whole import.
func (s *CatalogImporter) Import(entries []CatalogEntry) (ImportResult, error) {
	books, err := CatalogBooks(entries)
	if err != nil {
		return ImportResult{}, err
	}

	if err := s.store.CreateBooks(books); err != nil {
		return ImportResult{}, fmt.Errorf("failed to store books: %w", err)
	}
	return ImportResult{BooksImported: len(books)}, nil
}

// CatalogBooks converts entries to catalog books without storing them.
func CatalogBooks(entries []CatalogEntry) ([]entities.Book, error) {
	books := make([]entities.Book, 0, len(entries))
	for i, e := range entries {
		book, err := e.toBook()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		books = append(books, book)
	}
	return books, nil
}

func (e CatalogEntry) toBook() (entities.Book, error) {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return entities.Book{}, fmt.Errorf("title is required")
	}
	return entities.Book{
		Title:  title,
		Writer: orDefault(e.Writer, entities.UnknownWriter),
		Genre:  orDefault(e.Genre, entities.UnknownGenre),
		Image:  orDefault(e.Img, entities.DefaultCover),
	}, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
