package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// CatalogService exposes the shared catalog. Browsing it needs no identity.
type CatalogService struct {
	store CatalogStore
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// ListAll returns every catalog book in insertion order.
func (s *CatalogService) ListAll() ([]entities.Book, error) {
	books, err := s.store.ListBooks()
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Get returns the book with id or ErrNotFound.
func (s *CatalogService) Get(id uint) (*entities.Book, error) {
	book, err := s.store.GetBookByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return book, nil
}

// ListByGenre returns books whose genre matches exactly, case included.
// An unknown genre yields an empty list.
func (s *CatalogService) ListByGenre(genre string) ([]entities.Book, error) {
	books, err := s.store.ListBooksByGenre(genre)
	if err != nil {
		return nil, fmt.Errorf("list books in %q: %w", genre, err)
	}
	return books, nil
}

// Genres returns the distinct genres present in the catalog.
func (s *CatalogService) Genres() ([]string, error) {
	genres, err := s.store.ListGenres()
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}
