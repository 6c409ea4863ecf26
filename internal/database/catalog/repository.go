// Package catalog provides read access to the shared book catalog.
//
// The catalog is never modified through the web application. Rows are
// loaded out of band with the catalog-import command, which is the only
// caller of CreateBooks.
package catalog

import (
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBooks returns every catalog book in insertion order.
func (r *Repository) ListBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("id ASC").Find(&books).Error
	return books, err
}

// GetBookByID retrieves a catalog book by ID.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooksByGenre returns books whose genre equals genre exactly (case-sensitive).
func (r *Repository) ListBooksByGenre(genre string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("genre = ?", genre).Order("id ASC").Find(&books).Error
	return books, err
}

// ListGenres returns the distinct genres present in the catalog, sorted.
func (r *Repository) ListGenres() ([]string, error) {
	var genres []string
	err := r.db.Model(&entities.Book{}).Distinct().Order("genre ASC").Pluck("genre", &genres).Error
	return genres, err
}

// CreateBooks inserts catalog rows in a single transaction.
func (r *Repository) CreateBooks(books []entities.Book) error {
	if len(books) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&books).Error
	})
}
