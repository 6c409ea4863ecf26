// Package collection provides database operations for the books users copy
// into their personal collection.
//
// # Usage
//
//	repo := collection.NewRepository(db)
//	books, err := repo.ListOwnedBooks(userID)
package collection

import (
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles owned book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new collection repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateOwnedBook persists a snapshot for its owner.
func (r *Repository) CreateOwnedBook(book *entities.OwnedBook) error {
	return r.db.Create(book).Error
}

// ListOwnedBooks returns the books owned by userID, newest first.
func (r *Repository) ListOwnedBooks(userID uint) ([]entities.OwnedBook, error) {
	var books []entities.OwnedBook
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&books).Error
	return books, err
}

// GetOwnedBookByID retrieves an owned book regardless of owner.
func (r *Repository) GetOwnedBookByID(id uint) (*entities.OwnedBook, error) {
	var book entities.OwnedBook
	err := r.db.First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteOwnedBook removes the row only if it belongs to userID.
// Returns gorm.ErrRecordNotFound if nothing matched.
func (r *Repository) DeleteOwnedBook(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.OwnedBook{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
