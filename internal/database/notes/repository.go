// Package notes provides database operations for user notes.
package notes

import (
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Repository handles note database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateNote(note *entities.Note) error {
	return r.db.Create(note).Error
}

// ListNotes returns the notes written by userID, newest first.
func (r *Repository) ListNotes(userID uint) ([]entities.Note, error) {
	var notes []entities.Note
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&notes).Error
	return notes, err
}

func (r *Repository) GetNoteByID(id uint) (*entities.Note, error) {
	var note entities.Note
	err := r.db.First(&note, id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes the note only if it belongs to userID.
// Returns gorm.ErrRecordNotFound if nothing matched.
func (r *Repository) DeleteNote(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
