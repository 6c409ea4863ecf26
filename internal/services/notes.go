package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/forms"
	"github.com/mrlokans/bookshelf/internal/identity"
)

const entityNote = "note"

// NotesService manages per-user notes.
type NotesService struct {
	store     NoteStore
	validator *forms.Validator
	audit     Auditor
}

// NewNotesService creates a new NotesService. audit may be nil.
func NewNotesService(store NoteStore, audit Auditor) *NotesService {
	return &NotesService{store: store, validator: forms.New(nil), audit: audit}
}

// Add validates f and stores it as a note owned by the caller.
// Invalid content returns a *forms.ValidationError.
func (s *NotesService) Add(id identity.Identity, f *forms.Note) (*entities.Note, error) {
	user, ok := id.User()
	if !ok {
		return nil, ErrAuthRequired
	}
	if err := s.validator.ValidateNote(f); err != nil {
		return nil, err
	}

	note := &entities.Note{UserID: user.ID, Content: f.Content}
	if err := s.store.CreateNote(note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// List returns the caller's notes.
func (s *NotesService) List(id identity.Identity) ([]entities.Note, error) {
	user, ok := id.User()
	if !ok {
		return nil, ErrAuthRequired
	}

	notes, err := s.store.ListNotes(user.ID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Remove deletes note noteID. It returns ErrNotFound when the note does not
// exist and ErrForbidden when it belongs to someone else.
func (s *NotesService) Remove(id identity.Identity, noteID uint) error {
	user, ok := id.User()
	if !ok {
		return ErrAuthRequired
	}

	note, err := s.store.GetNoteByID(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get note %d: %w", noteID, err)
	}
	if !id.Owns(note.UserID) {
		return ErrForbidden
	}

	if err := s.store.DeleteNote(noteID, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete note %d: %w", noteID, err)
	}

	if s.audit != nil {
		s.audit.LogDelete(user.ID, entityNote, noteID, preview(note.Content, 40))
	}
	return nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
