package services

import (
	"io"

	"github.com/mrlokans/bookshelf/internal/database/catalog"
	"github.com/mrlokans/bookshelf/internal/database/collection"
	"github.com/mrlokans/bookshelf/internal/database/notes"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/forms"
)

// CatalogStore provides read access to the shared book catalog.
type CatalogStore interface {
	ListBooks() ([]entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	ListBooksByGenre(genre string) ([]entities.Book, error)
	ListGenres() ([]string, error)
}

// CatalogWriter loads books into the catalog out of band.
type CatalogWriter interface {
	CreateBooks(books []entities.Book) error
}

// CollectionStore persists the books users keep on their shelves.
type CollectionStore interface {
	CreateOwnedBook(book *entities.OwnedBook) error
	ListOwnedBooks(userID uint) ([]entities.OwnedBook, error)
	GetOwnedBookByID(id uint) (*entities.OwnedBook, error)
	DeleteOwnedBook(id, userID uint) error
}

// NoteStore persists user notes.
type NoteStore interface {
	CreateNote(note *entities.Note) error
	ListNotes(userID uint) ([]entities.Note, error)
	GetNoteByID(id uint) (*entities.Note, error)
	DeleteNote(id, userID uint) error
}

// UserStore is the slice of the accounts repository profile edits need.
type UserStore interface {
	forms.AccountLookup
	GetUserByID(id uint) (*entities.User, error)
	UpdateProfile(id uint, username, email, avatar string) error
}

// AvatarStore keeps uploaded profile pictures.
type AvatarStore interface {
	Save(r io.Reader, originalName string) (string, error)
	Remove(name string) error
}

// AvatarRemover disposes of an avatar file that is no longer referenced,
// typically by enqueueing a background task.
type AvatarRemover interface {
	RemoveAvatar(name string) error
}

// Auditor records user-initiated changes. Implementations must not block.
type Auditor interface {
	LogDelete(userID uint, entityType string, entityID uint, entityName string)
	LogProfileUpdate(userID uint, description string)
}

var (
	_ CatalogStore    = (*catalog.Repository)(nil)
	_ CatalogWriter   = (*catalog.Repository)(nil)
	_ CollectionStore = (*collection.Repository)(nil)
	_ NoteStore       = (*notes.Repository)(nil)
	_ UserStore       = (*users.Repository)(nil)
)
