package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/identity"
)

const entityOwnedBook = "owned_book"

// CollectionService manages the books a user keeps on their shelf.
// Shelf entries are snapshots and outlive changes to the catalog row.
type CollectionService struct {
	catalog CatalogStore
	store   CollectionStore
	audit   Auditor
}

// NewCollectionService creates a new CollectionService. audit may be nil.
func NewCollectionService(catalog CatalogStore, store CollectionStore, audit Auditor) *CollectionService {
	return &CollectionService{catalog: catalog, store: store, audit: audit}
}

// Add copies catalog book bookID onto the caller's shelf. Adding the same
// book twice creates two entries.
func (s *CollectionService) Add(id identity.Identity, bookID uint) (*entities.OwnedBook, error) {
	user, ok := id.User()
	if !ok {
		return nil, ErrAuthRequired
	}

	book, err := s.catalog.GetBookByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get book %d: %w", bookID, err)
	}

	owned := book.Snapshot(user.ID)
	if err := s.store.CreateOwnedBook(&owned); err != nil {
		return nil, fmt.Errorf("add book %d to shelf: %w", bookID, err)
	}
	return &owned, nil
}

// List returns the caller's shelf, newest first.
func (s *CollectionService) List(id identity.Identity) ([]entities.OwnedBook, error) {
	user, ok := id.User()
	if !ok {
		return nil, ErrAuthRequired
	}

	books, err := s.store.ListOwnedBooks(user.ID)
	if err != nil {
		return nil, fmt.Errorf("list shelf: %w", err)
	}
	return books, nil
}

// Remove deletes shelf entry ownedID. It returns ErrNotFound when the entry
// does not exist and ErrForbidden when it belongs to someone else.
func (s *CollectionService) Remove(id identity.Identity, ownedID uint) error {
	user, ok := id.User()
	if !ok {
		return ErrAuthRequired
	}

	owned, err := s.store.GetOwnedBookByID(ownedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get shelf entry %d: %w", ownedID, err)
	}
	if !id.Owns(owned.UserID) {
		return ErrForbidden
	}

	if err := s.store.DeleteOwnedBook(ownedID, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete shelf entry %d: %w", ownedID, err)
	}

	if s.audit != nil {
		s.audit.LogDelete(user.ID, entityOwnedBook, ownedID, owned.Title)
	}
	return nil
}
