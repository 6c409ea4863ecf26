// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── users/           # Accounts and profile fields
//	├── catalog/         # Shared, read-only book catalog
//	├── collection/      # Per-user owned book copies
//	├── notes/           # Per-user notes
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./bookshelf.db")
//
//	catalogRepo := catalog.NewRepository(db.DB)
//	notesRepo := notes.NewRepository(db.DB)
//
//	books, err := catalogRepo.ListBooksByGenre("Fantasy")
//	myNotes, err := notesRepo.ListNotes(userID)
//
// # Interface Implementations
//
// Each sub-package implements a store interface of the services package:
//
//   - users.Repository: implements services.UserStore and auth.UserStore
//   - catalog.Repository: implements services.CatalogStore
//   - collection.Repository: implements services.CollectionStore
//   - notes.Repository: implements services.NoteStore
//
// Compile-time checks live next to the interfaces, in the consuming package.
//
// Repositories return GORM errors unchanged; callers detect missing rows
// with errors.Is(err, gorm.ErrRecordNotFound).
package database
