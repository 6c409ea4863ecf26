// Command generate_demo creates a demo database with a public domain catalog
// and a demo account that already has a shelf and notes.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/catalog"
	"github.com/mrlokans/bookshelf/internal/database/collection"
	"github.com/mrlokans/bookshelf/internal/database/notes"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	demoUsername            = "demo"
	demoPassword            = "demo-password"
)

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	books := publicDomainBooks()
	if err := catalog.NewRepository(db.DB).CreateBooks(books); err != nil {
		log.Fatalf("Failed to save catalog: %v", err)
	}
	for _, b := range books {
		log.Printf("Saved: %s by %s", b.Title, b.Writer)
	}

	user := createDemoUser(db)

	shelf := collection.NewRepository(db.DB)
	for _, b := range books[:2] {
		owned := b.Snapshot(user.ID)
		if err := shelf.CreateOwnedBook(&owned); err != nil {
			log.Printf("Failed to shelve %s: %v", b.Title, err)
		}
	}

	noteRepo := notes.NewRepository(db.DB)
	for _, content := range []string{
		"Finish Meditations before the book club on Thursday.",
		"Look for a good translation of Walden.",
	} {
		if err := noteRepo.CreateNote(&entities.Note{UserID: user.ID, Content: content}); err != nil {
			log.Printf("Failed to save note: %v", err)
		}
	}

	log.Printf("Demo database generated successfully! Log in as %q with password %q", demoUsername, demoPassword)
}

func createDemoUser(db *database.Database) *entities.User {
	hash, err := auth.HashPassword(demoPassword, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}
	user := &entities.User{
		Username:     demoUsername,
		Email:        "demo@example.com",
		PasswordHash: hash,
	}
	if err := users.NewRepository(db.DB).CreateUser(user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	return user
}

func publicDomainBooks() []entities.Book {
	return []entities.Book{
		{Title: "Meditations", Writer: "Marcus Aurelius", Genre: "Philosophy", Image: entities.DefaultCover},
		{Title: "Letters from a Stoic", Writer: "Seneca", Genre: "Philosophy", Image: entities.DefaultCover},
		{Title: "Walden", Writer: "Henry David Thoreau", Genre: "Essays", Image: entities.DefaultCover},
		{Title: "Pride and Prejudice", Writer: "Jane Austen", Genre: "Fiction", Image: entities.DefaultCover},
		{Title: "Frankenstein", Writer: "Mary Shelley", Genre: "Fiction", Image: entities.DefaultCover},
		{Title: "The Origin of Species", Writer: "Charles Darwin", Genre: "Science", Image: entities.DefaultCover},
		{Title: "Beowulf", Writer: entities.UnknownWriter, Genre: "Poetry", Image: entities.DefaultCover},
	}
}
