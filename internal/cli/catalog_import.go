package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/catalog"
	"github.com/mrlokans/bookshelf/internal/services"
)

// CatalogImportCommand loads catalog books from a JSON file.
type CatalogImportCommand struct {
	FilePath     string
	DatabasePath string
	DryRun       bool

	out io.Writer
}

func NewCatalogImportCommand() *CatalogImportCommand {
	return &CatalogImportCommand{out: os.Stdout}
}

func (cmd *CatalogImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("catalog-import", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON array of {title, writer, genre, img} objects (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the file without writing to the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s catalog-import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load books into the shared catalog.\n\n")
		fmt.Fprintf(os.Stderr, "Missing writer and genre default to \"N/A\"; a missing img uses the\n")
		fmt.Fprintf(os.Stderr, "default cover. Entries without a title reject the whole file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s catalog-import -file books.json -db ./bookshelf.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *CatalogImportCommand) Run() error {
	f, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	entries, err := services.ParseCatalog(f)
	if err != nil {
		return err
	}

	if cmd.DryRun {
		books, err := services.CatalogBooks(entries)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.out, "DRY RUN: %d books would be imported\n", len(books))
		return nil
	}

	db, err := database.NewQuietDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := services.NewCatalogImporter(catalog.NewRepository(db.DB)).Import(entries)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "Imported %d books into %s\n", result.BooksImported, cmd.DatabasePath)
	return nil
}
