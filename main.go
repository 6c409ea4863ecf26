package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mrlokans/bookshelf/internal/cli"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// Set with -ldflags "-X main.Version=... -X main.Commit=..."
var (
	Version = "dev"
	Commit  = "unknown"
)

const usage = `Usage: %[1]s <command> [options]

Commands:
  serve            Start the web application (default)
  catalog-import   Load books into the shared catalog from a JSON file
  version          Print the build version

Run '%[1]s <command> -h' for command options.
`

func serve() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	entrypoint.Run(cfg, Version)
}

func catalogImport(args []string) error {
	cmd := cli.NewCatalogImportCommand()
	if err := cmd.ParseFlags(args); err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	if len(os.Args) < 2 {
		serve()
		return
	}

	switch name := os.Args[1]; name {
	case "serve":
		serve()
	case "catalog-import":
		err := catalogImport(os.Args[2:])
		if err != nil && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("bookshelf %s (%s)\n", Version, Commit)
	case "help", "-h", "--help":
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}
}
