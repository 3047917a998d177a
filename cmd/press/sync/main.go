package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-press/cmd/press/internal/bootstrap"
	"github.com/goliatone/go-press/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("press sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("press-sync", flag.ExitOnError)
	contentDir := fs.String("content-dir", "site/content/posts", "Path to the corpus root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering post files")
	dsn := fs.String("db", "", "SQLite DSN for the corpus index (empty keeps an in-memory index)")
	dryRun := fs.Bool("dry-run", false, "Report what would change without writing to the index")
	prune := fs.Bool("prune", false, "Delete indexed posts whose source files are gone")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		StorageDSN: *dsn,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	opts := interfaces.SyncOptions{
		ImportOptions:  interfaces.ImportOptions{DryRun: *dryRun},
		DeleteOrphaned: *prune,
	}
	result, err := module.Store.SyncDirectory(context.Background(), ".", opts)
	if err != nil {
		return fmt.Errorf("sync corpus: %w", err)
	}

	verb := "synced"
	if *dryRun {
		verb = "would sync"
	}
	fmt.Fprintf(os.Stdout, "%s corpus: %d created, %d updated, %d skipped, %d deleted\n",
		verb, result.Created, result.Updated, result.Skipped, result.Deleted)

	if len(result.Errors) > 0 {
		for _, syncErr := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %v\n", syncErr)
		}
		return fmt.Errorf("%d posts failed", len(result.Errors))
	}
	return nil
}
