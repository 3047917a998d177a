package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-press"
	"github.com/goliatone/go-press/cmd/press/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("press build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("press-build", flag.ExitOnError)
	contentDir := fs.String("content-dir", "site/content/posts", "Path to the corpus root")
	outputDir := fs.String("output-dir", "dist", "Directory the rendered site is written to")
	baseURL := fs.String("base-url", "", "Absolute base URL used in feeds and the sitemap")
	siteTitle := fs.String("site-title", "", "Site title rendered into templates and feeds")
	workers := fs.Int("workers", 0, "Number of render workers (0 uses the runtime default)")
	incremental := fs.Bool("incremental", false, "Skip pages whose sources are unchanged since the last build")
	drafts := fs.Bool("drafts", false, "Include future-dated posts in the build")
	dryRun := fs.Bool("dry-run", false, "Report what would be built without writing files")
	force := fs.Bool("force", false, "Rebuild pages even when the manifest marks them fresh")
	clean := fs.Bool("clean", false, "Remove generated output instead of building")
	slugs := fs.String("slugs", "", "Comma separated post slugs to build (defaults to the whole corpus)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:  *contentDir,
		OutputDir:   *outputDir,
		BaseURL:     *baseURL,
		SiteTitle:   *siteTitle,
		Workers:     *workers,
		Incremental: *incremental,
		Generator:   true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx := context.Background()

	if *clean {
		if err := module.Generator.Clean(ctx); err != nil {
			return fmt.Errorf("clean output: %w", err)
		}
		fmt.Fprintf(os.Stdout, "cleaned %s\n", *outputDir)
		return nil
	}

	result, err := module.Generator.Build(ctx, press.BuildOptions{
		DryRun:        *dryRun,
		Force:         *force,
		IncludeFuture: *drafts,
		Slugs:         bootstrap.SplitList(*slugs),
	})
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}

	verb := "built"
	if result.DryRun {
		verb = "would build"
	}
	fmt.Fprintf(os.Stdout, "%s %d pages (%d skipped), %d feeds in %s\n",
		verb, result.PagesBuilt, result.PagesSkipped, result.FeedsBuilt, result.Duration)

	if len(result.Errors) > 0 {
		for _, buildErr := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %v\n", buildErr)
		}
		return fmt.Errorf("%d pages failed", len(result.Errors))
	}
	return nil
}
