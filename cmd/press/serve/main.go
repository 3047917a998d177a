package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-press"
	"github.com/goliatone/go-press/cmd/press/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runServe(os.Args[1:]); err != nil {
		log.Fatalf("press serve: %v", err)
	}
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("press-serve", flag.ExitOnError)
	contentDir := fs.String("content-dir", "site/content/posts", "Path to the corpus root")
	outputDir := fs.String("output-dir", "dist", "Directory the rendered site is served from")
	addr := fs.String("addr", ":8080", "Address the preview server listens on")
	baseURL := fs.String("base-url", "", "Absolute base URL used in feeds and the sitemap")
	watch := fs.Bool("watch", true, "Rebuild when corpus files change")
	skipBuild := fs.Bool("skip-build", false, "Serve the existing output without building first")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		OutputDir:  *outputDir,
		BaseURL:    *baseURL,
		Addr:       *addr,
		Watch:      watch,
		Generator:  true,
		Preview:    true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*skipBuild {
		result, err := module.Generator.Build(ctx, press.BuildOptions{})
		if err != nil {
			return fmt.Errorf("initial build: %w", err)
		}
		fmt.Fprintf(os.Stdout, "built %d pages, serving %s on %s\n", result.PagesBuilt, *outputDir, *addr)
	}

	if err := module.Server.Run(ctx); err != nil {
		return fmt.Errorf("preview server: %w", err)
	}
	return nil
}
