package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goliatone/go-press"
	"github.com/goliatone/go-press/cmd/press/internal/bootstrap"
	"github.com/goliatone/go-press/post"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runNew(os.Args[1:]); err != nil {
		log.Fatalf("press new: %v", err)
	}
}

func runNew(args []string) error {
	fs := flag.NewFlagSet("press-new", flag.ExitOnError)
	title := fs.String("title", "", "Title of the new post (required)")
	slug := fs.String("slug", "", "Kebab-case slug (derived from the title when empty)")
	tags := fs.String("tags", "", "Comma separated tags")
	authors := fs.String("authors", "", "Comma separated authors")
	date := fs.String("date", "", "Publication date in ISO-8601 form (defaults to now)")
	contentDir := fs.String("content-dir", "site/content/posts", "Path to the corpus root")
	force := fs.Bool("force", false, "Overwrite the target file when it already exists")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" {
		return fmt.Errorf("title is required")
	}

	var when time.Time
	if *date != "" {
		parsed, err := post.ParseDate(*date)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		when = parsed
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	created, err := module.Scaffold.Create(context.Background(), press.ScaffoldInput{
		Title:   *title,
		Slug:    *slug,
		Tags:    bootstrap.SplitList(*tags),
		Authors: bootstrap.SplitList(*authors),
		Date:    when,
		Force:   *force,
	})
	if err != nil {
		return fmt.Errorf("scaffold post: %w", err)
	}

	fmt.Fprintf(os.Stdout, "created %s (slug %s)\n", created.Path, created.Slug)
	return nil
}
