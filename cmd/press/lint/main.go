package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-press/cmd/press/internal/bootstrap"
	"github.com/goliatone/go-press/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runLint(os.Args[1:]); err != nil {
		log.Fatalf("press lint: %v", err)
	}
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("press-lint", flag.ExitOnError)
	contentDir := fs.String("content-dir", "site/content/posts", "Path to the corpus root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering post files")
	strict := fs.Bool("strict", false, "Treat warnings as failures")
	asJSON := fs.Bool("json", false, "Emit the report as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	report, err := collectDiagnostics(module.Lint, *contentDir, fs.Args())
	if err != nil {
		return err
	}

	errCount, warnCount := report.Counts()
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		for _, diag := range report.Diagnostics {
			fmt.Fprintf(os.Stdout, "%s:%d: %s %s %s\n", diag.Path, diag.Line, diag.Severity, diag.Rule, diag.Message)
		}
		fmt.Fprintf(os.Stdout, "%d files checked, %d errors, %d warnings\n", report.Files, errCount, warnCount)
	}

	if errCount > 0 {
		return fmt.Errorf("%d errors found", errCount)
	}
	if *strict && warnCount > 0 {
		return fmt.Errorf("%d warnings found in strict mode", warnCount)
	}
	return nil
}

// collectDiagnostics lints the corpus directory, or only the named files
// when positional arguments are given. Single-file runs skip corpus-wide
// rules such as duplicate slug detection.
func collectDiagnostics(svc interfaces.LintService, dir string, files []string) (*interfaces.LintReport, error) {
	if len(files) == 0 {
		report, err := svc.LintDirectory(context.Background(), dir)
		if err != nil {
			return nil, fmt.Errorf("lint corpus: %w", err)
		}
		return report, nil
	}

	report := &interfaces.LintReport{Files: len(files)}
	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		report.Diagnostics = append(report.Diagnostics, svc.LintSource(path, source)...)
	}
	return report, nil
}
