package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-press/cmd/press/internal/bootstrap"
	"github.com/goliatone/go-press/pkg/generator"
)

type stubGeneratorService struct {
	builds   int
	cleans   int
	lastOpts generator.BuildOptions
	result   *generator.BuildResult
	err      error
}

func (s *stubGeneratorService) Build(_ context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	s.builds++
	s.lastOpts = opts
	if s.result == nil {
		return &generator.BuildResult{PagesBuilt: 1, Duration: 5 * time.Millisecond}, s.err
	}
	return s.result, s.err
}

func (s *stubGeneratorService) BuildPost(context.Context, string) error {
	return nil
}

func (s *stubGeneratorService) Clean(context.Context) error {
	s.cleans++
	return s.err
}

func withStubGenerator(t *testing.T, svc *stubGeneratorService) *bootstrap.Options {
	t.Helper()
	original := moduleBuilder
	var captured bootstrap.Options
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		captured = opts
		return &bootstrap.Module{Generator: svc}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
	return &captured
}

func TestRunBuildEnablesGeneratorFeature(t *testing.T) {
	svc := &stubGeneratorService{}
	captured := withStubGenerator(t, svc)

	if err := runBuild([]string{"-output-dir", "public", "-base-url", "https://blog.example.com"}); err != nil {
		t.Fatalf("runBuild returned error: %v", err)
	}
	if svc.builds != 1 {
		t.Fatalf("expected one build, got %d", svc.builds)
	}
	if !captured.Generator {
		t.Fatal("expected generator feature to be enabled")
	}
	if captured.OutputDir != "public" {
		t.Fatalf("expected output dir public, got %s", captured.OutputDir)
	}
	if captured.BaseURL != "https://blog.example.com" {
		t.Fatalf("unexpected base url %s", captured.BaseURL)
	}
}

func TestRunBuildForwardsBuildOptions(t *testing.T) {
	svc := &stubGeneratorService{}
	withStubGenerator(t, svc)

	if err := runBuild([]string{"-drafts", "-dry-run", "-force", "-slugs", "alpha, beta"}); err != nil {
		t.Fatalf("runBuild returned error: %v", err)
	}
	opts := svc.lastOpts
	if !opts.IncludeFuture || !opts.DryRun || !opts.Force {
		t.Fatalf("expected drafts, dry-run, and force to be set, got %+v", opts)
	}
	if len(opts.Slugs) != 2 || opts.Slugs[0] != "alpha" || opts.Slugs[1] != "beta" {
		t.Fatalf("unexpected slugs %v", opts.Slugs)
	}
}

func TestRunBuildCleanSkipsBuild(t *testing.T) {
	svc := &stubGeneratorService{}
	withStubGenerator(t, svc)

	if err := runBuild([]string{"-clean"}); err != nil {
		t.Fatalf("runBuild returned error: %v", err)
	}
	if svc.cleans != 1 {
		t.Fatalf("expected one clean, got %d", svc.cleans)
	}
	if svc.builds != 0 {
		t.Fatalf("expected no build, got %d", svc.builds)
	}
}

func TestRunBuildReportsPageErrors(t *testing.T) {
	svc := &stubGeneratorService{
		result: &generator.BuildResult{
			PagesBuilt: 1,
			Errors:     []error{errors.New("render posts/broken: boom")},
		},
	}
	withStubGenerator(t, svc)

	if err := runBuild(nil); err == nil {
		t.Fatal("expected page errors to fail the run")
	}
}
