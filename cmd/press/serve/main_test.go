package main

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-press/cmd/press/internal/bootstrap"
	"github.com/goliatone/go-press/pkg/generator"
)

type stubServerService struct {
	runs int
	err  error
}

func (s *stubServerService) Run(context.Context) error {
	s.runs++
	return s.err
}

type stubServeGenerator struct {
	builds int
	err    error
}

func (s *stubServeGenerator) Build(context.Context, generator.BuildOptions) (*generator.BuildResult, error) {
	s.builds++
	if s.err != nil {
		return nil, s.err
	}
	return &generator.BuildResult{PagesBuilt: 3}, nil
}

func (s *stubServeGenerator) BuildPost(context.Context, string) error { return nil }

func (s *stubServeGenerator) Clean(context.Context) error { return nil }

func withStubServe(t *testing.T, srv *stubServerService, gen *stubServeGenerator) *bootstrap.Options {
	t.Helper()
	original := moduleBuilder
	var captured bootstrap.Options
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		captured = opts
		return &bootstrap.Module{Server: srv, Generator: gen}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
	return &captured
}

func TestRunServeBuildsThenServes(t *testing.T) {
	srv := &stubServerService{}
	gen := &stubServeGenerator{}
	captured := withStubServe(t, srv, gen)

	if err := runServe([]string{"-addr", ":4000"}); err != nil {
		t.Fatalf("runServe returned error: %v", err)
	}
	if gen.builds != 1 {
		t.Fatalf("expected one initial build, got %d", gen.builds)
	}
	if srv.runs != 1 {
		t.Fatalf("expected server to run once, got %d", srv.runs)
	}
	if !captured.Generator || !captured.Preview {
		t.Fatal("expected generator and preview features to be enabled")
	}
	if captured.Addr != ":4000" {
		t.Fatalf("expected addr :4000, got %s", captured.Addr)
	}
	if captured.Watch == nil || !*captured.Watch {
		t.Fatal("expected watch to default on")
	}
}

func TestRunServeSkipBuild(t *testing.T) {
	srv := &stubServerService{}
	gen := &stubServeGenerator{}
	withStubServe(t, srv, gen)

	if err := runServe([]string{"-skip-build"}); err != nil {
		t.Fatalf("runServe returned error: %v", err)
	}
	if gen.builds != 0 {
		t.Fatalf("expected no build, got %d", gen.builds)
	}
	if srv.runs != 1 {
		t.Fatalf("expected server to run once, got %d", srv.runs)
	}
}

func TestRunServeFailsWhenInitialBuildFails(t *testing.T) {
	srv := &stubServerService{}
	gen := &stubServeGenerator{err: errors.New("template parse failed")}
	withStubServe(t, srv, gen)

	if err := runServe(nil); err == nil {
		t.Fatal("expected initial build failure to abort serving")
	}
	if srv.runs != 0 {
		t.Fatalf("expected server not to run, got %d", srv.runs)
	}
}
