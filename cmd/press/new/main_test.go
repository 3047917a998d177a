package main

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-press/cmd/press/internal/bootstrap"
	"github.com/goliatone/go-press/internal/scaffold"
)

type stubScaffoldService struct {
	calls int
	last  scaffold.CreateInput
	err   error
}

func (s *stubScaffoldService) Create(_ context.Context, input scaffold.CreateInput) (*scaffold.CreatedPost, error) {
	s.calls++
	s.last = input
	if s.err != nil {
		return nil, s.err
	}
	return &scaffold.CreatedPost{
		Slug: "stub-post",
		Path: "site/content/posts/stub-post.md",
		Date: input.Date,
	}, nil
}

func withStubScaffold(t *testing.T, svc *stubScaffoldService) {
	t.Helper()
	original := moduleBuilder
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{Scaffold: svc}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
}

func TestRunNewRequiresTitle(t *testing.T) {
	svc := &stubScaffoldService{}
	withStubScaffold(t, svc)

	if err := runNew(nil); err == nil {
		t.Fatal("expected missing title to fail")
	}
	if svc.calls != 0 {
		t.Fatalf("expected no scaffold call, got %d", svc.calls)
	}
}

func TestRunNewForwardsInput(t *testing.T) {
	svc := &stubScaffoldService{}
	withStubScaffold(t, svc)

	err := runNew([]string{
		"-title", "Shipping the Static Pipeline",
		"-tags", "release, infra",
		"-authors", "sam",
		"-date", "2024-06-03",
		"-force",
	})
	if err != nil {
		t.Fatalf("runNew returned error: %v", err)
	}
	if svc.calls != 1 {
		t.Fatalf("expected one scaffold call, got %d", svc.calls)
	}

	input := svc.last
	if input.Title != "Shipping the Static Pipeline" {
		t.Fatalf("unexpected title %q", input.Title)
	}
	if len(input.Tags) != 2 || input.Tags[0] != "release" || input.Tags[1] != "infra" {
		t.Fatalf("unexpected tags %v", input.Tags)
	}
	if len(input.Authors) != 1 || input.Authors[0] != "sam" {
		t.Fatalf("unexpected authors %v", input.Authors)
	}
	want := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	if !input.Date.Equal(want) {
		t.Fatalf("expected date %s, got %s", want, input.Date)
	}
	if !input.Force {
		t.Fatal("expected force to be set")
	}
}

func TestRunNewRejectsBadDate(t *testing.T) {
	svc := &stubScaffoldService{}
	withStubScaffold(t, svc)

	if err := runNew([]string{"-title", "Entry", "-date", "June 3rd"}); err == nil {
		t.Fatal("expected invalid date to fail")
	}
	if svc.calls != 0 {
		t.Fatalf("expected no scaffold call, got %d", svc.calls)
	}
}
