package generator

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-press/post"
)

func TestLoadContextBuildsPageSpecs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testConfig(t.TempDir()), &sliceSource{records: corpusFixture()})

	buildCtx, err := svc.loadContext(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("load context: %v", err)
	}

	if len(buildCtx.All) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(buildCtx.All))
	}
	if buildCtx.All[0].Slug != "second-post" {
		t.Fatalf("expected newest post first, got %q", buildCtx.All[0].Slug)
	}
	if len(buildCtx.Tags) != 2 {
		t.Fatalf("expected go and testing tag groups, got %d", len(buildCtx.Tags))
	}
	if buildCtx.Tags[0].Slug != "go" || buildCtx.Tags[1].Slug != "testing" {
		t.Fatalf("expected tag groups sorted by slug, got %q and %q", buildCtx.Tags[0].Slug, buildCtx.Tags[1].Slug)
	}
	if len(buildCtx.Tags[0].Posts) != 2 {
		t.Fatalf("expected both posts under go, got %d", len(buildCtx.Tags[0].Posts))
	}
	if buildCtx.Partial {
		t.Fatal("full builds must not be partial")
	}
	// two post pages, the archive, two tag pages
	if len(buildCtx.Pages) != 5 {
		t.Fatalf("expected 5 page specs, got %d", len(buildCtx.Pages))
	}

	var archive *pageSpec
	for _, page := range buildCtx.Pages {
		if page.Kind == kindArchive {
			archive = page
		}
	}
	if archive == nil {
		t.Fatal("expected archive page spec")
	}
	if archive.Output != "index.html" || archive.Route != "/" {
		t.Fatalf("unexpected archive spec: %+v", archive)
	}
	if archive.Title != "Example Engineering" {
		t.Fatalf("archive title must fall back to the site title, got %q", archive.Title)
	}
	if archive.Hash == "" {
		t.Fatal("archive spec must carry a content hash")
	}
}

func TestLoadContextAppliesSlugFilter(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, testConfig(t.TempDir()), &sliceSource{records: corpusFixture()})

	buildCtx, err := svc.loadContext(ctx, BuildOptions{Slugs: []string{" First-Post ", ""}})
	if err != nil {
		t.Fatalf("load context: %v", err)
	}
	if !buildCtx.Partial {
		t.Fatal("slug filters must mark the build partial")
	}
	if len(buildCtx.Pages) != 1 {
		t.Fatalf("expected a single page spec, got %d", len(buildCtx.Pages))
	}
	if buildCtx.Pages[0].Slug != "first-post" || buildCtx.Pages[0].Kind != kindPost {
		t.Fatalf("unexpected page spec: %+v", buildCtx.Pages[0])
	}
}

func TestLoadContextExcludesFuturePostsFromListings(t *testing.T) {
	ctx := context.Background()
	records := corpusFixture()
	records = append(records, corpusPost("scheduled-post", buildTime.Add(time.Hour), []string{"go"}, "later"))
	svc := newTestService(t, testConfig(t.TempDir()), &sliceSource{records: records})

	buildCtx, err := svc.loadContext(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("load context: %v", err)
	}
	if len(buildCtx.All) != 3 {
		t.Fatalf("expected 3 posts in total, got %d", len(buildCtx.All))
	}
	if len(buildCtx.Listed) != 2 {
		t.Fatalf("expected 2 listed posts, got %d", len(buildCtx.Listed))
	}
	for _, group := range buildCtx.Tags {
		for _, record := range group.Posts {
			if record.Slug == "scheduled-post" {
				t.Fatal("future post must not join tag groups")
			}
		}
	}

	included, err := svc.loadContext(ctx, BuildOptions{IncludeFuture: true})
	if err != nil {
		t.Fatalf("load context with future: %v", err)
	}
	if len(included.Listed) != 3 {
		t.Fatalf("expected all posts listed, got %d", len(included.Listed))
	}
}

func TestGroupByTagMergesAndDedupes(t *testing.T) {
	shared := corpusPost("double-tagged", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), []string{"Go", "go", " "}, "body")
	other := corpusPost("spelled-out", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), []string{"GO"}, "body")

	groups := groupByTag([]*post.Post{shared, other})
	if len(groups) != 1 {
		t.Fatalf("expected a single merged group, got %d", len(groups))
	}
	group := groups[0]
	if group.Slug != "go" {
		t.Fatalf("expected slug go, got %q", group.Slug)
	}
	if group.Name != "Go" {
		t.Fatalf("expected first spelling to name the group, got %q", group.Name)
	}
	if len(group.Posts) != 2 {
		t.Fatalf("expected both posts once each, got %d", len(group.Posts))
	}
}

func TestSortPostsNewestFirstTieBreaksBySlug(t *testing.T) {
	date := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	records := []*post.Post{
		corpusPost("zeta", date, []string{"go"}, "z"),
		corpusPost("alpha", date, []string{"go"}, "a"),
		corpusPost("late", date.Add(24*time.Hour), []string{"go"}, "l"),
	}

	sortPostsNewestFirst(records)
	got := []string{records[0].Slug, records[1].Slug, records[2].Slug}
	want := []string{"late", "alpha", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestPostPageSpecHashTracksChecksum(t *testing.T) {
	svc := newTestService(t, testConfig(t.TempDir()), &sliceSource{})
	date := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	before := svc.postPageSpec(corpusPost("stable-slug", date, []string{"go"}, "one"))
	after := svc.postPageSpec(corpusPost("stable-slug", date, []string{"go"}, "two"))
	if before.Hash == after.Hash {
		t.Fatal("changed content must change the page hash")
	}

	same := svc.postPageSpec(corpusPost("stable-slug", date, []string{"go"}, "one"))
	if before.Hash != same.Hash {
		t.Fatal("identical content must keep the page hash")
	}
}
