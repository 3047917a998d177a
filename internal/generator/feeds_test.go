package generator

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-press/post"
)

func TestBuildRSSFeedShape(t *testing.T) {
	svc := newTestService(t, testConfig(t.TempDir()), &sliceSource{})
	records := corpusFixture()

	content, err := svc.buildRSSFeed(records, buildTime)
	if err != nil {
		t.Fatalf("build rss: %v", err)
	}
	if !strings.HasPrefix(content, xml.Header) {
		t.Fatalf("missing xml header:\n%s", content)
	}

	var feed rssFeed
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(content, xml.Header)), &feed); err != nil {
		t.Fatalf("parse rss: %v", err)
	}
	if feed.Version != "2.0" {
		t.Fatalf("expected rss 2.0, got %q", feed.Version)
	}
	if feed.Channel.Title != "Example Engineering" {
		t.Fatalf("unexpected channel title %q", feed.Channel.Title)
	}
	if feed.Channel.LastBuildDate != buildTime.UTC().Format(time.RFC1123Z) {
		t.Fatalf("unexpected lastBuildDate %q", feed.Channel.LastBuildDate)
	}
	if len(feed.Channel.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Channel.Items))
	}

	item := feed.Channel.Items[0]
	if item.Link != "https://blog.example.com/posts/first-post/" {
		t.Fatalf("unexpected item link %q", item.Link)
	}
	if item.GUID != item.Link {
		t.Fatalf("guid must equal the permalink, got %q", item.GUID)
	}
	if _, err := time.Parse(time.RFC1123Z, item.PubDate); err != nil {
		t.Fatalf("pubDate must be RFC1123Z: %v", err)
	}
	if len(item.Categories) != 1 || item.Categories[0] != "Go" {
		t.Fatalf("unexpected categories %v", item.Categories)
	}
}

func TestBuildAtomFeedShape(t *testing.T) {
	svc := newTestService(t, testConfig(t.TempDir()), &sliceSource{})
	records := corpusFixture()

	content, err := svc.buildAtomFeed(records, buildTime)
	if err != nil {
		t.Fatalf("build atom: %v", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(content, xml.Header)), &feed); err != nil {
		t.Fatalf("parse atom: %v", err)
	}
	if feed.XMLNS != "http://www.w3.org/2005/Atom" {
		t.Fatalf("unexpected xmlns %q", feed.XMLNS)
	}
	if feed.ID != "https://blog.example.com/feed.atom.xml" {
		t.Fatalf("unexpected feed id %q", feed.ID)
	}
	if feed.Updated != buildTime.UTC().Format(time.RFC3339) {
		t.Fatalf("unexpected updated %q", feed.Updated)
	}
	if len(feed.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(feed.Entries))
	}

	entry := feed.Entries[0]
	if entry.ID != "https://blog.example.com/posts/first-post/" {
		t.Fatalf("unexpected entry id %q", entry.ID)
	}
	if _, err := time.Parse(time.RFC3339, entry.Updated); err != nil {
		t.Fatalf("updated must be RFC3339: %v", err)
	}
	if len(entry.Authors) != 1 || entry.Authors[0].Name != "Avery Quinn" {
		t.Fatalf("unexpected authors %v", entry.Authors)
	}
}

func TestFeedPostsDedupesByPermalink(t *testing.T) {
	svc := newTestService(t, testConfig(t.TempDir()), &sliceSource{})
	date := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	records := []*post.Post{
		corpusPost("repeat-slug", date, []string{"go"}, "one"),
		corpusPost("repeat-slug", date, []string{"go"}, "two"),
		corpusPost("other-slug", date, []string{"go"}, "three"),
	}

	selected := svc.feedPosts(&BuildContext{Listed: records})
	if len(selected) != 2 {
		t.Fatalf("expected duplicate permalinks collapsed, got %d posts", len(selected))
	}
}

func TestBuildSitemapDedupesLocations(t *testing.T) {
	pages := []*pageSpec{
		{Route: "/posts/a/", LastModified: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Route: "/posts/a/", LastModified: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)},
		{Route: "/"},
	}

	content, err := buildSitemap("https://blog.example.com", pages, buildTime)
	if err != nil {
		t.Fatalf("build sitemap: %v", err)
	}

	var parsed sitemapURLSet
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(content, xml.Header)), &parsed); err != nil {
		t.Fatalf("parse sitemap: %v", err)
	}
	if len(parsed.URLs) != 2 {
		t.Fatalf("expected 2 unique urls, got %d", len(parsed.URLs))
	}
	// entries come back sorted by location
	if parsed.URLs[0].Loc != "https://blog.example.com/" {
		t.Fatalf("unexpected first loc %q", parsed.URLs[0].Loc)
	}
	if parsed.URLs[0].LastMod != buildTime.UTC().Format(time.RFC3339) {
		t.Fatalf("expected generated-at fallback, got %q", parsed.URLs[0].LastMod)
	}
}

func TestBuildRobots(t *testing.T) {
	withSitemap := buildRobots("https://blog.example.com/", true)
	if !strings.Contains(withSitemap, "User-agent: *") || !strings.Contains(withSitemap, "Allow: /") {
		t.Fatalf("unexpected robots body:\n%s", withSitemap)
	}
	if !strings.Contains(withSitemap, "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Fatalf("expected sitemap reference:\n%s", withSitemap)
	}

	withoutSitemap := buildRobots("https://blog.example.com", false)
	if strings.Contains(withoutSitemap, "Sitemap:") {
		t.Fatalf("unexpected sitemap reference:\n%s", withoutSitemap)
	}
}
