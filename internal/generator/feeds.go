package generator

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/goliatone/go-press/post"
)

const defaultPostsPerFeed = 20

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Description string   `xml:"description,omitempty"`
	Categories  []string `xml:"category,omitempty"`
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	XMLNS   string      `xml:"xmlns,attr"`
	ID      string      `xml:"id"`
	Title   string      `xml:"title"`
	Updated string      `xml:"updated"`
	Links   []atomLink  `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr,omitempty"`
	Href string `xml:"href,attr"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Link      atomLink     `xml:"link"`
	Updated   string       `xml:"updated"`
	Published string       `xml:"published,omitempty"`
	Summary   string       `xml:"summary,omitempty"`
	Authors   []atomAuthor `xml:"author,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// feedPosts selects the newest listed posts, deduped by permalink and capped
// at PostsPerFeed.
func (s *service) feedPosts(buildCtx *BuildContext) []*post.Post {
	limit := s.cfg.PostsPerFeed
	if limit <= 0 {
		limit = defaultPostsPerFeed
	}
	seen := map[string]struct{}{}
	selected := make([]*post.Post, 0, limit)
	for _, record := range buildCtx.Listed {
		guid := absoluteURL(s.cfg.BaseURL, postRoute(record.Slug))
		if _, ok := seen[guid]; ok {
			continue
		}
		seen[guid] = struct{}{}
		selected = append(selected, record)
		if len(selected) == limit {
			break
		}
	}
	return selected
}

func (s *service) writeFeeds(ctx context.Context, writer artifactWriter, buildCtx *BuildContext) (int, error) {
	records := s.feedPosts(buildCtx)

	rssContent, err := s.buildRSSFeed(records, buildCtx.GeneratedAt)
	if err != nil {
		return 0, err
	}
	if err := s.writeArtifact(ctx, writer, writeFileRequest{
		Path:        "feed.xml",
		Content:     strings.NewReader(rssContent),
		Size:        int64(len(rssContent)),
		Category:    categoryFeed,
		ContentType: "application/rss+xml",
		Checksum:    computeHashFromString(rssContent),
		Metadata:    feedMetadata("rss", buildCtx.GeneratedAt),
	}); err != nil {
		return 0, err
	}

	atomContent, err := s.buildAtomFeed(records, buildCtx.GeneratedAt)
	if err != nil {
		return 1, err
	}
	if err := s.writeArtifact(ctx, writer, writeFileRequest{
		Path:        "feed.atom.xml",
		Content:     strings.NewReader(atomContent),
		Size:        int64(len(atomContent)),
		Category:    categoryFeed,
		ContentType: "application/atom+xml",
		Checksum:    computeHashFromString(atomContent),
		Metadata:    feedMetadata("atom", buildCtx.GeneratedAt),
	}); err != nil {
		return 1, err
	}

	return 2, nil
}

func (s *service) buildRSSFeed(records []*post.Post, generatedAt time.Time) (string, error) {
	items := make([]rssItem, 0, len(records))
	for _, record := range records {
		link := absoluteURL(s.cfg.BaseURL, postRoute(record.Slug))
		item := rssItem{
			Title:      record.Title,
			Link:       link,
			GUID:       link,
			PubDate:    record.Date.UTC().Format(time.RFC1123Z),
			Categories: append([]string{}, record.Tags...),
		}
		if record.Summary != nil {
			item.Description = strings.TrimSpace(*record.Summary)
		}
		items = append(items, item)
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:         s.siteTitle(),
			Link:          baseURLWithFallback(s.cfg.BaseURL),
			Description:   s.siteDescription(),
			LastBuildDate: generatedAt.UTC().Format(time.RFC1123Z),
			Items:         items,
		},
	}
	return encodeXML(feed)
}

func (s *service) buildAtomFeed(records []*post.Post, generatedAt time.Time) (string, error) {
	base := baseURLWithFallback(s.cfg.BaseURL)
	feedID := base + "/feed.atom.xml"

	entries := make([]atomEntry, 0, len(records))
	for _, record := range records {
		link := absoluteURL(s.cfg.BaseURL, postRoute(record.Slug))
		entry := atomEntry{
			ID:        link,
			Title:     record.Title,
			Link:      atomLink{Rel: "alternate", Href: link},
			Updated:   record.Date.UTC().Format(time.RFC3339),
			Published: record.Date.UTC().Format(time.RFC3339),
		}
		if record.Summary != nil {
			entry.Summary = strings.TrimSpace(*record.Summary)
		}
		for _, author := range record.Authors {
			if name := strings.TrimSpace(author); name != "" {
				entry.Authors = append(entry.Authors, atomAuthor{Name: name})
			}
		}
		entries = append(entries, entry)
	}

	feed := atomFeed{
		XMLNS:   "http://www.w3.org/2005/Atom",
		ID:      feedID,
		Title:   s.siteTitle(),
		Updated: generatedAt.UTC().Format(time.RFC3339),
		Links: []atomLink{
			{Rel: "alternate", Href: base},
			{Rel: "self", Href: feedID},
		},
		Entries: entries,
	}
	return encodeXML(feed)
}

func feedMetadata(feedType string, generatedAt time.Time) map[string]string {
	return map[string]string{
		"generated_at": generatedAt.UTC().Format(time.RFC3339),
		"feed_type":    feedType,
	}
}

func (s *service) siteTitle() string {
	if title := strings.TrimSpace(s.cfg.SiteTitle); title != "" {
		return title
	}
	if base := strings.TrimSpace(s.cfg.BaseURL); base != "" {
		return base
	}
	return "Posts"
}

func (s *service) siteDescription() string {
	if desc := strings.TrimSpace(s.cfg.SiteDescription); desc != "" {
		return desc
	}
	return "Latest posts"
}

func encodeXML(v any) (string, error) {
	data, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(data) + "\n", nil
}
