package generator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-press/post"
)

// BuildContext carries the resolved corpus for a single build run.
type BuildContext struct {
	All         []*post.Post
	Listed      []*post.Post
	Tags        []tagGroup
	Pages       []*pageSpec
	GeneratedAt time.Time
	Options     BuildOptions
	Partial     bool
}

// tagGroup collects the posts published under one normalised tag. Tags that
// normalise to the same slug merge; the first spelling seen names the page.
type tagGroup struct {
	Slug  string
	Name  string
	Posts []*post.Post
}

func (s *service) loadContext(ctx context.Context, opts BuildOptions) (*BuildContext, error) {
	records, err := s.deps.Source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: list posts: %w", err)
	}

	all := make([]*post.Post, 0, len(records))
	for _, record := range records {
		if record != nil {
			all = append(all, record)
		}
	}
	sortPostsNewestFirst(all)

	buildCtx := &BuildContext{
		All:         all,
		GeneratedAt: s.now().UTC(),
		Options:     opts,
	}

	listed := make([]*post.Post, 0, len(all))
	for _, record := range all {
		if opts.IncludeFuture || record.Published(buildCtx.GeneratedAt) {
			listed = append(listed, record)
		}
	}
	buildCtx.Listed = listed
	buildCtx.Tags = groupByTag(listed)

	slugFilter := normaliseSlugFilter(opts.Slugs)
	buildCtx.Partial = len(slugFilter) > 0

	if buildCtx.Partial {
		for _, record := range all {
			if _, ok := slugFilter[strings.ToLower(record.Slug)]; ok {
				buildCtx.Pages = append(buildCtx.Pages, s.postPageSpec(record))
			}
		}
		return buildCtx, nil
	}

	pages := make([]*pageSpec, 0, len(all)+len(buildCtx.Tags)+1)
	for _, record := range all {
		pages = append(pages, s.postPageSpec(record))
	}
	pages = append(pages, s.archivePageSpec(listed))
	for _, group := range buildCtx.Tags {
		pages = append(pages, s.tagPageSpec(group))
	}
	buildCtx.Pages = pages
	return buildCtx, nil
}

func (s *service) postPageSpec(record *post.Post) *pageSpec {
	route := postRoute(record.Slug)
	return &pageSpec{
		Kind:         kindPost,
		Slug:         record.Slug,
		Route:        route,
		Output:       buildOutputPath(route),
		Template:     templatePost,
		Title:        record.Title,
		Post:         record,
		Hash:         computeHashFromString(strings.Join([]string{kindPost, record.Slug, record.Checksum}, "\n")),
		LastModified: record.Date,
	}
}

func (s *service) archivePageSpec(listed []*post.Post) *pageSpec {
	title := strings.TrimSpace(s.cfg.SiteTitle)
	if title == "" {
		title = "Posts"
	}
	return &pageSpec{
		Kind:         kindArchive,
		Route:        "/",
		Output:       buildOutputPath("/"),
		Template:     templateArchive,
		Title:        title,
		Posts:        listed,
		Hash:         listHash(kindArchive, listed),
		LastModified: newestDate(listed),
	}
}

func (s *service) tagPageSpec(group tagGroup) *pageSpec {
	route := tagRoute(group.Slug)
	return &pageSpec{
		Kind:         kindTag,
		Slug:         group.Slug,
		Route:        route,
		Output:       buildOutputPath(route),
		Template:     templateTag,
		Title:        group.Name,
		Posts:        group.Posts,
		Tag:          group.Name,
		Hash:         listHash(kindTag, group.Posts, group.Slug),
		LastModified: newestDate(group.Posts),
	}
}

func groupByTag(listed []*post.Post) []tagGroup {
	grouped := map[string]*tagGroup{}
	members := map[string]map[string]struct{}{}

	for _, record := range listed {
		for _, tag := range record.Tags {
			name := strings.TrimSpace(tag)
			if name == "" {
				continue
			}
			tagSlug, err := post.Slugify(name)
			if err != nil || tagSlug == "" {
				continue
			}
			group := grouped[tagSlug]
			if group == nil {
				group = &tagGroup{Slug: tagSlug, Name: name}
				grouped[tagSlug] = group
				members[tagSlug] = map[string]struct{}{}
			}
			if _, ok := members[tagSlug][record.Slug]; ok {
				continue
			}
			members[tagSlug][record.Slug] = struct{}{}
			group.Posts = append(group.Posts, record)
		}
	}

	groups := make([]tagGroup, 0, len(grouped))
	for _, group := range grouped {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Slug < groups[j].Slug
	})
	return groups
}

func sortPostsNewestFirst(records []*post.Post) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date.Equal(records[j].Date) {
			return records[i].Slug < records[j].Slug
		}
		return records[i].Date.After(records[j].Date)
	})
}

func normaliseSlugFilter(slugs []string) map[string]struct{} {
	if len(slugs) == 0 {
		return nil
	}
	filter := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		trimmed := strings.ToLower(strings.TrimSpace(slug))
		if trimmed != "" {
			filter[trimmed] = struct{}{}
		}
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}

func listHash(kind string, records []*post.Post, extra ...string) string {
	parts := make([]string, 0, len(records)+len(extra)+1)
	parts = append(parts, kind)
	parts = append(parts, extra...)
	for _, record := range records {
		parts = append(parts, record.Slug+"@"+record.Checksum)
	}
	return computeHashFromString(strings.Join(parts, "\n"))
}

func newestDate(records []*post.Post) time.Time {
	var newest time.Time
	for _, record := range records {
		if record.Date.After(newest) {
			newest = record.Date
		}
	}
	return newest
}
