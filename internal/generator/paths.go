package generator

import (
	"fmt"
	"path"
	"strings"
)

const (
	postRoutePrefix = "posts"
	tagRoutePrefix  = "tags"
)

func postRoute(slug string) string {
	return "/" + path.Join(postRoutePrefix, slug) + "/"
}

func tagRoute(tagSlug string) string {
	return "/" + path.Join(tagRoutePrefix, tagSlug) + "/"
}

// buildOutputPath maps a site route onto its root-relative output file,
// giving every route a directory-style URL backed by an index.html.
func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), "/")
	if clean == "" {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}

// safeOutputPath normalises a root-relative output path and rejects anything
// that would escape the output directory.
func safeOutputPath(rel string) (string, error) {
	trimmed := strings.TrimSpace(rel)
	if trimmed == "" {
		return "", fmt.Errorf("generator: empty output path")
	}
	if strings.HasPrefix(trimmed, "/") {
		return "", fmt.Errorf("generator: output path %q must be relative", rel)
	}
	clean := path.Clean(trimmed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("generator: output path %q escapes the output directory", rel)
	}
	return clean, nil
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}
