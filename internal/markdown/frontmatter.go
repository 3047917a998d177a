package markdown

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-press/pkg/interfaces"
	"github.com/goliatone/go-press/post"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. The raw key/value map is preserved alongside the
// typed fields so callers can inspect keys the envelope does not model.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	raw := map[string]any{}

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &raw)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse front matter: %w", err)
	}

	return frontMatterFromRaw(raw), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. The slug is derived from the file name;
// BodyHTML is intentionally left empty so callers can render lazily.
func BuildDocument(filePath string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     filePath,
		Slug:         SlugFromPath(filePath),
		FrontMatter:  meta,
		Body:         body,
		Fences:       ExtractFences(body),
		LastModified: modified,
	}, nil
}

// SlugFromPath returns the slug a file path claims: the base name without
// its extension.
func SlugFromPath(filePath string) string {
	base := path.Base(strings.ReplaceAll(filePath, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// frontMatterFromRaw maps the decoded YAML document onto the typed envelope.
// Unknown keys land in Custom; the untouched map is kept in Raw so linters
// can distinguish a missing key from an explicit null.
func frontMatterFromRaw(raw map[string]any) interfaces.FrontMatter {
	meta := interfaces.FrontMatter{
		Custom: map[string]any{},
		Raw:    cloneMap(raw),
	}

	for key, value := range raw {
		switch key {
		case "title":
			if title, ok := value.(string); ok {
				meta.Title = title
			}
		case "date":
			meta.Date = coerceDate(value)
		case "tags":
			meta.Tags = stringSlice(value)
		case "authors":
			meta.Authors = stringSlice(value)
		case "summary":
			if summary, ok := value.(string); ok {
				meta.Summary = summary
			}
		default:
			meta.Custom[key] = value
		}
	}

	return meta
}

func coerceDate(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := post.ParseDate(v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// stringSlice converts a YAML sequence into []string. A present-but-empty
// sequence yields an empty non-nil slice; anything else yields nil.
func stringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
