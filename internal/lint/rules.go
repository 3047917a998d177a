package lint

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/pkg/interfaces"
	"github.com/goliatone/go-press/post"
)

// Rule identifiers reported in diagnostics.
const (
	RuleFrontMatterParse   = "front-matter/parse"
	RuleFrontMatterTitle   = "front-matter/title"
	RuleTitleLength        = "front-matter/title-length"
	RuleFrontMatterDate    = "front-matter/date"
	RuleFrontMatterTags    = "front-matter/tags"
	RuleFrontMatterAuthors = "front-matter/authors"
	RuleFrontMatterSchema  = "front-matter/schema"
	RuleFenceLanguage      = "body/fence-language"
	RuleSlugMatch          = "file/slug"
	RuleSlugFormat         = "file/slug-format"
	RuleDuplicateSlug      = "corpus/duplicate-slug"
)

var errNotMapping = errors.New("front matter must be a YAML mapping")

// fileContext carries everything the per-file rules inspect.
type fileContext struct {
	path    string
	slug    string
	block   frontMatterBlock
	entries map[string]fieldEntry
	title   string
}

// checkFrontMatterShape reports parse-level problems. When it returns a
// diagnostic the field rules are suppressed for the file.
func checkFrontMatterShape(fc *fileContext, parseErr error) []interfaces.Diagnostic {
	if !fc.block.Found {
		return []interfaces.Diagnostic{errorAt(fc.path, 1, RuleFrontMatterParse, "front matter block is missing")}
	}
	if !fc.block.Closed {
		return []interfaces.Diagnostic{errorAt(fc.path, 1, RuleFrontMatterParse, "front matter closing delimiter is missing")}
	}
	if parseErr != nil {
		line, message := yamlErrorPosition(parseErr, fc.block.StartLine-1)
		return []interfaces.Diagnostic{errorAt(fc.path, line, RuleFrontMatterParse, message)}
	}
	return nil
}

// checkTitle enforces a present, non-empty string title. A valid title is
// recorded on the context for the slug rule.
func checkTitle(fc *fileContext) []interfaces.Diagnostic {
	entry, ok := fc.entries["title"]
	if !ok {
		return []interfaces.Diagnostic{errorAt(fc.path, 1, RuleFrontMatterTitle, "title is required")}
	}
	if !isStringNode(entry.Value) {
		return []interfaces.Diagnostic{errorAt(fc.path, entry.Line, RuleFrontMatterTitle, "title must be a string")}
	}
	if strings.TrimSpace(entry.Value.Value) == "" {
		return []interfaces.Diagnostic{errorAt(fc.path, entry.Line, RuleFrontMatterTitle, "title must not be empty")}
	}
	fc.title = entry.Value.Value
	return nil
}

// checkTitleLength warns when the title exceeds the configured budget. A
// limit of zero disables the check.
func checkTitleLength(fc *fileContext, limit int) []interfaces.Diagnostic {
	if limit <= 0 || fc.title == "" {
		return nil
	}
	length := utf8.RuneCountInString(fc.title)
	if length <= limit {
		return nil
	}
	entry := fc.entries["title"]
	message := fmt.Sprintf("title is %d characters long (limit %d)", length, limit)
	return []interfaces.Diagnostic{warningAt(fc.path, entry.Line, RuleTitleLength, message)}
}

// checkDate enforces a present ISO-8601 date.
func checkDate(fc *fileContext) []interfaces.Diagnostic {
	entry, ok := fc.entries["date"]
	if !ok {
		return []interfaces.Diagnostic{errorAt(fc.path, 1, RuleFrontMatterDate, "date is required")}
	}
	if entry.Value.Kind != yaml.ScalarNode || entry.Value.Tag == nullTag {
		return []interfaces.Diagnostic{errorAt(fc.path, entry.Line, RuleFrontMatterDate, "date must be an ISO-8601 date string")}
	}
	if _, err := post.ParseDate(entry.Value.Value); err != nil {
		message := fmt.Sprintf("date %q is not a valid ISO-8601 date", entry.Value.Value)
		return []interfaces.Diagnostic{errorAt(fc.path, entry.Line, RuleFrontMatterDate, message)}
	}
	return nil
}

// checkTags requires the key with a list-of-strings value. An empty list is
// fine; a null or missing key is not.
func checkTags(fc *fileContext) []interfaces.Diagnostic {
	entry, ok := fc.entries["tags"]
	if !ok {
		return []interfaces.Diagnostic{errorAt(fc.path, 1, RuleFrontMatterTags, "tags key is required (use [] when a post has no tags)")}
	}
	return checkStringList(fc.path, RuleFrontMatterTags, "tags", entry)
}

// checkAuthors validates the optional authors list.
func checkAuthors(fc *fileContext) []interfaces.Diagnostic {
	entry, ok := fc.entries["authors"]
	if !ok {
		return nil
	}
	return checkStringList(fc.path, RuleFrontMatterAuthors, "authors", entry)
}

func checkStringList(path, rule, field string, entry fieldEntry) []interfaces.Diagnostic {
	if entry.Value.Tag == nullTag {
		message := fmt.Sprintf("%s must be a list, not null", field)
		return []interfaces.Diagnostic{errorAt(path, entry.Line, rule, message)}
	}
	if entry.Value.Kind != yaml.SequenceNode {
		message := fmt.Sprintf("%s must be a list of strings", field)
		return []interfaces.Diagnostic{errorAt(path, entry.Line, rule, message)}
	}

	offset := entry.Line - entry.Key.Line
	var diags []interfaces.Diagnostic
	for idx, item := range entry.Value.Content {
		if isStringNode(item) && strings.TrimSpace(item.Value) != "" {
			continue
		}
		message := fmt.Sprintf("%s[%d] must be a non-empty string", field, idx)
		diags = append(diags, errorAt(path, item.Line+offset, rule, message))
	}
	return diags
}

// checkSlug validates the file-name slug and compares it against the slug
// the title would produce.
func checkSlug(fc *fileContext) []interfaces.Diagnostic {
	var diags []interfaces.Diagnostic

	if !post.IsValidSlug(fc.slug) {
		message := fmt.Sprintf("file name %q is not a valid slug", fc.slug)
		diags = append(diags, errorAt(fc.path, 1, RuleSlugFormat, message))
		return diags
	}

	if fc.title == "" {
		return diags
	}
	want, err := post.Slugify(fc.title)
	if err != nil || want == "" {
		return diags
	}
	if want != fc.slug {
		message := fmt.Sprintf("file name slug %q does not match title slug %q", fc.slug, want)
		diags = append(diags, warningAt(fc.path, 1, RuleSlugMatch, message))
	}
	return diags
}

// checkFences warns on fenced code blocks without a language and on info
// tags outside the recognized registry.
func checkFences(fc *fileContext, languages map[string]struct{}) []interfaces.Diagnostic {
	var diags []interfaces.Diagnostic
	for _, fence := range markdown.ExtractFences(fc.block.Body) {
		line := fc.block.BodyLine + fence.Line - 1
		if fence.Language == "" {
			diags = append(diags, warningAt(fc.path, line, RuleFenceLanguage, "code fence is missing a language"))
			continue
		}
		if len(languages) == 0 {
			continue
		}
		if _, ok := languages[strings.ToLower(fence.Language)]; !ok {
			message := fmt.Sprintf("code fence language %q is not a recognized identifier", fence.Language)
			diags = append(diags, warningAt(fc.path, line, RuleFenceLanguage, message))
		}
	}
	return diags
}

const (
	strTag  = "!!str"
	nullTag = "!!null"
)

func isStringNode(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.Tag == strTag
}

func errorAt(path string, line int, rule, message string) interfaces.Diagnostic {
	return interfaces.Diagnostic{
		Rule:     rule,
		Severity: interfaces.SeverityError,
		Path:     path,
		Line:     line,
		Message:  message,
	}
}

func warningAt(path string, line int, rule, message string) interfaces.Diagnostic {
	return interfaces.Diagnostic{
		Rule:     rule,
		Severity: interfaces.SeverityWarning,
		Path:     path,
		Line:     line,
		Message:  message,
	}
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// yamlErrorPosition maps a yaml error onto a file line using the block
// offset. Errors without position information land on line 1.
func yamlErrorPosition(err error, offset int) (int, string) {
	if errors.Is(err, errNotMapping) {
		return offset + 1, err.Error()
	}

	message := fmt.Sprintf("front matter is not valid YAML: %s", strings.TrimPrefix(err.Error(), "yaml: "))

	match := yamlLinePattern.FindStringSubmatch(err.Error())
	if len(match) != 2 {
		return 1, message
	}
	line, convErr := strconv.Atoi(match[1])
	if convErr != nil {
		return 1, message
	}
	return line + offset, message
}
