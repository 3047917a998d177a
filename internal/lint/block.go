package lint

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatterBlock is the raw front matter region of a file plus the line
// bookkeeping needed to map YAML nodes back to file positions.
type frontMatterBlock struct {
	// Found reports whether an opening delimiter was present on line 1.
	Found bool
	// Closed reports whether the closing delimiter was found.
	Closed bool
	// Raw holds the YAML text between the delimiters.
	Raw []byte
	// StartLine is the 1-based file line of the first YAML line.
	StartLine int
	// BodyLine is the 1-based file line where the Markdown body begins.
	BodyLine int
	// Body holds everything after the closing delimiter.
	Body []byte
}

// splitFrontMatter separates the front matter block from the body while
// tracking line offsets. A file without an opening delimiter is all body.
func splitFrontMatter(source []byte) frontMatterBlock {
	normalized := strings.ReplaceAll(string(source), "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return frontMatterBlock{Body: source, BodyLine: 1}
	}

	for idx := 1; idx < len(lines); idx++ {
		trimmed := strings.TrimRight(lines[idx], " \t")
		if trimmed != "---" && trimmed != "..." {
			continue
		}

		raw := ""
		if idx > 1 {
			raw = strings.Join(lines[1:idx], "\n") + "\n"
		}
		body := ""
		if idx+1 < len(lines) {
			body = strings.Join(lines[idx+1:], "\n")
		}

		return frontMatterBlock{
			Found:     true,
			Closed:    true,
			Raw:       []byte(raw),
			StartLine: 2,
			Body:      []byte(body),
			BodyLine:  idx + 2,
		}
	}

	// Opening delimiter without a close: everything is front matter.
	raw := ""
	if len(lines) > 1 {
		raw = strings.Join(lines[1:], "\n")
	}
	return frontMatterBlock{
		Found:     true,
		Closed:    false,
		Raw:       []byte(raw),
		StartLine: 2,
		BodyLine:  len(lines) + 1,
	}
}

// fieldEntry pairs a front matter key with its value node and the file line
// the key sits on.
type fieldEntry struct {
	Key   *yaml.Node
	Value *yaml.Node
	Line  int
}

// parseFields decodes the raw block into per-key entries. The returned map
// is nil when the YAML does not parse or is not a mapping.
func (b frontMatterBlock) parseFields() (map[string]fieldEntry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b.Raw, &doc); err != nil {
		return nil, err
	}

	if len(doc.Content) == 0 {
		return map[string]fieldEntry{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}

	offset := b.StartLine - 1
	entries := make(map[string]fieldEntry, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		value := root.Content[i+1]
		entries[key.Value] = fieldEntry{
			Key:   key,
			Value: value,
			Line:  key.Line + offset,
		}
	}
	return entries, nil
}

// decodeRaw unmarshals the block into a generic map for schema validation.
func (b frontMatterBlock) decodeRaw() (map[string]any, error) {
	payload := map[string]any{}
	if err := yaml.Unmarshal(b.Raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
