package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	manifestFileName    = ".press-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful build to support
// incremental runs. Pages are keyed by their root-relative output path.
type buildManifest struct {
	Version     int                        `json:"version"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Pages       map[string]manifestPage    `json:"pages"`
	Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
}

type manifestPage struct {
	Kind         string    `json:"kind"`
	Slug         string    `json:"slug,omitempty"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Template     string    `json:"template"`
	Hash         string    `json:"hash"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified"`
	RenderedAt   time.Time `json:"rendered_at"`
}

func newBuildManifest() *buildManifest {
	manifest := &buildManifest{}
	manifest.normalise()
	return manifest
}

// normalise backfills zero values left by older or hand-edited manifests.
func (m *buildManifest) normalise() {
	if m.Version == 0 {
		m.Version = manifestFileVersion
	}
	if m.Pages == nil {
		m.Pages = map[string]manifestPage{}
	}
	if m.Metadata == nil {
		m.Metadata = map[string]json.RawMessage{}
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	manifest.normalise()
	return &manifest, nil
}

// marshal renders the manifest with pages sorted by output path so rebuilds
// produce byte-identical files for identical content.
func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	version := m.Version
	if version == 0 {
		version = manifestFileVersion
	}
	ordered := struct {
		Version     int                        `json:"version"`
		GeneratedAt time.Time                  `json:"generated_at"`
		Pages       []manifestPage             `json:"pages"`
		Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
	}{
		Version:     version,
		GeneratedAt: m.GeneratedAt,
		Pages:       m.sortedPages(),
		Metadata:    m.Metadata,
	}
	return json.MarshalIndent(ordered, "", "  ")
}

func (m *buildManifest) sortedPages() []manifestPage {
	if len(m.Pages) == 0 {
		return nil
	}
	pages := make([]manifestPage, 0, len(m.Pages))
	for _, entry := range m.Pages {
		pages = append(pages, entry)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Output < pages[j].Output })
	return pages
}

// UnmarshalJSON accepts both the persisted list form and the map form so
// manifests survive hand edits.
func (m *buildManifest) UnmarshalJSON(data []byte) error {
	type persistedManifest struct {
		Version     int                        `json:"version"`
		GeneratedAt time.Time                  `json:"generated_at"`
		Pages       json.RawMessage            `json:"pages"`
		Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
	}
	var persisted persistedManifest
	if err := json.Unmarshal(data, &persisted); err != nil {
		return err
	}
	m.Version = persisted.Version
	m.GeneratedAt = persisted.GeneratedAt
	m.Metadata = persisted.Metadata
	m.Pages = map[string]manifestPage{}

	if len(persisted.Pages) == 0 {
		return nil
	}
	var asList []manifestPage
	if err := json.Unmarshal(persisted.Pages, &asList); err == nil {
		for _, entry := range asList {
			m.setPage(entry)
		}
		return nil
	}
	var asMap map[string]manifestPage
	if err := json.Unmarshal(persisted.Pages, &asMap); err != nil {
		return err
	}
	for _, entry := range asMap {
		m.setPage(entry)
	}
	return nil
}

func (m *buildManifest) pageKey(output string) string {
	return strings.TrimSpace(output)
}

func (m *buildManifest) lookupPage(output string) (manifestPage, bool) {
	if m == nil || len(m.Pages) == 0 {
		return manifestPage{}, false
	}
	entry, ok := m.Pages[m.pageKey(output)]
	return entry, ok
}

func (m *buildManifest) setPage(entry manifestPage) {
	if m == nil {
		return
	}
	if m.Pages == nil {
		m.Pages = map[string]manifestPage{}
	}
	key := m.pageKey(entry.Output)
	if key == "" {
		return
	}
	m.Pages[key] = entry
}

// shouldSkipPage reports whether the page at output is unchanged since the
// last build. Both the source hash and the output location must match.
func (m *buildManifest) shouldSkipPage(output, hash string) bool {
	entry, ok := m.lookupPage(output)
	if !ok {
		return false
	}
	if strings.TrimSpace(hash) == "" || entry.Hash != hash {
		return false
	}
	return strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}

// prunePages drops entries whose output was not part of the current build so
// deleted posts stop being skipped forever.
func (m *buildManifest) prunePages(keys map[string]struct{}) {
	if m == nil || len(m.Pages) == 0 {
		return
	}
	for key := range m.Pages {
		if _, ok := keys[key]; !ok {
			delete(m.Pages, key)
		}
	}
}
