package testsupport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PostFixture describes a corpus post seeded into a test directory.
type PostFixture struct {
	Slug    string
	Title   string
	Date    time.Time
	Tags    []string
	Authors []string
	Body    string
}

// WritePost renders the fixture as front matter plus body and writes it to
// dir as <slug>.md. Calling it again with the same slug overwrites the file,
// which is how tests simulate an author editing a post.
func WritePost(dir string, post PostFixture) (string, error) {
	if strings.TrimSpace(post.Slug) == "" {
		return "", fmt.Errorf("testsupport: post fixture needs a slug")
	}

	header := struct {
		Title   string    `yaml:"title"`
		Date    time.Time `yaml:"date"`
		Tags    []string  `yaml:"tags"`
		Authors []string  `yaml:"authors,omitempty"`
	}{post.Title, post.Date, post.Tags, post.Authors}

	meta, err := yaml.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("testsupport: marshal front matter: %w", err)
	}

	body := post.Body
	if body == "" {
		body = "Placeholder body."
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteByte('\n')
	}

	path := filepath.Join(dir, post.Slug+".md")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("testsupport: write post fixture: %w", err)
	}
	return path, nil
}
