package generator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryPage     writeCategory = "page"
	categoryFeed     writeCategory = "feed"
	categorySitemap  writeCategory = "sitemap"
	categoryRobots   writeCategory = "robots"
	categoryManifest writeCategory = "manifest"
)

// writeFileRequest describes a file write routed through the artifact writer.
// Paths are relative to the output root.
type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    writeCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// artifactWriter abstracts the output backend so builds can target the
// filesystem in production and an in-memory sink in tests.
type artifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req writeFileRequest) error
}

// artifactReader is the optional read side, used to load the previous build
// manifest. Writers that cannot read simply start from an empty manifest.
type artifactReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

func newArtifactWriter(root string) artifactWriter {
	if strings.TrimSpace(root) == "" {
		return noopWriter{}
	}
	return &fsWriter{root: root}
}

// fsWriter writes build artifacts beneath a root directory, refusing paths
// that resolve outside it.
type fsWriter struct {
	root string
}

func (w *fsWriter) resolve(rel string) (string, error) {
	safe, err := safeOutputPath(rel)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.root, filepath.FromSlash(safe)), nil
}

func (w *fsWriter) EnsureDir(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" || path == "." {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := w.resolve(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(target, 0o755)
}

func (w *fsWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := w.resolve(req.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (w *fsWriter) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := w.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }
