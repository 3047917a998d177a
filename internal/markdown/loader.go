package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-press/pkg/interfaces"
)

const defaultPattern = "*.md"

// LoaderConfig configures how Markdown files are discovered within a base
// directory.
type LoaderConfig struct {
	// BasePath is the root directory where Markdown documents live.
	BasePath string
	// Pattern limits discovered files to those matching the supplied glob
	// (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into Markdown documents with metadata.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader over the provided filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = defaultPattern
	}

	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// RawFile carries the bytes of one source file before parsing.
type RawFile struct {
	Path    string
	Source  []byte
	ModTime time.Time
}

// ReadFile fetches a single file's bytes and modification time. Linters use
// this to keep going when a file fails to parse.
func (l *Loader) ReadFile(ctx context.Context, path string) (*RawFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.relativize(path)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	return &RawFile{Path: rel, Source: data, ModTime: info.ModTime()}, nil
}

// ReadDirectory discovers matching files under dir and returns their raw
// bytes sorted by path.
func (l *Loader) ReadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*RawFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.relativize(dir)
	if err != nil {
		return nil, err
	}

	var files []*RawFile
	err = fs.WalkDir(l.fs, root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if l.walkInto(root, path, opts.Recursive) {
				return nil
			}
			return fs.SkipDir
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.matches(filepath.ToSlash(path), opts.Pattern) {
			return nil
		}

		file, err := l.ReadFile(ctx, path)
		if err != nil {
			return err
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// LoadFile reads and parses a single Markdown document.
func (l *Loader) LoadFile(ctx context.Context, path string, opts LoadParams) (*DocumentResult, error) {
	raw, err := l.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return buildResult(raw)
}

// LoadDirectory discovers Markdown files under dir and returns parsed
// documents sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*DocumentResult, error) {
	files, err := l.ReadDirectory(ctx, dir, opts)
	if err != nil {
		return nil, err
	}

	results := make([]*DocumentResult, len(files))
	for i, raw := range files {
		result, err := buildResult(raw)
		if err != nil {
			return nil, err
		}
		results[i] = result
	}
	return results, nil
}

// buildResult parses a raw file into a document and stamps the source
// checksum used for incremental builds and sync detection.
func buildResult(raw *RawFile) (*DocumentResult, error) {
	doc, err := BuildDocument(raw.Path, raw.Source, raw.ModTime)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw.Source)
	doc.Checksum = sum[:]
	return &DocumentResult{Document: doc, Source: raw.Source}, nil
}

// walkInto reports whether the walk may descend into dir. When recursion is
// off only the root itself is visited.
func (l *Loader) walkInto(root, dir string, override *bool) bool {
	recursive := l.recursive
	if override != nil {
		recursive = *override
	}
	return recursive || filepath.Clean(dir) == filepath.Clean(root)
}

// matches applies the call override or configured glob against the path.
// Patterns containing a separator match the full relative path, bare
// patterns match the file name only.
func (l *Loader) matches(path string, override string) bool {
	pattern := strings.TrimSpace(override)
	if pattern == "" {
		pattern = l.pattern
	}
	pattern = filepath.ToSlash(pattern)
	// filepath.Match has no globstar support; collapse "**/" segments so
	// recursive-style globs still select by suffix.
	pattern = strings.ReplaceAll(pattern, "**/", "")

	target := filepath.Base(path)
	if strings.Contains(pattern, "/") {
		target = path
	}
	ok, err := filepath.Match(pattern, target)
	return err == nil && ok
}

// relativize maps caller paths onto the loader filesystem's slash-separated
// relative form. Absolute paths are rebased against the configured base path.
func (l *Loader) relativize(path string) (string, error) {
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) {
		if l.basePath == "" {
			return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", path)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("markdown loader: make relative %s: %w", path, err)
		}
		clean = rel
	}
	return filepath.ToSlash(clean), nil
}

// DocumentResult carries the parsed document along with the raw source.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}

// LoadParams provide call-specific overrides for pattern matching and
// traversal depth.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}
