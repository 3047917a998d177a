package store

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-press/internal/identity"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
	"github.com/goliatone/go-press/post"
)

var (
	ErrRepositoryRequired = errors.New("store: repository is required")
	ErrMarkdownRequired   = errors.New("store: markdown service is required")
)

// IndexerConfig encapsulates the dependencies required to mirror a corpus.
type IndexerConfig struct {
	Repository Repository
	Markdown   interfaces.MarkdownService
	Logger     interfaces.Logger
	Clock      func() time.Time
}

// Indexer persists markdown documents as posts, skipping unchanged files by
// checksum and optionally pruning posts whose sources disappeared.
type Indexer struct {
	repo     Repository
	markdown interfaces.MarkdownService
	logger   interfaces.Logger
	clock    func() time.Time
}

var _ interfaces.StoreService = (*Indexer)(nil)

// NewIndexer builds an Indexer from the supplied configuration.
func NewIndexer(cfg IndexerConfig) *Indexer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Indexer{
		repo:     cfg.Repository,
		markdown: cfg.Markdown,
		logger:   logger,
		clock:    clock,
	}
}

// ImportDocument imports a single parsed document.
func (i *Indexer) ImportDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return i.ImportDocuments(ctx, []*interfaces.Document{doc}, opts)
}

// ImportDocuments imports a batch of documents, reporting per-document
// failures without aborting the batch.
func (i *Indexer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.repo == nil {
		return nil, ErrRepositoryRequired
	}

	ordered := sortDocuments(docs)
	acc := newImportAccumulator()
	seen := make(map[string]string, len(ordered))

	for _, doc := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := i.applyDocument(ctx, doc, opts, acc, seen); err != nil {
			acc.addError(err)
		}
	}

	result := acc.result()
	i.logger.Info("corpus import",
		"created", len(result.Created),
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"errors", len(result.Errors),
		"dry_run", opts.DryRun,
	)
	return result, firstError(result.Errors)
}

// ImportDirectory loads and imports every document under dir.
func (i *Indexer) ImportDirectory(ctx context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.markdown == nil {
		return nil, ErrMarkdownRequired
	}
	docs, err := i.markdown.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("store: load corpus %s: %w", dir, err)
	}
	return i.ImportDocuments(ctx, docs, opts)
}

// SyncDocuments imports the batch and optionally deletes stored posts that
// have no corresponding document.
func (i *Indexer) SyncDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if i.repo == nil {
		return nil, ErrRepositoryRequired
	}

	acc := newSyncAccumulator()
	imported, err := i.ImportDocuments(ctx, docs, opts.ImportOptions)
	if imported != nil {
		acc.merge(imported)
	}
	if err != nil && imported == nil {
		return nil, err
	}

	if opts.DeleteOrphaned {
		if err := i.deleteOrphaned(ctx, docs, opts, acc); err != nil {
			acc.addError(err)
		}
	}

	result := acc.result()
	i.logger.Info("corpus sync",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"deleted", result.Deleted,
		"errors", len(result.Errors),
		"dry_run", opts.DryRun,
	)
	return result, firstError(result.Errors)
}

// SyncDirectory loads dir and synchronises the repository against it.
func (i *Indexer) SyncDirectory(ctx context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if i.markdown == nil {
		return nil, ErrMarkdownRequired
	}
	docs, err := i.markdown.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("store: load corpus %s: %w", dir, err)
	}
	return i.SyncDocuments(ctx, docs, opts)
}

func (i *Indexer) applyDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, acc *importAccumulator, seen map[string]string) error {
	record, err := i.buildPost(doc)
	if err != nil {
		return err
	}

	slugKey := normaliseSlug(record.Slug)
	if previous, ok := seen[slugKey]; ok {
		return &post.DuplicateSlugError{
			Slug:         record.Slug,
			Path:         record.SourcePath,
			ExistingPath: previous,
		}
	}
	seen[slugKey] = record.SourcePath

	existing, err := i.repo.GetBySlug(ctx, record.Slug)
	if err != nil {
		var notFound *post.NotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("store: lookup %s: %w", record.Slug, err)
		}
		existing = nil
	}

	if existing == nil {
		if opts.DryRun {
			acc.created(record.ID)
			return nil
		}
		created, createErr := i.repo.Create(ctx, record)
		if createErr != nil {
			return fmt.Errorf("store: create %s: %w", record.Slug, createErr)
		}
		logging.WithPostContext(i.logger, record.SourcePath, record.Slug, "create").Debug("post created")
		acc.created(created.ID)
		return nil
	}

	if existing.Checksum == record.Checksum && existing.SourcePath == record.SourcePath {
		acc.skip(existing.ID)
		return nil
	}

	if opts.DryRun {
		acc.updated(existing.ID)
		return nil
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	updated, updateErr := i.repo.Update(ctx, record)
	if updateErr != nil {
		return fmt.Errorf("store: update %s: %w", record.Slug, updateErr)
	}
	logging.WithPostContext(i.logger, record.SourcePath, record.Slug, "update").Debug("post updated")
	acc.updated(updated.ID)
	return nil
}

func (i *Indexer) deleteOrphaned(ctx context.Context, docs []*interfaces.Document, opts interfaces.SyncOptions, acc *syncAccumulator) error {
	existing, err := i.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("store: list posts: %w", err)
	}

	batch := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		batch[normaliseSlug(doc.Slug)] = struct{}{}
	}

	for _, record := range existing {
		if _, ok := batch[normaliseSlug(record.Slug)]; ok {
			continue
		}
		if opts.DryRun {
			acc.deleted++
			continue
		}
		if err := i.repo.DeleteBySlug(ctx, record.Slug); err != nil {
			return fmt.Errorf("store: delete %s: %w", record.Slug, err)
		}
		logging.WithPostContext(i.logger, record.SourcePath, record.Slug, "delete").Debug("post deleted")
		acc.deleted++
	}

	return nil
}

func (i *Indexer) buildPost(doc *interfaces.Document) (*post.Post, error) {
	return buildPostRecord(doc, i.clock())
}

// buildPostRecord maps a parsed document onto a post record and validates the
// corpus contract.
func buildPostRecord(doc *interfaces.Document, now time.Time) (*post.Post, error) {
	if doc == nil {
		return nil, errors.New("store: nil document")
	}

	meta := doc.FrontMatter
	record := &post.Post{
		ID:         identity.PostUUID(doc.Slug),
		Slug:       doc.Slug,
		Title:      strings.TrimSpace(meta.Title),
		Date:       meta.Date,
		Tags:       cloneStrings(meta.Tags),
		Authors:    cloneStrings(meta.Authors),
		Summary:    optionalString(meta.Summary),
		Body:       string(doc.Body),
		BodyHTML:   string(doc.BodyHTML),
		SourcePath: doc.FilePath,
		Checksum:   hex.EncodeToString(doc.Checksum),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("store: %s: %w", doc.FilePath, err)
	}
	return record, nil
}

func sortDocuments(docs []*interfaces.Document) []*interfaces.Document {
	ordered := make([]*interfaces.Document, 0, len(docs))
	for _, doc := range docs {
		if doc != nil {
			ordered = append(ordered, doc)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].FilePath < ordered[j].FilePath
	})
	return ordered
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string{}, values...)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

type importAccumulator struct {
	createdIDs []uuid.UUID
	updatedIDs []uuid.UUID
	skippedIDs []uuid.UUID
	errors     []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		createdIDs: []uuid.UUID{},
		updatedIDs: []uuid.UUID{},
		skippedIDs: []uuid.UUID{},
		errors:     []error{},
	}
}

func (a *importAccumulator) created(id uuid.UUID) {
	if id != uuid.Nil {
		a.createdIDs = append(a.createdIDs, id)
	}
}

func (a *importAccumulator) updated(id uuid.UUID) {
	if id != uuid.Nil {
		a.updatedIDs = append(a.updatedIDs, id)
	}
}

func (a *importAccumulator) skip(id uuid.UUID) {
	if id != uuid.Nil {
		a.skippedIDs = append(a.skippedIDs, id)
	}
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		Created: a.createdIDs,
		Updated: a.updatedIDs,
		Skipped: a.skippedIDs,
		Errors:  a.errors,
	}
}

type syncAccumulator struct {
	created int
	updated int
	skipped int
	deleted int
	errors  []error
}

func newSyncAccumulator() *syncAccumulator {
	return &syncAccumulator{
		errors: []error{},
	}
}

func (s *syncAccumulator) merge(res *interfaces.ImportResult) {
	if res == nil {
		return
	}
	s.created += len(res.Created)
	s.updated += len(res.Updated)
	s.skipped += len(res.Skipped)
	s.errors = append(s.errors, res.Errors...)
}

func (s *syncAccumulator) addError(err error) {
	if err != nil {
		s.errors = append(s.errors, err)
	}
}

func (s *syncAccumulator) result() *interfaces.SyncResult {
	return &interfaces.SyncResult{
		Created: s.created,
		Updated: s.updated,
		Skipped: s.skipped,
		Deleted: s.deleted,
		Errors:  s.errors,
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
