package post

import "github.com/goliatone/go-slug"

// SlugNormalizer converts arbitrary titles into URL-safe slugs.
type SlugNormalizer = slug.Normalizer

// DefaultSlugNormalizer returns the normalizer used across the module.
func DefaultSlugNormalizer() SlugNormalizer {
	return slug.Default()
}

// Slugify derives the canonical kebab-case slug for a post title.
func Slugify(title string) (string, error) {
	return slug.Normalize(title)
}

// IsValidSlug reports whether value is already a canonical slug.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}
