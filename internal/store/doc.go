// Package store persists the post corpus. It offers an in-memory repository
// for tests and embedded use, a bun-backed repository with optional caching,
// and an indexer that mirrors a markdown directory into whichever repository
// is configured.
package store
