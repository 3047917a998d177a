// Package markdown implements document ingestion for the post corpus:
// filesystem discovery, front matter extraction, fenced code block scanning,
// and HTML rendering. Persistence and linting build on the document model
// produced here.
package markdown
