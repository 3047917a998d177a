// Package lint checks markdown sources against the corpus contract: front
// matter shape, slug discipline, fence hygiene, and corpus-wide slug
// uniqueness. Findings are reported as ordered diagnostics rather than
// errors so a run can surface every problem at once.
package lint
