package interfaces

import "context"

// Severity grades a lint diagnostic.
type Severity string

const (
	// SeverityError marks violations of the corpus contract.
	SeverityError Severity = "error"
	// SeverityWarning marks findings worth review that do not fail a run.
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single lint finding bound to a file location. Line is
// 1-based; file-level findings report line 1.
type Diagnostic struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
}

// LintReport aggregates the diagnostics of one lint run, ordered by path,
// line, and rule.
type LintReport struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	Files       int          `json:"files"`
}

// Counts returns the number of error and warning diagnostics.
func (r *LintReport) Counts() (errors int, warnings int) {
	if r == nil {
		return 0, 0
	}
	for _, diag := range r.Diagnostics {
		switch diag.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// HasErrors reports whether any diagnostic is an error.
func (r *LintReport) HasErrors() bool {
	errs, _ := r.Counts()
	return errs > 0
}

// Clean reports whether the run produced no diagnostics at all.
func (r *LintReport) Clean() bool {
	return r == nil || len(r.Diagnostics) == 0
}

// LintService checks markdown sources against the corpus contract.
type LintService interface {
	// LintSource checks a single file. Corpus-wide rules do not apply.
	LintSource(path string, source []byte) []Diagnostic
	// LintDirectory checks every matching file under dir, including
	// corpus-wide rules such as duplicate slug detection.
	LintDirectory(ctx context.Context, dir string) (*LintReport, error)
}
