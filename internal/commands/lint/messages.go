package lintcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const lintCorpusMessageType = "press.lint.corpus"

// LintCorpusCommand checks every post under Directory against the corpus
// contract. Strict escalates warning diagnostics into a failed run.
type LintCorpusCommand struct {
	// Directory selects the corpus path (relative or absolute) to lint.
	Directory string `json:"directory"`
	// Strict fails the command when warnings are present, not just errors.
	Strict bool `json:"strict,omitempty"`
}

// Type implements command.Message.
func (LintCorpusCommand) Type() string { return lintCorpusMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd LintCorpusCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.lint.corpus.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
