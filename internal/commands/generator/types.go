package generatorcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-press/internal/generator"
)

const (
	buildSiteMessageType = "press.generator.build"
	cleanSiteMessageType = "press.generator.clean"
)

// ResultCallback is invoked synchronously with the envelope of a finished
// build when the caller supplied one.
type ResultCallback func(ResultEnvelope)

// deliver invokes the callback when set.
func (cb ResultCallback) deliver(envelope ResultEnvelope) {
	if cb != nil {
		cb(envelope)
	}
}

// ResultEnvelope pairs a build result with handler metadata.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand executes a generator build using the provided filters.
type BuildSiteCommand struct {
	Slugs          []string       `json:"slugs,omitempty"`
	Force          bool           `json:"force,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	IncludeFuture  bool           `json:"include_future,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures slug filters are well-formed.
func (m BuildSiteCommand) Validate() error {
	for _, slug := range m.Slugs {
		if strings.TrimSpace(slug) != "" {
			continue
		}
		return validation.Errors{
			"slugs": validation.NewError("press.generator.build.slug_invalid", "slugs must not contain empty values"),
		}
	}
	return nil
}

// singlePost reports whether the command targets exactly one slug with no
// modifiers, which maps onto the cheaper BuildPost path.
func (m BuildSiteCommand) singlePost() bool {
	return len(m.Slugs) == 1 && !m.Force && !m.DryRun && !m.IncludeFuture
}

// buildOptions translates the command into generator build options.
func (m BuildSiteCommand) buildOptions() generator.BuildOptions {
	options := generator.BuildOptions{
		Force:         m.Force,
		DryRun:        m.DryRun,
		IncludeFuture: m.IncludeFuture,
	}
	if len(m.Slugs) > 0 {
		options.Slugs = append([]string(nil), m.Slugs...)
	}
	return options
}

// logFields summarises the command for structured logging.
func (m BuildSiteCommand) logFields() map[string]any {
	fields := map[string]any{}
	if len(m.Slugs) > 0 {
		fields["slugs"] = len(m.Slugs)
	}
	if m.Force {
		fields["force"] = true
	}
	if m.DryRun {
		fields["dry_run"] = true
	}
	if m.IncludeFuture {
		fields["include_future"] = true
	}
	return fields
}

// CleanSiteCommand clears generated artifacts from the output directory.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }

// FeatureGates guards handler execution behind runtime switches.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	return g.GeneratorEnabled != nil && g.GeneratorEnabled()
}
