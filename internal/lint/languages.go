package lint

import (
	"maps"
	"strings"
)

// knownLanguages is the built-in registry of fence info identifiers the
// corpus accepts, keyed by lowercase identifier. Aliases share an entry with
// their canonical name so `js` and `javascript` are equally fine.
var knownLanguages = map[string]struct{}{
	"bash":       {},
	"c":          {},
	"c#":         {},
	"c++":        {},
	"clojure":    {},
	"cmake":      {},
	"console":    {},
	"cpp":        {},
	"cs":         {},
	"csharp":     {},
	"css":        {},
	"dart":       {},
	"diff":       {},
	"docker":     {},
	"dockerfile": {},
	"elixir":     {},
	"erlang":     {},
	"fish":       {},
	"go":         {},
	"golang":     {},
	"gradle":     {},
	"graphql":    {},
	"groovy":     {},
	"haskell":    {},
	"hcl":        {},
	"hs":         {},
	"html":       {},
	"ini":        {},
	"java":       {},
	"javascript": {},
	"js":         {},
	"json":       {},
	"jsx":        {},
	"julia":      {},
	"kotlin":     {},
	"lua":        {},
	"make":       {},
	"makefile":   {},
	"markdown":   {},
	"md":         {},
	"nginx":      {},
	"objc":       {},
	"ocaml":      {},
	"patch":      {},
	"perl":       {},
	"php":        {},
	"plain":      {},
	"plaintext":  {},
	"powershell": {},
	"proto":      {},
	"protobuf":   {},
	"ps1":        {},
	"py":         {},
	"python":     {},
	"r":          {},
	"rb":         {},
	"ruby":       {},
	"rust":       {},
	"scala":      {},
	"sh":         {},
	"shell":      {},
	"sql":        {},
	"swift":      {},
	"terraform":  {},
	"text":       {},
	"toml":       {},
	"ts":         {},
	"tsx":        {},
	"txt":        {},
	"typescript": {},
	"vim":        {},
	"xml":        {},
	"yaml":       {},
	"yml":        {},
	"zsh":        {},
}

// RecognizedLanguage reports whether tag is in the built-in fence language
// registry. Matching is case-insensitive.
func RecognizedLanguage(tag string) bool {
	_, ok := knownLanguages[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// languageRegistry copies the built-in registry and folds in any configured
// extras.
func languageRegistry(extra []string) map[string]struct{} {
	registry := make(map[string]struct{}, len(knownLanguages)+len(extra))
	maps.Copy(registry, knownLanguages)
	for _, lang := range extra {
		key := strings.ToLower(strings.TrimSpace(lang))
		if key != "" {
			registry[key] = struct{}{}
		}
	}
	return registry
}
