package lintcmd

// FeatureGates exposes runtime feature toggles required by lint command
// handlers. Callers should supply closures that read from the press Features
// config so handlers stay decoupled from configuration while honouring
// feature flags.
type FeatureGates struct {
	LintEnabled func() bool
}

func (g FeatureGates) lintEnabled() bool {
	if g.LintEnabled == nil {
		return true
	}
	return g.LintEnabled()
}
