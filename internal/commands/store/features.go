package storecmd

// FeatureGates exposes runtime feature toggles required by store command
// handlers. Callers should supply closures that read from the press Features
// config so handlers stay decoupled from configuration while honouring
// feature flags.
type FeatureGates struct {
	IndexEnabled func() bool
}

func (g FeatureGates) indexEnabled() bool {
	if g.IndexEnabled == nil {
		return true
	}
	return g.IndexEnabled()
}
