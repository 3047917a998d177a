package scaffoldcmd

// FeatureGates exposes runtime feature toggles required by scaffold command
// handlers. Callers should supply closures that read from the press Features
// config so handlers stay decoupled from configuration while honouring
// feature flags.
type FeatureGates struct {
	ScaffoldEnabled func() bool
}

func (g FeatureGates) scaffoldEnabled() bool {
	if g.ScaffoldEnabled == nil {
		return true
	}
	return g.ScaffoldEnabled()
}
