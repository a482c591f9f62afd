package domain

// Options is the caller-supplied open bag of tuning knobs. Known keys get
// typed accessors; unknown keys pass through untouched so future callers can
// extend the contract without a schema change.
type Options map[string]interface{}

const demoOptionsKey = "demo"

func (o Options) demoMap() map[string]interface{} {
	if o == nil {
		return nil
	}
	demo, ok := o[demoOptionsKey].(map[string]interface{})
	if !ok {
		return nil
	}
	return demo
}

// DemoForcePassthrough reports whether an upstream policy decision marked this
// task for verbatim passthrough instead of voice conversion.
func (o Options) DemoForcePassthrough() bool {
	forced, _ := o.demoMap()["force_passthrough"].(bool)
	return forced
}

// SetDemoForcePassthrough records the passthrough decision for the
// voice-change step to honor.
func (o Options) SetDemoForcePassthrough() {
	demo := o.demoMap()
	if demo == nil {
		demo = map[string]interface{}{}
		o[demoOptionsKey] = demo
	}
	demo["force_passthrough"] = true
}

// RemoveBackgroundNoise returns the caller's noise-removal preference, or nil
// when unset. Both the long and short key spellings are accepted.
func (o Options) RemoveBackgroundNoise() *bool {
	if o == nil {
		return nil
	}
	if v, ok := o["remove_background_noise"].(bool); ok {
		return &v
	}
	if v, ok := o["remove_noise"].(bool); ok {
		return &v
	}
	return nil
}
