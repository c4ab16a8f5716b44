package timeops

// ThrottleOption configures Throttle's edge-emission policy: each option is
// a function mutating a private config struct, applied left to right over a
// sane default.
type ThrottleOption func(*throttleConfig)

type throttleConfig struct {
	trailingEdge bool
}

func defaultThrottleConfig() throttleConfig {
	return throttleConfig{trailingEdge: true}
}

// WithTrailingEdge selects the default policy explicitly: a value held back
// during a suppressed window is emitted once the window boundary fires.
// Named so call sites can document their choice rather than rely on silent
// default behaviour.
func WithTrailingEdge() ThrottleOption {
	return func(c *throttleConfig) { c.trailingEdge = true }
}

// WithLeadingOnly disables trailing-edge emission: only the first value of
// each window is ever emitted, and anything suppressed during the window is
// discarded once the window closes.
func WithLeadingOnly() ThrottleOption {
	return func(c *throttleConfig) { c.trailingEdge = false }
}
