package anomaly

// Filter is a single-pole exponential smoother applied to every raw sample
// before it enters the ring. The coefficient follows the calibration
// convention: a larger alpha means less smoothing.
type Filter struct {
	alpha  float64
	state  float64
	seeded bool
}

// NewFilter returns a filter with the given smoothing coefficient.
// Alpha outside (0, 1] falls back to the default.
func NewFilter(alpha float64) *Filter {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultFilterAlpha
	}
	return &Filter{alpha: alpha}
}

// Apply smooths a raw sample. The first sample after construction or Reset
// is returned unmodified and becomes the seed state, so there is no start-up
// transient from a zero-initialized value.
func (f *Filter) Apply(raw float64) float64 {
	if !f.seeded {
		f.state = raw
		f.seeded = true
		return raw
	}
	f.state = f.alpha*raw + (1-f.alpha)*f.state
	return f.state
}

// Reset returns the filter to the awaiting-seed state.
func (f *Filter) Reset() {
	f.seeded = false
	f.state = 0
}
