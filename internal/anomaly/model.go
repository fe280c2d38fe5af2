package anomaly

// BaselineModel is the frozen summary of normal behavior created once at
// learning completion. Threshold is mutated only by the threshold
// controller; the counts only by the decision explainer.
type BaselineModel struct {
	Mean      float64
	StdDev    float64
	RMS       float64
	Threshold float64

	NormalCount  int
	AnomalyCount int
}

// Bound is a [Lower, Upper] feature range.
type Bound struct {
	Lower float64
	Upper float64
}

// Width returns the bound's span.
func (b Bound) Width() float64 { return b.Upper - b.Lower }

// Contains reports whether v lies inside the bound.
func (b Bound) Contains(v float64) bool { return v >= b.Lower && v <= b.Upper }

// FeatureRangeModel holds the per-feature bounds checked by the scorer.
// Only mean, std-dev and RMS are range-checked; the remaining features keep
// static defaults and are handled by dedicated scoring rules. The bounds are
// seeded exactly once, at baseline completion, and are immutable afterwards
// for the process lifetime.
type FeatureRangeModel struct {
	Mean   Bound
	StdDev Bound
	RMS    Bound

	seeded bool
}

// DefaultRanges returns the generous static bounds used before a baseline
// exists.
func DefaultRanges() FeatureRangeModel {
	return FeatureRangeModel{
		Mean:   Bound{Lower: -100, Upper: 100},
		StdDev: Bound{Lower: 0, Upper: 50},
		RMS:    Bound{Lower: 0, Upper: 100},
	}
}

// Seed derives the operational bounds from the single frozen baseline. The
// mean bound becomes one baseline sigma either side of the baseline mean;
// the std-dev and RMS bounds become half to one-and-a-half times their
// baseline values. One baseline sample only; intentionally simple.
// Subsequent calls are ignored.
func (m *FeatureRangeModel) Seed(baseline FeatureVector) {
	if m.seeded {
		return
	}
	m.Mean = Bound{Lower: baseline.Mean - baseline.StdDev, Upper: baseline.Mean + baseline.StdDev}
	m.StdDev = Bound{Lower: baseline.StdDev * 0.5, Upper: baseline.StdDev * 1.5}
	m.RMS = Bound{Lower: baseline.RMS * 0.5, Upper: baseline.RMS * 1.5}
	m.seeded = true
}

// Seeded reports whether the baseline derivation has happened.
func (m *FeatureRangeModel) Seeded() bool { return m.seeded }
