package anomaly

import "math"

// Scoring rule constants, matching the range-isolation heuristic.
const (
	stabilityScoreBoost   = 0.3 // flat contribution of the anomalous-stability rule
	stabilityRangeFactor  = 0.1 // compressed-range fraction of the expected range
	extremeTrendScore     = 0.4 // flat contribution of the extreme-trend rule
	extremeTrendThreshold = 5.0
)

// Scorer produces a bounded anomaly score from a feature summary using a
// feature-range model, a lightweight stand-in for isolation-forest scoring:
// features that escape their learned range isolate quickly and raise the
// score. Stateful only in its bounds, which are seeded once from the frozen
// baseline.
type Scorer struct {
	ranges      FeatureRangeModel
	baselineRMS float64
}

// NewScorer returns a scorer with the static default ranges.
func NewScorer() *Scorer {
	return &Scorer{ranges: DefaultRanges()}
}

// Seed derives the operational bounds from the frozen baseline.
func (s *Scorer) Seed(baseline FeatureVector) {
	s.ranges.Seed(baseline)
	s.baselineRMS = baseline.RMS
}

// Ranges returns the current bounds.
func (s *Scorer) Ranges() FeatureRangeModel { return s.ranges }

// Score computes the anomaly score in [0, 1] for the given features. Each
// bound violation contributes min(1, deviation/rangeWidth); the stability
// and extreme-trend rules contribute flat amounts. Contributions are
// averaged over the violation count, bounding escalation from correlated
// signals.
func (s *Scorer) Score(f FeatureVector) float64 {
	score := 0.0
	violations := 0

	// Mean is a two-sided check.
	if !s.ranges.Mean.Contains(f.Mean) {
		deviation := f.Mean - s.ranges.Mean.Upper
		if f.Mean < s.ranges.Mean.Lower {
			deviation = s.ranges.Mean.Lower - f.Mean
		}
		score += boundedDeviation(deviation, s.ranges.Mean.Width())
		violations++
	}

	// Std-dev and RMS are one-sided: only exceeding the upper bound counts.
	if f.StdDev > s.ranges.StdDev.Upper {
		score += boundedDeviation(f.StdDev-s.ranges.StdDev.Upper, s.ranges.StdDev.Width())
		violations++
	}
	if f.RMS > s.ranges.RMS.Upper {
		score += boundedDeviation(f.RMS-s.ranges.RMS.Upper, s.ranges.RMS.Width())
		violations++
	}

	// Anomalous stability: the signal range collapsed well below what the
	// baseline RMS implies. Only meaningful for signals of real magnitude.
	expectedRange := s.baselineRMS * 2
	if f.Max-f.Min < expectedRange*stabilityRangeFactor && s.baselineRMS > 1.0 {
		score += stabilityScoreBoost
		violations++
	}

	if math.Abs(f.Trend) > extremeTrendThreshold {
		score += extremeTrendScore
		violations++
	}

	if violations > 0 {
		score /= float64(violations)
	} else {
		score = 0
	}
	return clamp(score, 0, 1)
}

func boundedDeviation(deviation, rangeWidth float64) float64 {
	if rangeWidth <= 0 {
		return 1
	}
	return math.Min(1, deviation/rangeWidth)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
