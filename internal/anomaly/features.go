package anomaly

import "math"

// FeatureVector is the windowed statistical summary computed once per update
// interval from the filtered readings. It replaces the prior vector; no
// history is retained beyond the window used to build it.
type FeatureVector struct {
	Mean   float64
	StdDev float64
	RMS    float64
	Min    float64
	Max    float64
	Trend  float64
}

// trendDenomEpsilon guards the OLS slope against a degenerate or
// single-sample window where the regression denominator collapses.
const trendDenomEpsilon = 1e-3

// ExtractFeatures computes the feature summary over a window of readings,
// oldest first, using the filtered values. Statistics are accumulated in a
// single pass. With zero valid readings it returns the zero vector.
func ExtractFeatures(window []Reading) FeatureVector {
	var fv FeatureVector

	n := 0
	sum, sumSq := 0.0, 0.0
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	// OLS accumulators: x is the position index within the window.
	var sumX, sumY, sumXY, sumX2 float64

	for i, rd := range window {
		if !rd.Valid {
			continue
		}
		v := rd.Filtered
		sum += v
		sumSq += v * v
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)

		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
		n++
	}
	if n == 0 {
		return fv
	}

	fn := float64(n)
	fv.Mean = sum / fn

	// The clamp is mandatory: floating-point cancellation can leave the
	// single-pass variance slightly negative.
	variance := sumSq/fn - fv.Mean*fv.Mean
	fv.StdDev = math.Sqrt(math.Max(variance, 0))

	// RMS measures magnitude about zero, distinct from StdDev's spread
	// about the mean.
	fv.RMS = math.Sqrt(sumSq / fn)
	fv.Min = minVal
	fv.Max = maxVal

	denom := fn*sumX2 - sumX*sumX
	if math.Abs(denom) > trendDenomEpsilon {
		fv.Trend = (fn*sumXY - sumX*sumY) / denom
	}
	return fv
}

// IsOutlier reports whether a value deviates more than 3.5 standard
// deviations from the mean, the Chauvenet-style cut used by the calibration
// tool's quality assessment. A near-zero sigma never flags.
func IsOutlier(value, mean, stdDev float64) bool {
	if stdDev < 0.001 {
		return false
	}
	return math.Abs(value-mean)/stdDev > 3.5
}
