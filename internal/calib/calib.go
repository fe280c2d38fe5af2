// Package calib implements the offline calibration analysis run before
// deploying the monitor: signal statistics, noise and SNR measurement,
// filter-coefficient comparison, and the recommended-settings mapping.
package calib

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/anomaly.report/internal/anomaly"
)

// Analysis summarizes a block of raw voltage samples.
type Analysis struct {
	Samples    int
	Mean       float64
	StdDev     float64
	RMS        float64
	Min        float64
	Max        float64
	NoiseLevel float64 // RMS of first differences (high-frequency component)
	SNRdB      float64
	Outliers   int // samples beyond the 3.5-sigma cut
}

// cleanSignalSNRdB is reported when the measured noise floor is effectively
// zero and the ratio would blow up.
const cleanSignalSNRdB = 80

// Analyze computes calibration statistics over the given samples.
func Analyze(samples []float64) Analysis {
	a := Analysis{Samples: len(samples)}
	if len(samples) == 0 {
		return a
	}

	a.Mean = stat.Mean(samples, nil)
	a.StdDev = stat.StdDev(samples, nil)
	a.Min = floats.Min(samples)
	a.Max = floats.Max(samples)

	sumSq := 0.0
	for _, v := range samples {
		sumSq += v * v
	}
	a.RMS = math.Sqrt(sumSq / float64(len(samples)))

	if len(samples) > 1 {
		noiseSum := 0.0
		for i := 1; i < len(samples); i++ {
			delta := samples[i] - samples[i-1]
			noiseSum += delta * delta
		}
		a.NoiseLevel = math.Sqrt(noiseSum / float64(len(samples)-1))
	}

	if a.NoiseLevel > 0.001 {
		a.SNRdB = 20 * math.Log10(a.StdDev/a.NoiseLevel)
	} else {
		a.SNRdB = cleanSignalSNRdB
	}

	for _, v := range samples {
		if anomaly.IsOutlier(v, a.Mean, a.StdDev) {
			a.Outliers++
		}
	}
	return a
}

// Quality grades the signal for anomaly detection.
func (a Analysis) Quality() string {
	switch {
	case a.SNRdB > 40:
		return "EXCELLENT"
	case a.SNRdB > 25:
		return "GOOD"
	case a.SNRdB > 15:
		return "FAIR"
	default:
		return "POOR"
	}
}

// Recommendation holds the settings the monitor should be deployed with.
type Recommendation struct {
	FilterAlpha   float64
	BaseThreshold float64
}

// Recommend maps a measured SNR to deployment settings. A larger alpha
// denotes less smoothing; cleaner signals get the smaller alpha. This
// mapping is fixed and must not drift from the deployed convention.
func Recommend(snrDB float64) Recommendation {
	rec := Recommendation{FilterAlpha: 0.30, BaseThreshold: 0.55}
	if snrDB > 30 {
		rec.FilterAlpha = 0.20
		rec.BaseThreshold = 0.60
	} else if snrDB > 20 {
		rec.FilterAlpha = 0.25
	}
	return rec
}

// FilterResponse measures how much a candidate coefficient smooths the
// captured signal.
type FilterResponse struct {
	Alpha     float64
	MeanError float64 // mean |filtered - raw|
	MaxError  float64
}

// TestFilterResponses applies each candidate alpha to the samples and
// reports the smoothing error profile.
func TestFilterResponses(samples []float64, alphas []float64) []FilterResponse {
	out := make([]FilterResponse, 0, len(alphas))
	for _, alpha := range alphas {
		f := anomaly.NewFilter(alpha)
		var total, max float64
		for _, v := range samples {
			filtered := f.Apply(v)
			err := math.Abs(filtered - v)
			total += err
			if err > max {
				max = err
			}
		}
		resp := FilterResponse{Alpha: alpha, MaxError: max}
		if len(samples) > 0 {
			resp.MeanError = total / float64(len(samples))
		}
		out = append(out, resp)
	}
	return out
}
