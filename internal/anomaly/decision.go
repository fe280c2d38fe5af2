package anomaly

import "math"

// Reason is a closed set of decision explanations.
type Reason string

const (
	ReasonMeanShift         Reason = "MEAN_SHIFT"
	ReasonHighVariance      Reason = "HIGH_VARIANCE"
	ReasonAmplitudeIncrease Reason = "SIGNAL_AMPLITUDE_INCREASE"
	ReasonRapidTrend        Reason = "RAPID_TREND"
	ReasonCombinedDeviation Reason = "COMBINED_DEVIATION"
	ReasonNormal            Reason = "NORMAL"
	ReasonLearningPhase     Reason = "LEARNING_PHASE"

	// ReasonAbnormallyStable only ever appears as a secondary reason.
	ReasonAbnormallyStable Reason = "ABNORMALLY_STABLE"
)

// Decision is the classification of one observation window.
type Decision struct {
	IsAnomaly       bool
	Score           float64
	PrimaryReason   Reason
	SecondaryReason Reason // empty unless anomalous and abnormally stable
	Confidence      float64
}

// Explainer reason thresholds, relative to the frozen baseline.
const (
	meanShiftSigmas     = 2.0
	highVarianceFactor  = 1.8
	amplitudeFactor     = 2.0
	rapidTrendThreshold = 3.0
	stableRangeFraction = 0.2
)

// Explain combines score, threshold and feature comparisons into a decision
// and applies the metrics side effects: exactly one of the model's counts is
// incremented, the prediction total grows and the detection rate is
// recomputed.
func Explain(f FeatureVector, score float64, model *BaselineModel, metrics *Metrics) Decision {
	d := Decision{Score: score}
	d.IsAnomaly = score > model.Threshold

	if d.IsAnomaly {
		d.Confidence = score
		d.PrimaryReason = primaryReason(f, model)
		if f.Max-f.Min < model.RMS*stableRangeFraction {
			d.SecondaryReason = ReasonAbnormallyStable
		}
	} else {
		d.Confidence = 1 - score
		d.PrimaryReason = ReasonNormal
	}

	metrics.TotalPredictions++
	if d.IsAnomaly {
		model.AnomalyCount++
		metrics.AnomaliesDetected++
	} else {
		model.NormalCount++
	}
	metrics.DetectionRate = float64(metrics.AnomaliesDetected) / float64(metrics.TotalPredictions)

	return d
}

// primaryReason picks the first matching explanation, in precedence order.
func primaryReason(f FeatureVector, model *BaselineModel) Reason {
	switch {
	case math.Abs(f.Mean-model.Mean) > model.StdDev*meanShiftSigmas:
		return ReasonMeanShift
	case f.StdDev > model.StdDev*highVarianceFactor:
		return ReasonHighVariance
	case f.RMS > model.RMS*amplitudeFactor:
		return ReasonAmplitudeIncrease
	case math.Abs(f.Trend) > rapidTrendThreshold:
		return ReasonRapidTrend
	default:
		return ReasonCombinedDeviation
	}
}
