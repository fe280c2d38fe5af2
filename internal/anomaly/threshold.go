package anomaly

// ThresholdController nudges the decision threshold from recent
// classification history. It runs on a coarse cadence, once per
// AdjustEvery predictions, to avoid oscillation, and always clamps the
// result to [Floor, Ceil] so the feedback loop cannot diverge.
type ThresholdController struct {
	AdjustEvery int
	Floor       float64
	Ceil        float64
}

// Ratio cut-offs and multipliers for the threshold feedback loop.
const (
	normalRatioHigh = 0.95 // almost everything normal: may be missing anomalies
	normalRatioLow  = 0.80 // too many flags: likely false positives
	tightenFactor   = 0.98
	relaxFactor     = 1.02
)

// NewThresholdController returns a controller with the given cadence and
// clamp bounds.
func NewThresholdController(adjustEvery int, floor, ceil float64) *ThresholdController {
	if adjustEvery < 1 {
		adjustEvery = DefaultThresholdAdjustEvery
	}
	return &ThresholdController{AdjustEvery: adjustEvery, Floor: floor, Ceil: ceil}
}

// Observe applies one adjustment step when totalPredictions lands on the
// cadence boundary. The model's threshold is tightened when almost all
// recent classifications were normal and relaxed when too many were
// anomalous, then clamped.
func (tc *ThresholdController) Observe(model *BaselineModel, totalPredictions uint64) {
	if totalPredictions == 0 || totalPredictions%uint64(tc.AdjustEvery) != 0 {
		return
	}
	total := model.NormalCount + model.AnomalyCount
	if total < 1 {
		total = 1
	}
	normalRatio := float64(model.NormalCount) / float64(total)

	switch {
	case normalRatio > normalRatioHigh:
		model.Threshold *= tightenFactor
	case normalRatio < normalRatioLow:
		model.Threshold *= relaxFactor
	}
	model.Threshold = clamp(model.Threshold, tc.Floor, tc.Ceil)
}
