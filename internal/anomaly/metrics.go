package anomaly

// Metrics accumulates classification counters for the process lifetime.
// There is no automatic reset.
type Metrics struct {
	TotalPredictions  uint64
	AnomaliesDetected uint64
	DetectionRate     float64
}
