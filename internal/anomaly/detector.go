// Package anomaly implements a self-learning anomaly monitor for a single
// analog sensor channel. It learns a statistical baseline during a fixed
// warm-up window, then scores each observation window against a feature-range
// model and emits an explained decision per update interval. Everything runs
// on a fixed memory budget from one control flow; no locking is required as
// long as callers preserve single-writer ordering.
package anomaly

import (
	"context"
	"errors"
	"time"

	"github.com/banshee-data/anomaly.report/internal/monitoring"
	"github.com/banshee-data/anomaly.report/internal/timeutil"
)

// State is the learning/operational phase of the detector. Transitions go
// LEARNING to OPERATIONAL exactly once, never back.
type State int

const (
	StateLearning State = iota
	StateOperational
)

// String returns the phase name.
func (s State) String() string {
	if s == StateOperational {
		return "OPERATIONAL"
	}
	return "LEARNING"
}

// ErrInsufficientLearningData is surfaced when the learning duration elapses
// with fewer than the minimum viable sample count. The detector stays in
// LEARNING; there is no escape path other than more samples.
var ErrInsufficientLearningData = errors.New("insufficient samples during learning phase")

// Sampler is the hardware sampling driver boundary: one normalized voltage
// sample per call.
type Sampler interface {
	ReadRaw() (float64, error)
}

// TickResult is what the reporter receives once per update interval.
// Decision is nil while learning; Baseline is non-nil only on the tick that
// completes learning.
type TickResult struct {
	State     State
	Features  FeatureVector
	Decision  *Decision
	Baseline  *BaselineModel
	Metrics   Metrics
	Threshold float64
	Warning   error

	// Learning progress, meaningful while State is LEARNING.
	LearningElapsed  time.Duration
	SamplesCollected uint64
}

// Reporter receives the per-tick result and owns all human-readable
// presentation.
type Reporter interface {
	Report(TickResult)
}

// Detector is the composition root for the monitoring pipeline: filter,
// ring, feature extraction, learning controller, scorer, threshold
// controller and explainer, driven by a single control flow.
type Detector struct {
	clock      timeutil.Clock
	filter     *Filter
	ring       *Ring
	scorer     *Scorer
	thresholds *ThresholdController

	windowSize         int
	baseThreshold      float64
	learningDuration   time.Duration
	minLearningSamples uint64
	updateInterval     time.Duration
	sampleDelay        time.Duration
	thresholdFloor     float64
	thresholdCeil      float64

	state            State
	model            BaselineModel
	metrics          Metrics
	features         FeatureVector
	learningStart    time.Time
	samplesCollected uint64
	warnedMultiples  int64
}

// NewDetector builds a detector from the tuning config and enters the
// learning phase. A nil config resolves every parameter to its default.
func NewDetector(cfg *TuningConfig, clock timeutil.Clock) *Detector {
	if cfg == nil {
		cfg = EmptyTuningConfig()
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	d := &Detector{
		clock:      clock,
		filter:     NewFilter(cfg.GetFilterAlpha()),
		ring:       NewRing(cfg.GetBufferCapacity()),
		scorer:     NewScorer(),
		thresholds: NewThresholdController(cfg.GetThresholdAdjustEvery(), cfg.GetThresholdFloor(), cfg.GetThresholdCeil()),

		windowSize:         cfg.GetFeatureWindow(),
		baseThreshold:      cfg.GetBaseThreshold(),
		learningDuration:   cfg.GetLearningDuration(),
		minLearningSamples: uint64(cfg.GetMinLearningSamples()),
		updateInterval:     cfg.GetUpdateInterval(),
		sampleDelay:        cfg.GetSampleDelay(),
		thresholdFloor:     cfg.GetThresholdFloor(),
		thresholdCeil:      cfg.GetThresholdCeil(),
	}
	d.EnterLearning()
	return d
}

// EnterLearning records the learning start time, resets the sample counter
// and sets the state to LEARNING. Called at construction; once the detector
// turns OPERATIONAL it is never called again by the pipeline.
func (d *Detector) EnterLearning() {
	d.state = StateLearning
	d.learningStart = d.clock.Now()
	d.samplesCollected = 0
	d.warnedMultiples = 0
	monitoring.Logf("learning phase started: duration=%s min_samples=%d",
		d.learningDuration, d.minLearningSamples)
}

// Ingest filters a raw sample and stores it in the ring. Always succeeds.
func (d *Detector) Ingest(raw float64) {
	filtered := d.filter.Apply(raw)
	d.ring.Push(raw, filtered, d.clock.Now().UnixNano())
	d.samplesCollected++
}

// Tick runs the feature/decision pipeline once: extract features from the
// current window, then either manage the learning phase or score, classify
// and adapt the threshold.
func (d *Detector) Tick() TickResult {
	d.features = ExtractFeatures(d.ring.Window(d.windowSize))

	res := TickResult{
		State:     d.state,
		Features:  d.features,
		Metrics:   d.metrics,
		Threshold: d.model.Threshold,
	}

	if d.state == StateLearning {
		elapsed := d.clock.Since(d.learningStart)
		res.LearningElapsed = elapsed
		res.SamplesCollected = d.samplesCollected

		if elapsed >= d.learningDuration {
			if d.samplesCollected >= d.minLearningSamples {
				d.completeLearning()
				res.State = d.state
				res.Threshold = d.model.Threshold
				baseline := d.model
				res.Baseline = &baseline
			} else if multiple := int64(elapsed / d.learningDuration); multiple > d.warnedMultiples {
				// Defined stall: warn once per elapsed duration multiple and
				// keep waiting for samples.
				d.warnedMultiples = multiple
				res.Warning = ErrInsufficientLearningData
				monitoring.Logf("learning stalled: %d/%d samples after %s",
					d.samplesCollected, d.minLearningSamples, elapsed.Round(time.Second))
			}
		}
		return res
	}

	score := d.scorer.Score(d.features)
	decision := Explain(d.features, score, &d.model, &d.metrics)
	d.thresholds.Observe(&d.model, d.metrics.TotalPredictions)

	res.Decision = &decision
	res.Metrics = d.metrics
	res.Threshold = d.model.Threshold
	return res
}

// completeLearning freezes the current feature summary as the baseline,
// derives the starting threshold, seeds the scorer bounds and transitions to
// OPERATIONAL.
func (d *Detector) completeLearning() {
	d.model = BaselineModel{
		Mean:      d.features.Mean,
		StdDev:    d.features.StdDev,
		RMS:       d.features.RMS,
		Threshold: clamp(d.baseThreshold+0.15*d.features.StdDev, d.thresholdFloor, d.thresholdCeil),
	}
	d.scorer.Seed(d.features)
	d.state = StateOperational
	monitoring.Logf("learning complete: samples=%d mean=%.4f std=%.4f rms=%.4f threshold=%.3f",
		d.samplesCollected, d.model.Mean, d.model.StdDev, d.model.RMS, d.model.Threshold)
}

// Run drives the sampling loop until the context is cancelled: read one
// sample per iteration, run the pipeline when the update interval has
// elapsed, then sleep the fixed per-iteration delay. The schedule is
// non-compensating; drift accumulates and is never corrected. A failed
// driver read is logged and skipped rather than propagated into the
// statistics pipeline (wrap the sampler with sampler.Resilient to repeat the
// last good reading instead).
func (d *Detector) Run(ctx context.Context, s Sampler, r Reporter) error {
	lastUpdate := d.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		raw, err := s.ReadRaw()
		if err != nil {
			monitoring.Logf("driver read failed: %v", err)
		} else {
			d.Ingest(raw)
		}

		if d.clock.Since(lastUpdate) >= d.updateInterval {
			lastUpdate = d.clock.Now()
			res := d.Tick()
			if r != nil {
				r.Report(res)
			}
		}

		d.clock.Sleep(d.sampleDelay)
	}
}

// State returns the current phase.
func (d *Detector) State() State { return d.state }

// Model returns a copy of the baseline model. Zero-valued while learning.
func (d *Detector) Model() BaselineModel { return d.model }

// Metrics returns a copy of the accumulated metrics.
func (d *Detector) Metrics() Metrics { return d.metrics }

// Features returns the most recently computed feature vector.
func (d *Detector) Features() FeatureVector { return d.features }

// SamplesCollected returns the number of samples ingested since the
// learning phase started.
func (d *Detector) SamplesCollected() uint64 { return d.samplesCollected }
