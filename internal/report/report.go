// Package report delivers per-tick detector results to their consumers. The
// reporter owns all human-readable presentation; the core only produces
// structured results.
package report

import (
	"github.com/banshee-data/anomaly.report/internal/anomaly"
	"github.com/banshee-data/anomaly.report/internal/monitoring"
)

// Reporting cadences, matching the serial-output behavior the monitor
// replaces: a decision line every 10th prediction, a diagnostic block every
// 100th.
const (
	decisionEvery   = 10
	diagnosticEvery = 100
)

// LogReporter writes decisions and diagnostics through the package logger.
type LogReporter struct{}

// Report logs learning progress, warnings, baseline completion and, on the
// configured cadence, decisions and diagnostics.
func (LogReporter) Report(res anomaly.TickResult) {
	if res.Warning != nil {
		monitoring.Logf("[WARNING] %v", res.Warning)
	}

	if res.Baseline != nil {
		b := res.Baseline
		monitoring.Logf("baseline established: mean=%.4f std=%.4f rms=%.4f threshold=%.3f",
			b.Mean, b.StdDev, b.RMS, b.Threshold)
		return
	}

	if res.State == anomaly.StateLearning {
		monitoring.Logf("LEARNING: %ds elapsed | samples: %d",
			int(res.LearningElapsed.Seconds()), res.SamplesCollected)
		return
	}

	d := res.Decision
	if d == nil {
		return
	}

	if res.Metrics.TotalPredictions%decisionEvery == 0 {
		status := "NORMAL"
		if d.IsAnomaly {
			status = "ANOMALY"
		}
		line := "status: " + status
		monitoring.Logf("%s | score: %.3f | threshold: %.3f | confidence: %.1f%% | reason: %s",
			line, d.Score, res.Threshold, d.Confidence*100, d.PrimaryReason)
		if d.SecondaryReason != "" {
			monitoring.Logf("secondary: %s", d.SecondaryReason)
		}
	}

	if res.Metrics.TotalPredictions%diagnosticEvery == 0 {
		f := res.Features
		monitoring.Logf("diagnostics: mean=%.4f std=%.4f rms=%.4f trend=%.4f range=[%.4f, %.4f]",
			f.Mean, f.StdDev, f.RMS, f.Trend, f.Min, f.Max)
		monitoring.Logf("detection rate: %.1f%% (%d/%d predictions)",
			res.Metrics.DetectionRate*100, res.Metrics.AnomaliesDetected, res.Metrics.TotalPredictions)
	}
}

// Multi fans a result out to several reporters in order.
type Multi []anomaly.Reporter

// Report delivers the result to every reporter.
func (m Multi) Report(res anomaly.TickResult) {
	for _, r := range m {
		r.Report(res)
	}
}
