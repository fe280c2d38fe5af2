package report

import (
	"github.com/banshee-data/anomaly.report/internal/anomaly"
	"github.com/banshee-data/anomaly.report/internal/db"
	"github.com/banshee-data/anomaly.report/internal/monitoring"
	"github.com/banshee-data/anomaly.report/internal/timeutil"
)

// DBReporter appends every decision, and the frozen baseline, to the
// decision log. Storage failures are logged and never halt the tick loop.
type DBReporter struct {
	DB    *db.DB
	RunID string
	Clock timeutil.Clock
}

// NewDBReporter returns a reporter recording under the given run id.
func NewDBReporter(database *db.DB, runID string, clock timeutil.Clock) *DBReporter {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &DBReporter{DB: database, RunID: runID, Clock: clock}
}

// Report persists the baseline on learning completion and each decision
// while operational.
func (r *DBReporter) Report(res anomaly.TickResult) {
	nanos := r.Clock.Now().UnixNano()

	if res.Baseline != nil {
		if err := r.DB.RecordBaseline(r.RunID, nanos, *res.Baseline, res.SamplesCollected); err != nil {
			monitoring.Logf("failed to record baseline: %v", err)
		}
		return
	}

	if res.Decision == nil {
		return
	}
	if err := r.DB.RecordDecision(r.RunID, nanos, *res.Decision, res.Features, res.Threshold); err != nil {
		monitoring.Logf("failed to record decision: %v", err)
	}
}
