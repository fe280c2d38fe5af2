// Package db persists monitoring runs, frozen baselines and per-tick
// decisions to a local sqlite database. This is an append-only log for later
// inspection; the learned model is never reloaded from it.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/anomaly.report/internal/anomaly"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the database at path and applies any
// pending migrations.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// CreateRun records the start of a monitoring run with its resolved
// configuration snapshot.
func (db *DB) CreateRun(runID string, startedAt time.Time, configJSON string) error {
	_, err := db.Exec(
		"INSERT INTO runs (run_id, started_at, config) VALUES (?, ?, ?)",
		runID, startedAt, configJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to create run %s: %w", runID, err)
	}
	return nil
}

// RecordBaseline persists the baseline frozen at learning completion.
func (db *DB) RecordBaseline(runID string, unixNanos int64, b anomaly.BaselineModel, samples uint64) error {
	_, err := db.Exec(
		`INSERT INTO baselines (run_id, unix_nanos, mean, std_dev, rms, threshold, samples)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, unixNanos, b.Mean, b.StdDev, b.RMS, b.Threshold, int64(samples),
	)
	if err != nil {
		return fmt.Errorf("failed to record baseline: %w", err)
	}
	return nil
}

// RecordDecision persists one classified observation window.
func (db *DB) RecordDecision(runID string, unixNanos int64, d anomaly.Decision, f anomaly.FeatureVector, threshold float64) error {
	_, err := db.Exec(
		`INSERT INTO decisions (run_id, unix_nanos, is_anomaly, score, threshold,
		   primary_reason, secondary_reason, confidence, mean, std_dev, rms, min_val, max_val, trend)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, unixNanos, d.IsAnomaly, d.Score, threshold,
		string(d.PrimaryReason), string(d.SecondaryReason), d.Confidence,
		f.Mean, f.StdDev, f.RMS, f.Min, f.Max, f.Trend,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}

// DecisionCount returns the number of decisions recorded for a run.
func (db *DB) DecisionCount(runID string) (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM decisions WHERE run_id = ?", runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count decisions: %w", err)
	}
	return n, nil
}

// AnomalyCount returns the number of anomalous decisions recorded for a run.
func (db *DB) AnomalyCount(runID string) (int, error) {
	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM decisions WHERE run_id = ? AND is_anomaly", runID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count anomalies: %w", err)
	}
	return n, nil
}

// Baseline returns the recorded baseline for a run, or sql.ErrNoRows when
// learning never completed.
func (db *DB) Baseline(runID string) (anomaly.BaselineModel, error) {
	var b anomaly.BaselineModel
	err := db.QueryRow(
		"SELECT mean, std_dev, rms, threshold FROM baselines WHERE run_id = ? ORDER BY unix_nanos DESC LIMIT 1",
		runID,
	).Scan(&b.Mean, &b.StdDev, &b.RMS, &b.Threshold)
	if err != nil {
		return anomaly.BaselineModel{}, err
	}
	return b, nil
}
