package anomaly

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestEmptyTuningConfig_ResolvesDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if got := cfg.GetFilterAlpha(); got != DefaultFilterAlpha {
		t.Fatalf("expected default alpha, got %v", got)
	}
	if got := cfg.GetBaseThreshold(); got != DefaultBaseThreshold {
		t.Fatalf("expected default base threshold, got %v", got)
	}
	if got := cfg.GetLearningDuration(); got != DefaultLearningDuration {
		t.Fatalf("expected default learning duration, got %v", got)
	}
	if got := cfg.GetBufferCapacity(); got != DefaultBufferCapacity {
		t.Fatalf("expected default buffer capacity, got %v", got)
	}
	if got := cfg.GetFeatureWindow(); got != DefaultFeatureWindow {
		t.Fatalf("expected default feature window, got %v", got)
	}
	if got := cfg.GetUpdateInterval(); got != DefaultUpdateInterval {
		t.Fatalf("expected default update interval, got %v", got)
	}
	if got := cfg.GetSampleDelay(); got != DefaultSampleDelay {
		t.Fatalf("expected default sample delay, got %v", got)
	}
	if got := cfg.GetMinLearningSamples(); got != DefaultMinLearningSamples {
		t.Fatalf("expected default min learning samples, got %v", got)
	}
	if got := cfg.GetThresholdAdjustEvery(); got != DefaultThresholdAdjustEvery {
		t.Fatalf("expected default adjust cadence, got %v", got)
	}
}

func TestLoadTuningConfig_PartialOverrides(t *testing.T) {
	path := writeConfigFile(t, "tuning.json",
		`{"filter_alpha": 0.25, "learning_duration": "30s", "threshold_adjust_every": 50}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if got := cfg.GetFilterAlpha(); got != 0.25 {
		t.Fatalf("expected override alpha 0.25, got %v", got)
	}
	if got := cfg.GetLearningDuration(); got != 30*time.Second {
		t.Fatalf("expected 30s learning duration, got %v", got)
	}
	if got := cfg.GetThresholdAdjustEvery(); got != 50 {
		t.Fatalf("expected cadence 50, got %v", got)
	}
	// Unset fields keep their defaults.
	if got := cfg.GetBufferCapacity(); got != DefaultBufferCapacity {
		t.Fatalf("expected default buffer capacity, got %v", got)
	}
}

func TestLoadTuningConfig_RejectsNonJSONExtension(t *testing.T) {
	path := writeConfigFile(t, "tuning.yaml", `{}`)
	if _, err := LoadTuningConfig(path); err == nil {
		t.Fatal("expected extension rejection")
	}
}

func TestLoadTuningConfig_MissingFile(t *testing.T) {
	if _, err := LoadTuningConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected stat failure for missing file")
	}
}

func TestLoadTuningConfig_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{"alpha too large", `{"filter_alpha": 1.5}`, "filter_alpha"},
		{"alpha zero", `{"filter_alpha": 0}`, "filter_alpha"},
		{"threshold out of range", `{"base_threshold": 1.5}`, "base_threshold"},
		{"bad duration", `{"learning_duration": "sixty seconds"}`, "learning_duration"},
		{"zero window", `{"feature_window": 0}`, "feature_window"},
		{"inverted clamp", `{"threshold_floor": 0.9, "threshold_ceil": 0.5}`, "threshold_floor"},
		{"malformed json", `{"filter_alpha": `, "parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfigFile(t, "tuning.json", tc.contents)
			_, err := LoadTuningConfig(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestTuningConfig_ValidateAcceptsEmpty(t *testing.T) {
	if err := EmptyTuningConfig().Validate(); err != nil {
		t.Fatalf("empty config must validate, got %v", err)
	}
}
