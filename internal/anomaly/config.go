package anomaly

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Reference defaults, fixed at initialization. The calibration tool prints
// recommended overrides for alpha and the base threshold.
const (
	DefaultFilterAlpha          = 0.2
	DefaultBaseThreshold        = 0.6
	DefaultLearningDuration     = 60 * time.Second
	DefaultBufferCapacity       = 100
	DefaultFeatureWindow        = 50
	DefaultUpdateInterval       = 100 * time.Millisecond
	DefaultSampleDelay          = 10 * time.Millisecond
	DefaultMinLearningSamples   = 30
	DefaultThresholdFloor       = 0.4
	DefaultThresholdCeil        = 0.8
	DefaultThresholdAdjustEvery = 100
)

// TuningConfig is the JSON configuration surface. Fields omitted from the
// file retain their defaults through the Get* accessors, so partial configs
// are safe.
type TuningConfig struct {
	FilterAlpha          *float64 `json:"filter_alpha,omitempty"`
	BaseThreshold        *float64 `json:"base_threshold,omitempty"`
	LearningDuration     *string  `json:"learning_duration,omitempty"` // duration string like "60s"
	BufferCapacity       *int     `json:"buffer_capacity,omitempty"`
	FeatureWindow        *int     `json:"feature_window,omitempty"`
	UpdateInterval       *string  `json:"update_interval,omitempty"` // duration string like "100ms"
	SampleDelay          *string  `json:"sample_delay,omitempty"`    // per-iteration delay like "10ms"
	MinLearningSamples   *int     `json:"min_learning_samples,omitempty"`
	ThresholdFloor       *float64 `json:"threshold_floor,omitempty"`
	ThresholdCeil        *float64 `json:"threshold_ceil,omitempty"`
	ThresholdAdjustEvery *int     `json:"threshold_adjust_every,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset, resolving
// every accessor to its default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must have
// a .json extension and the file must be under the max size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.FilterAlpha != nil {
		if *c.FilterAlpha <= 0 || *c.FilterAlpha > 1 {
			return fmt.Errorf("filter_alpha must be in (0, 1], got %f", *c.FilterAlpha)
		}
	}
	if c.BaseThreshold != nil {
		if *c.BaseThreshold < 0 || *c.BaseThreshold > 1 {
			return fmt.Errorf("base_threshold must be in [0, 1], got %f", *c.BaseThreshold)
		}
	}
	if c.LearningDuration != nil && *c.LearningDuration != "" {
		if _, err := time.ParseDuration(*c.LearningDuration); err != nil {
			return fmt.Errorf("invalid learning_duration '%s': %w", *c.LearningDuration, err)
		}
	}
	if c.UpdateInterval != nil && *c.UpdateInterval != "" {
		if _, err := time.ParseDuration(*c.UpdateInterval); err != nil {
			return fmt.Errorf("invalid update_interval '%s': %w", *c.UpdateInterval, err)
		}
	}
	if c.SampleDelay != nil && *c.SampleDelay != "" {
		if _, err := time.ParseDuration(*c.SampleDelay); err != nil {
			return fmt.Errorf("invalid sample_delay '%s': %w", *c.SampleDelay, err)
		}
	}
	if c.BufferCapacity != nil && *c.BufferCapacity < 1 {
		return fmt.Errorf("buffer_capacity must be positive, got %d", *c.BufferCapacity)
	}
	if c.FeatureWindow != nil && *c.FeatureWindow < 1 {
		return fmt.Errorf("feature_window must be positive, got %d", *c.FeatureWindow)
	}
	if c.MinLearningSamples != nil && *c.MinLearningSamples < 1 {
		return fmt.Errorf("min_learning_samples must be positive, got %d", *c.MinLearningSamples)
	}
	if c.ThresholdFloor != nil && c.ThresholdCeil != nil {
		if *c.ThresholdFloor >= *c.ThresholdCeil {
			return fmt.Errorf("threshold_floor %f must be below threshold_ceil %f",
				*c.ThresholdFloor, *c.ThresholdCeil)
		}
	}
	return nil
}

// GetFilterAlpha returns the filter coefficient or the default.
func (c *TuningConfig) GetFilterAlpha() float64 {
	if c.FilterAlpha == nil {
		return DefaultFilterAlpha
	}
	return *c.FilterAlpha
}

// GetBaseThreshold returns the static base anomaly threshold or the default.
func (c *TuningConfig) GetBaseThreshold() float64 {
	if c.BaseThreshold == nil {
		return DefaultBaseThreshold
	}
	return *c.BaseThreshold
}

// GetLearningDuration parses and returns the learning duration.
func (c *TuningConfig) GetLearningDuration() time.Duration {
	if c.LearningDuration == nil || *c.LearningDuration == "" {
		return DefaultLearningDuration
	}
	d, err := time.ParseDuration(*c.LearningDuration)
	if err != nil {
		return DefaultLearningDuration
	}
	return d
}

// GetBufferCapacity returns the ring capacity or the default.
func (c *TuningConfig) GetBufferCapacity() int {
	if c.BufferCapacity == nil {
		return DefaultBufferCapacity
	}
	return *c.BufferCapacity
}

// GetFeatureWindow returns the feature window length or the default.
func (c *TuningConfig) GetFeatureWindow() int {
	if c.FeatureWindow == nil {
		return DefaultFeatureWindow
	}
	return *c.FeatureWindow
}

// GetUpdateInterval parses and returns the feature/decision interval.
func (c *TuningConfig) GetUpdateInterval() time.Duration {
	if c.UpdateInterval == nil || *c.UpdateInterval == "" {
		return DefaultUpdateInterval
	}
	d, err := time.ParseDuration(*c.UpdateInterval)
	if err != nil {
		return DefaultUpdateInterval
	}
	return d
}

// GetSampleDelay parses and returns the fixed per-iteration sampling delay.
func (c *TuningConfig) GetSampleDelay() time.Duration {
	if c.SampleDelay == nil || *c.SampleDelay == "" {
		return DefaultSampleDelay
	}
	d, err := time.ParseDuration(*c.SampleDelay)
	if err != nil {
		return DefaultSampleDelay
	}
	return d
}

// GetMinLearningSamples returns the minimum viable learning-sample count.
func (c *TuningConfig) GetMinLearningSamples() int {
	if c.MinLearningSamples == nil {
		return DefaultMinLearningSamples
	}
	return *c.MinLearningSamples
}

// GetThresholdFloor returns the lower threshold clamp bound.
func (c *TuningConfig) GetThresholdFloor() float64 {
	if c.ThresholdFloor == nil {
		return DefaultThresholdFloor
	}
	return *c.ThresholdFloor
}

// GetThresholdCeil returns the upper threshold clamp bound.
func (c *TuningConfig) GetThresholdCeil() float64 {
	if c.ThresholdCeil == nil {
		return DefaultThresholdCeil
	}
	return *c.ThresholdCeil
}

// GetThresholdAdjustEvery returns the threshold adjustment cadence.
func (c *TuningConfig) GetThresholdAdjustEvery() int {
	if c.ThresholdAdjustEvery == nil {
		return DefaultThresholdAdjustEvery
	}
	return *c.ThresholdAdjustEvery
}
