package calib

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestAnalyze_ConstantSignal(t *testing.T) {
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = 1.65
	}
	a := Analyze(samples)

	if a.Samples != 100 {
		t.Fatalf("expected 100 samples, got %d", a.Samples)
	}
	if a.Mean != 1.65 || a.Min != 1.65 || a.Max != 1.65 {
		t.Fatalf("unexpected stats %+v", a)
	}
	if a.StdDev != 0 || a.NoiseLevel != 0 {
		t.Fatalf("constant signal must have zero spread and noise, got %+v", a)
	}
	if a.SNRdB != cleanSignalSNRdB {
		t.Fatalf("noiseless signal should report the clean SNR, got %v", a.SNRdB)
	}
	if a.Quality() != "EXCELLENT" {
		t.Fatalf("expected EXCELLENT, got %s", a.Quality())
	}
	if a.Outliers != 0 {
		t.Fatalf("expected no outliers, got %d", a.Outliers)
	}
}

func TestAnalyze_KnownValues(t *testing.T) {
	a := Analyze([]float64{1, 2, 3})

	if a.Mean != 2 {
		t.Fatalf("expected mean 2 got %v", a.Mean)
	}
	if !almostEqual(a.StdDev, 1, 1e-12) {
		t.Fatalf("expected sample std 1 got %v", a.StdDev)
	}
	if !almostEqual(a.RMS, math.Sqrt(14.0/3), 1e-12) {
		t.Fatalf("expected rms sqrt(14/3) got %v", a.RMS)
	}
	if !almostEqual(a.NoiseLevel, 1, 1e-12) {
		t.Fatalf("expected first-difference noise 1 got %v", a.NoiseLevel)
	}
	if !almostEqual(a.SNRdB, 0, 1e-9) {
		t.Fatalf("expected 0 dB got %v", a.SNRdB)
	}
}

func TestAnalyze_AlternatingNoiseIsPoor(t *testing.T) {
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = float64(1 + i%2)
	}
	a := Analyze(samples)

	// Sample-to-sample jumps dominate the spread: negative SNR.
	if a.SNRdB >= 0 {
		t.Fatalf("pure high-frequency noise should measure below 0 dB, got %v", a.SNRdB)
	}
	if a.Quality() != "POOR" {
		t.Fatalf("expected POOR, got %s", a.Quality())
	}
}

func TestAnalyze_CountsOutliers(t *testing.T) {
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = 1.0 + 0.01*float64(i%2)
	}
	samples[50] = 5.0

	a := Analyze(samples)
	if a.Outliers != 1 {
		t.Fatalf("expected exactly the spike to flag, got %d", a.Outliers)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil)
	if a.Samples != 0 || a.Mean != 0 {
		t.Fatalf("expected zero analysis, got %+v", a)
	}
}

func TestQualityBands(t *testing.T) {
	cases := []struct {
		snr  float64
		want string
	}{
		{45, "EXCELLENT"},
		{40, "GOOD"}, // band edges are exclusive
		{30, "GOOD"},
		{25, "FAIR"},
		{20, "FAIR"},
		{15, "POOR"},
		{5, "POOR"},
	}
	for _, tc := range cases {
		if got := (Analysis{SNRdB: tc.snr}).Quality(); got != tc.want {
			t.Fatalf("Quality(%v dB) = %s, want %s", tc.snr, got, tc.want)
		}
	}
}

func TestRecommend_FixedMapping(t *testing.T) {
	cases := []struct {
		snr       float64
		alpha     float64
		threshold float64
	}{
		{45, 0.20, 0.60},
		{31, 0.20, 0.60},
		{30, 0.25, 0.55}, // edge belongs to the lower band
		{25, 0.25, 0.55},
		{20, 0.30, 0.55},
		{10, 0.30, 0.55},
	}
	for _, tc := range cases {
		rec := Recommend(tc.snr)
		if rec.FilterAlpha != tc.alpha || rec.BaseThreshold != tc.threshold {
			t.Fatalf("Recommend(%v) = %+v, want alpha %v threshold %v",
				tc.snr, rec, tc.alpha, tc.threshold)
		}
	}
}

func TestFilterResponsesFunc(t *testing.T) {
	out := TestFilterResponses([]float64{0, 1}, []float64{1.0, 0.5})
	if len(out) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(out))
	}

	// Alpha 1 tracks the input exactly.
	if out[0].MeanError != 0 || out[0].MaxError != 0 {
		t.Fatalf("alpha=1 must have zero error, got %+v", out[0])
	}
	// Alpha 0.5: seed is exact, second sample lags by half the step.
	if !almostEqual(out[1].MeanError, 0.25, 1e-12) || !almostEqual(out[1].MaxError, 0.5, 1e-12) {
		t.Fatalf("unexpected alpha=0.5 response %+v", out[1])
	}
}
