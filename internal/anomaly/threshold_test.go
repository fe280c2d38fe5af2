package anomaly

import "testing"

func testController() *ThresholdController {
	return NewThresholdController(100, DefaultThresholdFloor, DefaultThresholdCeil)
}

func TestThresholdController_TightensOnHighNormalRatio(t *testing.T) {
	tc := testController()
	model := &BaselineModel{Threshold: 0.6, NormalCount: 96, AnomalyCount: 4}

	tc.Observe(model, 100)
	if !almostEqual(model.Threshold, 0.6*tightenFactor, 1e-9) {
		t.Fatalf("expected tightened threshold %v, got %v", 0.6*tightenFactor, model.Threshold)
	}
}

func TestThresholdController_RelaxesOnLowNormalRatio(t *testing.T) {
	tc := testController()
	model := &BaselineModel{Threshold: 0.6, NormalCount: 70, AnomalyCount: 30}

	tc.Observe(model, 100)
	if !almostEqual(model.Threshold, 0.6*relaxFactor, 1e-9) {
		t.Fatalf("expected relaxed threshold %v, got %v", 0.6*relaxFactor, model.Threshold)
	}
}

func TestThresholdController_MiddleRatioHoldsSteady(t *testing.T) {
	tc := testController()
	model := &BaselineModel{Threshold: 0.6, NormalCount: 90, AnomalyCount: 10}

	tc.Observe(model, 100)
	if model.Threshold != 0.6 {
		t.Fatalf("90%% normal ratio should not adjust, got %v", model.Threshold)
	}
}

func TestThresholdController_OffCadenceIsNoop(t *testing.T) {
	tc := testController()
	model := &BaselineModel{Threshold: 0.6, NormalCount: 99, AnomalyCount: 0}

	tc.Observe(model, 99)
	tc.Observe(model, 0)
	if model.Threshold != 0.6 {
		t.Fatalf("off-cadence observations must not adjust, got %v", model.Threshold)
	}
}

func TestThresholdController_ClampsToFloorAndCeil(t *testing.T) {
	tc := testController()

	model := &BaselineModel{Threshold: 0.6, NormalCount: 100}
	for i := 0; i < 500; i++ {
		tc.Observe(model, 100)
		if model.Threshold < tc.Floor || model.Threshold > tc.Ceil {
			t.Fatalf("threshold escaped clamp: %v", model.Threshold)
		}
	}
	if !almostEqual(model.Threshold, tc.Floor, 1e-9) {
		t.Fatalf("repeated tightening should settle at the floor, got %v", model.Threshold)
	}

	model = &BaselineModel{Threshold: 0.6, NormalCount: 10, AnomalyCount: 90}
	for i := 0; i < 500; i++ {
		tc.Observe(model, 100)
	}
	if !almostEqual(model.Threshold, tc.Ceil, 1e-9) {
		t.Fatalf("repeated relaxing should settle at the ceiling, got %v", model.Threshold)
	}
}

func TestNewThresholdController_InvalidCadenceFallsBack(t *testing.T) {
	tc := NewThresholdController(0, 0.4, 0.8)
	if tc.AdjustEvery != DefaultThresholdAdjustEvery {
		t.Fatalf("expected default cadence, got %d", tc.AdjustEvery)
	}
}
