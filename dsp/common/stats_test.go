package common

import (
	"math"
	"testing"
)

func TestWeightedMean(t *testing.T) {
	got := WeightedMean([]float64{1, 2, 3}, []float64{0, 0, 1})
	if math.Abs(got-3.0) > 1e-12 {
		t.Errorf("WeightedMean = %f, want 3", got)
	}

	uniform := WeightedMean([]float64{2, 4, 6}, []float64{1, 1, 1})
	if math.Abs(uniform-4.0) > 1e-12 {
		t.Errorf("uniform WeightedMean = %f, want 4", uniform)
	}
}

func TestHarmonicMean(t *testing.T) {
	got := HarmonicMean([]float64{1, 4, 4})
	want := 3.0 / (1.0 + 0.25 + 0.25)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("HarmonicMean = %f, want %f", got, want)
	}

	// Non-positive entries are skipped
	withZero := HarmonicMean([]float64{0, 2, 2})
	if math.Abs(withZero-2.0) > 1e-12 {
		t.Errorf("HarmonicMean with zero = %f, want 2", withZero)
	}

	if HarmonicMean(nil) != 0 {
		t.Error("HarmonicMean(nil) should be 0")
	}
}

func TestRMS(t *testing.T) {
	got := RMS([]float64{3, -4})
	want := math.Sqrt(12.5)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("RMS = %f, want %f", got, want)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(1.5, 0, 1) != 1 {
		t.Error("Clamp above range failed")
	}
	if Clamp(-0.5, 0, 1) != 0 {
		t.Error("Clamp below range failed")
	}
	if Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp inside range failed")
	}
}

func TestNormalizeRange(t *testing.T) {
	if got := NormalizeRange(750, 500, 1000); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("NormalizeRange midpoint = %f, want 0.5", got)
	}
	if NormalizeRange(100, 500, 1000) != 0 {
		t.Error("value below range should clamp to 0")
	}
	if NormalizeRange(2000, 500, 1000) != 1 {
		t.Error("value above range should clamp to 1")
	}
}
