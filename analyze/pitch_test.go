package analyze

import (
	"math"
	"testing"
)

func TestPitchEstimateSine(t *testing.T) {
	estimator := NewPitchEstimator(DefaultConfig())

	for _, freq := range []float64{220.0, 440.0, 880.0} {
		signal := sineWave(freq, 0.8, testSampleRate, 1.0)
		estimate := estimator.Estimate(signal, testSampleRate)

		if estimate.Source != PitchSourcePrimary {
			t.Errorf("%.0f Hz: source %q, want primary", freq, estimate.Source)
		}
		if math.Abs(estimate.FundamentalHz-freq) > 5.0 {
			t.Errorf("%.0f Hz: estimated %.2f Hz", freq, estimate.FundamentalHz)
		}
		if estimate.Confidence < 0.5 {
			t.Errorf("%.0f Hz: confidence %.3f, want >= 0.5", freq, estimate.Confidence)
		}
		if !estimate.IsStable {
			t.Errorf("%.0f Hz: steady tone reported unstable", freq)
		}
	}
}

func TestPitchEstimateShortSegment(t *testing.T) {
	estimator := NewPitchEstimator(DefaultConfig())
	estimate := estimator.Estimate(make([]float64, 511), testSampleRate)

	if estimate.FundamentalHz != 0 || estimate.Confidence != 0 {
		t.Errorf("short segment should return the zero estimate, got %+v", estimate)
	}
	if estimate.Source != PitchSourceUndetermined {
		t.Errorf("short segment source %q, want undetermined", estimate.Source)
	}
	if estimate.IsStable {
		t.Error("short segment should not report stability")
	}
}

func TestPitchEstimateSilence(t *testing.T) {
	estimator := NewPitchEstimator(DefaultConfig())
	estimate := estimator.Estimate(make([]float64, testSampleRate), testSampleRate)

	if estimate.Source != PitchSourceUndetermined {
		t.Errorf("silence source %q, want undetermined", estimate.Source)
	}
	if estimate.FundamentalHz != 0 {
		t.Errorf("silence fundamental %.2f Hz, want 0", estimate.FundamentalHz)
	}
}

func TestPitchEstimateVibrato(t *testing.T) {
	// 440 Hz with mild vibrato: still resolvable and within the stability
	// bound since the deviation stays under 1%
	sampleRate := testSampleRate
	n := sampleRate
	signal := make([]float64, n)
	phase := 0.0
	for i := range signal {
		freq := 440.0 * (1.0 + 0.005*math.Sin(2*math.Pi*5.0*float64(i)/float64(sampleRate)))
		phase += 2 * math.Pi * freq / float64(sampleRate)
		signal[i] = 0.8 * math.Sin(phase)
	}

	estimator := NewPitchEstimator(DefaultConfig())
	estimate := estimator.Estimate(signal, sampleRate)

	if estimate.Source != PitchSourcePrimary {
		t.Fatalf("vibrato source %q, want primary", estimate.Source)
	}
	if math.Abs(estimate.FundamentalHz-440.0) > 10.0 {
		t.Errorf("vibrato fundamental %.2f Hz, want ~440", estimate.FundamentalHz)
	}
	if estimate.Stability < 0.9 {
		t.Errorf("mild vibrato stability %.3f, want >= 0.9", estimate.Stability)
	}
}
