package analyze

import (
	"math"
	"testing"
)

func TestTimbreSilentSegment(t *testing.T) {
	estimator := NewTimbreEstimator(DefaultConfig())

	profile := estimator.Estimate(make([]float64, testSampleRate), testSampleRate)

	if profile != (TimbreProfile{}) {
		t.Errorf("silent segment produced non-zero profile: %+v", profile)
	}
}

func TestTimbreTooShortForSpectral(t *testing.T) {
	estimator := NewTimbreEstimator(DefaultConfig())

	signal := sineWave(440.0, 0.8, testSampleRate, 0.01)
	profile := estimator.Estimate(signal, testSampleRate)

	if profile != (TimbreProfile{}) {
		t.Errorf("too-short segment produced non-zero profile: %+v", profile)
	}
}

func TestTimbrePureTone(t *testing.T) {
	estimator := NewTimbreEstimator(DefaultConfig())

	signal := sineWave(440.0, 0.8, testSampleRate, 1.0)
	profile := estimator.Estimate(signal, testSampleRate)

	if profile.Centroid < 300.0 || profile.Centroid > 700.0 {
		t.Errorf("centroid = %.1f Hz, want near 440", profile.Centroid)
	}
	if profile.Rolloff < 300.0 || profile.Rolloff > 700.0 {
		t.Errorf("rolloff = %.1f Hz, want near 440 for a pure tone", profile.Rolloff)
	}
	if profile.Flatness > 0.1 {
		t.Errorf("flatness = %.3f, want low for a pure tone", profile.Flatness)
	}
	if profile.HarmonicRatio < 0.9 {
		t.Errorf("harmonic ratio = %.3f, want near 1 for a pure tone", profile.HarmonicRatio)
	}
	if profile.Noisiness > 0.1 {
		t.Errorf("noisiness = %.3f, want near 0", profile.Noisiness)
	}
	if profile.Inharmonicity > 0.05 {
		t.Errorf("inharmonicity = %.4f, want near 0", profile.Inharmonicity)
	}
	if profile.Tristimulus[0] < 0.9 {
		t.Errorf("tristimulus[0] = %.3f, want fundamental to dominate", profile.Tristimulus[0])
	}
	if profile.Warmth < 0.5 {
		t.Errorf("warmth = %.3f, want a low tone to read warm", profile.Warmth)
	}
	if profile.Brightness > 0.2 {
		t.Errorf("brightness = %.3f, want low for 440 Hz", profile.Brightness)
	}
}

func TestTimbreComplexTone(t *testing.T) {
	estimator := NewTimbreEstimator(DefaultConfig())

	// Fundamental plus two exact harmonics with decaying amplitudes
	signal := sineWave(220.0, 0.6, testSampleRate, 1.0)
	second := sineWave(440.0, 0.3, testSampleRate, 1.0)
	third := sineWave(660.0, 0.2, testSampleRate, 1.0)
	for i := range signal {
		signal[i] += second[i] + third[i]
	}

	profile := estimator.Estimate(signal, testSampleRate)

	if profile.HarmonicRatio < 0.8 {
		t.Errorf("harmonic ratio = %.3f, want high for a harmonic complex", profile.HarmonicRatio)
	}
	if profile.Inharmonicity > 0.05 {
		t.Errorf("inharmonicity = %.4f, want near 0 for exact harmonics", profile.Inharmonicity)
	}
	if profile.Tristimulus[1] < 0.2 {
		t.Errorf("tristimulus[1] = %.3f, want harmonics 2-4 to carry weight", profile.Tristimulus[1])
	}
	if profile.Tristimulus[0] <= profile.Tristimulus[2] {
		t.Errorf("tristimulus = %v, want the fundamental above the residual", profile.Tristimulus)
	}
	// Centroid sits between the fundamental and the highest partial
	if profile.Centroid < 220.0 || profile.Centroid > 660.0 {
		t.Errorf("centroid = %.1f Hz, want between 220 and 660", profile.Centroid)
	}
	if profile.Bandwidth <= 0 {
		t.Errorf("bandwidth = %.1f, want positive spread for multiple partials", profile.Bandwidth)
	}
}

func TestTimbreNoiseBrighterThanTone(t *testing.T) {
	estimator := NewTimbreEstimator(DefaultConfig())

	tone := estimator.Estimate(sineWave(220.0, 0.8, testSampleRate, 1.0), testSampleRate)

	rngState := uint32(1)
	noise := make([]float64, testSampleRate)
	for i := range noise {
		rngState = rngState*1664525 + 1013904223
		noise[i] = (float64(rngState)/float64(math.MaxUint32) - 0.5) * 0.8
	}
	noisy := estimator.Estimate(noise, testSampleRate)

	if noisy.Flatness <= tone.Flatness {
		t.Errorf("noise flatness %.3f not above tone flatness %.3f", noisy.Flatness, tone.Flatness)
	}
	if noisy.Brightness <= tone.Brightness {
		t.Errorf("noise brightness %.3f not above tone brightness %.3f", noisy.Brightness, tone.Brightness)
	}
	if noisy.Warmth >= tone.Warmth {
		t.Errorf("noise warmth %.3f not below tone warmth %.3f", noisy.Warmth, tone.Warmth)
	}
}
