package hpss

import (
	"math"
	"testing"
)

// harmonic component: steady sine; percussive component: short clicks
func generateMix(sampleRate int, duration float64) []float64 {
	n := int(duration * float64(sampleRate))
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = 0.5 * math.Sin(2*math.Pi*440.0*float64(i)/float64(sampleRate))
	}
	clickLen := sampleRate / 200
	for start := sampleRate / 4; start < n; start += sampleRate / 2 {
		for i := 0; i < clickLen && start+i < n; i++ {
			signal[start+i] += 0.8 * math.Exp(-10.0*float64(i)/float64(clickLen))
		}
	}
	return signal
}

func TestSeparateSineAndClicks(t *testing.T) {
	sampleRate := 44100
	signal := generateMix(sampleRate, 2.0)

	separator := NewSeparator()
	result, err := separator.Separate(signal, sampleRate)
	if err != nil {
		t.Fatalf("Separate failed: %v", err)
	}

	if len(result.Harmonic) != len(signal) || len(result.Percussive) != len(signal) {
		t.Fatalf("component lengths %d/%d, expected %d",
			len(result.Harmonic), len(result.Percussive), len(signal))
	}

	if result.HarmonicEnergy <= 0 || result.PercussiveEnergy <= 0 {
		t.Fatalf("energies not positive: harmonic=%g percussive=%g",
			result.HarmonicEnergy, result.PercussiveEnergy)
	}

	// The steady sine dominates the mix, so the harmonic share should too
	if result.HarmonicEnergy <= result.PercussiveEnergy {
		t.Errorf("harmonic energy %g not above percussive %g",
			result.HarmonicEnergy, result.PercussiveEnergy)
	}
}

func TestSeparatePureTone(t *testing.T) {
	sampleRate := 44100
	n := sampleRate
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 440.0 * float64(i) / float64(sampleRate))
	}

	separator := NewSeparator()
	result, err := separator.Separate(signal, sampleRate)
	if err != nil {
		t.Fatalf("Separate failed: %v", err)
	}

	ratio := result.HarmonicEnergy / (result.HarmonicEnergy + result.PercussiveEnergy)
	if ratio < 0.8 {
		t.Errorf("harmonic ratio %.3f for a pure tone, expected > 0.8", ratio)
	}
}

func TestSeparateShortSignal(t *testing.T) {
	separator := NewSeparator()
	_, err := separator.Separate(make([]float64, 100), 44100)
	if err == nil {
		t.Error("expected error for signal shorter than the analysis window")
	}
}
