package chroma

import (
	"math"
	"testing"
)

func generateSine(freq float64, sampleRate int, duration float64) []float64 {
	n := int(duration * float64(sampleRate))
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return signal
}

func TestChromaSinglePitchClass(t *testing.T) {
	sampleRate := 44100

	cases := []struct {
		freq  float64
		class int
	}{
		{440.0, 9},  // A4
		{261.63, 0}, // C4
		{329.63, 4}, // E4
	}

	for _, tc := range cases {
		cs := NewChromaSTFT(sampleRate)
		frames, err := cs.ComputeChroma(generateSine(tc.freq, sampleRate, 0.5), 2048, 512)
		if err != nil {
			t.Fatalf("%.2f Hz: ComputeChroma failed: %v", tc.freq, err)
		}

		mean := AggregateMean(frames)
		if len(mean) != 12 {
			t.Fatalf("%.2f Hz: chroma vector has %d bins", tc.freq, len(mean))
		}

		best := 0
		for i, v := range mean {
			if v > mean[best] {
				best = i
			}
		}
		if best != tc.class {
			t.Errorf("%.2f Hz: dominant class %s, expected %s",
				tc.freq, PitchClassNames[best], PitchClassNames[tc.class])
		}
		if mean[tc.class] < 0.5 {
			t.Errorf("%.2f Hz: class %s weight %.3f, expected > 0.5",
				tc.freq, PitchClassNames[tc.class], mean[tc.class])
		}
	}
}

func TestChromaTriad(t *testing.T) {
	sampleRate := 44100
	n := sampleRate / 2
	signal := make([]float64, n)
	// C major triad: C4, E4, G4
	for _, freq := range []float64{261.63, 329.63, 392.0} {
		for i := range signal {
			signal[i] += math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)) / 3.0
		}
	}

	cs := NewChromaSTFT(sampleRate)
	frames, err := cs.ComputeChroma(signal, 2048, 512)
	if err != nil {
		t.Fatalf("ComputeChroma failed: %v", err)
	}
	mean := AggregateMean(frames)

	for _, class := range []int{0, 4, 7} {
		if mean[class] < 0.1 {
			t.Errorf("triad class %s weight %.3f too low", PitchClassNames[class], mean[class])
		}
	}

	// Sum-to-one normalization
	total := 0.0
	for _, v := range mean {
		total += v
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("aggregate sums to %.6f, expected 1", total)
	}
}

func TestChromaSilence(t *testing.T) {
	cs := NewChromaSTFT(44100)
	frames, err := cs.ComputeChroma(make([]float64, 44100/2), 2048, 512)
	if err != nil {
		t.Fatalf("ComputeChroma failed: %v", err)
	}

	mean := AggregateMean(frames)
	for i, v := range mean {
		if v != 0 {
			t.Errorf("silence produced nonzero chroma at class %d: %f", i, v)
		}
	}
}
