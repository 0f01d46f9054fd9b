package spectral

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

func TestSTFTComputeSinePeak(t *testing.T) {
	sampleRate := 44100
	signal := generateSine(440.0, sampleRate, 1.0)

	stft := NewSTFT()
	result, err := stft.Compute(signal, 2048, 512, sampleRate)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if result.TimeFrames == 0 || result.FreqBins != 1025 {
		t.Fatalf("unexpected dimensions: %d frames, %d bins", result.TimeFrames, result.FreqBins)
	}

	// The peak bin of a mid-signal frame should sit at ~440 Hz
	frame := result.Magnitude[result.TimeFrames/2]
	peakBin := 0
	for i, mag := range frame {
		if mag > frame[peakBin] {
			peakBin = i
		}
	}
	peakFreq := float64(peakBin) * result.FreqResolution
	if math.Abs(peakFreq-440.0) > result.FreqResolution {
		t.Errorf("peak at %.1f Hz, expected ~440 Hz", peakFreq)
	}
}

func TestSTFTComputeShortSignal(t *testing.T) {
	stft := NewSTFT()
	_, err := stft.Compute(make([]float64, 100), 2048, 512, 44100)
	if err == nil {
		t.Error("expected error for signal shorter than window")
	}
}

func TestSTFTInverseRoundTrip(t *testing.T) {
	sampleRate := 44100
	signal := generateSine(440.0, sampleRate, 0.5)

	stft := NewSTFT()
	windowSize, hopSize := 2048, 512
	result, err := stft.Compute(signal, windowSize, hopSize, sampleRate)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	reconstructed := stft.Inverse(result.Complex, windowSize, hopSize, len(signal), NewHannWindow(windowSize))
	if len(reconstructed) != len(signal) {
		t.Fatalf("length mismatch: got %d, want %d", len(reconstructed), len(signal))
	}

	// Compare away from the edges where overlap-add coverage is partial
	var sumErr, sumRef float64
	for i := windowSize; i < len(signal)-windowSize; i++ {
		diff := reconstructed[i] - signal[i]
		sumErr += diff * diff
		sumRef += signal[i] * signal[i]
	}
	if sumRef == 0 {
		t.Fatal("reference energy is zero")
	}
	relErr := math.Sqrt(sumErr / sumRef)
	if relErr > 0.01 {
		t.Errorf("reconstruction error %.4f exceeds tolerance", relErr)
	}
}

func TestSpectralFlatnessToneVsNoise(t *testing.T) {
	sampleRate := 44100
	tone := generateSine(440.0, sampleRate, 0.5)

	noise := make([]float64, len(tone))
	rngState := uint32(12345)
	for i := range noise {
		rngState = rngState*1664525 + 1013904223
		noise[i] = (float64(rngState)/float64(0xFFFFFFFF))*2.0 - 1.0
	}

	stft := NewSTFT()
	flatness := NewSpectralFlatness()

	toneSTFT, err := stft.Compute(tone, 2048, 512, sampleRate)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	noiseSTFT, err := stft.Compute(noise, 2048, 512, sampleRate)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	toneFlat := flatness.ComputeMean(toneSTFT.Magnitude)
	noiseFlat := flatness.ComputeMean(noiseSTFT.Magnitude)

	if toneFlat >= 0.1 {
		t.Errorf("tone flatness %.4f, expected < 0.1", toneFlat)
	}
	if noiseFlat <= 0.3 {
		t.Errorf("noise flatness %.4f, expected > 0.3", noiseFlat)
	}
	if toneFlat >= noiseFlat {
		t.Errorf("tone flatness %.4f should be below noise flatness %.4f", toneFlat, noiseFlat)
	}
}

func TestSpectralCentroidTracksFrequency(t *testing.T) {
	sampleRate := 44100
	stft := NewSTFT()
	centroid := NewSpectralCentroid(sampleRate)

	low, err := stft.Compute(generateSine(220.0, sampleRate, 0.5), 2048, 512, sampleRate)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	high, err := stft.Compute(generateSine(3000.0, sampleRate, 0.5), 2048, 512, sampleRate)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	lowCentroid := centroid.ComputeMean(low.Magnitude)
	highCentroid := centroid.ComputeMean(high.Magnitude)

	if lowCentroid >= highCentroid {
		t.Errorf("centroid %.1f for 220 Hz should be below %.1f for 3000 Hz", lowCentroid, highCentroid)
	}
	if math.Abs(lowCentroid-220.0) > 100.0 {
		t.Errorf("centroid %.1f too far from 220 Hz", lowCentroid)
	}
}
