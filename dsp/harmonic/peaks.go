// Package harmonic provides spectral peak detection and harmonic series
// analysis used for timbre description of isolated notes.
package harmonic

import (
	"math"
	"sort"
)

// SpectralPeak represents a detected spectral peak
type SpectralPeak struct {
	Frequency float64 // Peak frequency in Hz
	Magnitude float64 // Peak magnitude
	BinIndex  int     // Original FFT bin index
	Harmonic  int     // Harmonic number (1 = fundamental), 0 = unassigned
}

// PeakDetector finds prominent spectral peaks in a magnitude spectrum
type PeakDetector struct {
	sampleRate      int
	minPeakHeight   float64
	minPeakDistance float64 // Minimum distance between peaks in Hz
	maxPeaks        int
}

// NewPeakDetector creates a new spectral peak detector
func NewPeakDetector(sampleRate int, minPeakHeight, minPeakDistance float64, maxPeaks int) *PeakDetector {
	return &PeakDetector{
		sampleRate:      sampleRate,
		minPeakHeight:   minPeakHeight,
		minPeakDistance: minPeakDistance,
		maxPeaks:        maxPeaks,
	}
}

// Detect finds local maxima above the height threshold, keeping the stronger
// peak when two fall within the minimum distance. Peak locations are refined
// with parabolic interpolation and returned sorted by magnitude descending.
func (pd *PeakDetector) Detect(spectrum []float64, windowSize int) []SpectralPeak {
	if len(spectrum) < 3 || windowSize <= 0 {
		return []SpectralPeak{}
	}

	freqResolution := float64(pd.sampleRate) / float64(windowSize)
	minDistanceBins := int(pd.minPeakDistance / freqResolution)
	if minDistanceBins < 1 {
		minDistanceBins = 1
	}

	var peaks []SpectralPeak
	for i := 1; i < len(spectrum)-1; i++ {
		if spectrum[i] <= spectrum[i-1] || spectrum[i] <= spectrum[i+1] {
			continue
		}
		if spectrum[i] < pd.minPeakHeight {
			continue
		}

		keep := true
		for j := 0; j < len(peaks); j++ {
			if abs(i-peaks[j].BinIndex) >= minDistanceBins {
				continue
			}
			if spectrum[i] > peaks[j].Magnitude {
				peaks = append(peaks[:j], peaks[j+1:]...)
			} else {
				keep = false
			}
			break
		}
		if keep {
			peaks = append(peaks, pd.refinePeak(spectrum, i, freqResolution))
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].Magnitude > peaks[j].Magnitude
	})
	if len(peaks) > pd.maxPeaks {
		peaks = peaks[:pd.maxPeaks]
	}

	return peaks
}

// refinePeak applies parabolic interpolation for sub-bin frequency accuracy
func (pd *PeakDetector) refinePeak(spectrum []float64, binIdx int, freqResolution float64) SpectralPeak {
	peak := SpectralPeak{
		Frequency: float64(binIdx) * freqResolution,
		Magnitude: spectrum[binIdx],
		BinIndex:  binIdx,
	}

	y1 := spectrum[binIdx-1]
	y2 := spectrum[binIdx]
	y3 := spectrum[binIdx+1]

	denom := 2.0 * (2.0*y2 - y1 - y3)
	if math.Abs(denom) > 1e-10 {
		offset := (y3 - y1) / denom
		a := 0.5 * (y1 - 2.0*y2 + y3)
		b := 0.5 * (y3 - y1)
		peak.Frequency = (float64(binIdx) + offset) * freqResolution
		peak.Magnitude = y2 + a*offset*offset + b*offset
	}

	return peak
}

// AssignHarmonics labels each peak with the harmonic number of the given
// fundamental it falls within tolerance of, or leaves it unassigned.
// tolerance is relative (0.05 allows a 5% deviation from n*f0).
func AssignHarmonics(peaks []SpectralPeak, f0 float64, tolerance float64) []SpectralPeak {
	assigned := make([]SpectralPeak, len(peaks))
	copy(assigned, peaks)
	if f0 <= 0 {
		return assigned
	}

	for i := range assigned {
		bestHarmonic := 0
		bestError := math.Inf(1)
		for n := 1; n <= 20; n++ {
			expected := f0 * float64(n)
			err := math.Abs(assigned[i].Frequency - expected)
			if err/expected < tolerance && err < bestError {
				bestError = err
				bestHarmonic = n
			}
		}
		assigned[i].Harmonic = bestHarmonic
	}

	return assigned
}

// HarmonicRatio returns the fraction of peak energy carried by peaks
// assigned to a harmonic, in [0, 1]
func HarmonicRatio(peaks []SpectralPeak) float64 {
	totalEnergy := 0.0
	harmonicEnergy := 0.0
	for _, p := range peaks {
		energy := p.Magnitude * p.Magnitude
		totalEnergy += energy
		if p.Harmonic > 0 {
			harmonicEnergy += energy
		}
	}
	if totalEnergy == 0 {
		return 0.0
	}

	return harmonicEnergy / totalEnergy
}

// Inharmonicity measures the energy-weighted deviation of assigned peaks
// from exact integer multiples of the fundamental. 0 means a perfectly
// harmonic spectrum.
func Inharmonicity(peaks []SpectralPeak, f0 float64) float64 {
	if f0 <= 0 {
		return 0.0
	}

	weightedDeviation := 0.0
	totalWeight := 0.0
	for _, p := range peaks {
		if p.Harmonic <= 0 {
			continue
		}
		expected := f0 * float64(p.Harmonic)
		weight := p.Magnitude * p.Magnitude
		weightedDeviation += weight * math.Abs(p.Frequency-expected) / expected
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0.0
	}

	return weightedDeviation / totalWeight
}

// Tristimulus computes the three tristimulus values from harmonic peak
// amplitudes: the share of the fundamental, of harmonics 2-4, and of
// harmonics 5 and above
func Tristimulus(peaks []SpectralPeak) [3]float64 {
	var result [3]float64

	// Amplitude per harmonic number, strongest peak wins on collision
	amps := make(map[int]float64)
	total := 0.0
	for _, p := range peaks {
		if p.Harmonic <= 0 {
			continue
		}
		if p.Magnitude > amps[p.Harmonic] {
			total += p.Magnitude - amps[p.Harmonic]
			amps[p.Harmonic] = p.Magnitude
		}
	}
	if total == 0 {
		return result
	}

	for n, amp := range amps {
		switch {
		case n == 1:
			result[0] += amp / total
		case n <= 4:
			result[1] += amp / total
		default:
			result[2] += amp / total
		}
	}

	return result
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
