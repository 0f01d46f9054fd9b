package temporal

import (
	"math"

	"github.com/sonigraph/noteflow/dsp/spectral"
)

// OnsetDetector detects note/event onsets in audio signals using spectral
// flux peak picking with energy-envelope backtracking
type OnsetDetector struct {
	windowSize  int
	hopSize     int
	minInterval float64 // Minimum spacing between onsets in seconds

	stft *spectral.STFT
	flux *spectral.SpectralFlux
}

// NewOnsetDetector creates an onset detector with the standard analysis
// parameters (window 1024, hop 512, 50 ms minimum spacing)
func NewOnsetDetector() *OnsetDetector {
	return &OnsetDetector{
		windowSize:  1024,
		hopSize:     512,
		minInterval: 0.05,
		stft:        spectral.NewSTFT(),
		flux:        spectral.NewSpectralFlux(),
	}
}

// HopSize returns the analysis hop size in samples
func (od *OnsetDetector) HopSize() int { return od.hopSize }

// DetectOnsets returns onset positions as sample indices, sorted ascending.
// Each flux peak is backtracked to the preceding energy minimum so segment
// boundaries land at the true start of the transient rather than its crest.
func (od *OnsetDetector) DetectOnsets(signal []float64, sampleRate int) ([]int, error) {
	if len(signal) == 0 {
		return []int{}, nil
	}

	stftResult, err := od.stft.Compute(signal, od.windowSize, od.hopSize, sampleRate)
	if err != nil {
		return nil, err
	}

	flux := od.flux.Compute(stftResult.Magnitude)
	if len(flux) == 0 {
		return []int{}, nil
	}

	threshold := od.adaptiveThreshold(flux)
	peakFrames := od.findFluxPeaks(flux, threshold, sampleRate)

	// Flux index t compares frames t and t+1, so the onset frame is t+1
	onsets := make([]int, 0, len(peakFrames))
	for _, frame := range peakFrames {
		sample := (frame + 1) * od.hopSize
		sample = od.backtrackToMinimum(signal, sample)
		if sample < len(signal) {
			onsets = append(onsets, sample)
		}
	}

	return onsets, nil
}

// findFluxPeaks finds local maxima above threshold with minimum spacing
func (od *OnsetDetector) findFluxPeaks(flux []float64, threshold float64, sampleRate int) []int {
	if len(flux) < 3 {
		return []int{}
	}

	minIntervalFrames := int(od.minInterval * float64(sampleRate) / float64(od.hopSize))
	if minIntervalFrames < 1 {
		minIntervalFrames = 1
	}

	var peaks []int
	lastPeakFrame := -minIntervalFrames

	for i := 1; i < len(flux)-1; i++ {
		if flux[i] > flux[i-1] &&
			flux[i] > flux[i+1] &&
			flux[i] >= threshold &&
			i-lastPeakFrame >= minIntervalFrames {
			peaks = append(peaks, i)
			lastPeakFrame = i
		}
	}

	return peaks
}

// adaptiveThreshold calculates a flux threshold from its statistics
func (od *OnsetDetector) adaptiveThreshold(flux []float64) float64 {
	if len(flux) == 0 {
		return 0.0
	}

	mean := 0.0
	for _, val := range flux {
		mean += val
	}
	mean /= float64(len(flux))

	variance := 0.0
	for _, val := range flux {
		diff := val - mean
		variance += diff * diff
	}
	variance /= float64(len(flux))

	return mean + 1.5*math.Sqrt(variance)
}

// backtrackToMinimum walks an onset position back to the preceding local
// minimum of the short-term energy so the attack transient stays inside the
// segment
func (od *OnsetDetector) backtrackToMinimum(signal []float64, onsetSample int) int {
	frame := 256
	if onsetSample <= frame {
		return 0
	}

	energyAt := func(center int) float64 {
		start := center - frame/2
		if start < 0 {
			start = 0
		}
		end := start + frame
		if end > len(signal) {
			end = len(signal)
		}
		sum := 0.0
		for _, v := range signal[start:end] {
			sum += v * v
		}
		return sum
	}

	pos := onsetSample
	prevEnergy := energyAt(pos)
	for pos-frame >= 0 {
		energy := energyAt(pos - frame)
		if energy >= prevEnergy {
			break
		}
		prevEnergy = energy
		pos -= frame
	}

	return pos
}
