package chroma

import (
	"math"

	"github.com/sonigraph/noteflow/dsp/spectral"
)

// PitchClassNames are the 12 pitch class labels, C through B
var PitchClassNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ChromaSTFT computes a chromagram from the STFT magnitude spectrum:
// frequencies are folded onto 12 semitone bins, octave-independent,
// with adjustable tuning (default A4=440Hz)
type ChromaSTFT struct {
	sampleRate int
	tuningFreq float64
	minFreq    float64
	maxFreq    float64

	stft *spectral.STFT
}

// NewChromaSTFT creates a chromagram calculator with standard A4=440Hz tuning
func NewChromaSTFT(sampleRate int) *ChromaSTFT {
	return &ChromaSTFT{
		sampleRate: sampleRate,
		tuningFreq: 440.0,
		minFreq:    80.0,   // Approximate E2
		maxFreq:    8000.0, // High enough for harmonics
		stft:       spectral.NewSTFT(),
	}
}

// ComputeChroma computes the framewise chromagram of a signal
func (cs *ChromaSTFT) ComputeChroma(signal []float64, windowSize, hopSize int) ([][]float64, error) {
	if len(signal) == 0 {
		return nil, nil
	}

	stftResult, err := cs.stft.Compute(signal, windowSize, hopSize, cs.sampleRate)
	if err != nil {
		return nil, err
	}

	return cs.convertToChroma(stftResult), nil
}

// convertToChroma folds an STFT magnitude spectrogram onto pitch classes
func (cs *ChromaSTFT) convertToChroma(stftResult *spectral.STFTResult) [][]float64 {
	chromagram := make([][]float64, stftResult.TimeFrames)
	mapping := cs.chromaMapping(stftResult.FreqBins, stftResult.FreqResolution)

	for t := range stftResult.TimeFrames {
		chromagram[t] = make([]float64, 12)

		for f := range stftResult.FreqBins {
			bin := mapping[f]
			if bin < 0 {
				continue
			}
			// Magnitude squared for energy
			magnitude := stftResult.Magnitude[t][f]
			chromagram[t][bin] += magnitude * magnitude
		}

		normalizeFrame(chromagram[t])
	}

	return chromagram
}

// chromaMapping maps FFT bins to chroma bins; -1 marks out-of-range bins
func (cs *ChromaSTFT) chromaMapping(freqBins int, freqResolution float64) []int {
	mapping := make([]int, freqBins)

	for f := range freqBins {
		frequency := float64(f) * freqResolution

		if frequency < cs.minFreq || frequency > cs.maxFreq {
			mapping[f] = -1
			continue
		}

		midiNote := 69.0 + 12.0*math.Log2(frequency/cs.tuningFreq)
		mapping[f] = ((int(math.Round(midiNote)) % 12) + 12) % 12
	}

	return mapping
}

// normalizeFrame scales a chroma frame to unit total energy
func normalizeFrame(frame []float64) {
	total := 0.0
	for _, energy := range frame {
		total += energy
	}
	if total <= 0 {
		return
	}
	for i := range frame {
		frame[i] /= total
	}
}

// AggregateMean averages a chromagram across time and normalizes the 12 bins
// to sum to 1. An empty or zero-energy chromagram yields the zero vector.
func AggregateMean(chromagram [][]float64) []float64 {
	profile := make([]float64, 12)
	if len(chromagram) == 0 {
		return profile
	}

	for _, frame := range chromagram {
		for pc := 0; pc < 12 && pc < len(frame); pc++ {
			profile[pc] += frame[pc]
		}
	}

	total := 0.0
	for _, v := range profile {
		total += v
	}
	if total <= 0 {
		return make([]float64, 12)
	}
	for i := range profile {
		profile[i] /= total
	}

	return profile
}
