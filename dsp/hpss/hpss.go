package hpss

import (
	"math"
	"sort"

	"github.com/sonigraph/noteflow/dsp/spectral"
)

// Separator splits a signal into harmonic and percussive components using
// median filtering of the STFT magnitude: harmonic content is smooth across
// time, percussive content is smooth across frequency
//
// Reference: Fitzgerald, D. (2010). "Harmonic/percussive separation using
// median filtering"
type Separator struct {
	windowSize   int
	hopSize      int
	kernelSize   int     // Median filter length in frames/bins
	maskExponent float64 // Soft mask exponent (2 = Wiener-style)

	stft *spectral.STFT
}

// SeparationResult holds the separated components and their energies
type SeparationResult struct {
	Harmonic         []float64 `json:"-"` // Harmonic component samples
	Percussive       []float64 `json:"-"` // Percussive component samples
	HarmonicEnergy   float64   `json:"harmonic_energy"`   // Mean squared amplitude
	PercussiveEnergy float64   `json:"percussive_energy"` // Mean squared amplitude
}

// NewSeparator creates a separator with the standard analysis parameters
func NewSeparator() *Separator {
	return &Separator{
		windowSize:   2048,
		hopSize:      512,
		kernelSize:   17,
		maskExponent: 2.0,
		stft:         spectral.NewSTFT(),
	}
}

// Separate decomposes the signal. The returned components sum approximately
// to the input (soft masking).
func (s *Separator) Separate(signal []float64, sampleRate int) (*SeparationResult, error) {
	if len(signal) == 0 {
		return &SeparationResult{
			Harmonic:   []float64{},
			Percussive: []float64{},
		}, nil
	}

	window := spectral.NewHannWindow(s.windowSize)
	stftResult, err := s.stft.ComputeWithWindow(signal, s.windowSize, s.hopSize, sampleRate, window)
	if err != nil {
		return nil, err
	}

	numFrames := stftResult.TimeFrames
	freqBins := stftResult.FreqBins

	// Median filter across time for each frequency bin (harmonic estimate)
	harmMag := make([][]float64, numFrames)
	for t := range numFrames {
		harmMag[t] = make([]float64, freqBins)
	}
	column := make([]float64, numFrames)
	for f := range freqBins {
		for t := range numFrames {
			column[t] = stftResult.Magnitude[t][f]
		}
		filtered := medianFilter(column, s.kernelSize)
		for t := range numFrames {
			harmMag[t][f] = filtered[t]
		}
	}

	// Median filter across frequency for each frame (percussive estimate)
	percMag := make([][]float64, numFrames)
	for t := range numFrames {
		percMag[t] = medianFilter(stftResult.Magnitude[t], s.kernelSize)
	}

	// Soft masks and component spectrograms
	harmonicSpec := make([][]complex128, numFrames)
	percussiveSpec := make([][]complex128, numFrames)
	for t := range numFrames {
		harmonicSpec[t] = make([]complex128, freqBins)
		percussiveSpec[t] = make([]complex128, freqBins)

		for f := range freqBins {
			h := pow(harmMag[t][f], s.maskExponent)
			p := pow(percMag[t][f], s.maskExponent)
			total := h + p

			var harmMask, percMask float64
			if total > 1e-12 {
				harmMask = h / total
				percMask = p / total
			}

			harmonicSpec[t][f] = scale(stftResult.Complex[t][f], harmMask)
			percussiveSpec[t][f] = scale(stftResult.Complex[t][f], percMask)
		}
	}

	harmonic := s.stft.Inverse(harmonicSpec, s.windowSize, s.hopSize, len(signal), window)
	percussive := s.stft.Inverse(percussiveSpec, s.windowSize, s.hopSize, len(signal), window)

	return &SeparationResult{
		Harmonic:         harmonic,
		Percussive:       percussive,
		HarmonicEnergy:   meanSquare(harmonic),
		PercussiveEnergy: meanSquare(percussive),
	}, nil
}

// medianFilter applies a centered median filter with edge truncation
func medianFilter(data []float64, kernelSize int) []float64 {
	if len(data) == 0 || kernelSize <= 1 {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	half := kernelSize / 2
	out := make([]float64, len(data))
	buffer := make([]float64, 0, kernelSize)

	for i := range data {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := i + half + 1
		if end > len(data) {
			end = len(data)
		}

		buffer = buffer[:0]
		buffer = append(buffer, data[start:end]...)
		sort.Float64s(buffer)

		mid := len(buffer) / 2
		if len(buffer)%2 == 1 {
			out[i] = buffer[mid]
		} else {
			out[i] = (buffer[mid-1] + buffer[mid]) / 2
		}
	}

	return out
}

func pow(x, exponent float64) float64 {
	if exponent == 2.0 {
		return x * x
	}
	return math.Pow(x, exponent)
}

func scale(c complex128, factor float64) complex128 {
	return complex(real(c)*factor, imag(c)*factor)
}

func meanSquare(signal []float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range signal {
		sum += v * v
	}
	return sum / float64(len(signal))
}
