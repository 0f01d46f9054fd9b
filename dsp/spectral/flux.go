package spectral

import (
	"math"
)

// SpectralFlux computes spectral flux (measure of spectral change between
// consecutive frames)
type SpectralFlux struct {
	// No state needed
}

// NewSpectralFlux creates a new spectral flux calculator
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// Compute calculates spectral flux for a spectrogram, keeping only positive
// changes (energy increases). Output has one value per frame transition.
func (sf *SpectralFlux) Compute(spectrogram [][]float64) []float64 {
	if len(spectrogram) < 2 {
		return []float64{}
	}

	flux := make([]float64, len(spectrogram)-1)

	for t := 1; t < len(spectrogram); t++ {
		sum := 0.0
		for f := 0; f < len(spectrogram[t]); f++ {
			diff := spectrogram[t][f] - spectrogram[t-1][f]
			if diff > 0 {
				sum += diff * diff
			}
		}
		flux[t-1] = math.Sqrt(sum)
	}

	return flux
}

// ComputeMean calculates the mean flux over all frame transitions
func (sf *SpectralFlux) ComputeMean(spectrogram [][]float64) float64 {
	flux := sf.Compute(spectrogram)
	if len(flux) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, f := range flux {
		sum += f
	}
	return sum / float64(len(flux))
}
