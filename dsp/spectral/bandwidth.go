package spectral

import "math"

// SpectralBandwidth computes the magnitude-weighted spread of a spectrum
// around its centroid
type SpectralBandwidth struct {
	sampleRate  int
	freqBins    []float64 // Pre-calculated frequency bins
	initialized bool
}

// NewSpectralBandwidth creates a new spectral bandwidth calculator
func NewSpectralBandwidth(sampleRate int) *SpectralBandwidth {
	return &SpectralBandwidth{
		sampleRate: sampleRate,
	}
}

// Compute calculates the bandwidth of a single magnitude spectrum
// around the given centroid frequency
func (sb *SpectralBandwidth) Compute(spectrum []float64, centroid float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	if !sb.initialized || len(sb.freqBins) != len(spectrum) {
		sb.initializeFreqBins(len(spectrum))
	}

	weightedVariance := 0.0
	totalMagnitude := 0.0
	for i, mag := range spectrum {
		dev := sb.freqBins[i] - centroid
		weightedVariance += dev * dev * mag
		totalMagnitude += mag
	}
	if totalMagnitude == 0 {
		return 0.0
	}

	return math.Sqrt(weightedVariance / totalMagnitude)
}

// ComputeFrames processes multiple frames, computing the centroid per frame
func (sb *SpectralBandwidth) ComputeFrames(spectrogram [][]float64) []float64 {
	if len(spectrogram) == 0 {
		return []float64{}
	}

	centroid := NewSpectralCentroid(sb.sampleRate)
	bandwidths := make([]float64, len(spectrogram))
	for t, spectrum := range spectrogram {
		c := centroid.Compute(spectrum)
		bandwidths[t] = sb.Compute(spectrum, c)
	}

	return bandwidths
}

// ComputeMean calculates the mean bandwidth over all frames
func (sb *SpectralBandwidth) ComputeMean(spectrogram [][]float64) float64 {
	bandwidths := sb.ComputeFrames(spectrogram)
	if len(bandwidths) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, b := range bandwidths {
		sum += b
	}
	return sum / float64(len(bandwidths))
}

// initializeFreqBins pre-calculates frequency bins
func (sb *SpectralBandwidth) initializeFreqBins(numBins int) {
	sb.freqBins = make([]float64, numBins)
	for i := range numBins {
		sb.freqBins[i] = float64(i) * float64(sb.sampleRate) / float64((numBins-1)*2)
	}
	sb.initialized = true
}
