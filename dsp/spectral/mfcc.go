package spectral

import (
	"fmt"
	"math"
)

// MFCC computes Mel-Frequency Cepstral Coefficients
type MFCC struct {
	numCoefficients int
	numMelFilters   int
	sampleRate      int
	lowFreq         float64
	highFreq        float64

	melScale    *MelScale
	filterBank  [][]float64
	dctMatrix   [][]float64
	fftSize     int
	initialized bool
}

// NewMFCC creates a new MFCC computer
func NewMFCC(sampleRate, numCoefficients int) *MFCC {
	if numCoefficients <= 0 {
		numCoefficients = 13
	}
	return &MFCC{
		numCoefficients: numCoefficients,
		numMelFilters:   26,
		sampleRate:      sampleRate,
		lowFreq:         0.0,
		highFreq:        float64(sampleRate) / 2.0,
		melScale:        NewMelScale(),
	}
}

// Initialize prepares the filter bank and DCT matrix for the given FFT size
func (m *MFCC) Initialize(fftSize int) error {
	if fftSize <= 0 {
		return fmt.Errorf("invalid FFT size: %d", fftSize)
	}

	m.filterBank = m.melScale.CreateMelFilterBank(
		m.numMelFilters, fftSize, m.sampleRate, m.lowFreq, m.highFreq,
	)
	m.createDCTMatrix()
	m.fftSize = fftSize
	m.initialized = true

	return nil
}

// Compute calculates MFCC coefficients for a single magnitude spectrum
func (m *MFCC) Compute(magnitudeSpectrum []float64) ([]float64, error) {
	fftSize := (len(magnitudeSpectrum) - 1) * 2
	if !m.initialized || m.fftSize != fftSize {
		if err := m.Initialize(fftSize); err != nil {
			return nil, err
		}
	}

	// Power spectrum
	powerSpectrum := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		powerSpectrum[i] = mag * mag
	}

	melSpectrum := m.melScale.ApplyFilterBank(powerSpectrum, m.filterBank)

	// Log compression
	logMel := make([]float64, len(melSpectrum))
	for i, v := range melSpectrum {
		logMel[i] = math.Log(v + 1e-10)
	}

	return m.applyDCT(logMel), nil
}

// ComputeFrames calculates MFCC coefficients for every frame of a spectrogram
func (m *MFCC) ComputeFrames(spectrogram [][]float64) ([][]float64, error) {
	if len(spectrogram) == 0 {
		return [][]float64{}, nil
	}

	coeffs := make([][]float64, len(spectrogram))
	for t, spectrum := range spectrogram {
		c, err := m.Compute(spectrum)
		if err != nil {
			return nil, err
		}
		coeffs[t] = c
	}

	return coeffs, nil
}

// createDCTMatrix builds the type-II DCT matrix
func (m *MFCC) createDCTMatrix() {
	m.dctMatrix = make([][]float64, m.numCoefficients)
	for i := range m.numCoefficients {
		m.dctMatrix[i] = make([]float64, m.numMelFilters)
		for j := range m.numMelFilters {
			m.dctMatrix[i][j] = math.Cos(math.Pi * float64(i) * (float64(j) + 0.5) / float64(m.numMelFilters))
		}
	}
}

// applyDCT converts log mel spectrum to cepstral coefficients
func (m *MFCC) applyDCT(logMelSpectrum []float64) []float64 {
	coeffs := make([]float64, m.numCoefficients)
	for i := range m.numCoefficients {
		sum := 0.0
		for j := 0; j < len(logMelSpectrum) && j < m.numMelFilters; j++ {
			sum += logMelSpectrum[j] * m.dctMatrix[i][j]
		}
		coeffs[i] = sum
	}
	return coeffs
}
