package spectral

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"sync"
)

// STFT provides Short-Time Fourier Transform functionality
type STFT struct {
	fft *FFT
}

// STFTResult holds the result of STFT analysis
type STFTResult struct {
	Magnitude      [][]float64    `json:"magnitude"`       // Time x Frequency magnitude matrix
	Phase          [][]float64    `json:"phase"`           // Time x Frequency phase matrix
	Complex        [][]complex128 `json:"-"`               // Raw complex spectrogram (not serialized)
	TimeFrames     int            `json:"time_frames"`     // Number of time frames
	FreqBins       int            `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int            `json:"sample_rate"`     // Sample rate
	WindowSize     int            `json:"window_size"`     // FFT window size
	HopSize        int            `json:"hop_size"`        // Hop size between frames
	FreqResolution float64        `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64        `json:"time_resolution"` // Time resolution (seconds/frame)
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft: NewFFT(),
	}
}

// Compute computes the STFT with a Hann window
func (s *STFT) Compute(signal []float64, windowSize, hopSize, sampleRate int) (*STFTResult, error) {
	return s.ComputeWithWindow(signal, windowSize, hopSize, sampleRate, NewHannWindow(windowSize))
}

// ComputeWithWindow computes the STFT with parallel frame processing and a
// custom window. A nil window means rectangular framing.
func (s *STFT) ComputeWithWindow(signal []float64, windowSize int, hopSize int, sampleRate int, window Window) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}

	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	numFrames := (len(signal)-windowSize)/hopSize + 1
	if numFrames <= 0 {
		return nil, fmt.Errorf("signal too short for given window size and hop size")
	}

	// Positive frequencies only
	freqBins := windowSize/2 + 1

	magnitude := make([][]float64, numFrames)
	phase := make([][]float64, numFrames)
	complexSpectrum := make([][]complex128, numFrames)

	for i := range numFrames {
		magnitude[i] = make([]float64, freqBins)
		phase[i] = make([]float64, freqBins)
		complexSpectrum[i] = make([]complex128, freqBins)
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > numFrames {
		numWorkers = numFrames
	}

	jobs := make(chan int, numFrames)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]float64, windowSize)

			for frameIdx := range jobs {
				startIdx := frameIdx * hopSize
				endIdx := startIdx + windowSize
				if endIdx > len(signal) {
					continue
				}

				copy(frameBuffer, signal[startIdx:endIdx])

				if window != nil {
					if err := window.ApplyInPlace(frameBuffer); err != nil {
						continue
					}
				}

				fftResult := s.fft.Compute(frameBuffer)

				for i := range freqBins {
					complexSpectrum[frameIdx][i] = fftResult[i]
					magnitude[frameIdx][i] = cmplx.Abs(fftResult[i])
					phase[frameIdx][i] = cmplx.Phase(fftResult[i])
				}
			}
		}()
	}

	for frameIdx := range numFrames {
		jobs <- frameIdx
	}
	close(jobs)

	wg.Wait()

	return &STFTResult{
		Magnitude:      magnitude,
		Phase:          phase,
		Complex:        complexSpectrum,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		TimeResolution: float64(hopSize) / float64(sampleRate),
	}, nil
}

// Inverse reconstructs a time-domain signal from a complex spectrogram using
// windowed overlap-add. The spectrogram must come from ComputeWithWindow with
// the same window and hop size.
func (s *STFT) Inverse(complexSpectrum [][]complex128, windowSize, hopSize, signalLength int, window Window) []float64 {
	if len(complexSpectrum) == 0 || windowSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	output := make([]float64, signalLength)
	windowSum := make([]float64, signalLength)

	var coeffs []float64
	if window != nil {
		coeffs = window.Coefficients()
	}

	for frameIdx, half := range complexSpectrum {
		// Rebuild the full symmetric spectrum from positive frequencies
		full := make([]complex128, windowSize)
		for i, c := range half {
			full[i] = c
		}
		for i := 1; i < windowSize/2; i++ {
			full[windowSize-i] = cmplx.Conj(half[i])
		}

		frame := s.fft.ComputeInverseReal(full)

		startIdx := frameIdx * hopSize
		for i := range windowSize {
			pos := startIdx + i
			if pos >= signalLength {
				break
			}
			w := 1.0
			if coeffs != nil {
				w = coeffs[i]
			}
			output[pos] += frame[i] * w
			windowSum[pos] += w * w
		}
	}

	// Normalize by the accumulated window energy
	for i := range output {
		if windowSum[i] > 1e-10 {
			output[i] /= windowSum[i]
		}
	}

	return output
}
