package temporal

import (
	"math"
)

// Envelope provides amplitude envelope extraction with fixed framing
type Envelope struct {
	frameSize int
	hopSize   int
}

// NewEnvelope creates an envelope extractor with the given frame and hop sizes
func NewEnvelope(frameSize, hopSize int) *Envelope {
	return &Envelope{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// ComputeRMS computes the framed RMS energy envelope. Signals shorter than
// one frame yield a single value over the available samples.
func (e *Envelope) ComputeRMS(signal []float64) []float64 {
	if len(signal) == 0 || e.frameSize <= 0 || e.hopSize <= 0 {
		return []float64{}
	}

	if len(signal) < e.frameSize {
		return []float64{rms(signal)}
	}

	numFrames := (len(signal)-e.frameSize)/e.hopSize + 1
	envelope := make([]float64, numFrames)

	for i := range numFrames {
		start := i * e.hopSize
		envelope[i] = rms(signal[start : start+e.frameSize])
	}

	return envelope
}

// ComputeHilbert computes a samplewise amplitude envelope using a Hilbert
// transform approximation (derivative-based imaginary part)
func (e *Envelope) ComputeHilbert(signal []float64) []float64 {
	if len(signal) == 0 {
		return []float64{}
	}
	if len(signal) == 1 {
		return []float64{math.Abs(signal[0])}
	}

	envelope := make([]float64, len(signal))

	for i := range signal {
		re := signal[i]

		var im float64
		switch i {
		case 0:
			im = signal[1] - signal[0]
		case len(signal) - 1:
			im = signal[i] - signal[i-1]
		default:
			im = (signal[i+1] - signal[i-1]) / 2.0
		}

		envelope[i] = math.Sqrt(re*re + im*im)
	}

	return envelope
}

// Smooth applies a centered moving average of the given window length
func (e *Envelope) Smooth(envelope []float64, windowSize int) []float64 {
	if len(envelope) == 0 || windowSize <= 1 {
		return envelope
	}

	if windowSize > len(envelope) {
		windowSize = len(envelope)
	}

	smoothed := make([]float64, len(envelope))
	halfWindow := windowSize / 2

	for i := range envelope {
		sum := 0.0
		count := 0

		for j := i - halfWindow; j <= i+halfWindow; j++ {
			if j >= 0 && j < len(envelope) {
				sum += envelope[j]
				count++
			}
		}

		if count > 0 {
			smoothed[i] = sum / float64(count)
		}
	}

	return smoothed
}

// NormalizePeak scales the envelope so its maximum is 1. A zero envelope is
// returned unchanged.
func (e *Envelope) NormalizePeak(envelope []float64) []float64 {
	peak := 0.0
	for _, v := range envelope {
		if v > peak {
			peak = v
		}
	}

	if peak <= 0 {
		return envelope
	}

	normalized := make([]float64, len(envelope))
	for i, v := range envelope {
		normalized[i] = v / peak
	}

	return normalized
}

// FrameSize returns the configured frame size
func (e *Envelope) FrameSize() int { return e.frameSize }

// HopSize returns the configured hop size
func (e *Envelope) HopSize() int { return e.hopSize }

func rms(frame []float64) float64 {
	if len(frame) == 0 {
		return 0.0
	}
	sumSquares := 0.0
	for _, v := range frame {
		sumSquares += v * v
	}
	return math.Sqrt(sumSquares / float64(len(frame)))
}
