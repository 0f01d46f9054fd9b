package spectral

// ZeroCrossingRate calculates the zero crossing rate of a signal.
// High rates indicate noisy or bright content, low rates tonal content.
type ZeroCrossingRate struct {
	frameSize int
	hopSize   int
}

// NewZeroCrossingRate creates a new zero crossing rate calculator
func NewZeroCrossingRate() *ZeroCrossingRate {
	return &ZeroCrossingRate{
		frameSize: 1024,
		hopSize:   512,
	}
}

// Compute calculates the normalized ZCR (crossings per sample, 0-1) for a
// single frame
func (zcr *ZeroCrossingRate) Compute(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0 && frame[i] < 0) || (frame[i-1] < 0 && frame[i] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(frame)-1)
}

// ComputeMean calculates the mean framewise ZCR over the whole signal
func (zcr *ZeroCrossingRate) ComputeMean(signal []float64) float64 {
	if len(signal) < zcr.frameSize {
		return zcr.Compute(signal)
	}

	numFrames := (len(signal)-zcr.frameSize)/zcr.hopSize + 1
	sum := 0.0
	for i := range numFrames {
		start := i * zcr.hopSize
		sum += zcr.Compute(signal[start : start+zcr.frameSize])
	}

	return sum / float64(numFrames)
}
