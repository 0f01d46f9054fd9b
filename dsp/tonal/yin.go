package tonal

import (
	"math"
)

// PitchFrame is a single framewise pitch observation
type PitchFrame struct {
	Frequency  float64 `json:"frequency"`  // Estimated fundamental in Hz (0 = unvoiced)
	Confidence float64 `json:"confidence"` // Periodicity confidence (0-1)
	Time       float64 `json:"time"`       // Frame center time in seconds
}

// YinTracker implements framewise YIN pitch tracking
//
// Reference: de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental
// frequency estimator for speech and music"
type YinTracker struct {
	windowSize int
	hopSize    int
	threshold  float64 // CMNDF dip threshold for voiced detection
	minFreq    float64
	maxFreq    float64
}

// NewYinTracker creates a tracker with the standard analysis parameters
// (window 2048, hop 512, threshold 0.15) over a wide musical range
func NewYinTracker() *YinTracker {
	return &YinTracker{
		windowSize: 2048,
		hopSize:    512,
		threshold:  0.15,
		minFreq:    50.0,
		maxFreq:    2000.0,
	}
}

// NewYinTrackerRange creates a tracker bounded to [minFreq, maxFreq] Hz
func NewYinTrackerRange(minFreq, maxFreq float64) *YinTracker {
	t := NewYinTracker()
	t.minFreq = minFreq
	t.maxFreq = maxFreq
	return t
}

// Track computes a pitch track over the signal. Frames where no dip in the
// cumulative mean normalized difference crosses the threshold report the
// global minimum instead, with correspondingly low confidence.
func (yt *YinTracker) Track(signal []float64, sampleRate int) []PitchFrame {
	if len(signal) == 0 || sampleRate <= 0 {
		return []PitchFrame{}
	}

	windowSize := yt.windowSize
	if len(signal) < windowSize {
		windowSize = len(signal)
	}

	numFrames := (len(signal)-windowSize)/yt.hopSize + 1
	frames := make([]PitchFrame, 0, numFrames)

	for i := range numFrames {
		start := i * yt.hopSize
		freq, conf := yt.detectFrame(signal[start:start+windowSize], sampleRate)
		frames = append(frames, PitchFrame{
			Frequency:  freq,
			Confidence: conf,
			Time:       (float64(start) + float64(windowSize)/2) / float64(sampleRate),
		})
	}

	return frames
}

// detectFrame runs YIN on a single frame
func (yt *YinTracker) detectFrame(frame []float64, sampleRate int) (float64, float64) {
	n := len(frame)
	halfN := n / 2
	if halfN < 2 {
		return 0.0, 0.0
	}

	// Difference function
	diff := make([]float64, halfN)
	for tau := range halfN {
		sum := 0.0
		for j := range halfN {
			delta := frame[j] - frame[j+tau]
			sum += delta * delta
		}
		diff[tau] = sum
	}

	// Cumulative mean normalized difference function
	cmndf := make([]float64, halfN)
	cmndf[0] = 1.0

	runningSum := 0.0
	for tau := 1; tau < halfN; tau++ {
		runningSum += diff[tau]
		if runningSum > 0 {
			cmndf[tau] = diff[tau] / (runningSum / float64(tau))
		} else {
			cmndf[tau] = 1.0
		}
	}

	// Lag bounds from the frequency range
	tauMin := int(float64(sampleRate) / yt.maxFreq)
	if tauMin < 1 {
		tauMin = 1
	}
	tauMax := halfN
	if yt.minFreq > 0 {
		tauMax = int(float64(sampleRate)/yt.minFreq) + 1
		if tauMax > halfN {
			tauMax = halfN
		}
	}
	if tauMin >= tauMax {
		return 0.0, 0.0
	}

	// First local minimum below threshold
	minTau := -1
	for tau := tauMin; tau < tauMax-1; tau++ {
		if cmndf[tau] < yt.threshold && cmndf[tau] < cmndf[tau+1] {
			minTau = tau
			break
		}
	}

	// No confident dip: fall back to the global minimum in range
	if minTau < 0 {
		best := tauMin
		for tau := tauMin + 1; tau < tauMax; tau++ {
			if cmndf[tau] < cmndf[best] {
				best = tau
			}
		}
		minTau = best
	}

	period := parabolicInterpolation(cmndf, minTau)
	if period <= 0 {
		return 0.0, 0.0
	}

	frequency := float64(sampleRate) / period
	if frequency < yt.minFreq || frequency > yt.maxFreq {
		return 0.0, 0.0
	}

	confidence := 1.0 - cmndf[minTau]
	if confidence < 0 {
		confidence = 0
	}

	return frequency, confidence
}

// parabolicInterpolation refines a trough location using its neighbors
func parabolicInterpolation(data []float64, idx int) float64 {
	if idx <= 0 || idx >= len(data)-1 {
		return float64(idx)
	}

	y1 := data[idx-1]
	y2 := data[idx]
	y3 := data[idx+1]

	a := (y1 - 2*y2 + y3) / 2
	b := (y3 - y1) / 2

	if a == 0 {
		return float64(idx)
	}

	offset := -b / (2 * a)
	if math.Abs(offset) > 1 {
		return float64(idx)
	}

	return float64(idx) + offset
}
