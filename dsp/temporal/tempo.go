package temporal

import (
	"math"
)

// TempoEstimator provides tempo estimation from onset spacing
type TempoEstimator struct {
	onsetDetector *OnsetDetector
}

// NewTempoEstimator creates a new tempo estimator
func NewTempoEstimator() *TempoEstimator {
	return &TempoEstimator{
		onsetDetector: NewOnsetDetector(),
	}
}

// EstimateBPM estimates tempo in BPM from inter-onset intervals.
// Returns 0 when fewer than two onsets are found.
func (te *TempoEstimator) EstimateBPM(signal []float64, sampleRate int) (float64, error) {
	if len(signal) == 0 {
		return 0.0, nil
	}

	onsets, err := te.onsetDetector.DetectOnsets(signal, sampleRate)
	if err != nil {
		return 0.0, err
	}

	if len(onsets) < 2 {
		return 0.0, nil
	}

	intervals := make([]float64, len(onsets)-1)
	for i := range intervals {
		intervals[i] = float64(onsets[i+1]-onsets[i]) / float64(sampleRate)
	}

	return te.tempoFromIntervals(intervals), nil
}

// tempoFromIntervals votes intervals into common tempo bins and returns the
// winner
func (te *TempoEstimator) tempoFromIntervals(intervals []float64) float64 {
	if len(intervals) == 0 {
		return 0.0
	}

	tempoBins := []float64{60, 70, 80, 90, 100, 110, 120, 130, 140, 150, 160, 170, 180, 200}
	counts := make([]int, len(tempoBins))

	for _, interval := range intervals {
		// Valid beat interval range (30-300 BPM)
		if interval <= 0.2 || interval >= 2.0 {
			continue
		}
		tempo := 60.0 / interval

		bestIdx := 0
		bestDiff := math.Abs(tempo - tempoBins[0])
		for i, ref := range tempoBins {
			diff := math.Abs(tempo - ref)
			if diff < bestDiff {
				bestDiff = diff
				bestIdx = i
			}
		}

		if bestDiff < 10.0 {
			counts[bestIdx]++
		}
	}

	maxCount := 0
	best := 0.0
	for i, count := range counts {
		if count > maxCount {
			maxCount = count
			best = tempoBins[i]
		}
	}

	return best
}
