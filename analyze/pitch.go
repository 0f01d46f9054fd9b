package analyze

import (
	"github.com/sonigraph/noteflow/dsp/common"
	"github.com/sonigraph/noteflow/dsp/tonal"
)

// PitchEstimator resolves a single fundamental frequency for a note segment.
//
// Two tiers: a framewise tracker whose confident frames are averaged
// (accurate, but may produce no confident frames on noisy or percussive
// material), then a tracker bounded to the C2-C7 range whose frames are
// always used (available, but lower trust). When both tiers come up empty
// the zero sentinel is returned.
type PitchEstimator struct {
	cfg      Config
	primary  *tonal.YinTracker
	fallback *tonal.YinTracker
}

// NewPitchEstimator creates a pitch estimator with the given configuration
func NewPitchEstimator(cfg Config) *PitchEstimator {
	return &PitchEstimator{
		cfg:      cfg,
		primary:  tonal.NewYinTracker(),
		fallback: tonal.NewYinTrackerRange(cfg.FallbackMinFreq, cfg.FallbackMaxFreq),
	}
}

// Estimate produces the pitch estimate for one segment. Segments shorter
// than the minimum sample count return the zero estimate immediately.
func (pe *PitchEstimator) Estimate(samples []float64, sampleRate int) PitchEstimate {
	if len(samples) < pe.cfg.MinPitchSamples {
		return undeterminedPitch()
	}

	track := pe.primary.Track(samples, sampleRate)

	frequencies := make([]float64, 0, len(track))
	confidences := make([]float64, 0, len(track))
	for _, frame := range track {
		if frame.Confidence >= pe.cfg.PitchConfidence && frame.Frequency > 0 {
			frequencies = append(frequencies, frame.Frequency)
			confidences = append(confidences, frame.Confidence)
		}
	}

	if len(frequencies) > 0 {
		return pe.fromConfidentFrames(frequencies, confidences)
	}

	return pe.fromFallback(samples, sampleRate)
}

// fromConfidentFrames averages the surviving frames, weighted by confidence
func (pe *PitchEstimator) fromConfidentFrames(frequencies, confidences []float64) PitchEstimate {
	weightedMean := common.WeightedMean(frequencies, confidences)

	relStdDev := 0.0
	stability := 1.0
	isStable := true
	if len(frequencies) > 1 {
		if weightedMean > 0 {
			relStdDev = common.StandardDeviation(frequencies) / weightedMean
		} else {
			relStdDev = 1.0
		}
		stability = 1.0 - min(relStdDev, 1.0)
		isStable = relStdDev < pe.cfg.StableRelStdDev
	}

	return PitchEstimate{
		FundamentalHz: weightedMean,
		Confidence:    common.Mean(confidences),
		Stability:     stability,
		IsStable:      isStable,
		Source:        PitchSourcePrimary,
	}
}

// fromFallback runs the bounded tracker and takes the harmonic mean of its
// positive finite frames. Confidence is fixed low to mark the lower-trust
// tier, and the stability threshold loosens.
func (pe *PitchEstimator) fromFallback(samples []float64, sampleRate int) PitchEstimate {
	track := pe.fallback.Track(samples, sampleRate)

	frequencies := make([]float64, 0, len(track))
	for _, frame := range track {
		if frame.Frequency > 0 {
			frequencies = append(frequencies, frame.Frequency)
		}
	}

	fundamental := common.HarmonicMean(frequencies)
	if fundamental <= 0 {
		return undeterminedPitch()
	}

	relStdDev := common.StandardDeviation(frequencies) / fundamental

	return PitchEstimate{
		FundamentalHz: fundamental,
		Confidence:    pe.cfg.FallbackConfidence,
		Stability:     1.0 - min(relStdDev, 1.0),
		IsStable:      relStdDev < pe.cfg.FallbackRelStdDev,
		Source:        PitchSourceFallback,
	}
}

// undeterminedPitch is the documented degenerate-case sentinel
func undeterminedPitch() PitchEstimate {
	return PitchEstimate{
		FundamentalHz: 0.0,
		Confidence:    0.0,
		Stability:     0.0,
		IsStable:      false,
		Source:        PitchSourceUndetermined,
	}
}
