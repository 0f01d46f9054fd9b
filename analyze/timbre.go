package analyze

import (
	"math"

	"github.com/sonigraph/noteflow/dsp/common"
	"github.com/sonigraph/noteflow/dsp/harmonic"
	"github.com/sonigraph/noteflow/dsp/spectral"
)

// TimbreEstimator describes the spectral and harmonic character of a note:
// broadband descriptors from the STFT, harmonic structure from spectral
// peaks, and the derived brightness and warmth metrics
type TimbreEstimator struct {
	cfg Config

	stft     *spectral.STFT
	flatness *spectral.SpectralFlatness
}

// NewTimbreEstimator creates a timbre estimator with the given configuration
func NewTimbreEstimator(cfg Config) *TimbreEstimator {
	return &TimbreEstimator{
		cfg:      cfg,
		stft:     spectral.NewSTFT(),
		flatness: spectral.NewSpectralFlatness(),
	}
}

// Estimate computes the timbre profile for one segment. Silent segments and
// segments too short for spectral analysis return the zero profile.
func (te *TimbreEstimator) Estimate(samples []float64, sampleRate int) TimbreProfile {
	var profile TimbreProfile
	if isSilent(samples) {
		return profile
	}

	stftResult, err := te.stft.Compute(samples, 2048, 512, sampleRate)
	if err != nil || stftResult.TimeFrames == 0 {
		return profile
	}

	centroid := spectral.NewSpectralCentroid(sampleRate)
	bandwidth := spectral.NewSpectralBandwidth(sampleRate)
	rolloff := spectral.NewSpectralRolloff(sampleRate)

	profile.Centroid = centroid.ComputeMean(stftResult.Magnitude)
	profile.Bandwidth = bandwidth.ComputeMean(stftResult.Magnitude)
	profile.Rolloff = rolloff.ComputeMean(stftResult.Magnitude, te.cfg.RolloffEnergyFraction)
	profile.Flatness = te.flatness.ComputeMean(stftResult.Magnitude)

	peaks := te.detectHarmonicPeaks(stftResult)
	if f0 := strongestPeakFrequency(peaks); f0 > 0 {
		assigned := harmonic.AssignHarmonics(peaks, f0, te.cfg.HarmonicTolerance)
		profile.HarmonicRatio = harmonic.HarmonicRatio(assigned)
		profile.Inharmonicity = harmonic.Inharmonicity(assigned, f0)
		profile.Tristimulus = harmonic.Tristimulus(assigned)
	}

	profile.Noisiness = 1.0 - profile.HarmonicRatio
	profile.Brightness = common.NormalizeRange(profile.Centroid, 500.0, 5000.0)
	profile.Warmth = te.computeWarmth(stftResult, profile)

	return profile
}

// detectHarmonicPeaks runs peak detection on the time-averaged magnitude
// spectrum, which suppresses frame noise for sustained notes
func (te *TimbreEstimator) detectHarmonicPeaks(stftResult *spectral.STFTResult) []harmonic.SpectralPeak {
	mean := meanSpectrum(stftResult.Magnitude)

	detector := harmonic.NewPeakDetector(
		stftResult.SampleRate,
		te.cfg.PeakMagnitudeFloor,
		2.0*stftResult.FreqResolution,
		te.cfg.MaxSpectralPeaks,
	)
	return detector.Detect(mean, stftResult.WindowSize)
}

// computeWarmth combines low-frequency energy, an inverted brightness term,
// and harmonic purity into a single 0-1 metric
func (te *TimbreEstimator) computeWarmth(stftResult *spectral.STFTResult, profile TimbreProfile) float64 {
	lowRatio := lowEnergyRatio(stftResult, 500.0)

	warmth := 0.4*lowRatio +
		0.3*(1.0-profile.Brightness) +
		0.2*profile.HarmonicRatio +
		0.1*(1.0-math.Min(profile.Inharmonicity, 1.0))
	return common.Clamp(warmth, 0.0, 1.0)
}

// lowEnergyRatio is the share of total spectrogram magnitude below cutoffHz
func lowEnergyRatio(stftResult *spectral.STFTResult, cutoffHz float64) float64 {
	lowBins := int(cutoffHz / stftResult.FreqResolution)

	low := 0.0
	total := 0.0
	for _, frame := range stftResult.Magnitude {
		for i, mag := range frame {
			total += mag
			if i < lowBins {
				low += mag
			}
		}
	}
	if total == 0 {
		return 0.0
	}

	return low / total
}

// meanSpectrum averages magnitude frames into one spectrum
func meanSpectrum(magnitude [][]float64) []float64 {
	if len(magnitude) == 0 {
		return []float64{}
	}

	mean := make([]float64, len(magnitude[0]))
	for _, frame := range magnitude {
		for i, mag := range frame {
			mean[i] += mag
		}
	}
	for i := range mean {
		mean[i] /= float64(len(magnitude))
	}

	return mean
}

// strongestPeakFrequency treats the highest-magnitude peak as the
// fundamental; peaks are already sorted by magnitude descending
func strongestPeakFrequency(peaks []harmonic.SpectralPeak) float64 {
	if len(peaks) == 0 {
		return 0.0
	}
	return peaks[0].Frequency
}
