package analyze

import (
	"math"
	"sort"

	"github.com/sonigraph/noteflow/dsp/common"
	"github.com/sonigraph/noteflow/dsp/hpss"
	"github.com/sonigraph/noteflow/dsp/spectral"
	"github.com/sonigraph/noteflow/dsp/temporal"
)

// affectFeatures is the fixed descriptor bundle behind the valence/arousal
// mapping
type affectFeatures struct {
	EnergyMean      float64 // Framed RMS mean
	EnergyStdDev    float64
	ZeroCrossing    float64
	Brightness      float64 // Centroid normalized against 500-5000 Hz
	Flatness        float64
	TempoNorm       float64 // BPM normalized against 40-200
	FluxNorm        float64 // Mean flux normalized against 0-5
	HarmonicRatio   float64
	PercussiveRatio float64
	MFCC1           float64
	MFCC2           float64
}

// emotionPrototype is a point in normalized (valence, arousal) space
type emotionPrototype struct {
	label   string
	valence float64
	arousal float64
}

// The nine fixed emotion prototypes. Scores fall off linearly with euclidean
// distance at 1.5x rate.
var emotionPrototypes = []emotionPrototype{
	{"joyful", 0.85, 0.85},
	{"energetic", 0.65, 0.95},
	{"peaceful", 0.75, 0.35},
	{"content", 0.65, 0.45},
	{"tense", 0.35, 0.85},
	{"aggressive", 0.20, 0.90},
	{"melancholic", 0.30, 0.30},
	{"sad", 0.25, 0.20},
	{"neutral", 0.50, 0.50},
}

// AffectEstimator maps a segment's acoustic descriptors to a
// valence/arousal point and ranked emotion labels
type AffectEstimator struct {
	cfg Config

	stft      *spectral.STFT
	flatness  *spectral.SpectralFlatness
	flux      *spectral.SpectralFlux
	zcr       *spectral.ZeroCrossingRate
	envelope  *temporal.Envelope
	tempo     *temporal.TempoEstimator
	separator *hpss.Separator
}

// NewAffectEstimator creates an affect estimator with the given
// configuration
func NewAffectEstimator(cfg Config) *AffectEstimator {
	return &AffectEstimator{
		cfg:       cfg,
		stft:      spectral.NewSTFT(),
		flatness:  spectral.NewSpectralFlatness(),
		flux:      spectral.NewSpectralFlux(),
		zcr:       spectral.NewZeroCrossingRate(),
		envelope:  temporal.NewEnvelope(2048, 512),
		tempo:     temporal.NewTempoEstimator(),
		separator: hpss.NewSeparator(),
	}
}

// Estimate computes valence, arousal, intensity and ranked emotion labels
// for one segment. Silent or empty segments return the fixed neutral
// sentinel with everything at zero.
func (ae *AffectEstimator) Estimate(samples []float64, sampleRate int) AffectEstimate {
	if isSilent(samples) {
		return neutralAffect()
	}

	features, ok := ae.extractFeatures(samples, sampleRate)
	if !ok {
		return neutralAffect()
	}

	valence := ae.estimateValence(features)
	arousal := ae.estimateArousal(features)
	intensity := common.Clamp((arousal+1.0)/2.0, 0.0, 1.0)

	return AffectEstimate{
		Valence:   valence,
		Arousal:   arousal,
		Intensity: intensity,
		Emotions:  ae.mapToEmotions(valence, arousal),
	}
}

// extractFeatures computes the descriptor bundle. Returns false when the
// segment is too short for spectral analysis.
func (ae *AffectEstimator) extractFeatures(samples []float64, sampleRate int) (affectFeatures, bool) {
	var features affectFeatures

	stftResult, err := ae.stft.Compute(samples, 2048, 512, sampleRate)
	if err != nil {
		return features, false
	}

	rmsFrames := ae.envelope.ComputeRMS(samples)
	features.EnergyMean = common.Mean(rmsFrames)
	features.EnergyStdDev = common.StandardDeviation(rmsFrames)

	features.ZeroCrossing = ae.zcr.ComputeMean(samples)

	centroid := spectral.NewSpectralCentroid(sampleRate)
	features.Brightness = common.NormalizeRange(centroid.ComputeMean(stftResult.Magnitude), 500.0, 5000.0)
	features.Flatness = ae.flatness.ComputeMean(stftResult.Magnitude)
	features.FluxNorm = common.NormalizeRange(ae.flux.ComputeMean(stftResult.Magnitude), 0.0, 5.0)

	bpm, err := ae.tempo.EstimateBPM(samples, sampleRate)
	if err != nil {
		bpm = 0.0
	}
	features.TempoNorm = common.NormalizeRange(bpm, 40.0, 200.0)

	separation, err := ae.separator.Separate(samples, sampleRate)
	if err == nil {
		total := separation.HarmonicEnergy + separation.PercussiveEnergy + 1e-9
		features.HarmonicRatio = separation.HarmonicEnergy / total
		features.PercussiveRatio = separation.PercussiveEnergy / total
	}

	mfcc := spectral.NewMFCC(sampleRate, 5)
	coeffs, err := mfcc.ComputeFrames(stftResult.Magnitude)
	if err == nil && len(coeffs) > 0 {
		band1 := make([]float64, len(coeffs))
		band2 := make([]float64, len(coeffs))
		for t, frame := range coeffs {
			band1[t] = frame[0]
			if len(frame) > 1 {
				band2[t] = frame[1]
			}
		}
		features.MFCC1 = common.Mean(band1)
		features.MFCC2 = common.Mean(band2)
	}

	return features, true
}

// estimateValence scores pleasantness: harmonic content raises it, excessive
// brightness and noisiness lower it. Output rescaled to [-1, 1].
func (ae *AffectEstimator) estimateValence(f affectFeatures) float64 {
	valence := 0.6*f.HarmonicRatio +
		0.25*(1.0-f.Brightness) +
		0.15*(1.0-f.Flatness)
	return common.Clamp(valence*2.0-1.0, -1.0, 1.0)
}

// estimateArousal scores activation from energy, tempo, brightness,
// percussiveness, flux, and energy variability. Output rescaled to [-1, 1].
func (ae *AffectEstimator) estimateArousal(f affectFeatures) float64 {
	energy := common.NormalizeRange(f.EnergyMean, 0.0, 0.4)
	energyVar := common.NormalizeRange(f.EnergyStdDev, 0.0, 0.2)

	arousal := 0.35*energy +
		0.20*f.TempoNorm +
		0.15*f.Brightness +
		0.15*f.PercussiveRatio +
		0.10*f.FluxNorm +
		0.05*energyVar
	return common.Clamp(arousal*2.0-1.0, -1.0, 1.0)
}

// mapToEmotions scores the fixed prototypes by distance in normalized
// (valence, arousal) space, keeps those above the floor, renormalizes so the
// top score is 1.0, and caps the list
func (ae *AffectEstimator) mapToEmotions(valence, arousal float64) []EmotionScore {
	valNorm := (valence + 1.0) / 2.0
	aroNorm := (arousal + 1.0) / 2.0

	emotions := make([]EmotionScore, 0, len(emotionPrototypes))
	for _, proto := range emotionPrototypes {
		dv := valNorm - proto.valence
		da := aroNorm - proto.arousal
		dist := math.Sqrt(dv*dv + da*da)

		score := math.Max(0.0, 1.0-dist*1.5)
		if score > ae.cfg.EmotionScoreFloor {
			emotions = append(emotions, EmotionScore{Label: proto.label, Score: score})
		}
	}

	if len(emotions) == 0 {
		return []EmotionScore{{Label: "neutral", Score: 1.0}}
	}

	sort.SliceStable(emotions, func(i, j int) bool {
		return emotions[i].Score > emotions[j].Score
	})

	top := emotions[0].Score
	if top <= 0 {
		top = 1.0
	}
	for i := range emotions {
		emotions[i].Score = common.Clamp(emotions[i].Score/top, 0.0, 1.0)
	}

	if len(emotions) > ae.cfg.MaxEmotions {
		emotions = emotions[:ae.cfg.MaxEmotions]
	}

	return emotions
}

// isSilent reports whether the segment carries no signal at all
func isSilent(samples []float64) bool {
	for _, v := range samples {
		if v != 0 {
			return false
		}
	}
	return true
}

// neutralAffect is the documented sentinel for silent or degenerate
// segments: note the zero score, distinguishing "not computed" from a
// measured neutral result
func neutralAffect() AffectEstimate {
	return AffectEstimate{
		Valence:   0.0,
		Arousal:   0.0,
		Intensity: 0.0,
		Emotions:  []EmotionScore{{Label: "neutral", Score: 0.0}},
	}
}
