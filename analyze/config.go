package analyze

// Config holds the tunable parameters of the analysis pipeline. Zero values
// in an explicitly constructed Config are not filled in; start from
// DefaultConfig and override.
type Config struct {
	// Segmentation
	MinNoteDuration       float64 `json:"min_note_duration" mapstructure:"min_note_duration"`             // Seconds; shorter segments are dropped
	MonoFlatnessThreshold float64 `json:"mono_flatness_threshold" mapstructure:"mono_flatness_threshold"` // Mean spectral flatness above this implies monophonic content
	RefineTailFraction    float64 `json:"refine_tail_fraction" mapstructure:"refine_tail_fraction"`       // Portion of the segment tail eligible for boundary trimming
	RefineDropThreshold   float64 `json:"refine_drop_threshold" mapstructure:"refine_drop_threshold"`     // Envelope fraction of peak treated as trailing silence

	// Pitch estimation
	MinPitchSamples     int     `json:"min_pitch_samples" mapstructure:"min_pitch_samples"`         // Segments shorter than this return the zero estimate
	PitchConfidence     float64 `json:"pitch_confidence" mapstructure:"pitch_confidence"`           // Frames below this confidence are discarded
	FallbackConfidence  float64 `json:"fallback_confidence" mapstructure:"fallback_confidence"`     // Fixed confidence reported by the fallback tracker
	StableRelStdDev     float64 `json:"stable_rel_std_dev" mapstructure:"stable_rel_std_dev"`       // Relative stddev below this is "stable" (primary)
	FallbackRelStdDev   float64 `json:"fallback_rel_std_dev" mapstructure:"fallback_rel_std_dev"`   // Loosened stability threshold (fallback)
	FallbackMinFreq     float64 `json:"fallback_min_freq" mapstructure:"fallback_min_freq"`         // Hz, C2
	FallbackMaxFreq     float64 `json:"fallback_max_freq" mapstructure:"fallback_max_freq"`         // Hz, C7

	// Envelope estimation
	EnvelopeFrameSize int `json:"envelope_frame_size" mapstructure:"envelope_frame_size"`
	EnvelopeHopSize   int `json:"envelope_hop_size" mapstructure:"envelope_hop_size"`

	// Affect estimation
	MaxEmotions       int     `json:"max_emotions" mapstructure:"max_emotions"`
	EmotionScoreFloor float64 `json:"emotion_score_floor" mapstructure:"emotion_score_floor"`

	// Timbre estimation
	RolloffEnergyFraction float64 `json:"rolloff_energy_fraction" mapstructure:"rolloff_energy_fraction"` // Cumulative energy fraction for the rolloff frequency
	HarmonicTolerance     float64 `json:"harmonic_tolerance" mapstructure:"harmonic_tolerance"`           // Relative deviation allowed when matching peaks to harmonics
	PeakMagnitudeFloor    float64 `json:"peak_magnitude_floor" mapstructure:"peak_magnitude_floor"`       // Spectral peaks below this magnitude are ignored
	MaxSpectralPeaks      int     `json:"max_spectral_peaks" mapstructure:"max_spectral_peaks"`
}

// DefaultConfig returns the standard pipeline parameters
func DefaultConfig() Config {
	return Config{
		MinNoteDuration:       0.1,
		MonoFlatnessThreshold: 0.1,
		RefineTailFraction:    0.2,
		RefineDropThreshold:   0.1,

		MinPitchSamples:    512,
		PitchConfidence:    0.5,
		FallbackConfidence: 0.3,
		StableRelStdDev:    0.05,
		FallbackRelStdDev:  0.10,
		FallbackMinFreq:    65.406, // C2
		FallbackMaxFreq:    2093.0, // C7

		EnvelopeFrameSize: 512,
		EnvelopeHopSize:   128,

		MaxEmotions:       4,
		EmotionScoreFloor: 0.05,

		RolloffEnergyFraction: 0.85,
		HarmonicTolerance:     0.05,
		PeakMagnitudeFloor:    0.001,
		MaxSpectralPeaks:      40,
	}
}
