package analyze

// NoteSegment is one detected note event: absolute boundaries within the
// clip plus the samples it covers
type NoteSegment struct {
	StartTime float64   `json:"start_time"` // Seconds from clip start
	EndTime   float64   `json:"end_time"`   // Seconds from clip start
	Samples   []float64 `json:"-"`          // Segment samples (not serialized)
}

// Duration returns the segment length in seconds
func (s NoteSegment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// PitchSource tags which estimation tier produced a PitchEstimate
type PitchSource string

const (
	// PitchSourcePrimary means the framewise tracker had confident frames
	PitchSourcePrimary PitchSource = "primary"
	// PitchSourceFallback means the bounded fallback tracker was used
	PitchSourceFallback PitchSource = "fallback"
	// PitchSourceUndetermined means no tier produced a usable estimate;
	// FundamentalHz is the zero sentinel, not a frequency
	PitchSourceUndetermined PitchSource = "undetermined"
)

// PitchEstimate is the resolved fundamental for one note segment.
// FundamentalHz == 0 means the pitch could not be determined; callers must
// treat it as undefined, not as a valid frequency.
type PitchEstimate struct {
	FundamentalHz float64     `json:"fundamental_hz"`
	Confidence    float64     `json:"confidence"` // 0-1
	Stability     float64     `json:"stability"`  // 0-1, 1 = perfectly stable
	IsStable      bool        `json:"is_stable"`
	Source        PitchSource `json:"source"`
}

// EnvelopeShape classifies the overall amplitude contour of a note
type EnvelopeShape string

const (
	ShapePercussive    EnvelopeShape = "percussive"
	ShapePluck         EnvelopeShape = "pluck"
	ShapePad           EnvelopeShape = "pad"
	ShapePluckedString EnvelopeShape = "plucked_string"
	ShapeSwell         EnvelopeShape = "swell"
	ShapeReverse       EnvelopeShape = "reverse"
	ShapeComplex       EnvelopeShape = "complex"
	ShapeUnknown       EnvelopeShape = "unknown"
)

// EnvelopeProfile holds ADSR timings and the shape classification for one
// note segment
type EnvelopeProfile struct {
	AttackTime   float64       `json:"attack_time"`   // Seconds
	DecayTime    float64       `json:"decay_time"`    // Seconds
	SustainLevel float64       `json:"sustain_level"` // 0-1, relative to peak
	ReleaseTime  float64       `json:"release_time"`  // Seconds
	Shape        EnvelopeShape `json:"shape"`
}

// KeyEstimate is the tonal center estimate for one note segment.
// Empty Tonic and Mode mean the key is undefined (zero-energy chroma).
type KeyEstimate struct {
	Key        string  `json:"key"`   // "C major" style label, "unknown" when undefined
	Tonic      string  `json:"tonic,omitempty"` // One of the 12 pitch classes
	Mode       string  `json:"mode,omitempty"`  // "major" or "minor"
	Confidence float64 `json:"confidence"`      // 0-1
}

// TimbreProfile summarizes the spectral and harmonic character of one note
// segment. All perceptual fields are in [0, 1]; a silent or too-short segment
// yields the zero profile.
type TimbreProfile struct {
	Centroid      float64    `json:"spectral_centroid"`  // Hz
	Bandwidth     float64    `json:"spectral_bandwidth"` // Hz
	Rolloff       float64    `json:"spectral_rolloff"`   // Hz
	Flatness      float64    `json:"spectral_flatness"`  // 0-1
	HarmonicRatio float64    `json:"harmonic_ratio"`     // Fraction of peak energy on harmonics
	Inharmonicity float64    `json:"inharmonicity"`      // 0 = perfectly harmonic
	Tristimulus   [3]float64 `json:"tristimulus"`        // Fundamental / harmonics 2-4 / rest
	Noisiness     float64    `json:"noisiness"`
	Brightness    float64    `json:"brightness"`
	Warmth        float64    `json:"warmth"`
}

// EmotionScore is one ranked emotion label
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"` // 0-1, top entry renormalized to 1.0
}

// AffectEstimate maps a segment onto the valence/arousal plane with ranked
// emotion labels
type AffectEstimate struct {
	Valence   float64        `json:"valence"`   // -1 (negative) to 1 (positive)
	Arousal   float64        `json:"arousal"`   // -1 (calm) to 1 (energetic)
	Intensity float64        `json:"intensity"` // 0-1
	Emotions  []EmotionScore `json:"emotions"`  // Descending by score, at most 4
}

// NoteRecord aggregates every per-note estimate. Assembled once per segment
// by the Analyzer and never mutated afterwards.
type NoteRecord struct {
	NoteIndex int     `json:"note_index"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Duration  float64 `json:"duration"`

	Pitch    PitchEstimate   `json:"pitch"`
	NoteName string          `json:"note_name,omitempty"` // "A4" style, empty when pitch undefined
	Envelope EnvelopeProfile `json:"envelope"`
	Timbre   TimbreProfile   `json:"timbre"`
	Key      KeyEstimate     `json:"key"`
	Affect   AffectEstimate  `json:"affect"`
}

// Result is the full analysis of one clip
type Result struct {
	FilePath   string       `json:"file_path,omitempty"`
	Duration   float64      `json:"duration"`
	SampleRate int          `json:"sample_rate"`
	Monophonic bool         `json:"is_monophonic"`
	NoteCount  int          `json:"number_of_notes"`
	Notes      []NoteRecord `json:"notes"`
}
