package analyze

import (
	"fmt"
	"path/filepath"

	"github.com/sonigraph/noteflow/audio"
	"github.com/sonigraph/noteflow/logging"
)

// Options control one analysis call
type Options struct {
	// Start and End select a time window in seconds; negative means unset
	Start float64
	End   float64

	// Monophonic declares the clip content; nil means infer it from
	// spectral flatness
	Monophonic *bool
}

// DefaultOptions analyzes the whole clip with monophony inference
func DefaultOptions() Options {
	return Options{Start: -1, End: -1}
}

// Analyzer coordinates the pipeline: load, segment, then run every per-note
// estimator and assemble one record per note
type Analyzer struct {
	cfg Config

	loader    *audio.Loader
	segmenter *Segmenter
	pitch     *PitchEstimator
	envelope  *EnvelopeEstimator
	timbre    *TimbreEstimator
	key       *KeyEstimator
	affect    *AffectEstimator
	logger    logging.Logger
}

// NewAnalyzer creates an analyzer with the given configuration
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{
		cfg:       cfg,
		loader:    audio.NewLoader(),
		segmenter: NewSegmenter(cfg),
		pitch:     NewPitchEstimator(cfg),
		envelope:  NewEnvelopeEstimator(cfg),
		timbre:    NewTimbreEstimator(cfg),
		key:       NewKeyEstimator(),
		affect:    NewAffectEstimator(cfg),
		logger: logging.GetGlobalLogger().WithFields(logging.Fields{
			"component": "analyzer",
		}),
	}
}

// NewDefaultAnalyzer creates an analyzer with DefaultConfig
func NewDefaultAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultConfig())
}

// AnalyzeFile loads an audio file and analyzes it. Load failures and invalid
// time windows abort immediately with a descriptive error; everything after
// a successful load completes and reports anomalies through sentinel field
// values.
func (a *Analyzer) AnalyzeFile(path string, opts Options) (*Result, error) {
	buf, err := a.loader.LoadWindow(path, opts.Start, opts.End)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", path, err)
	}

	result, err := a.AnalyzeBuffer(buf, opts.Monophonic)
	if err != nil {
		return nil, err
	}
	result.FilePath = filepath.Base(path)

	return result, nil
}

// AnalyzeBuffer analyzes an already-loaded waveform. The buffer is
// peak-normalized before segmentation; the input is not mutated.
func (a *Analyzer) AnalyzeBuffer(buf *audio.Buffer, monophonic *bool) (*Result, error) {
	if buf == nil || buf.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid audio buffer")
	}

	normalized := buf.Normalize()
	samples := normalized.Samples
	sampleRate := normalized.SampleRate

	mono := false
	if monophonic != nil {
		mono = *monophonic
	} else {
		mono = a.segmenter.InferMonophonic(samples, sampleRate)
		a.logger.Debug("monophony inferred", logging.Fields{
			"monophonic": mono,
		})
	}

	segments := a.segmenter.Segment(samples, sampleRate, mono)

	a.logger.Info("segmentation complete", logging.Fields{
		"duration": normalized.Duration(),
		"notes":    len(segments),
	})

	notes := make([]NoteRecord, 0, len(segments))
	for i, segment := range segments {
		notes = append(notes, a.analyzeSegment(segment, sampleRate, i))
	}

	return &Result{
		Duration:   normalized.Duration(),
		SampleRate: sampleRate,
		Monophonic: mono,
		NoteCount:  len(notes),
		Notes:      notes,
	}, nil
}

// analyzeSegment runs every estimator on one segment. The estimators are
// independent pure functions of the segment samples; order does not matter.
func (a *Analyzer) analyzeSegment(segment NoteSegment, sampleRate, index int) NoteRecord {
	pitch := a.pitch.Estimate(segment.Samples, sampleRate)

	return NoteRecord{
		NoteIndex: index,
		StartTime: segment.StartTime,
		EndTime:   segment.EndTime,
		Duration:  segment.Duration(),
		Pitch:     pitch,
		NoteName:  HzToNote(pitch.FundamentalHz),
		Envelope:  a.envelope.Estimate(segment.Samples, sampleRate),
		Timbre:    a.timbre.Estimate(segment.Samples, sampleRate),
		Key:       a.key.Estimate(segment.Samples, sampleRate),
		Affect:    a.affect.Estimate(segment.Samples, sampleRate),
	}
}
