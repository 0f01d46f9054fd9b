package analyze

import (
	"github.com/sonigraph/noteflow/dsp/hpss"
	"github.com/sonigraph/noteflow/dsp/spectral"
	"github.com/sonigraph/noteflow/dsp/temporal"
	"github.com/sonigraph/noteflow/logging"
)

// Segmenter converts a waveform into an ordered, non-overlapping list of
// note segments
type Segmenter struct {
	cfg Config

	onsets    *temporal.OnsetDetector
	envelope  *temporal.Envelope
	separator *hpss.Separator
	stft      *spectral.STFT
	flatness  *spectral.SpectralFlatness
	logger    logging.Logger
}

// NewSegmenter creates a segmenter with the given configuration
func NewSegmenter(cfg Config) *Segmenter {
	return &Segmenter{
		cfg:       cfg,
		onsets:    temporal.NewOnsetDetector(),
		envelope:  temporal.NewEnvelope(512, 256),
		separator: hpss.NewSeparator(),
		stft:      spectral.NewSTFT(),
		flatness:  spectral.NewSpectralFlatness(),
		logger: logging.GetGlobalLogger().WithFields(logging.Fields{
			"component": "segmenter",
		}),
	}
}

// InferMonophonic applies the flatness heuristic: mean spectral flatness
// above the configured threshold suggests monophonic content. This is a
// coarse heuristic, not a guaranteed classifier.
func (s *Segmenter) InferMonophonic(samples []float64, sampleRate int) bool {
	stftResult, err := s.stft.Compute(samples, 2048, 512, sampleRate)
	if err != nil {
		// Too short or empty to judge; treat as monophonic
		return true
	}

	return s.flatness.ComputeMean(stftResult.Magnitude) > s.cfg.MonoFlatnessThreshold
}

// Segment slices the waveform into note segments. Degenerate input (empty
// or silent waveform, or one too short to analyze) yields an empty list:
// zero segments is a valid "no notes found" outcome, not an error.
func (s *Segmenter) Segment(samples []float64, sampleRate int, monophonic bool) []NoteSegment {
	if len(samples) == 0 || sampleRate <= 0 {
		return []NoteSegment{}
	}

	onsetSource := samples
	if !monophonic {
		// Percussive component gives sharper timing on dense material.
		// The segments themselves still slice the original signal.
		separation, err := s.separator.Separate(samples, sampleRate)
		if err != nil {
			s.logger.Debug("harmonic/percussive separation failed, no notes found", logging.Fields{
				"error": err.Error(),
			})
			return []NoteSegment{}
		}
		onsetSource = separation.Percussive
	}

	onsets, err := s.onsets.DetectOnsets(onsetSource, sampleRate)
	if err != nil {
		s.logger.Debug("onset detection failed, no notes found", logging.Fields{
			"error": err.Error(),
		})
		return []NoteSegment{}
	}
	if len(onsets) == 0 {
		return []NoteSegment{}
	}

	segments := make([]NoteSegment, 0, len(onsets))
	for i, startSample := range onsets {
		endSample := len(samples)
		if i+1 < len(onsets) {
			endSample = onsets[i+1]
		}

		startTime := float64(startSample) / float64(sampleRate)
		endTime := float64(endSample) / float64(sampleRate)

		if endTime-startTime < s.cfg.MinNoteDuration {
			continue
		}

		segments = append(segments, NoteSegment{
			StartTime: startTime,
			EndTime:   endTime,
			Samples:   samples[startSample:endSample],
		})
	}

	return s.RefineBoundaries(segments, sampleRate)
}

// RefineBoundaries trims trailing silence: if the framed RMS envelope drops
// below 10% of its peak within the last 20% of a segment, the boundary moves
// to the start of the first such frame, but never below the minimum note
// duration. The framed envelope spans whole pitch periods, so a sustained
// tone never crosses the threshold on its own zero crossings.
func (s *Segmenter) RefineBoundaries(segments []NoteSegment, sampleRate int) []NoteSegment {
	refined := make([]NoteSegment, 0, len(segments))

	for _, segment := range segments {
		envelope := s.envelope.ComputeRMS(segment.Samples)
		if len(envelope) == 0 {
			refined = append(refined, segment)
			continue
		}

		peak := 0.0
		for _, v := range envelope {
			if v > peak {
				peak = v
			}
		}
		if peak <= 0 {
			refined = append(refined, segment)
			continue
		}

		threshold := s.cfg.RefineDropThreshold * peak
		tailStart := int(float64(len(envelope)) * (1.0 - s.cfg.RefineTailFraction))

		cut := -1
		for i := tailStart; i < len(envelope); i++ {
			if envelope[i] < threshold {
				cut = i * s.envelope.HopSize()
				break
			}
		}

		if cut > 0 && cut < len(segment.Samples) {
			newEnd := segment.StartTime + float64(cut)/float64(sampleRate)
			if newEnd-segment.StartTime >= s.cfg.MinNoteDuration {
				segment.EndTime = newEnd
				segment.Samples = segment.Samples[:cut]
			}
		}

		refined = append(refined, segment)
	}

	return refined
}
