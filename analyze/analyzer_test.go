package analyze

import (
	"math"
	"testing"

	"github.com/sonigraph/noteflow/audio"
)

func boolPtr(b bool) *bool { return &b }

func TestAnalyzeBufferSingleTone(t *testing.T) {
	// 2 s constant-level 440 Hz tone with 50 ms fades: one note spanning
	// the whole clip, attack resolving to the fade-in
	signal := sineWave(440.0, 0.8, testSampleRate, 2.0)
	applyFade(signal, testSampleRate, 0.05, 0.05)

	analyzer := NewDefaultAnalyzer()
	result, err := analyzer.AnalyzeBuffer(&audio.Buffer{
		Samples:    signal,
		SampleRate: testSampleRate,
	}, boolPtr(true))
	if err != nil {
		t.Fatalf("AnalyzeBuffer failed: %v", err)
	}

	if result.NoteCount != 1 || len(result.Notes) != 1 {
		t.Fatalf("expected exactly 1 note, got %d", result.NoteCount)
	}
	if !result.Monophonic {
		t.Error("explicit monophonic flag not honored")
	}

	note := result.Notes[0]
	if note.NoteIndex != 0 {
		t.Errorf("note index %d, want 0", note.NoteIndex)
	}
	if note.StartTime > 0.15 {
		t.Errorf("note starts at %.3fs, expected near 0", note.StartTime)
	}
	if note.EndTime < 1.9 {
		t.Errorf("note ends at %.3fs, expected near 2.0", note.EndTime)
	}

	if math.Abs(note.Pitch.FundamentalHz-440.0) > 5.0 {
		t.Errorf("pitch %.2f Hz, want ~440", note.Pitch.FundamentalHz)
	}
	if note.NoteName != "A4" {
		t.Errorf("note name %q, want A4", note.NoteName)
	}
	if note.Pitch.Source != PitchSourcePrimary {
		t.Errorf("pitch source %q, want primary", note.Pitch.Source)
	}

	if math.Abs(note.Envelope.AttackTime-0.05) > 0.03 {
		t.Errorf("attack %.4fs, want ~0.05s", note.Envelope.AttackTime)
	}

	if note.Timbre.Centroid <= 0 {
		t.Errorf("timbre centroid = %.1f, want positive for an audible tone", note.Timbre.Centroid)
	}
	if note.Timbre.HarmonicRatio < 0.5 {
		t.Errorf("harmonic ratio = %.3f, want high for a pure tone", note.Timbre.HarmonicRatio)
	}

	if len(note.Affect.Emotions) == 0 {
		t.Error("no emotion labels for an audible tone")
	}
}

func TestAnalyzeBufferTwoNotes(t *testing.T) {
	signal := make([]float64, testSampleRate*2)
	addBurst(signal, testSampleRate/2, 440.0, testSampleRate, 0.4)
	addBurst(signal, testSampleRate+testSampleRate/4, 660.0, testSampleRate, 0.4)

	analyzer := NewDefaultAnalyzer()
	result, err := analyzer.AnalyzeBuffer(&audio.Buffer{
		Samples:    signal,
		SampleRate: testSampleRate,
	}, boolPtr(true))
	if err != nil {
		t.Fatalf("AnalyzeBuffer failed: %v", err)
	}

	if result.NoteCount != 2 {
		t.Fatalf("expected 2 notes, got %d", result.NoteCount)
	}
	if result.Notes[0].NoteIndex != 0 || result.Notes[1].NoteIndex != 1 {
		t.Error("note indices not sequential")
	}
	if result.Notes[0].StartTime >= result.Notes[1].StartTime {
		t.Error("notes not in chronological order")
	}
}

func TestAnalyzeBufferSilence(t *testing.T) {
	analyzer := NewDefaultAnalyzer()
	result, err := analyzer.AnalyzeBuffer(&audio.Buffer{
		Samples:    make([]float64, testSampleRate),
		SampleRate: testSampleRate,
	}, nil)
	if err != nil {
		t.Fatalf("AnalyzeBuffer failed: %v", err)
	}

	// Zero notes is a valid outcome, not an error
	if result.NoteCount != 0 || len(result.Notes) != 0 {
		t.Errorf("silence produced %d notes", result.NoteCount)
	}
	if math.Abs(result.Duration-1.0) > 1e-6 {
		t.Errorf("duration %.3f, want 1.0", result.Duration)
	}
}

func TestAnalyzeBufferInvalid(t *testing.T) {
	analyzer := NewDefaultAnalyzer()

	if _, err := analyzer.AnalyzeBuffer(nil, nil); err == nil {
		t.Error("nil buffer should error")
	}
	if _, err := analyzer.AnalyzeBuffer(&audio.Buffer{Samples: []float64{0.1}}, nil); err == nil {
		t.Error("zero sample rate should error")
	}
}

func TestAnalyzeBufferDoesNotMutateInput(t *testing.T) {
	signal := sineWave(440.0, 0.5, testSampleRate, 1.0)
	original := make([]float64, len(signal))
	copy(original, signal)

	analyzer := NewDefaultAnalyzer()
	if _, err := analyzer.AnalyzeBuffer(&audio.Buffer{
		Samples:    signal,
		SampleRate: testSampleRate,
	}, boolPtr(true)); err != nil {
		t.Fatalf("AnalyzeBuffer failed: %v", err)
	}

	for i := range signal {
		if signal[i] != original[i] {
			t.Fatalf("input mutated at sample %d", i)
		}
	}
}

func TestAnalyzeFileMissing(t *testing.T) {
	analyzer := NewDefaultAnalyzer()
	if _, err := analyzer.AnalyzeFile("does-not-exist.wav", DefaultOptions()); err == nil {
		t.Error("missing file should error")
	}
}
