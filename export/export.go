package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sonigraph/noteflow/analyze"
)

// Format selects the export encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (use json or csv)", name)
	}
}

// WriteFile exports the result to path in the given format
func WriteFile(result *analyze.Result, path string, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return Write(result, f, format)
}

// Write exports the result to w in the given format
func Write(result *analyze.Result, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(result, w)
	case FormatCSV:
		return writeCSV(result, w)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func writeJSON(result *analyze.Result, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// csvHeader names every scalar field, one column each; the emotion list is
// stringified into a single column
var csvHeader = []string{
	"note_index", "start_time", "end_time", "duration",
	"pitch_hz", "note_name", "pitch_confidence", "pitch_stability", "pitch_stable", "pitch_source",
	"attack_time", "decay_time", "sustain_level", "release_time", "envelope_shape",
	"spectral_centroid", "spectral_bandwidth", "spectral_rolloff", "spectral_flatness",
	"harmonic_ratio", "inharmonicity", "tristimulus_1", "tristimulus_2", "tristimulus_3",
	"noisiness", "brightness", "warmth",
	"key", "key_tonic", "key_mode", "key_confidence",
	"valence", "arousal", "intensity", "emotions",
	"file_path", "total_duration", "is_monophonic",
}

func writeCSV(result *analyze.Result, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, note := range result.Notes {
		row := []string{
			strconv.Itoa(note.NoteIndex),
			formatFloat(note.StartTime),
			formatFloat(note.EndTime),
			formatFloat(note.Duration),
			formatFloat(note.Pitch.FundamentalHz),
			note.NoteName,
			formatFloat(note.Pitch.Confidence),
			formatFloat(note.Pitch.Stability),
			strconv.FormatBool(note.Pitch.IsStable),
			string(note.Pitch.Source),
			formatFloat(note.Envelope.AttackTime),
			formatFloat(note.Envelope.DecayTime),
			formatFloat(note.Envelope.SustainLevel),
			formatFloat(note.Envelope.ReleaseTime),
			string(note.Envelope.Shape),
			formatFloat(note.Timbre.Centroid),
			formatFloat(note.Timbre.Bandwidth),
			formatFloat(note.Timbre.Rolloff),
			formatFloat(note.Timbre.Flatness),
			formatFloat(note.Timbre.HarmonicRatio),
			formatFloat(note.Timbre.Inharmonicity),
			formatFloat(note.Timbre.Tristimulus[0]),
			formatFloat(note.Timbre.Tristimulus[1]),
			formatFloat(note.Timbre.Tristimulus[2]),
			formatFloat(note.Timbre.Noisiness),
			formatFloat(note.Timbre.Brightness),
			formatFloat(note.Timbre.Warmth),
			note.Key.Key,
			note.Key.Tonic,
			note.Key.Mode,
			formatFloat(note.Key.Confidence),
			formatFloat(note.Affect.Valence),
			formatFloat(note.Affect.Arousal),
			formatFloat(note.Affect.Intensity),
			formatEmotions(note.Affect.Emotions),
			result.FilePath,
			formatFloat(result.Duration),
			strconv.FormatBool(result.Monophonic),
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// formatEmotions flattens the ranked list into "label:score|label:score"
func formatEmotions(emotions []analyze.EmotionScore) string {
	parts := make([]string, len(emotions))
	for i, e := range emotions {
		parts[i] = fmt.Sprintf("%s:%.3f", e.Label, e.Score)
	}
	return strings.Join(parts, "|")
}
