package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"github.com/sonigraph/noteflow/logging"
)

// Loader decodes audio files into mono float buffers.
// WAV (PCM and IEEE float) is supported; other containers fail with a
// decoding error rather than returning partial data.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a new audio loader
func NewLoader() *Loader {
	return &Loader{
		logger: logging.GetGlobalLogger().WithFields(logging.Fields{
			"component": "audio_loader",
		}),
	}
}

// Load decodes the whole file into a mono buffer
func (l *Loader) Load(path string) (*Buffer, error) {
	return l.LoadWindow(path, -1, -1)
}

// LoadWindow decodes the file and selects the [start, end) window in
// seconds. Negative start/end mean "from the beginning" / "to the end".
// An invalid window is an error, not a silent clamp.
func (l *Loader) LoadWindow(path string, start, end float64) (*Buffer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("audio file not found: %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" {
		return nil, fmt.Errorf("unsupported audio format %q for %s: only WAV is supported", ext, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("decoding %s: not a valid WAV file", path)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if pcm == nil || len(pcm.Data) == 0 {
		return nil, fmt.Errorf("decoding %s: no audio data", path)
	}

	sampleRate := pcm.Format.SampleRate
	channels := pcm.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}

	// Scale integer PCM to [-1, 1] and mix down to mono
	scale := 1.0
	if decoder.BitDepth > 0 && decoder.BitDepth <= 32 {
		scale = float64(int64(1) << (decoder.BitDepth - 1))
	}

	numSamples := len(pcm.Data) / channels
	samples := make([]float64, numSamples)
	for i := range numSamples {
		sum := 0.0
		for c := range channels {
			sum += float64(pcm.Data[i*channels+c]) / scale
		}
		samples[i] = sum / float64(channels)
	}

	buf := &Buffer{Samples: samples, SampleRate: sampleRate}
	duration := buf.Duration()

	if start >= 0 || end >= 0 {
		from := math.Max(start, 0)
		to := end
		if to < 0 {
			to = duration
		}

		if from >= to {
			return nil, fmt.Errorf("invalid time window [%.3f, %.3f] for %s", start, end, path)
		}
		if from >= duration {
			return nil, fmt.Errorf("time window start %.3fs is beyond clip duration %.3fs for %s", from, duration, path)
		}

		buf = buf.Slice(from, to)
	}

	l.logger.Debug("audio loaded", logging.Fields{
		"path":        path,
		"sample_rate": buf.SampleRate,
		"duration":    buf.Duration(),
	})

	return buf, nil
}
