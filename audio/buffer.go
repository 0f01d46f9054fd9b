package audio

// Buffer is a single-channel waveform at a fixed sample rate.
// Samples are float64 in [-1, 1] once normalized. The analysis pipeline
// treats a Buffer as immutable.
type Buffer struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// Duration returns the buffer duration in seconds
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0.0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Normalize returns a copy of the buffer scaled to unit peak amplitude.
// A silent buffer is returned as an unscaled copy.
func (b *Buffer) Normalize() *Buffer {
	out := &Buffer{
		Samples:    make([]float64, len(b.Samples)),
		SampleRate: b.SampleRate,
	}

	peak := 0.0
	for _, v := range b.Samples {
		abs := v
		if abs < 0 {
			abs = -abs
		}
		if abs > peak {
			peak = abs
		}
	}

	if peak <= 0 {
		copy(out.Samples, b.Samples)
		return out
	}

	for i, v := range b.Samples {
		out.Samples[i] = v / peak
	}

	return out
}

// Slice returns the sub-buffer covering [start, end) in seconds, clamped to
// the buffer bounds. The returned buffer shares the underlying samples.
func (b *Buffer) Slice(start, end float64) *Buffer {
	startSample := int(start * float64(b.SampleRate))
	endSample := int(end * float64(b.SampleRate))

	if startSample < 0 {
		startSample = 0
	}
	if endSample > len(b.Samples) {
		endSample = len(b.Samples)
	}
	if startSample >= endSample {
		return &Buffer{Samples: []float64{}, SampleRate: b.SampleRate}
	}

	return &Buffer{
		Samples:    b.Samples[startSample:endSample],
		SampleRate: b.SampleRate,
	}
}
