package analyze

import "math"

const testSampleRate = 44100

// sineWave synthesizes a fixed-frequency sine at the given amplitude
func sineWave(freq, amplitude float64, sampleRate int, duration float64) []float64 {
	n := int(duration * float64(sampleRate))
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return signal
}

// applyFade applies linear fade-in and fade-out of the given lengths
func applyFade(signal []float64, sampleRate int, fadeIn, fadeOut float64) {
	inLen := int(fadeIn * float64(sampleRate))
	outLen := int(fadeOut * float64(sampleRate))

	for i := 0; i < inLen && i < len(signal); i++ {
		signal[i] *= float64(i) / float64(inLen)
	}
	for i := 0; i < outLen && i < len(signal); i++ {
		signal[len(signal)-1-i] *= float64(i) / float64(outLen)
	}
}

// addBurst mixes a decaying sine burst into signal at startSample
func addBurst(signal []float64, startSample int, freq float64, sampleRate int, duration float64) {
	n := int(duration * float64(sampleRate))
	for i := 0; i < n && startSample+i < len(signal); i++ {
		decay := math.Exp(-3.0 * float64(i) / float64(n))
		signal[startSample+i] += decay * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
}

// noteSequence concatenates equal-length sine tones
func noteSequence(freqs []float64, sampleRate int, noteDuration float64) []float64 {
	noteLen := int(noteDuration * float64(sampleRate))
	signal := make([]float64, 0, noteLen*len(freqs))
	for _, freq := range freqs {
		note := sineWave(freq, 0.8, sampleRate, noteDuration)
		applyFade(note, sampleRate, 0.01, 0.01)
		signal = append(signal, note...)
	}
	return signal
}
