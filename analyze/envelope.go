package analyze

import (
	"math"

	"github.com/sonigraph/noteflow/dsp/temporal"
)

// EnvelopeEstimator derives ADSR timings and a shape label from a note
// segment's amplitude envelope
type EnvelopeEstimator struct {
	cfg      Config
	envelope *temporal.Envelope
}

// NewEnvelopeEstimator creates an envelope estimator with the given
// configuration
func NewEnvelopeEstimator(cfg Config) *EnvelopeEstimator {
	return &EnvelopeEstimator{
		cfg:      cfg,
		envelope: temporal.NewEnvelope(cfg.EnvelopeFrameSize, cfg.EnvelopeHopSize),
	}
}

// Estimate computes the ADSR profile for one segment. Segments producing
// fewer than 4 envelope frames are too short to characterize and return the
// all-zero profile with shape "unknown".
func (ee *EnvelopeEstimator) Estimate(samples []float64, sampleRate int) EnvelopeProfile {
	env := ee.envelope.ComputeRMS(samples)
	env = ee.envelope.Smooth(env, 3)
	env = ee.envelope.NormalizePeak(env)

	if len(env) < 4 {
		return EnvelopeProfile{Shape: ShapeUnknown}
	}

	frameTime := float64(ee.cfg.EnvelopeHopSize) / float64(sampleRate)
	duration := float64(len(samples)) / float64(sampleRate)

	// Peak frame (first occurrence of the maximum)
	peakFrame := 0
	peakValue := env[0]
	for i, v := range env {
		if v > peakValue {
			peakValue = v
			peakFrame = i
		}
	}

	// The attack ends at the first frame within 2% of the peak. On a flat
	// sustain the strict maximum lands wherever level ripple crests, which
	// can be anywhere in the plateau; the 2% band resolves it to the end of
	// the rise instead.
	attackEnd := peakFrame
	for i := 0; i <= peakFrame; i++ {
		if env[i] >= 0.98*peakValue {
			attackEnd = i
			break
		}
	}

	// Attack: first crossing of 10% of peak up to the attack end
	attackStart := 0
	for i := 0; i <= attackEnd; i++ {
		if env[i] >= 0.1*peakValue {
			attackStart = i
			break
		}
	}
	attackTime := float64(attackEnd-attackStart) * frameTime

	profile := EnvelopeProfile{AttackTime: attackTime}

	// Peak at the very end leaves no room for decay, sustain or release
	if peakFrame >= len(env)-3 {
		profile.Shape = ee.classifyShape(env, peakFrame)
		return profile
	}

	// Decay ends at the first post-peak point where the envelope flattens
	decayEnd := -1
	for i := peakFrame; i < len(env)-1; i++ {
		if math.Abs(env[i+1]-env[i]) < 0.01 {
			decayEnd = i
			break
		}
	}

	if decayEnd >= 0 {
		profile.DecayTime = float64(decayEnd-peakFrame) * frameTime

		// Sustain: mean over the quarter-length window after the stable point
		windowLen := len(env) / 4
		windowEnd := decayEnd + windowLen
		if windowEnd > len(env) {
			windowEnd = len(env)
		}
		if windowEnd > decayEnd {
			sum := 0.0
			for _, v := range env[decayEnd:windowEnd] {
				sum += v
			}
			profile.SustainLevel = sum / float64(windowEnd-decayEnd)
		} else {
			profile.SustainLevel = env[decayEnd]
		}
	} else {
		// No stable point: decay spans peak to end
		profile.DecayTime = float64(len(env)-1-peakFrame) * frameTime
		profile.SustainLevel = env[len(env)-1]
	}

	// Fixed heuristic window: the release is taken as the final 20% of the
	// segment, not derived from an offset detector
	profile.ReleaseTime = 0.2 * duration

	profile.Shape = ee.classifyShape(env, peakFrame)
	return profile
}

// classifyShape runs the fixed decision tree over peak position, normalized
// envelope area, and envelope centroid position
func (ee *EnvelopeEstimator) classifyShape(env []float64, peakFrame int) EnvelopeShape {
	n := float64(len(env))
	peakPos := float64(peakFrame) / n

	area := 0.0
	weighted := 0.0
	total := 0.0
	for i, v := range env {
		area += v
		weighted += float64(i) * v
		total += v
	}
	area /= n

	centroid := 0.0
	if total > 0 {
		centroid = weighted / total / n
	}

	switch {
	case peakPos < 0.1 && area < 0.3:
		return ShapePercussive
	case peakPos < 0.1:
		return ShapePluck
	case peakPos < 0.3 && area > 0.6:
		return ShapePad
	case peakPos < 0.3:
		return ShapePluckedString
	case area > 0.7:
		return ShapeSwell
	case centroid > 0.6:
		return ShapeReverse
	default:
		return ShapeComplex
	}
}
