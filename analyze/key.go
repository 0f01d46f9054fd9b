package analyze

import (
	"fmt"
	"math"

	"github.com/sonigraph/noteflow/dsp/chroma"
	"github.com/sonigraph/noteflow/dsp/common"
)

// Krumhansl-Kessler key profiles: perceived stability of each pitch class
// relative to a tonal center
var (
	majorProfile = []float64{
		6.35, 2.23, 3.48, 2.33, 4.38, 4.09,
		2.52, 5.19, 2.39, 3.66, 2.29, 2.88,
	}
	minorProfile = []float64{
		6.33, 2.68, 3.52, 5.38, 2.60, 3.53,
		2.54, 4.75, 3.98, 2.69, 3.34, 3.17,
	}
)

// KeyEstimator matches aggregated chroma energy against major/minor tonal
// templates
type KeyEstimator struct {
	majorNorm []float64
	minorNorm []float64
}

// NewKeyEstimator creates a key estimator with L2-normalized Krumhansl
// profiles
func NewKeyEstimator() *KeyEstimator {
	return &KeyEstimator{
		majorNorm: l2Normalize(majorProfile),
		minorNorm: l2Normalize(minorProfile),
	}
}

// Estimate aggregates the segment's chroma and scores all 24 tonic/mode
// candidates. Zero-energy chroma yields the unknown estimate.
func (ke *KeyEstimator) Estimate(samples []float64, sampleRate int) KeyEstimate {
	cs := chroma.NewChromaSTFT(sampleRate)
	chromagram, err := cs.ComputeChroma(samples, 2048, 512)
	if err != nil || len(chromagram) == 0 {
		return unknownKey()
	}

	profile := chroma.AggregateMean(chromagram)

	total := 0.0
	for _, v := range profile {
		total += v
	}
	if total <= 0 {
		return unknownKey()
	}

	majorScores := ke.matchProfile(profile, ke.majorNorm)
	minorScores := ke.matchProfile(profile, ke.minorNorm)

	// Best and runner-up across all 24 candidates
	bestScore := math.Inf(-1)
	secondScore := math.Inf(-1)
	bestTonic := 0
	bestMode := "major"

	consider := func(score float64, tonic int, mode string) {
		if score > bestScore {
			secondScore = bestScore
			bestScore = score
			bestTonic = tonic
			bestMode = mode
		} else if score > secondScore {
			secondScore = score
		}
	}

	for tonic, score := range majorScores {
		consider(score, tonic, "major")
	}
	for tonic, score := range minorScores {
		consider(score, tonic, "minor")
	}

	tonicName := chroma.PitchClassNames[bestTonic]

	return KeyEstimate{
		Key:        fmt.Sprintf("%s %s", tonicName, bestMode),
		Tonic:      tonicName,
		Mode:       bestMode,
		Confidence: keyConfidence(bestScore, secondScore),
	}
}

// matchProfile scores the chroma vector against all 12 rotations of a
// normalized key profile
func (ke *KeyEstimator) matchProfile(chromaVec, profile []float64) []float64 {
	scores := make([]float64, 12)
	for shift := range 12 {
		score := 0.0
		for i := range 12 {
			score += chromaVec[i] * profile[((i-shift)%12+12)%12]
		}
		scores[shift] = score
	}
	return scores
}

// keyConfidence combines the margin over the runner-up with the score ratio:
// confidence is low both when the top two candidates are close and when both
// scores are near zero
func keyConfidence(best, second float64) float64 {
	if best <= 0 {
		return 0.0
	}
	margin := best - second
	ratio := best / (second + 1e-6)
	return common.Clamp(math.Tanh(margin*ratio), 0.0, 1.0)
}

func l2Normalize(profile []float64) []float64 {
	norm := 0.0
	for _, v := range profile {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float64, len(profile))
	if norm <= 0 {
		return out
	}
	for i, v := range profile {
		out[i] = v / norm
	}
	return out
}

func unknownKey() KeyEstimate {
	return KeyEstimate{Key: "unknown"}
}
