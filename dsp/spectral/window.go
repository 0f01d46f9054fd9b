package spectral

import (
	"fmt"

	"github.com/mjibson/go-dsp/window"
)

// Window applies a tapering function to an analysis frame in-place
type Window interface {
	ApplyInPlace(signal []float64) error
	Coefficients() []float64
}

// HannWindow is a Hann (raised cosine) window of fixed size.
// Coefficients come from mjibson/go-dsp.
type HannWindow struct {
	size         int
	coefficients []float64
}

// NewHannWindow creates a Hann window of the given size
func NewHannWindow(size int) *HannWindow {
	return &HannWindow{
		size:         size,
		coefficients: window.Hann(size),
	}
}

// ApplyInPlace multiplies the signal by the window coefficients
func (h *HannWindow) ApplyInPlace(signal []float64) error {
	if len(signal) != h.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), h.size)
	}

	for i := range signal {
		signal[i] *= h.coefficients[i]
	}

	return nil
}

// Coefficients returns a copy of the window coefficients
func (h *HannWindow) Coefficients() []float64 {
	coeffs := make([]float64, len(h.coefficients))
	copy(coeffs, h.coefficients)
	return coeffs
}

// Size returns the window size
func (h *HannWindow) Size() int {
	return h.size
}
