package analyze

import (
	"fmt"
	"math"

	"github.com/sonigraph/noteflow/dsp/chroma"
)

// HzToNote maps a frequency to its nearest note name in scientific pitch
// notation ("A4", "C#3"). Returns the empty string for a non-positive
// frequency, which is the undefined-pitch sentinel.
func HzToNote(hz float64) string {
	if hz <= 0 {
		return ""
	}

	midi := int(math.Round(69.0 + 12.0*math.Log2(hz/440.0)))
	if midi < 0 || midi > 127 {
		return ""
	}

	octave := midi/12 - 1
	return fmt.Sprintf("%s%d", chroma.PitchClassNames[midi%12], octave)
}
