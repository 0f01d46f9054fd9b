package analyze

import "testing"

func TestHzToNote(t *testing.T) {
	cases := []struct {
		hz   float64
		want string
	}{
		{440.0, "A4"},
		{261.63, "C4"},
		{27.5, "A0"},
		{277.18, "C#4"},
		{442.0, "A4"}, // Nearest note wins
		{0.0, ""},
		{-1.0, ""},
		{30000.0, ""}, // Above MIDI range
	}

	for _, tc := range cases {
		if got := HzToNote(tc.hz); got != tc.want {
			t.Errorf("HzToNote(%.2f) = %q, want %q", tc.hz, got, tc.want)
		}
	}
}
