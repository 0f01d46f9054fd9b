package logging

import "testing"

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		DebugLevel: "DEBUG",
		InfoLevel:  "INFO",
		WarnLevel:  "WARN",
		ErrorLevel: "ERROR",
		FatalLevel: "FATAL",
		Level(99):  "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestSetGlobalLoggerNil(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	SetGlobalLogger(nil)
	if _, ok := GetGlobalLogger().(*NoOpLogger); !ok {
		t.Errorf("nil logger should install NoOpLogger, got %T", GetGlobalLogger())
	}

	// Must be safe to use
	GetGlobalLogger().Info("ignored", Fields{"k": "v"})
}

func TestDefaultLoggerWithFields(t *testing.T) {
	logger := NewDefaultLogger()
	child := logger.WithFields(Fields{"component": "test"})
	if child == nil {
		t.Fatal("WithFields returned nil")
	}
	// Chaining preserves the interface
	child.WithFields(Fields{"more": 1}).Debug("ignored")
}
