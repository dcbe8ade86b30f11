package app

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	cases := []struct {
		in      string
		debugOn bool
	}{
		{in: "debug", debugOn: true},
		{in: "info", debugOn: false},
		{in: "WARN", debugOn: false},
		{in: "unknown", debugOn: false},
		{in: "", debugOn: false},
	}

	for _, tc := range cases {
		log := NewLogger(tc.in)
		if log == nil {
			t.Fatalf("NewLogger(%q) returned nil", tc.in)
		}
		if got := log.Enabled(context.Background(), slog.LevelDebug); got != tc.debugOn {
			t.Fatalf("NewLogger(%q): debug enabled=%v want=%v", tc.in, got, tc.debugOn)
		}
	}
}
