package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLoggerFormatsOutput(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		level      string
		assertions func(t *testing.T, output string)
	}{
		{
			name:   "json format starts with brace",
			format: "json",
			level:  "debug",
			assertions: func(t *testing.T, output string) {
				if !strings.HasPrefix(strings.TrimSpace(output), "{") {
					t.Fatalf("expected json output to start with '{', got %q", output)
				}
			},
		},
		{
			name:   "console format includes message",
			format: "console",
			level:  "info",
			assertions: func(t *testing.T, output string) {
				if !strings.Contains(output, "hello") {
					t.Fatalf("expected console output to contain message, got %q", output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStdout(t, func() {
				log := New(Config{Format: tt.format, Level: tt.level})
				log.Info().Msg("hello")
			})

			if output == "" {
				t.Fatalf("expected log output, got empty string")
			}

			tt.assertions(t, output)
		})
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}

	return buf.String()
}
