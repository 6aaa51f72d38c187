package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("invalid log line: %v", err)
		}
		out = append(out, m)
	}
	return out
}

func TestZerologAdapterFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(&buf, "extractor", zerolog.DebugLevel)

	logger.Info("extracted", String("name", "stieltjes-log"), Int("index", 3), Float64("value", 0.25), Bool("clamped", true))
	logger.Warn("rounding bound exceeds precision", Float64("bound", 1e-9))
	logger.Error("extraction failed", errors.New("boom"), Int("index", 7))
	logger.Debug("plan", Field{Key: "params", Value: []int{1, 2}})

	lines := decodeLines(t, &buf)
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}

	first := lines[0]
	if first["level"] != "info" || first["component"] != "extractor" || first["name"] != "stieltjes-log" {
		t.Errorf("unexpected info line: %v", first)
	}
	if first["index"] != float64(3) || first["clamped"] != true {
		t.Errorf("unexpected typed fields: %v", first)
	}
	if lines[1]["level"] != "warn" {
		t.Errorf("expected warn level, got %v", lines[1]["level"])
	}
	if lines[2]["error"] != "boom" {
		t.Errorf("expected error field, got %v", lines[2])
	}
	if lines[3]["level"] != "debug" {
		t.Errorf("expected debug level, got %v", lines[3]["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test", zerolog.WarnLevel)
	logger.Info("dropped")
	logger.Debug("dropped")
	logger.Warn("kept")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["message"] != "kept" {
		t.Errorf("unexpected lines: %v", lines)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in     string
		want   zerolog.Level
		wantOK bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{"INFO", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
		{" warn ", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"off", zerolog.Disabled, true},
		{"verbose", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNopLogger(t *testing.T) {
	t.Parallel()
	var l Logger = NewNopLogger()
	l.Info("ignored")
	l.Error("ignored", errors.New("x"))
}
