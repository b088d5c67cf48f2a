package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestReadEntries(t *testing.T) {
	t.Run("parses entries written by the logger", func(t *testing.T) {
		dir := t.TempDir()
		logger, err := NewLogger(dir, LevelDebug)
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		logger.WithComponent("upload").WithRequest("r-1").Error("upload failed", "status", 401)
		logger.WithComponent("history").Warn("history refresh failed")
		logger.Debug("startup", "base_url", "http://127.0.0.1:8000")
		_ = logger.Close()

		entries, err := ReadEntries(filepath.Join(dir, FileName))
		if err != nil {
			t.Fatalf("ReadEntries failed: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}

		first := entries[0]
		if first.Level != LevelError || first.Message != "upload failed" {
			t.Errorf("first = %+v", first)
		}
		if first.Component != "upload" || first.RequestID != "r-1" {
			t.Errorf("context fields = %q/%q", first.Component, first.RequestID)
		}
		if first.Attrs["status"] != float64(401) {
			t.Errorf("status attr = %v", first.Attrs["status"])
		}
		if _, ok := first.Attrs["component"]; ok {
			t.Error("reserved key leaked into Attrs")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadEntries(filepath.Join(t.TempDir(), FileName))
		if err == nil || !strings.Contains(err.Error(), "no log file") {
			t.Errorf("expected 'no log file' error, got %v", err)
		}
	})

	t.Run("skips corrupt lines and sorts by time", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		content := strings.Join([]string{
			`{"time":"2024-01-01T10:00:02Z","level":"INFO","msg":"second"}`,
			`not json`,
			``,
			`{"time":"2024-01-01T10:00:01Z","level":"INFO","msg":"first"}`,
		}, "\n")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		entries, err := ReadEntries(path)
		if err != nil {
			t.Fatalf("ReadEntries failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Message != "first" || entries[1].Message != "second" {
			t.Errorf("order = %q, %q", entries[0].Message, entries[1].Message)
		}
	})
}

func TestFilterLogs(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	entries := []LogEntry{
		{Timestamp: base, Level: LevelDebug, Message: "startup"},
		{Timestamp: base.Add(time.Minute), Level: LevelInfo, Message: "upload completed", Component: "upload"},
		{Timestamp: base.Add(2 * time.Minute), Level: LevelWarn, Message: "history refresh failed", Component: "history",
			Attrs: map[string]any{"error": "status=500"}},
		{Timestamp: base.Add(3 * time.Minute), Level: LevelError, Message: "upload failed", Component: "upload"},
	}

	tests := []struct {
		name   string
		filter LogFilter
		want   []string
	}{
		{"empty filter", LogFilter{}, []string{"startup", "upload completed", "history refresh failed", "upload failed"}},
		{"level warn", LogFilter{Level: "warn"}, []string{"history refresh failed", "upload failed"}},
		{"since", LogFilter{Since: base.Add(90 * time.Second)}, []string{"history refresh failed", "upload failed"}},
		{"component", LogFilter{Component: "upload"}, []string{"upload completed", "upload failed"}},
		{"pattern on message", LogFilter{Pattern: regexp.MustCompile("^upload")}, []string{"upload completed", "upload failed"}},
		{"pattern on attrs", LogFilter{Pattern: regexp.MustCompile("status=500")}, []string{"history refresh failed"}},
		{"combined", LogFilter{Level: "error", Component: "upload"}, []string{"upload failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterLogs(entries, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Message != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i].Message, tt.want[i])
				}
			}
		})
	}
}

func TestTail(t *testing.T) {
	entries := []LogEntry{{Message: "a"}, {Message: "b"}, {Message: "c"}}

	if got := Tail(entries, 2); len(got) != 2 || got[0].Message != "b" {
		t.Errorf("Tail(2) = %+v", got)
	}
	if got := Tail(entries, 0); len(got) != 3 {
		t.Errorf("Tail(0) returned %d entries, want all", len(got))
	}
	if got := Tail(entries, 10); len(got) != 3 {
		t.Errorf("Tail(10) returned %d entries, want all", len(got))
	}
}

func TestWriteEntries(t *testing.T) {
	entries := []LogEntry{{
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Level:     LevelWarn,
		Message:   "history refresh failed",
		Component: "history",
		Attrs:     map[string]any{"error": "boom"},
	}}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteEntries(&buf, entries, "text"); err != nil {
			t.Fatalf("WriteEntries failed: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"WARN", "history refresh failed", "(history)", `"error":"boom"`} {
			if !strings.Contains(out, want) {
				t.Errorf("output %q missing %q", out, want)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteEntries(&buf, entries, "json"); err != nil {
			t.Fatalf("WriteEntries failed: %v", err)
		}
		var decoded []LogEntry
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not a JSON array: %v", err)
		}
		if len(decoded) != 1 || decoded[0].Component != "history" {
			t.Errorf("decoded = %+v", decoded)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if err := WriteEntries(&bytes.Buffer{}, entries, "csv"); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}
