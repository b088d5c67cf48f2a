package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

// LogEntry is one parsed line of the operator log.
type LogEntry struct {
	Timestamp time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// LogFilter selects entries. Zero-valued fields do not filter.
type LogFilter struct {
	// Level keeps entries at or above this level.
	Level string
	// Since keeps entries at or after this time.
	Since time.Time
	// Component keeps entries emitted by this component.
	Component string
	// Pattern keeps entries whose message or attributes match.
	Pattern *regexp.Regexp
}

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

var reservedKeys = map[string]bool{
	"time":       true,
	"level":      true,
	"msg":        true,
	"component":  true,
	"request_id": true,
}

// ReadEntries parses every JSON line of the log at path, sorted by time.
// Lines that are not valid JSON are skipped.
func ReadEntries(path string) ([]LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file at %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := ParseEntries(f)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// ParseEntries parses JSON log lines from r in input order.
func ParseEntries(r io.Reader) ([]LogEntry, error) {
	scanner := bufio.NewScanner(r)
	const maxLine = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	var entries []LogEntry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := ParseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}
	return entries, nil
}

// ParseEntry parses a single JSON log line.
func ParseEntry(line string) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	entry := LogEntry{}
	if ts, ok := raw["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			entry.Timestamp = t
		}
	}
	entry.Level, _ = raw["level"].(string)
	entry.Message, _ = raw["msg"].(string)
	entry.Component, _ = raw["component"].(string)
	entry.RequestID, _ = raw["request_id"].(string)

	for k, v := range raw {
		if reservedKeys[k] {
			continue
		}
		if entry.Attrs == nil {
			entry.Attrs = make(map[string]any)
		}
		entry.Attrs[k] = v
	}
	return entry, nil
}

// Matches reports whether entry passes every criterion of f.
func (f LogFilter) Matches(entry LogEntry) bool {
	if f.Level != "" {
		want, okWant := levelOrder[strings.ToUpper(f.Level)]
		got, okGot := levelOrder[entry.Level]
		if okWant && okGot && got < want {
			return false
		}
	}
	if !f.Since.IsZero() && entry.Timestamp.Before(f.Since) {
		return false
	}
	if f.Component != "" && entry.Component != f.Component {
		return false
	}
	if f.Pattern != nil && !f.Pattern.MatchString(entry.Message) && !f.Pattern.MatchString(entry.attrText()) {
		return false
	}
	return true
}

// FilterLogs returns the entries that match f, preserving order.
func FilterLogs(entries []LogEntry, f LogFilter) []LogEntry {
	var out []LogEntry
	for _, e := range entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Tail returns the last n entries; n <= 0 returns all of them.
func Tail(entries []LogEntry, n int) []LogEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

func (e LogEntry) attrText() string {
	if len(e.Attrs) == 0 {
		return ""
	}
	b, _ := json.Marshal(e.Attrs)
	return string(b)
}

// FormatText renders an entry as a single human-readable line:
//
//	[15:04:05.000] WARN  history refresh failed (history) {"error":"..."}
func FormatText(e LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-5s %s", e.Timestamp.Local().Format("2006-01-02 15:04:05.000"), e.Level, e.Message)
	if e.Component != "" {
		fmt.Fprintf(&b, " (%s", e.Component)
		if e.RequestID != "" {
			fmt.Fprintf(&b, ", request=%s", e.RequestID)
		}
		b.WriteString(")")
	} else if e.RequestID != "" {
		fmt.Fprintf(&b, " (request=%s)", e.RequestID)
	}
	if attrs := e.attrText(); attrs != "" {
		b.WriteString(" ")
		b.WriteString(attrs)
	}
	return b.String()
}

// WriteEntries writes entries to w as "text" lines or a "json" array.
func WriteEntries(w io.Writer, entries []LogEntry, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		for _, e := range entries {
			if _, err := fmt.Fprintln(w, FormatText(e)); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []LogEntry{}
		}
		return enc.Encode(entries)
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}
