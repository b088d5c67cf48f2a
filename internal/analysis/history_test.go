package analysis

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	cverrors "github.com/chemviz/chemviz/internal/errors"
)

func TestParseHistory(t *testing.T) {
	body := `[
		{"id": 7, "uploaded_at": "2024-01-01T00:00:00Z", "summary": {"type_distribution": {"Pump": 3}}},
		{"id": "b-2", "uploaded_at": 1704067200, "summary": {}, "file": "old.csv"},
		{"id": 3.5, "uploaded_at": 1704067200123, "summary": {"total_equipment": 1}}
	]`

	entries, err := ParseHistory([]byte(body))
	if err != nil {
		t.Fatalf("ParseHistory() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	first := entries[0]
	if first.ID.String() != "7" {
		t.Errorf("ID = %q, want 7", first.ID.String())
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !first.UploadedAt.Valid || !first.UploadedAt.Time.Equal(want) {
		t.Errorf("UploadedAt = %+v, want %v", first.UploadedAt, want)
	}
	if n, _ := countOf(first.Summary, "Pump"); n != 3 {
		t.Errorf("summary Pump = %d, want 3", n)
	}

	if entries[1].ID.String() != "b-2" {
		t.Errorf("string ID = %q", entries[1].ID.String())
	}
	if !entries[1].UploadedAt.Time.Equal(want) {
		t.Errorf("epoch seconds = %v, want %v", entries[1].UploadedAt.Time, want)
	}
	if got := entries[2].UploadedAt.Time; !got.Equal(want.Add(123 * time.Millisecond)) {
		t.Errorf("epoch millis = %v", got)
	}
	if entries[2].ID.String() != "3.5" {
		t.Errorf("numeric ID = %q, want literal 3.5", entries[2].ID.String())
	}
}

func TestParseHistory_EmptyArray(t *testing.T) {
	entries, err := ParseHistory([]byte(`[]`))
	if err != nil {
		t.Fatalf("ParseHistory() error = %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("entries = %#v, want empty non-nil slice", entries)
	}
}

func TestParseHistory_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object instead of array", `{"id": 1}`},
		{"missing id", `[{"uploaded_at": "2024-01-01T00:00:00Z", "summary": {}}]`},
		{"missing summary", `[{"id": 1, "uploaded_at": "2024-01-01T00:00:00Z"}]`},
		{"object id", `[{"id": {"x": 1}, "uploaded_at": "2024-01-01T00:00:00Z", "summary": {}}]`},
		{"boolean timestamp", `[{"id": 1, "uploaded_at": true, "summary": {}}]`},
		{"array summary", `[{"id": 1, "uploaded_at": "2024-01-01T00:00:00Z", "summary": []}]`},
		{"not json", `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHistory([]byte(tt.body))
			if err == nil {
				t.Fatal("ParseHistory() should fail")
			}
			if !errors.Is(err, cverrors.ErrInvalidPayload) {
				t.Errorf("error %v should wrap ErrInvalidPayload", err)
			}
			if n := strings.Count(err.Error(), cverrors.ErrInvalidPayload.Error()); n != 1 {
				t.Errorf("error %q names the payload failure %d times, want 1", err, n)
			}
		})
	}
}

func TestParseHistory_MalformedSummaryDistribution(t *testing.T) {
	tests := []struct {
		name string
		dist string
	}{
		{"fractional count", `{"Pump": 2.5}`},
		{"array", `["Pump"]`},
		{"negative count", `{"Pump": -1}`},
		{"string count", `{"Pump": "3"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `[
				{"id": 2, "uploaded_at": "2024-01-02T00:00:00Z", "summary": {"type_distribution": ` + tt.dist + `, "total_equipment": 4}},
				{"id": 1, "uploaded_at": "2024-01-01T00:00:00Z", "summary": {"type_distribution": {"Pump": 3}}}
			]`

			entries, err := ParseHistory([]byte(body))
			if err != nil {
				t.Fatalf("ParseHistory() error = %v", err)
			}
			if len(entries) != 2 {
				t.Fatalf("got %d entries, want 2", len(entries))
			}

			bad := entries[0].Summary
			if bad == nil {
				t.Fatal("summary with a malformed distribution should be kept")
			}
			if bad.HasDistribution || len(bad.TypeDistribution) != 0 {
				t.Errorf("malformed distribution decoded as %+v", bad.TypeDistribution)
			}
			if !strings.Contains(string(bad.Raw), tt.dist) {
				t.Errorf("Raw = %s, want it to keep %s", bad.Raw, tt.dist)
			}
			if n, ok := bad.TotalEquipment(); !ok || n != 4 {
				t.Errorf("TotalEquipment() = %d, %v; want 4, true", n, ok)
			}

			if n, ok := countOf(entries[1].Summary, "Pump"); !ok || n != 3 {
				t.Errorf("good entry Pump = %d, %v; want 3, true", n, ok)
			}
		})
	}
}

func TestEntryID(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantText string
		wantPath string
		wantJSON string
	}{
		{"integer", `7`, "7", "7", `7`},
		{"string", `"abc"`, "abc", "abc", `"abc"`},
		{"string with slash", `"a/b c"`, "a/b c", "a%2Fb%20c", `"a/b c"`},
		{"bool", `true`, "true", "true", `true`},
		{"fraction kept", `3.5`, "3.5", "3.5", `3.5`},
		{"integral with fraction", `7.0`, "7", "7", `7`},
		{"exponent", `1e3`, "1000", "1000", `1000`},
		{"negative exponent", `-2E+1`, "-20", "-20", `-20`},
		{"fractional exponent", `25e-1`, "25e-1", "25e-1", `25e-1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id EntryID
			if err := json.Unmarshal([]byte(tt.json), &id); err != nil {
				t.Fatalf("Unmarshal error = %v", err)
			}
			if id.String() != tt.wantText {
				t.Errorf("String() = %q, want %q", id.String(), tt.wantText)
			}
			if id.PathSegment() != tt.wantPath {
				t.Errorf("PathSegment() = %q, want %q", id.PathSegment(), tt.wantPath)
			}
			out, _ := json.Marshal(id)
			if string(out) != tt.wantJSON {
				t.Errorf("Marshal = %s, want %s", out, tt.wantJSON)
			}
		})
	}

	var bad EntryID
	if err := json.Unmarshal([]byte(`[1]`), &bad); err == nil {
		t.Error("array ID should be rejected")
	}
}

func TestNewEntryID(t *testing.T) {
	if out, _ := json.Marshal(NewEntryID("42")); string(out) != `42` {
		t.Errorf("numeric text should marshal as a number, got %s", out)
	}
	if out, _ := json.Marshal(NewEntryID("abc")); string(out) != `"abc"` {
		t.Errorf("non-numeric text should marshal as a string, got %s", out)
	}
	if NewEntryID("7").String() != "7" {
		t.Error("String() should return the input")
	}
	if got := NewEntryID("7.0").String(); got != "7" {
		t.Errorf("NewEntryID(7.0) = %q, want 7", got)
	}
	var zero EntryID
	if !zero.IsZero() || NewEntryID("").IsZero() {
		t.Error("IsZero() mismatch")
	}
}

func TestParseTimestamp(t *testing.T) {
	utc := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		in    string
		valid bool
		want  time.Time
	}{
		{"2024-03-05T14:30:00Z", true, utc},
		{"2024-03-05T15:30:00+01:00", true, utc},
		{"2024-03-05T14:30:00.000000", true, utc},
		{"2024-03-05 14:30:00", true, utc},
		{"yesterday", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts := ParseTimestamp(tt.in)
			if ts.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v", ts.Valid, tt.valid)
			}
			if tt.valid && !ts.Time.Equal(tt.want) {
				t.Errorf("Time = %v, want %v", ts.Time, tt.want)
			}
			if !tt.valid && ts.Local() != tt.in {
				t.Errorf("Local() = %q, want raw %q", ts.Local(), tt.in)
			}
		})
	}
}

func TestTimestamp_Local(t *testing.T) {
	ts := FromEpoch(0)
	want := time.Unix(0, 0).Local().Format("2006-01-02 15:04:05")
	if ts.Local() != want {
		t.Errorf("Local() = %q, want %q", ts.Local(), want)
	}
}
