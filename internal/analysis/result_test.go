package analysis

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	cverrors "github.com/chemviz/chemviz/internal/errors"
)

func TestParseResult(t *testing.T) {
	t.Run("keeps distribution in response key order", func(t *testing.T) {
		body := `{"total_equipment": 8, "type_distribution": {"Valve": 5, "Pump": 3, "Compressor": 0}}`
		r, err := ParseResult([]byte(body))
		if err != nil {
			t.Fatalf("ParseResult() error = %v", err)
		}
		if !r.HasDistribution {
			t.Fatal("HasDistribution = false")
		}

		want := []TypeCount{{"Valve", 5}, {"Pump", 3}, {"Compressor", 0}}
		if len(r.TypeDistribution) != len(want) {
			t.Fatalf("got %d entries, want %d", len(r.TypeDistribution), len(want))
		}
		for i := range want {
			if r.TypeDistribution[i] != want[i] {
				t.Errorf("entry %d = %+v, want %+v", i, r.TypeDistribution[i], want[i])
			}
		}
	})

	t.Run("raw body is preserved", func(t *testing.T) {
		body := `{"z": 1, "a": {"y": 2, "b": 3}}`
		r, err := ParseResult([]byte("  " + body + "\n"))
		if err != nil {
			t.Fatalf("ParseResult() error = %v", err)
		}
		if string(r.Raw) != body {
			t.Errorf("Raw = %s, want %s", r.Raw, body)
		}
		if r.HasDistribution {
			t.Error("HasDistribution should be false without type_distribution")
		}
		indented := r.Indent("", "  ")
		if strings.Index(indented, `"z"`) > strings.Index(indented, `"a"`) {
			t.Errorf("Indent reordered keys:\n%s", indented)
		}
	})

	t.Run("null distribution counts as absent", func(t *testing.T) {
		r, err := ParseResult([]byte(`{"type_distribution": null}`))
		if err != nil {
			t.Fatalf("ParseResult() error = %v", err)
		}
		if r.HasDistribution {
			t.Error("HasDistribution should be false for null")
		}
	})

	t.Run("empty distribution is present but empty", func(t *testing.T) {
		r, err := ParseResult([]byte(`{"type_distribution": {}}`))
		if err != nil {
			t.Fatalf("ParseResult() error = %v", err)
		}
		if !r.HasDistribution || len(r.TypeDistribution) != 0 {
			t.Errorf("got HasDistribution=%v len=%d", r.HasDistribution, len(r.TypeDistribution))
		}
	})

	t.Run("repeated key keeps first position and last value", func(t *testing.T) {
		r, err := ParseResult([]byte(`{"type_distribution": {"Pump": 1, "Valve": 2, "Pump": 7}}`))
		if err != nil {
			t.Fatalf("ParseResult() error = %v", err)
		}
		if len(r.TypeDistribution) != 2 || r.TypeDistribution[0] != (TypeCount{"Pump", 7}) {
			t.Errorf("TypeDistribution = %+v", r.TypeDistribution)
		}
	})

	t.Run("integral spellings are accepted", func(t *testing.T) {
		r, err := ParseResult([]byte(`{"type_distribution": {"A": 3.0, "B": 2e1}}`))
		if err != nil {
			t.Fatalf("ParseResult() error = %v", err)
		}
		if a, _ := countOf(r, "A"); a != 3 {
			t.Errorf("A = %d, want 3", a)
		}
		if b, _ := countOf(r, "B"); b != 20 {
			t.Errorf("B = %d, want 20", b)
		}
	})
}

func TestParseResult_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ``},
		{"array", `[1, 2]`},
		{"string", `"ok"`},
		{"null", `null`},
		{"truncated", `{"type_distribution": {"Pump": 3`},
		{"distribution not an object", `{"type_distribution": [3, 5]}`},
		{"negative count", `{"type_distribution": {"Pump": -1}}`},
		{"fractional count", `{"type_distribution": {"Pump": 1.5}}`},
		{"string count", `{"type_distribution": {"Pump": "3"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult([]byte(tt.body))
			if err == nil {
				t.Fatal("ParseResult() should fail")
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

func TestPayloadError(t *testing.T) {
	tagged := payloadError("decode summary", errors.New("bad count"))
	again := payloadError("decode history", tagged)
	if !errors.Is(again, cverrors.ErrInvalidPayload) {
		t.Fatalf("error %v should wrap ErrInvalidPayload", again)
	}
	if got, want := again.Error(), "decode history: decode summary: bad count: invalid payload"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func countOf(r *Result, label string) (int64, bool) {
	if r == nil {
		return 0, false
	}
	for _, tc := range r.TypeDistribution {
		if tc.Label == label {
			return tc.Count, true
		}
	}
	return 0, false
}

func TestResult_SummaryAccessors(t *testing.T) {
	r, err := ParseResult([]byte(`{
		"total_equipment": 15,
		"avg_flowrate": 119.8,
		"avg_pressure": 6.1,
		"avg_temperature": "n/a"
	}`))
	if err != nil {
		t.Fatalf("ParseResult() error = %v", err)
	}

	if n, ok := r.TotalEquipment(); !ok || n != 15 {
		t.Errorf("TotalEquipment() = %d, %v", n, ok)
	}
	if f, ok := r.AvgFlowrate(); !ok || f != 119.8 {
		t.Errorf("AvgFlowrate() = %v, %v", f, ok)
	}
	if f, ok := r.AvgPressure(); !ok || f != 6.1 {
		t.Errorf("AvgPressure() = %v, %v", f, ok)
	}
	if _, ok := r.AvgTemperature(); ok {
		t.Error("AvgTemperature() should be absent for a non-number")
	}
	if _, ok := r.Field("missing"); ok {
		t.Error("Field(missing) should be absent")
	}

	var nilResult *Result
	if _, ok := nilResult.TotalEquipment(); ok {
		t.Error("nil result should have no fields")
	}
	if nilResult.Indent("", " ") != "" {
		t.Error("nil result should render empty")
	}
}

func TestResult_JSONRoundTrip(t *testing.T) {
	body := `{"type_distribution":{"Pump":3,"Valve":5},"note":"x"}`
	var r Result
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(out) != body {
		t.Errorf("Marshal = %s, want %s", out, body)
	}
}
