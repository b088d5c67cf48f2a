// Package analysis holds the payloads returned by the equipment analysis
// service: the result of a CSV upload and the entries of the upload history.
//
// Payloads are kept verbatim for display and decoded only as far as the
// client needs: the equipment type distribution (in response key order) and
// a handful of optional summary figures.
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/chemviz/chemviz/internal/errors"
)

// Summary field names produced by the analysis service.
const (
	FieldTypeDistribution = "type_distribution"
	FieldTotalEquipment   = "total_equipment"
	FieldAvgFlowrate      = "avg_flowrate"
	FieldAvgPressure      = "avg_pressure"
	FieldAvgTemperature   = "avg_temperature"
)

// TypeCount is one entry of the equipment type distribution.
type TypeCount struct {
	Label string
	Count int64
}

// Result is the analysis returned for one uploaded CSV.
type Result struct {
	// Raw is the response object exactly as received.
	Raw json.RawMessage
	// TypeDistribution lists the distribution in the order its keys appear
	// in Raw. It is empty when HasDistribution is false.
	TypeDistribution []TypeCount
	// HasDistribution reports whether Raw carried a type_distribution object.
	HasDistribution bool

	fields map[string]json.RawMessage
}

// ParseResult decodes an upload response. The body must be a JSON object.
// When type_distribution is present it must map labels to non-negative
// integers.
func ParseResult(data []byte) (*Result, error) {
	return parseResult(data, true)
}

// parseSummary decodes the summary of a history entry. A type_distribution
// that is not a map of non-negative integers is treated as absent; the raw
// summary is kept for display. A null summary yields nil.
func parseSummary(data []byte) (*Result, error) {
	if len(bytes.TrimSpace(data)) == 0 || isNull(data) {
		return nil, nil
	}
	return parseResult(data, false)
}

func parseResult(data []byte, strict bool) (*Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.Wrap(errors.ErrInvalidPayload, "analysis result must be a JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, payloadError("decode analysis result", err)
	}

	r := &Result{
		Raw:    append(json.RawMessage(nil), trimmed...),
		fields: fields,
	}

	if dist, ok := fields[FieldTypeDistribution]; ok && !isNull(dist) {
		counts, err := decodeOrderedCounts(dist)
		switch {
		case err == nil:
			r.TypeDistribution = counts
			r.HasDistribution = true
		case strict:
			return nil, payloadError("decode "+FieldTypeDistribution, err)
		}
	}

	return r, nil
}

// payloadError tags err with ErrInvalidPayload unless it already carries it.
func payloadError(context string, err error) error {
	if errors.Is(err, errors.ErrInvalidPayload) {
		return fmt.Errorf("%s: %w", context, err)
	}
	return errors.Wrapf(errors.ErrInvalidPayload, "%s: %v", context, err)
}

// UnmarshalJSON lets a Result be embedded in larger payloads such as a
// history entry's summary.
func (r *Result) UnmarshalJSON(data []byte) error {
	parsed, err := ParseResult(data)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

// MarshalJSON returns Raw unchanged.
func (r Result) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("{}"), nil
	}
	return r.Raw, nil
}

// TotalEquipment returns total_equipment when it is present and integral.
func (r *Result) TotalEquipment() (int64, bool) {
	f, ok := r.number(FieldTotalEquipment)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// AvgFlowrate returns avg_flowrate when present.
func (r *Result) AvgFlowrate() (float64, bool) { return r.number(FieldAvgFlowrate) }

// AvgPressure returns avg_pressure when present.
func (r *Result) AvgPressure() (float64, bool) { return r.number(FieldAvgPressure) }

// AvgTemperature returns avg_temperature when present.
func (r *Result) AvgTemperature() (float64, bool) { return r.number(FieldAvgTemperature) }

func (r *Result) number(field string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	raw, ok := r.fields[field]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

// Field returns the raw JSON of a top-level field.
func (r *Result) Field(name string) (json.RawMessage, bool) {
	if r == nil {
		return nil, false
	}
	raw, ok := r.fields[name]
	return raw, ok
}

// Indent renders Raw as indented JSON. Key order is preserved.
func (r *Result) Indent(prefix, indent string) string {
	if r == nil || len(r.Raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw, prefix, indent); err != nil {
		return string(r.Raw)
	}
	return buf.String()
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeOrderedCounts walks a JSON object token by token so that the
// entries come back in document order. A repeated key keeps its first
// position and takes the last value.
func decodeOrderedCounts(raw json.RawMessage) ([]TypeCount, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object, got %v", tok)
	}

	counts := []TypeCount{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		label, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("value for %q: %w", label, err)
		}
		n, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("count for %q is not a number", label)
		}
		count, err := parseCount(n)
		if err != nil {
			return nil, fmt.Errorf("count for %q: %w", label, err)
		}

		if i, seen := index[label]; seen {
			counts[i].Count = count
			continue
		}
		index[label] = len(counts)
		counts = append(counts, TypeCount{Label: label, Count: count})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return counts, nil
}

// parseCount accepts integral numbers in any JSON spelling ("3", "3.0",
// "3e0") and rejects negatives and fractions.
func parseCount(n json.Number) (int64, error) {
	if i, err := n.Int64(); err == nil {
		if i < 0 {
			return 0, fmt.Errorf("negative count %d", i)
		}
		return i, nil
	}

	f, _, err := big.ParseFloat(n.String(), 10, 128, big.ToNearestEven)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", n)
	}
	if !f.IsInt() {
		return 0, fmt.Errorf("count %s is not an integer", n)
	}
	if f.Sign() < 0 {
		return 0, fmt.Errorf("negative count %s", n)
	}
	i, acc := f.Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("count %s out of range", n)
	}
	return i, nil
}
