package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// HistoryEntry is one past upload as listed by the service. Entries are
// kept in the order the service returned them.
type HistoryEntry struct {
	ID         EntryID   `json:"id"`
	UploadedAt Timestamp `json:"uploaded_at"`
	Summary    *Result   `json:"summary"`
}

// UnmarshalJSON decodes an entry. A summary whose type_distribution cannot
// be read is kept without a distribution instead of failing the entry.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID         EntryID         `json:"id"`
		UploadedAt Timestamp       `json:"uploaded_at"`
		Summary    json.RawMessage `json:"summary"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	summary, err := parseSummary(aux.Summary)
	if err != nil {
		return err
	}
	*e = HistoryEntry{ID: aux.ID, UploadedAt: aux.UploadedAt, Summary: summary}
	return nil
}

// ParseHistory validates a history response against the history schema and
// decodes it.
func ParseHistory(data []byte) ([]HistoryEntry, error) {
	if err := ValidateHistory(data); err != nil {
		return nil, err
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, payloadError("decode history", err)
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

// EntryID is an upload identifier. The service may send any JSON scalar; the
// identifier is only ever echoed back in a report URL.
type EntryID struct {
	text     string
	isString bool
}

// NewEntryID builds an identifier from text typed by a user, e.g. on the
// command line. Numeric text is treated as a JSON number.
func NewEntryID(text string) EntryID {
	if !jsonNumber.MatchString(text) {
		return EntryID{text: text, isString: true}
	}
	return EntryID{text: canonicalNumber(text)}
}

var (
	jsonNumber  = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)
	jsonInteger = regexp.MustCompile(`^-?(0|[1-9]\d*)$`)
)

// canonicalNumber rewrites integral numbers such as 7.0 or 1e3 in plain
// integer form so they address the same report as 7 and 1000. Other
// literals are returned unchanged.
func canonicalNumber(text string) string {
	if jsonInteger.MatchString(text) {
		return text
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= 1<<53 {
		return text
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty id")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = EntryID{text: s, isString: true}
	case '{', '[':
		return fmt.Errorf("id must be a scalar, got %s", data)
	default:
		text := string(data)
		if jsonNumber.MatchString(text) {
			text = canonicalNumber(text)
		}
		*id = EntryID{text: text}
	}
	return nil
}

// MarshalJSON writes the identifier back in its original JSON kind.
func (id EntryID) MarshalJSON() ([]byte, error) {
	if id.isString {
		return json.Marshal(id.text)
	}
	if id.text == "" {
		return []byte("null"), nil
	}
	return []byte(id.text), nil
}

// String returns the canonical text form: the bare string for string IDs,
// the literal for everything else.
func (id EntryID) String() string { return id.text }

// IsZero reports whether no identifier was set.
func (id EntryID) IsZero() bool { return id.text == "" && !id.isString }

// PathSegment returns the identifier escaped for use inside a URL path.
func (id EntryID) PathSegment() string { return url.PathEscape(id.text) }

// Timestamp is an upload time as sent by the service: an ISO-8601 string or
// an epoch number in seconds or milliseconds. Values that cannot be parsed
// keep their raw text for display.
type Timestamp struct {
	Time  time.Time
	Raw   string
	Valid bool
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Epoch values above this are taken to be milliseconds (any seconds value
// this large is past the year 33000).
const epochMillisThreshold = 1e12

// UnmarshalJSON parses ISO-8601 strings and epoch numbers.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*ts = ParseTimestamp(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*ts = Timestamp{Raw: string(data)}
		return nil
	}
	*ts = FromEpoch(f)
	ts.Raw = string(data)
	return nil
}

// MarshalJSON writes the raw value when one was received.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Raw != "" {
		if _, err := strconv.ParseFloat(ts.Raw, 64); err == nil {
			return []byte(ts.Raw), nil
		}
		return json.Marshal(ts.Raw)
	}
	if ts.Valid {
		return json.Marshal(ts.Time.Format(time.RFC3339Nano))
	}
	return []byte("null"), nil
}

// ParseTimestamp parses an ISO-8601 string. Strings without a zone are
// read as UTC.
func ParseTimestamp(s string) Timestamp {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, Raw: s, Valid: true}
		}
	}
	return Timestamp{Raw: s}
}

// FromEpoch converts an epoch value in seconds or milliseconds.
func FromEpoch(v float64) Timestamp {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Timestamp{}
	}
	var t time.Time
	if math.Abs(v) >= epochMillisThreshold {
		t = time.UnixMilli(int64(v))
	} else {
		sec, frac := math.Modf(v)
		t = time.Unix(int64(sec), int64(frac*1e9))
	}
	return Timestamp{Time: t.UTC(), Valid: true}
}

// Local formats the timestamp in the local zone, or returns the raw value
// when it could not be parsed.
func (ts Timestamp) Local() string {
	if !ts.Valid {
		return ts.Raw
	}
	return ts.Time.Local().Format("2006-01-02 15:04:05")
}
