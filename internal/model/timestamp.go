package model

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is a match start time as sent by the dashboard API. The backend
// emits either epoch seconds or zone-less ISO date-times; both decode here.
type Timestamp struct {
	time.Time
}

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 1e12

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses the string forms accepted by UnmarshalJSON.
// Zone-less values are interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (Timestamp, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromEpoch(n).In(loc), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func fromEpoch(n int64) Timestamp {
	if n >= epochMillisThreshold {
		return Timestamp{Time: time.UnixMilli(n)}
	}
	return Timestamp{Time: time.Unix(n, 0)}
}

// In returns the timestamp converted to loc.
func (t Timestamp) In(loc *time.Location) Timestamp {
	return Timestamp{Time: t.Time.In(loc)}
}

// UnmarshalJSON accepts null, epoch numbers and date strings.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if b[0] != '"' {
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("decode timestamp: %w", err)
		}
		*t = fromEpoch(int64(n))
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s, time.Local)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON writes RFC 3339, or null for the zero time.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.Format(time.RFC3339))), nil
}
