package codec

import (
	"fmt"
	"time"
)

// timestampLayouts are tried in order. RFC 3339 comes first; the rest cover
// ISO 8601 basic offsets (+hhmm) and offset-less local times, which BCO
// tooling commonly emits. Go accepts fractional seconds after the seconds
// field in every layout.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses a BCO date-time value and normalizes it to UTC.
// Offset-less values are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("codec: %q is not an RFC 3339 / ISO 8601 date-time", s)
}

// FormatTimestamp renders the canonical wire form: UTC, RFC 3339 with
// trailing zero fractions trimmed.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
