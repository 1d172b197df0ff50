package pass

import (
	"encoding/json"
	"fmt"
	"time"
)

// naiveLayout is accepted on input only and is interpreted as UTC.
const naiveLayout = "2006-01-02T15:04:05"

// Timestamp is a date in pass.json. It is written as RFC 3339 with whole seconds.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds, the precision pass.json can carry.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

func (t Timestamp) IsZero() bool { return t.Time.IsZero() }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimestamp accepts RFC 3339, RFC 2822 and naive ISO 8601 dates.
func ParseTimestamp(s string) (Timestamp, error) {
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		return NewTimestamp(parsed), nil
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(parsed), nil
		}
	}
	if parsed, err := time.ParseInLocation(naiveLayout, s, time.UTC); err == nil {
		return NewTimestamp(parsed), nil
	}
	return Timestamp{}, fmt.Errorf("invalid date %q", s)
}
