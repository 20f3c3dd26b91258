package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// Timestamp is an optional date field as authored in the content store.
// Authors enter either a full RFC 3339 timestamp or a bare calendar date.
type Timestamp struct {
	time.Time
}

// At wraps t as an optional date field.
func At(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// Date builds a date-only Timestamp in UTC.
func Date(year int, month time.Month, day int) *Timestamp {
	return At(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseTimestamp accepts RFC 3339 (with or without fractional seconds) or YYYY-MM-DD.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, dateOnlyLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised date %q: want RFC 3339 or YYYY-MM-DD", s)
}

// MarshalJSON renders the timestamp in RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// UnmarshalJSON accepts the same layouts as ParseTimestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// GormDataType stores timestamps in a datetime column.
func (Timestamp) GormDataType() string {
	return "datetime"
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	return t.Time.UTC(), nil
}

// Scan implements sql.Scanner. SQLite hands datetimes back as time.Time or text
// depending on how the column was declared.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.scanText(v)
	case []byte:
		return t.scanText(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}

func (t *Timestamp) scanText(s string) error {
	for _, layout := range []string{"2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05", time.RFC3339Nano, dateOnlyLayout} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse stored date %q", s)
}
