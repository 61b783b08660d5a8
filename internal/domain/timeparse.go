package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Microseconds since midnight, the representation Postgres TIME uses.
func (t TimeOfDay) Microseconds() int64 {
	return (int64(t.Hour)*3600 + int64(t.Minute)*60 + int64(t.Second)) * int64(time.Second/time.Microsecond)
}

func TimeOfDayFromMicroseconds(us int64) TimeOfDay {
	secs := us / int64(time.Second/time.Microsecond)
	return TimeOfDay{Hour: int(secs / 3600), Minute: int(secs % 3600 / 60), Second: int(secs % 60)}
}

func timeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// DefaultSlotTime is used when a cart's free-text time cannot be parsed.
var DefaultSlotTime = TimeOfDay{Hour: 10}

// slotTimeFormats are tried in order against the cart's selected time.
var slotTimeFormats = []string{
	"03:04 PM",
	"3:04 PM",
	"03:04PM",
	"3:04PM",
	"15:04",
	"15:04:05",
}

// ParseSlotTime parses a user-entered slot time. ok is false when every
// format failed and fallback was returned instead.
func ParseSlotTime(raw string, fallback TimeOfDay) (TimeOfDay, bool) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range slotTimeFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return timeOfDayFrom(t), true
		}
	}
	return fallback, false
}

// ParseClockTime accepts HH:MM or HH:MM:SS with nothing else around it.
func ParseClockTime(raw string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return timeOfDayFrom(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM:SS", raw)
}

// ParseISODate parses a YYYY-MM-DD calendar date.
func ParseISODate(raw string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD: %w", raw, err)
	}
	return t, nil
}

var naiveTimestampFormats = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp accepts RFC 3339 timestamps and zone-less ones. Zone-less
// values are read as UTC, the zone every timestamp is stored in.
func ParseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return NormalizeTimestamp(t), nil
	}
	for _, layout := range naiveTimestampFormats {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// NormalizeTimestamp is the single place instants are brought into UTC
// before they are compared or stored.
func NormalizeTimestamp(t time.Time) time.Time {
	return t.UTC()
}
