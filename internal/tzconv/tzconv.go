// Package tzconv converts canonical UTC instants to and from the instants a
// browser must construct so that its local wall clock shows the time of a
// target zone.
package tzconv

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // IANA database for hosts without zoneinfo
)

// ErrInvalidZone is returned when a zone name cannot be resolved.
var ErrInvalidZone = errors.New("invalid time zone")

var offsetPattern = regexp.MustCompile(`^(?:UTC|GMT)?\s*([+-])(\d{1,2})(?::?(\d{2}))?$`)

// ResolveZone maps a zone name to a location. The empty string resolves to
// UTC; IANA names and offsets such as "UTC+05:30", "GMT-3" or "+0530" are
// accepted.
func ResolveZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch strings.ToUpper(name) {
	case "", "UTC", "GMT", "Z":
		return time.UTC, nil
	}

	if m := offsetPattern.FindStringSubmatch(strings.ToUpper(name)); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes := 0
		if m[3] != "" {
			minutes, _ = strconv.Atoi(m[3])
		}
		if hours > 14 || minutes > 59 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidZone, name)
		}
		offset := hours*3600 + minutes*60
		if m[1] == "-" {
			offset = -offset
		}
		return time.FixedZone(name, offset), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidZone, name, err)
	}
	return loc, nil
}

func offsetAt(t time.Time, loc *time.Location) time.Duration {
	_, secs := t.In(loc).Zone()
	return time.Duration(secs) * time.Second
}

// ToLocal shifts a canonical instant so that a browser in browser shows the
// wall clock of target for it.
func ToLocal(utc time.Time, browser, target *time.Location) time.Time {
	return utc.Add(offsetAt(utc, target) - offsetAt(utc, browser)).UTC()
}

// ToUTC reverses ToLocal. Offsets are resolved at the result instant, so the
// round trip is exact everywhere except inside DST gaps and overlaps.
func ToUTC(local time.Time, browser, target *time.Location) time.Time {
	guess := local.Add(offsetAt(local, browser) - offsetAt(local, target))
	for range 2 {
		next := local.Add(offsetAt(guess, browser) - offsetAt(guess, target))
		if next.Equal(guess) {
			break
		}
		guess = next
	}
	return guess.UTC()
}

// ParseMillis parses an epoch-milliseconds request value. The empty string
// means the value is absent and yields nil.
func ParseMillis(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid epoch millis %q: %w", value, err)
	}
	t := time.UnixMilli(ms).UTC()
	return &t, nil
}

// ParseToUTC parses a browser-local epoch value and converts it to UTC.
func ParseToUTC(value string, browser, target *time.Location) (*time.Time, error) {
	local, err := ParseMillis(value)
	if err != nil || local == nil {
		return nil, err
	}
	utc := ToUTC(*local, browser, target)
	return &utc, nil
}

// EncodeDate renders a canonical instant as a JavaScript Date constructor for
// a browser in browser displaying target.
func EncodeDate(utc time.Time, browser, target *time.Location) string {
	return "new Date(" + strconv.FormatInt(ToLocal(utc, browser, target).UnixMilli(), 10) + ")"
}
