package datepicker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"widgetry.dev/internal/tzconv"
)

// Date layouts accepted for submitted values, tried in order. Layouts
// without an offset are read in the constraint location.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate reads s in any of the accepted layouts.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse date %q", ErrMalformedValue, s)
}

// ConstraintsRecord is the wire form of Constraints. Dates use
// any layout ParseDate accepts. DisabledDays counts like time.Weekday and the
// client widget, Sunday = 0 through Saturday = 6; ISO numbering with
// Sunday = 7 is rejected.
type ConstraintsRecord struct {
	Min           string   `json:"min,omitempty" yaml:"min,omitempty"`
	Max           string   `json:"max,omitempty" yaml:"max,omitempty"`
	DisabledDates []string `json:"disabledDates,omitempty" yaml:"disabledDates,omitempty"`
	DisabledDays  []int    `json:"disabledDays,omitempty" yaml:"disabledDays,omitempty"`
	TimeZone      string   `json:"timeZone,omitempty" yaml:"timeZone,omitempty"`
}

// Constraints resolves the record. An empty time zone falls back to def.
func (r ConstraintsRecord) Constraints(def *time.Location) (Constraints, error) {
	loc := def
	if r.TimeZone != "" || loc == nil {
		var err error
		loc, err = tzconv.ResolveZone(r.TimeZone)
		if err != nil {
			return Constraints{}, fmt.Errorf("error resolving picker time zone: %w", err)
		}
	}

	c := Constraints{Location: loc}
	if r.Min != "" {
		t, err := ParseDate(r.Min, loc)
		if err != nil {
			return Constraints{}, fmt.Errorf("error parsing min: %w", err)
		}
		c.Min = &t
	}
	if r.Max != "" {
		t, err := ParseDate(r.Max, loc)
		if err != nil {
			return Constraints{}, fmt.Errorf("error parsing max: %w", err)
		}
		c.Max = &t
	}
	for _, s := range r.DisabledDates {
		t, err := ParseDate(s, loc)
		if err != nil {
			return Constraints{}, fmt.Errorf("error parsing disabled date: %w", err)
		}
		c.DisabledDates = append(c.DisabledDates, t)
	}
	for _, d := range r.DisabledDays {
		if d < 0 || d > 6 {
			return Constraints{}, fmt.Errorf("%w: disabled day %d is not a weekday", ErrMalformedValue, d)
		}
		c.DisabledDays = append(c.DisabledDays, time.Weekday(d))
	}
	return c, nil
}

type SelectionMode string

const (
	ModeSingle    SelectionMode = "single"
	ModeRange     SelectionMode = "range"
	ModeMultiple  SelectionMode = "multiple"
	ModeTime      SelectionMode = "time"
	ModeYearMonth SelectionMode = "month"
)

// ValueRecord is the wire form of a Value. Which fields are read depends on
// Mode.
type ValueRecord struct {
	Mode  SelectionMode `json:"mode"`
	Date  string        `json:"date,omitempty"`
	Start string        `json:"start,omitempty"`
	End   string        `json:"end,omitempty"`
	Dates []string      `json:"dates,omitempty"`
	Time  string        `json:"time,omitempty"`
	Month string        `json:"month,omitempty"`
}

// Value resolves the record in loc.
func (r ValueRecord) Value(loc *time.Location) (Value, error) {
	switch r.Mode {
	case ModeSingle, "":
		t, err := ParseDate(r.Date, loc)
		if err != nil {
			return nil, err
		}
		return Single{Date: t}, nil
	case ModeRange:
		start, err := ParseDate(r.Start, loc)
		if err != nil {
			return nil, fmt.Errorf("error parsing range start: %w", err)
		}
		end, err := ParseDate(r.End, loc)
		if err != nil {
			return nil, fmt.Errorf("error parsing range end: %w", err)
		}
		return Range{Start: start, End: end}, nil
	case ModeMultiple:
		m := Multiple{Dates: make([]time.Time, 0, len(r.Dates))}
		for _, s := range r.Dates {
			t, err := ParseDate(s, loc)
			if err != nil {
				return nil, err
			}
			m.Dates = append(m.Dates, t)
		}
		return m, nil
	case ModeTime:
		return ParseTimeOnly(r.Time)
	case ModeYearMonth:
		return ParseYearMonth(r.Month)
	}
	return nil, fmt.Errorf("%w: unknown selection mode %q", ErrMalformedValue, r.Mode)
}

// ParseTimeOnly reads "15:04" or "15:04:05".
func ParseTimeOnly(s string) (TimeOnly, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return TimeOnly{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOnly{}, fmt.Errorf("%w: cannot parse time %q", ErrMalformedValue, s)
}

// ParseYearMonth reads "2006-01".
func ParseYearMonth(s string) (YearMonth, error) {
	year, month, ok := strings.Cut(strings.TrimSpace(s), "-")
	if ok {
		y, yerr := strconv.Atoi(year)
		m, merr := strconv.Atoi(month)
		if yerr == nil && merr == nil && m >= 1 && m <= 12 {
			return YearMonth{Year: y, Month: time.Month(m)}, nil
		}
	}
	return YearMonth{}, fmt.Errorf("%w: cannot parse month %q", ErrMalformedValue, s)
}

// RecordOf is the inverse of ValueRecord.Value. Dates are written as days in
// their own location.
func RecordOf(v Value) ValueRecord {
	const day = "2006-01-02"
	switch v := v.(type) {
	case Single:
		return ValueRecord{Mode: ModeSingle, Date: v.Date.Format(day)}
	case Range:
		return ValueRecord{Mode: ModeRange, Start: v.Start.Format(day), End: v.End.Format(day)}
	case Multiple:
		r := ValueRecord{Mode: ModeMultiple, Dates: make([]string, len(v.Dates))}
		for i, t := range v.Dates {
			r.Dates[i] = t.Format(day)
		}
		return r
	case TimeOnly:
		return ValueRecord{Mode: ModeTime, Time: fmt.Sprintf("%02d:%02d:%02d", v.Hour, v.Minute, v.Second)}
	case YearMonth:
		return ValueRecord{Mode: ModeYearMonth, Month: fmt.Sprintf("%04d-%02d", v.Year, int(v.Month))}
	}
	return ValueRecord{}
}
