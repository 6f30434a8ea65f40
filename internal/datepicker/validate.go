// Package datepicker validates date picker submissions against configured
// constraints, renders the picker and decodes its behaviors.
package datepicker

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrMalformedValue is returned for values that cannot be validated at all,
// such as a range with a missing endpoint.
var ErrMalformedValue = errors.New("malformed date value")

type Result int

const (
	OK Result = iota
	BelowMin
	AboveMax
	OutOfRange
	DisabledDate
	InvalidRangeOrder
)

var resultNames = [...]string{
	OK:                "OK",
	BelowMin:          "BELOW_MIN",
	AboveMax:          "ABOVE_MAX",
	OutOfRange:        "OUT_OF_RANGE",
	DisabledDate:      "DISABLED_DATE",
	InvalidRangeOrder: "INVALID_RANGE_ORDER",
}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return fmt.Sprintf("Result(%d)", int(r))
	}
	return resultNames[r]
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	i := slices.Index(resultNames[:], name)
	if i < 0 {
		return fmt.Errorf("unknown validation result %q", name)
	}
	*r = Result(i)
	return nil
}

// Constraints restrict which dates a picker accepts. All day comparisons are
// made on the calendar date in Location, UTC when nil.
type Constraints struct {
	Min           *time.Time
	Max           *time.Time
	DisabledDates []time.Time
	DisabledDays  []time.Weekday
	Location      *time.Location
}

func (c Constraints) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// day is a calendar date.
type day struct {
	year  int
	month time.Month
	dom   int
}

func dayOf(t time.Time, loc *time.Location) day {
	y, m, d := t.In(loc).Date()
	return day{y, m, d}
}

func (d day) compare(o day) int {
	switch {
	case d.year != o.year:
		return d.year - o.year
	case d.month != o.month:
		return int(d.month - o.month)
	default:
		return d.dom - o.dom
	}
}

func (d day) weekday() time.Weekday {
	return time.Date(d.year, d.month, d.dom, 12, 0, 0, 0, time.UTC).Weekday()
}

// ValidateDate runs the single-date checks in order; the first failure wins.
func ValidateDate(c Constraints, t time.Time) Result {
	loc := c.location()
	d := dayOf(t, loc)

	if c.Min != nil && d.compare(dayOf(*c.Min, loc)) < 0 {
		if c.Max != nil {
			return OutOfRange
		}
		return BelowMin
	}
	if c.Max != nil && d.compare(dayOf(*c.Max, loc)) > 0 {
		if c.Min != nil {
			return OutOfRange
		}
		return AboveMax
	}
	for _, disabled := range c.DisabledDates {
		if d.compare(dayOf(disabled, loc)) == 0 {
			return DisabledDate
		}
	}
	if slices.Contains(c.DisabledDays, d.weekday()) {
		return DisabledDate
	}
	return OK
}

// ValidateRange validates start, then end, then their order.
func ValidateRange(c Constraints, start, end time.Time) Result {
	if r := ValidateDate(c, start); r != OK {
		return r
	}
	if r := ValidateDate(c, end); r != OK {
		return r
	}
	if start.After(end) {
		return InvalidRangeOrder
	}
	return OK
}

// Value is a submitted picker value. The set of implementations is closed.
type Value interface {
	pickerValue()
}

type Single struct {
	Date time.Time
}

type Range struct {
	Start time.Time
	End   time.Time
}

// Multiple is a set of independently picked dates.
type Multiple struct {
	Dates []time.Time
}

// TimeOnly is a time of day without a date.
type TimeOnly struct {
	Hour   int
	Minute int
	Second int
}

type YearMonth struct {
	Year  int
	Month time.Month
}

func (Single) pickerValue()    {}
func (Range) pickerValue()     {}
func (Multiple) pickerValue()  {}
func (TimeOnly) pickerValue()  {}
func (YearMonth) pickerValue() {}

// Validate checks v against c. Multiple and TimeOnly values always pass;
// a YearMonth is checked through the first day of its month.
func Validate(c Constraints, v Value) (Result, error) {
	switch v := v.(type) {
	case Single:
		if v.Date.IsZero() {
			return OK, fmt.Errorf("%w: empty date", ErrMalformedValue)
		}
		return ValidateDate(c, v.Date), nil
	case Range:
		if v.Start.IsZero() || v.End.IsZero() {
			return OK, fmt.Errorf("%w: range needs a start and an end", ErrMalformedValue)
		}
		return ValidateRange(c, v.Start, v.End), nil
	case Multiple, TimeOnly:
		return OK, nil
	case YearMonth:
		if v.Month < time.January || v.Month > time.December {
			return OK, fmt.Errorf("%w: month %d", ErrMalformedValue, v.Month)
		}
		return ValidateDate(c, time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, c.location())), nil
	case nil:
		return OK, fmt.Errorf("%w: no value", ErrMalformedValue)
	}
	return OK, fmt.Errorf("%w: unsupported value %T", ErrMalformedValue, v)
}
