package datepicker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func TestValidateDate(t *testing.T) {
	jan1 := date(2024, 1, 1)
	jan31 := date(2024, 1, 31)

	tests := []struct {
		name string
		c    Constraints
		d    time.Time
		want Result
	}{
		{"no constraints", Constraints{}, jan1, OK},
		{"within bounds", Constraints{Min: &jan1, Max: &jan31}, date(2024, 1, 15), OK},
		{"on min", Constraints{Min: &jan1, Max: &jan31}, jan1, OK},
		{"on max later in the day", Constraints{Min: &jan1, Max: &jan31}, jan31.Add(23 * time.Hour), OK},
		{"below min only", Constraints{Min: &jan1}, date(2023, 12, 31), BelowMin},
		{"below min with max", Constraints{Min: &jan1, Max: &jan31}, date(2023, 12, 31), OutOfRange},
		{"above max only", Constraints{Max: &jan31}, date(2024, 2, 1), AboveMax},
		{"above max with min", Constraints{Min: &jan1, Max: &jan31}, date(2024, 2, 1), OutOfRange},
		{"disabled date", Constraints{DisabledDates: []time.Time{jan1}}, jan1.Add(10 * time.Hour), DisabledDate},
		{"disabled date within bounds", Constraints{Min: &jan1, Max: &jan31, DisabledDates: []time.Time{jan1}}, jan1, DisabledDate},
		{"disabled weekday", Constraints{DisabledDays: []time.Weekday{time.Saturday, time.Sunday}}, date(2024, 1, 6), DisabledDate},
		{"enabled weekday", Constraints{DisabledDays: []time.Weekday{time.Saturday, time.Sunday}}, date(2024, 1, 8), OK},
		{"range beats disabled", Constraints{Min: &jan31, DisabledDates: []time.Time{jan1}}, jan1, BelowMin},
		{"same day of another month", Constraints{DisabledDates: []time.Time{date(2024, 2, 1)}}, jan1, OK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateDate(tt.c, tt.d))
		})
	}
}

func TestValidateDateUsesConstraintLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 2024-01-01T20:00Z is already 2 January in Kolkata.
	c := Constraints{DisabledDates: []time.Time{time.Date(2024, 1, 2, 0, 0, 0, 0, kolkata)}, Location: kolkata}
	assert.Equal(t, DisabledDate, ValidateDate(c, time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)))

	c.Location = time.UTC
	assert.Equal(t, OK, ValidateDate(c, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)))
}

func TestValidateRange(t *testing.T) {
	jan1 := date(2024, 1, 1)
	mar1 := date(2024, 3, 1)

	tests := []struct {
		name       string
		c          Constraints
		start, end time.Time
		want       Result
	}{
		{"ordered", Constraints{}, date(2024, 2, 1), date(2024, 2, 10), OK},
		{"reversed", Constraints{}, date(2024, 2, 10), date(2024, 2, 1), InvalidRangeOrder},
		{"same day", Constraints{}, date(2024, 2, 1), date(2024, 2, 1), OK},
		{"start fails first", Constraints{Min: &jan1}, date(2023, 2, 10), date(2022, 2, 1), BelowMin},
		{"end fails", Constraints{Max: &mar1}, date(2024, 2, 10), date(2024, 4, 1), AboveMax},
		{"end disabled before order", Constraints{DisabledDates: []time.Time{date(2024, 2, 1)}}, date(2024, 2, 10), date(2024, 2, 1), DisabledDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.c, Range{Start: tt.start, End: tt.end})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateValueKinds(t *testing.T) {
	c := Constraints{Min: ptr(date(2024, 1, 1))}

	got, err := Validate(c, Multiple{Dates: []time.Time{date(2000, 1, 1)}})
	require.NoError(t, err)
	assert.Equal(t, OK, got)

	got, err = Validate(c, TimeOnly{Hour: 3})
	require.NoError(t, err)
	assert.Equal(t, OK, got)

	got, err = Validate(c, YearMonth{Year: 2023, Month: time.December})
	require.NoError(t, err)
	assert.Equal(t, BelowMin, got)

	got, err = Validate(c, YearMonth{Year: 2024, Month: time.January})
	require.NoError(t, err)
	assert.Equal(t, OK, got)
}

func TestValidateMalformed(t *testing.T) {
	for name, v := range map[string]Value{
		"zero single": Single{},
		"zero start":  Range{End: date(2024, 1, 1)},
		"zero end":    Range{Start: date(2024, 1, 1)},
		"bad month":   YearMonth{Year: 2024, Month: 13},
		"no value":    nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Validate(Constraints{}, v)
			assert.ErrorIs(t, err, ErrMalformedValue)
		})
	}
}

func TestResultJSON(t *testing.T) {
	data, err := json.Marshal(InvalidRangeOrder)
	require.NoError(t, err)
	assert.JSONEq(t, `"INVALID_RANGE_ORDER"`, string(data))

	var r Result
	require.NoError(t, json.Unmarshal([]byte(`"OUT_OF_RANGE"`), &r))
	assert.Equal(t, OutOfRange, r)

	assert.Error(t, json.Unmarshal([]byte(`"MAYBE"`), &r))
	assert.Equal(t, "Result(42)", Result(42).String())
}

func TestMessage(t *testing.T) {
	c := Constraints{Min: ptr(date(2024, 1, 1)), Max: ptr(date(2024, 1, 31))}

	assert.Empty(t, Message(OK, c))
	assert.Equal(t, "Date must be between 2024-01-01 and 2024-01-31.", Message(OutOfRange, c))
	assert.Equal(t, "Date must be on or after 2024-01-01.", Message(BelowMin, c))
	assert.Equal(t, "Date must be on or before 2024-01-31.", Message(AboveMax, c))
	assert.Equal(t, "Start date must not be after end date.", Message(InvalidRangeOrder, c))
}
