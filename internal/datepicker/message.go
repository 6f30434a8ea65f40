package datepicker

import (
	"fmt"
	"time"
)

const messageDateLayout = "2006-01-02"

// Message returns the text shown to the user for a failed validation, or ""
// for OK.
func Message(r Result, c Constraints) string {
	loc := c.location()
	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.In(loc).Format(messageDateLayout)
	}

	switch r {
	case BelowMin:
		return fmt.Sprintf("Date must be on or after %s.", format(c.Min))
	case AboveMax:
		return fmt.Sprintf("Date must be on or before %s.", format(c.Max))
	case OutOfRange:
		return fmt.Sprintf("Date must be between %s and %s.", format(c.Min), format(c.Max))
	case DisabledDate:
		return "Date is not available for selection."
	case InvalidRangeOrder:
		return "Start date must not be after end date."
	}
	return ""
}
