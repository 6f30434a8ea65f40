package datepicker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"widgetry.dev/internal/behavior"
)

// BehaviorEvent is a decoded picker behavior. The set of implementations is
// closed; switch on the concrete type.
type BehaviorEvent interface {
	pickerEvent()
}

// SelectEvent is emitted for dateSelect and close when the submitted value
// validates.
type SelectEvent struct {
	Name  string `json:"name"`
	Value Value  `json:"-"`
}

// RejectedEvent is a dateSelect or close whose value failed validation.
type RejectedEvent struct {
	Name    string `json:"name"`
	Result  Result `json:"result"`
	Message string `json:"message"`
}

type ViewChangeEvent struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

type PassThroughEvent struct {
	Name string `json:"name"`
}

func (SelectEvent) pickerEvent()      {}
func (RejectedEvent) pickerEvent()    {}
func (ViewChangeEvent) pickerEvent()  {}
func (PassThroughEvent) pickerEvent() {}

// ParseSubmitted reads the text of the picker input according to its
// selection mode.
func ParseSubmitted(p *DatePicker, s string) (Value, error) {
	loc := p.Constraints.location()
	switch p.SelectionMode {
	case ModeRange:
		sep := p.RangeSeparator
		if sep == "" {
			sep = "-"
		}
		start, end, ok := strings.Cut(s, " "+sep+" ")
		if !ok {
			return nil, fmt.Errorf("%w: range %q has no separator", ErrMalformedValue, s)
		}
		return ValueRecord{Mode: ModeRange, Start: start, End: end}.Value(loc)
	case ModeMultiple:
		var dates []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				dates = append(dates, part)
			}
		}
		return ValueRecord{Mode: ModeMultiple, Dates: dates}.Value(loc)
	case ModeTime:
		return ParseTimeOnly(s)
	case ModeYearMonth:
		return ParseYearMonth(s)
	}
	return ValueRecord{Mode: ModeSingle, Date: s}.Value(loc)
}

// Decode maps a behavior request onto a typed event. The submitted value is
// read from the picker input.
func Decode(req behavior.Request, p *DatePicker) (BehaviorEvent, error) {
	if !req.IsSource(p.ClientID) {
		return PassThroughEvent{Name: req.Event}, nil
	}

	switch req.Event {
	case "dateSelect", "close":
		v, err := ParseSubmitted(p, req.Params.Get(p.InputID()))
		if err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", req.Event, err)
		}
		result, err := Validate(p.Constraints, v)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", req.Event, err)
		}
		if result != OK {
			return RejectedEvent{Name: req.Event, Result: result, Message: Message(result, p.Constraints)}, nil
		}
		return SelectEvent{Name: req.Event, Value: v}, nil

	case "viewChange":
		month, err := strconv.Atoi(req.Param(p.ClientID, "month"))
		if err != nil {
			return nil, fmt.Errorf("error parsing month: %w", err)
		}
		year, err := strconv.Atoi(req.Param(p.ClientID, "year"))
		if err != nil {
			return nil, fmt.Errorf("error parsing year: %w", err)
		}
		return ViewChangeEvent{Month: time.Month(month), Year: year}, nil
	}

	return PassThroughEvent{Name: req.Event}, nil
}
