package datepicker

import (
	"strconv"
	"strings"
	"time"

	"widgetry.dev/internal/widget"
)

// DatePicker holds the widget attributes of a picker.
type DatePicker struct {
	ClientID       string        `json:"clientId"`
	WidgetVar      string        `json:"widgetVar,omitempty"`
	SelectionMode  SelectionMode `json:"selectionMode"`
	RangeSeparator string        `json:"rangeSeparator"`
	Value          string        `json:"value,omitempty"`
	Inline         bool          `json:"inline,omitempty"`
	Placeholder    string        `json:"placeholder,omitempty"`
	Locale         string        `json:"locale,omitempty"`
	ShowIcon       bool          `json:"showIcon,omitempty"`
	Style          string        `json:"style,omitempty"`
	StyleClass     string        `json:"styleClass,omitempty"`
	Constraints    Constraints   `json:"-"`
}

func NewDatePicker(clientID string) *DatePicker {
	return &DatePicker{
		ClientID:       clientID,
		SelectionMode:  ModeSingle,
		RangeSeparator: "-",
	}
}

// InputID is the id and name of the text input holding the value.
func (p *DatePicker) InputID() string {
	return p.ClientID + "_input"
}

// RenderOptions writes the client-side constraints and selection mode.
func RenderOptions(o *widget.Options, c Constraints, mode SelectionMode) *widget.Options {
	loc := c.location()
	day := func(t time.Time) string { return t.In(loc).Format(messageDateLayout) }

	if c.Min != nil {
		o.String("mindate", day(*c.Min))
	}
	if c.Max != nil {
		o.String("maxdate", day(*c.Max))
	}
	if len(c.DisabledDates) > 0 {
		dates := make([]string, len(c.DisabledDates))
		for i, t := range c.DisabledDates {
			dates[i] = day(t)
		}
		o.Strings("disabledDates", dates)
	}
	if len(c.DisabledDays) > 0 {
		days := make([]string, len(c.DisabledDays))
		for i, d := range c.DisabledDays {
			days[i] = strconv.Itoa(int(d))
		}
		o.Native("disabledDays", "["+strings.Join(days, ",")+"]")
	}
	if mode == "" {
		mode = ModeSingle
	}
	return o.StringUnless("selectionMode", string(mode), string(ModeSingle))
}

// Render produces the picker container, its input and the initialization
// script.
func Render(p *DatePicker) widget.Rendered {
	class := "ui-calendar"
	if p.StyleClass != "" {
		class += " " + p.StyleClass
	}
	inputClass := "ui-inputfield ui-widget ui-state-default ui-corner-all"
	inputType := "text"
	if p.Inline {
		inputType = "hidden"
	}

	markup := widget.NewMarkup().
		Start("span").
		Attr("id", p.ClientID).
		Attr("class", class).
		Attr("style", p.Style).
		Start("input").
		Attr("id", p.InputID()).
		Attr("name", p.InputID()).
		Attr("type", inputType).
		Attr("class", inputClass).
		Attr("value", p.Value).
		Attr("placeholder", p.Placeholder).
		EndVoid()
	if p.Inline {
		markup.Start("div").Attr("id", p.ClientID+"_inline").End()
	}

	script := widget.NewScript("DatePicker", p.WidgetVar, p.ClientID)
	o := script.Options()
	o.BoolUnless("inline", p.Inline, false).
		StringIf("locale", p.Locale).
		StringIf("defaultDate", p.Value)
	RenderOptions(o, p.Constraints, p.SelectionMode)
	switch p.SelectionMode {
	case ModeRange:
		o.StringUnless("rangeSeparator", p.RangeSeparator, "-")
	case ModeTime:
		o.Bool("timeOnly", true)
	case ModeYearMonth:
		o.String("view", "month")
	}
	o.BoolUnless("showIcon", p.ShowIcon, false)

	return widget.Rendered{
		Widget:    "DatePicker",
		WidgetVar: script.WidgetVar(),
		ClientID:  p.ClientID,
		Markup:    markup.String(),
		Script:    script.Finish(),
	}
}
