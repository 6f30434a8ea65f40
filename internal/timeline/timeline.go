// Package timeline renders vis.js timeline widgets from an event model and
// decodes the behaviors the client posts back.
package timeline

import (
	"fmt"
	"time"

	"widgetry.dev/internal/tzconv"
)

// Timeline holds the widget attributes. Use NewTimeline for the client
// defaults; JSON decoded into its result keeps defaults for absent keys.
type Timeline struct {
	ClientID        string `json:"clientId"`
	WidgetVar       string `json:"widgetVar,omitempty"`
	Style           string `json:"style,omitempty"`
	StyleClass      string `json:"styleClass,omitempty"`
	TimeZone        string `json:"timeZone,omitempty"`
	BrowserTimeZone string `json:"browserTimeZone,omitempty"`

	Height          string `json:"height,omitempty"`
	MinHeight       string `json:"minHeight,omitempty"`
	MaxHeight       string `json:"maxHeight,omitempty"`
	Width           string `json:"width"`
	Responsive      bool   `json:"responsive"`
	OrientationAxis string `json:"orientationAxis"`
	OrientationItem string `json:"orientationItem"`

	Editable              bool  `json:"editable"`
	EditableAdd           *bool `json:"editableAdd,omitempty"`
	EditableRemove        *bool `json:"editableRemove,omitempty"`
	EditableTime          *bool `json:"editableTime,omitempty"`
	EditableGroup         *bool `json:"editableGroup,omitempty"`
	EditableOverrideItems bool  `json:"editableOverrideItems,omitempty"`

	Selectable bool       `json:"selectable"`
	Zoomable   bool       `json:"zoomable"`
	Moveable   bool       `json:"moveable"`
	Start      *time.Time `json:"start,omitempty"`
	End        *time.Time `json:"end,omitempty"`
	Min        *time.Time `json:"min,omitempty"`
	Max        *time.Time `json:"max,omitempty"`
	ZoomMin    int64      `json:"zoomMin"`
	ZoomMax    int64      `json:"zoomMax"`

	PreloadFactor         float64 `json:"preloadFactor"`
	EventMarginAxis       int     `json:"eventMarginAxis"`
	EventHorizontalMargin int     `json:"eventHorizontalMargin"`
	EventVerticalMargin   int     `json:"eventVerticalMargin"`
	EventStyle            string  `json:"eventStyle,omitempty"`
	GroupsOrder           bool    `json:"groupsOrder"`
	GroupStyle            string  `json:"groupStyle,omitempty"`
	Snap                  string  `json:"snap,omitempty"`
	StackEvents           bool    `json:"stackEvents"`
	ShowCurrentTime       bool    `json:"showCurrentTime"`
	ShowMajorLabels       bool    `json:"showMajorLabels"`
	ShowMinorLabels       bool    `json:"showMinorLabels"`
	Locale                string  `json:"locale"`
	ClickToUse            bool    `json:"clickToUse,omitempty"`
	ShowTooltips          bool    `json:"showTooltips"`
	TooltipFollowMouse    bool    `json:"tooltipFollowMouse,omitempty"`
	TooltipOverflowMethod string  `json:"tooltipOverflowMethod"`
	TooltipDelay          int     `json:"tooltipDelay"`
	RTL                   bool    `json:"rtl,omitempty"`

	DropHoverStyleClass  string `json:"dropHoverStyleClass,omitempty"`
	DropActiveStyleClass string `json:"dropActiveStyleClass,omitempty"`
	DropAccept           string `json:"dropAccept,omitempty"`
	DropScope            string `json:"dropScope,omitempty"`
	Extender             string `json:"extender,omitempty"`

	// Menu and Loading are trusted pre-rendered HTML fragments, written into
	// the markup unescaped.
	Menu    string `json:"menu,omitempty"`
	Loading string `json:"loading,omitempty"`
}

func NewTimeline(clientID string) *Timeline {
	return &Timeline{
		ClientID:              clientID,
		Width:                 "100%",
		Responsive:            true,
		OrientationAxis:       "bottom",
		OrientationItem:       "bottom",
		Selectable:            true,
		Zoomable:              true,
		Moveable:              true,
		ZoomMin:               10,
		ZoomMax:               315360000000000,
		EventMarginAxis:       20,
		EventHorizontalMargin: 10,
		EventVerticalMargin:   10,
		GroupsOrder:           true,
		StackEvents:           true,
		ShowCurrentTime:       true,
		ShowMajorLabels:       true,
		ShowMinorLabels:       true,
		Locale:                "en",
		ShowTooltips:          true,
		TooltipOverflowMethod: "flip",
		TooltipDelay:          500,
	}
}

func flag(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

func (t *Timeline) IsEditableAdd() bool    { return flag(t.EditableAdd, t.Editable) }
func (t *Timeline) IsEditableRemove() bool { return flag(t.EditableRemove, t.Editable) }
func (t *Timeline) IsEditableTime() bool   { return flag(t.EditableTime, t.Editable) }
func (t *Timeline) IsEditableGroup() bool  { return flag(t.EditableGroup, t.Editable) }

// Zones resolves the browser and target zones. An empty name falls back to
// def, and to UTC when def is nil.
func (t *Timeline) Zones(def *time.Location) (browser, target *time.Location, err error) {
	browser, err = zoneOr(t.BrowserTimeZone, def)
	if err != nil {
		return nil, nil, fmt.Errorf("error resolving browser time zone: %w", err)
	}
	target, err = zoneOr(t.TimeZone, def)
	if err != nil {
		return nil, nil, fmt.Errorf("error resolving time zone: %w", err)
	}
	return browser, target, nil
}

func zoneOr(name string, def *time.Location) (*time.Location, error) {
	if name == "" && def != nil {
		return def, nil
	}
	return tzconv.ResolveZone(name)
}
