package models

import (
	"encoding/json"

	"widgetry.dev/internal/gmap"
	"widgetry.dev/internal/timeline"
	"widgetry.dev/internal/widget"
)

// MapEntry is a rendered map together with the envelope of its overlays.
type MapEntry struct {
	widget.Rendered
	Bounds *gmap.LatLngBounds `json:"bounds,omitempty"`
}

// DataListEntry is a rendered data list. Page is set instead of the full
// render for pagination requests.
type DataListEntry struct {
	Rendered *widget.Rendered `json:"rendered,omitempty"`
	Page     string           `json:"page,omitempty"`
	RowCount int              `json:"rowCount"`
}

// ValidationEntry is the outcome of a date validation.
type ValidationEntry struct {
	Valid   bool   `json:"valid"`
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

// BehaviorEntry describes a decoded behavior event. Type names the concrete
// event variant.
type BehaviorEntry struct {
	Widget string      `json:"widget"`
	Type   string      `json:"type"`
	Event  interface{} `json:"event"`
}

// TimelineEntry is the stored form of a timeline.
type TimelineEntry struct {
	ID       string             `json:"id"`
	Timeline *timeline.Timeline `json:"timeline"`
	Model    timeline.Record    `json:"model"`
}

// TimelineRequest is the body of a timeline PUT. Timeline is decoded over
// the widget defaults, so it stays raw here.
type TimelineRequest struct {
	Timeline json.RawMessage `json:"timeline"`
	Model    timeline.Record `json:"model"`
}
