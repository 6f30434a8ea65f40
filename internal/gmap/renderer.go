// Package gmap renders Google Maps widgets and decodes their behavior events.
package gmap

import (
	"fmt"
	"strings"

	"widgetry.dev/internal/widget"
)

// Map holds the widget attributes of a map.
type Map struct {
	ClientID               string    `json:"clientId"`
	WidgetVar              string    `json:"widgetVar,omitempty"`
	Model                  *MapModel `json:"model,omitempty"`
	Type                   string    `json:"type"`
	Center                 string    `json:"center"`
	Zoom                   int       `json:"zoom"`
	FitBounds              bool      `json:"fitBounds"`
	DisableDefaultUI       bool      `json:"disableDefaultUI,omitempty"`
	NavigationControl      bool      `json:"navigationControl"`
	MapTypeControl         bool      `json:"mapTypeControl"`
	StreetView             bool      `json:"streetView,omitempty"`
	Draggable              bool      `json:"draggable"`
	DisableDoubleClickZoom bool      `json:"disableDoubleClickZoom,omitempty"`
	ScrollWheel            bool      `json:"scrollWheel"`
	OnPointClick           string    `json:"onPointClick,omitempty"`
	InfoWindowID           string    `json:"infoWindowId,omitempty"`
	Style                  string    `json:"style,omitempty"`
	StyleClass             string    `json:"styleClass,omitempty"`
	EncodedPaths           bool      `json:"encodedPaths,omitempty"`
}

// NewMap returns a map with the client defaults applied.
func NewMap(clientID string) *Map {
	return &Map{
		ClientID:          clientID,
		Type:              "roadmap",
		Zoom:              8,
		FitBounds:         true,
		NavigationControl: true,
		MapTypeControl:    true,
		Draggable:         true,
		ScrollWheel:       true,
	}
}

// Render produces the map container and its initialization script. The
// center must parse as "lat,lng".
func Render(m *Map) (widget.Rendered, error) {
	center, err := ParseLatLng(m.Center)
	if err != nil {
		return widget.Rendered{}, fmt.Errorf("error parsing center of map %q: %w", m.ClientID, err)
	}

	markup := widget.NewMarkup().
		Start("div").
		Attr("id", m.ClientID).
		Attr("style", m.Style).
		Attr("class", m.StyleClass).
		String()

	script := widget.NewScript("GMap", m.WidgetVar, m.ClientID)
	o := script.Options()

	mapType := m.Type
	if mapType == "" {
		mapType = "roadmap"
	}
	o.Native("mapTypeId", "google.maps.MapTypeId."+strings.ToUpper(mapType)).
		Native("center", latLng(center)).
		Int("zoom", m.Zoom).
		BoolUnless("fitBounds", m.FitBounds, true)

	encodeOverlays(o, m)

	o.BoolUnless("disableDefaultUI", m.DisableDefaultUI, false).
		BoolUnless("navigationControl", m.NavigationControl, true).
		BoolUnless("mapTypeControl", m.MapTypeControl, true).
		BoolUnless("streetViewControl", m.StreetView, false).
		BoolUnless("draggable", m.Draggable, true).
		BoolUnless("disableDoubleClickZoom", m.DisableDoubleClickZoom, false).
		BoolUnless("scrollwheel", m.ScrollWheel, true)

	if m.OnPointClick != "" {
		o.Callback("onPointClick", "function(event)", m.OnPointClick+";")
	}

	return widget.Rendered{
		Widget:    "GMap",
		WidgetVar: script.WidgetVar(),
		ClientID:  m.ClientID,
		Markup:    markup,
		Script:    script.Finish(),
	}, nil
}

func encodeOverlays(o *widget.Options, m *Map) {
	if model := m.Model; model != nil {
		if len(model.Markers) > 0 {
			o.Native("markers", list(model.Markers, encodeMarker))
		}
		if len(model.Polylines) > 0 {
			o.Native("polylines", list(model.Polylines, func(p *Polyline) string {
				return encodePolyline(p, m.EncodedPaths)
			}))
		}
		if len(model.Polygons) > 0 {
			o.Native("polygons", list(model.Polygons, func(p *Polygon) string {
				return encodePolygon(p, m.EncodedPaths)
			}))
		}
		if len(model.Circles) > 0 {
			o.Native("circles", list(model.Circles, encodeCircle))
		}
		if len(model.Rectangles) > 0 {
			o.Native("rectangles", list(model.Rectangles, encodeRectangle))
		}
	}

	if m.InfoWindowID != "" {
		o.Native("infoWindow", "new google.maps.InfoWindow({id:'"+widget.EscapeJS(m.InfoWindowID)+"'})")
	}
}

func list[T any](items []T, encode func(T) string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = encode(item)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func latLng(l LatLng) string {
	return "new google.maps.LatLng(" + l.String() + ")"
}

func singleQuoted(s string) string {
	return "'" + widget.EscapeJS(s) + "'"
}

func encodeMarker(mk *Marker) string {
	o := widget.NewOptions().
		Native("position", latLng(mk.Position)).
		Native("id", singleQuoted(mk.ID)).
		StringIf("title", mk.Title)
	if mk.Icon != "" {
		o.Native("icon", singleQuoted(mk.Icon))
	}
	if mk.Shadow != "" {
		o.Native("shadow", singleQuoted(mk.Shadow))
	}
	if mk.Cursor != "" {
		o.Native("cursor", singleQuoted(mk.Cursor))
	}
	o.BoolUnless("draggable", mk.Draggable, false).
		BoolUnless("visible", mk.Visible, true).
		BoolUnless("flat", mk.Flat, false)
	zIndex(o, mk.ZIndex)
	return "new google.maps.Marker(" + o.Object() + ")"
}

func encodePath(o *widget.Options, path []LatLng, encoded bool) {
	if encoded {
		o.Native("path", "google.maps.geometry.encoding.decodePath("+widget.Quote(EncodePath(path))+")")
		return
	}
	o.Native("path", list(path, latLng))
}

func encodeStroke(o *widget.Options, s Stroke) {
	o.Float("strokeOpacity", s.StrokeOpacity).
		Int("strokeWeight", s.StrokeWeight)
}

func encodeColors(o *widget.Options, s Stroke, f *Fill) {
	if s.StrokeColor != "" {
		o.Native("strokeColor", singleQuoted(s.StrokeColor))
	}
	if f != nil && f.FillColor != "" {
		o.Native("fillColor", singleQuoted(f.FillColor))
	}
	zIndex(o, s.ZIndex)
}

func zIndex(o *widget.Options, z *int) {
	if z != nil {
		o.Int("zIndex", *z)
	}
}

func encodePolyline(p *Polyline, encoded bool) string {
	o := widget.NewOptions().Native("id", singleQuoted(p.ID))
	encodePath(o, p.Path, encoded)
	encodeStroke(o, p.Stroke)
	encodeColors(o, p.Stroke, nil)
	o.NativeIf("icons", p.Icons)
	return "new google.maps.Polyline(" + o.Object() + ")"
}

func encodePolygon(p *Polygon, encoded bool) string {
	o := widget.NewOptions().Native("id", singleQuoted(p.ID))
	encodePath(o, p.Path, encoded)
	encodeStroke(o, p.Stroke)
	o.Float("fillOpacity", p.FillOpacity)
	encodeColors(o, p.Stroke, &p.Fill)
	return "new google.maps.Polygon(" + o.Object() + ")"
}

func encodeCircle(c *Circle) string {
	o := widget.NewOptions().
		Native("id", singleQuoted(c.ID)).
		Native("center", latLng(c.Center)).
		Float("radius", c.Radius)
	encodeStroke(o, c.Stroke)
	o.Float("fillOpacity", c.FillOpacity)
	encodeColors(o, c.Stroke, &c.Fill)
	return "new google.maps.Circle(" + o.Object() + ")"
}

func encodeRectangle(r *Rectangle) string {
	bounds := "new google.maps.LatLngBounds(" + latLng(r.Bounds.SouthWest) + ", " + latLng(r.Bounds.NorthEast) + ")"
	o := widget.NewOptions().
		Native("id", singleQuoted(r.ID)).
		Native("bounds", bounds)
	encodeStroke(o, r.Stroke)
	o.Float("fillOpacity", r.FillOpacity)
	encodeColors(o, r.Stroke, &r.Fill)
	return "new google.maps.Rectangle(" + o.Object() + ")"
}
