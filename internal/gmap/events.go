package gmap

import (
	"fmt"
	"strconv"

	"widgetry.dev/internal/behavior"
)

// Event is a decoded map behavior. The set of implementations is closed.
type Event interface {
	mapEvent()
}

// OverlaySelectEvent carries the overlay the user clicked.
type OverlaySelectEvent struct {
	Overlay Overlay
}

// StateChangeEvent reports the viewport after a pan or zoom.
type StateChangeEvent struct {
	Bounds  LatLngBounds
	Zoom    int
	Center  LatLng
	SubType string
}

type PointSelectEvent struct {
	LatLng LatLng
}

// MarkerDragEvent carries a copy of the dragged marker at its new position.
type MarkerDragEvent struct {
	Marker Marker
}

type PassThroughEvent struct {
	Name string
}

func (OverlaySelectEvent) mapEvent() {}
func (StateChangeEvent) mapEvent()   {}
func (PointSelectEvent) mapEvent()   {}
func (MarkerDragEvent) mapEvent()    {}
func (PassThroughEvent) mapEvent()   {}

// Decode turns a behavior request into a typed map event. Requests from
// another source, and overlay or marker ids the model does not know, yield a
// PassThroughEvent.
func Decode(req behavior.Request, m *Map) (Event, error) {
	id := m.ClientID
	if !req.IsSource(id) {
		return PassThroughEvent{Name: req.Event}, nil
	}

	switch req.Event {
	case "overlaySelect":
		if m.Model == nil {
			break
		}
		overlay, ok := m.Model.FindOverlay(req.Param(id, "overlayId"))
		if !ok {
			break
		}
		return OverlaySelectEvent{Overlay: overlay}, nil

	case "stateChange":
		ne, err := ParseLatLng(req.Param(id, "northeast"))
		if err != nil {
			return nil, fmt.Errorf("error parsing northeast: %w", err)
		}
		sw, err := ParseLatLng(req.Param(id, "southwest"))
		if err != nil {
			return nil, fmt.Errorf("error parsing southwest: %w", err)
		}
		center, err := ParseLatLng(req.Param(id, "center"))
		if err != nil {
			return nil, fmt.Errorf("error parsing center: %w", err)
		}
		zoom, err := strconv.Atoi(req.Param(id, "zoom"))
		if err != nil {
			return nil, fmt.Errorf("error parsing zoom: %w", err)
		}
		return StateChangeEvent{
			Bounds:  LatLngBounds{NorthEast: ne, SouthWest: sw},
			Zoom:    zoom,
			Center:  center,
			SubType: req.Param(id, "subType"),
		}, nil

	case "pointSelect":
		point, err := ParseLatLng(req.Param(id, "pointLatLng"))
		if err != nil {
			return nil, fmt.Errorf("error parsing point: %w", err)
		}
		return PointSelectEvent{LatLng: point}, nil

	case "markerDrag":
		if m.Model == nil {
			break
		}
		marker, ok := m.Model.FindMarker(req.Param(id, "markerId"))
		if !ok {
			break
		}
		position, err := ParseLatLng(req.Param(id, "lat") + "," + req.Param(id, "lng"))
		if err != nil {
			return nil, fmt.Errorf("error parsing marker position: %w", err)
		}
		moved := *marker
		moved.Position = position
		return MarkerDragEvent{Marker: moved}, nil
	}

	return PassThroughEvent{Name: req.Event}, nil
}
