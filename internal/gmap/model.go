package gmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/twpayne/go-polyline"
)

var ErrInvalidLatLng = errors.New("invalid lat/lng")

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ParseLatLng parses the "lat,lng" form the client posts.
func ParseLatLng(value string) (LatLng, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return LatLng{}, fmt.Errorf("%w: %q", ErrInvalidLatLng, value)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("%w: %q", ErrInvalidLatLng, value)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("%w: %q", ErrInvalidLatLng, value)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return LatLng{}, fmt.Errorf("%w: %q out of range", ErrInvalidLatLng, value)
	}
	return LatLng{Lat: lat, Lng: lng}, nil
}

func (l LatLng) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

type LatLngBounds struct {
	NorthEast LatLng `json:"northEast"`
	SouthWest LatLng `json:"southWest"`
}

// Overlay is anything drawn on a map.
type Overlay interface {
	OverlayID() string
}

type Marker struct {
	ID        string `json:"id,omitempty"`
	Position  LatLng `json:"position"`
	Title     string `json:"title,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Shadow    string `json:"shadow,omitempty"`
	Cursor    string `json:"cursor,omitempty"`
	Draggable bool   `json:"draggable,omitempty"`
	Visible   bool   `json:"visible"`
	Flat      bool   `json:"flat,omitempty"`
	ZIndex    *int   `json:"zIndex,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func NewMarker(position LatLng, title string) *Marker {
	return &Marker{Position: position, Title: title, Visible: true}
}

func (m *Marker) OverlayID() string { return m.ID }

func (m *Marker) UnmarshalJSON(data []byte) error {
	type plain Marker
	p := plain{Visible: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Marker(p)
	return nil
}

// Stroke is shared by every shape overlay.
type Stroke struct {
	StrokeColor   string  `json:"strokeColor,omitempty"`
	StrokeOpacity float64 `json:"strokeOpacity"`
	StrokeWeight  int     `json:"strokeWeight"`
	ZIndex        *int    `json:"zIndex,omitempty"`
}

func defaultStroke() Stroke {
	return Stroke{StrokeOpacity: 1, StrokeWeight: 1}
}

// Fill is shared by closed shapes.
type Fill struct {
	FillColor   string  `json:"fillColor,omitempty"`
	FillOpacity float64 `json:"fillOpacity"`
}

func defaultFill() Fill {
	return Fill{FillOpacity: 1}
}

type Polyline struct {
	ID   string   `json:"id,omitempty"`
	Path []LatLng `json:"path"`
	// EncodedPath is accepted on input in place of Path.
	EncodedPath string `json:"encodedPath,omitempty"`
	Icons       string `json:"icons,omitempty"`
	Stroke
}

func NewPolyline(path ...LatLng) *Polyline {
	return &Polyline{Path: path, Stroke: defaultStroke()}
}

func (p *Polyline) OverlayID() string { return p.ID }

func (p *Polyline) UnmarshalJSON(data []byte) error {
	type plain Polyline
	v := plain{Stroke: defaultStroke()}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Polyline(v)
	return p.decodePath()
}

func (p *Polyline) decodePath() error {
	if len(p.Path) > 0 || p.EncodedPath == "" {
		return nil
	}
	path, err := DecodePath(p.EncodedPath)
	if err != nil {
		return err
	}
	p.Path = path
	p.EncodedPath = ""
	return nil
}

type Polygon struct {
	ID          string   `json:"id,omitempty"`
	Path        []LatLng `json:"path"`
	EncodedPath string   `json:"encodedPath,omitempty"`
	Stroke
	Fill
}

func NewPolygon(path ...LatLng) *Polygon {
	return &Polygon{Path: path, Stroke: defaultStroke(), Fill: defaultFill()}
}

func (p *Polygon) OverlayID() string { return p.ID }

func (p *Polygon) UnmarshalJSON(data []byte) error {
	type plain Polygon
	v := plain{Stroke: defaultStroke(), Fill: defaultFill()}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Polygon(v)
	if len(p.Path) == 0 && p.EncodedPath != "" {
		path, err := DecodePath(p.EncodedPath)
		if err != nil {
			return err
		}
		p.Path = path
		p.EncodedPath = ""
	}
	return nil
}

type Circle struct {
	ID     string  `json:"id,omitempty"`
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
	Stroke
	Fill
}

func NewCircle(center LatLng, radius float64) *Circle {
	return &Circle{Center: center, Radius: radius, Stroke: defaultStroke(), Fill: defaultFill()}
}

func (c *Circle) OverlayID() string { return c.ID }

func (c *Circle) UnmarshalJSON(data []byte) error {
	type plain Circle
	v := plain{Stroke: defaultStroke(), Fill: defaultFill()}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Circle(v)
	return nil
}

type Rectangle struct {
	ID     string       `json:"id,omitempty"`
	Bounds LatLngBounds `json:"bounds"`
	Stroke
	Fill
}

func NewRectangle(bounds LatLngBounds) *Rectangle {
	return &Rectangle{Bounds: bounds, Stroke: defaultStroke(), Fill: defaultFill()}
}

func (r *Rectangle) OverlayID() string { return r.ID }

func (r *Rectangle) UnmarshalJSON(data []byte) error {
	type plain Rectangle
	v := plain{Stroke: defaultStroke(), Fill: defaultFill()}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Rectangle(v)
	return nil
}

// MapModel holds the overlays of a map in insertion order.
type MapModel struct {
	Markers    []*Marker    `json:"markers,omitempty"`
	Polylines  []*Polyline  `json:"polylines,omitempty"`
	Polygons   []*Polygon   `json:"polygons,omitempty"`
	Circles    []*Circle    `json:"circles,omitempty"`
	Rectangles []*Rectangle `json:"rectangles,omitempty"`
}

func NewMapModel() *MapModel {
	return &MapModel{}
}

// AddOverlay appends o, assigning a generated id when it has none.
func (m *MapModel) AddOverlay(o Overlay) error {
	switch v := o.(type) {
	case *Marker:
		v.ID = ensureID(v.ID)
		m.Markers = append(m.Markers, v)
	case *Polyline:
		v.ID = ensureID(v.ID)
		m.Polylines = append(m.Polylines, v)
	case *Polygon:
		v.ID = ensureID(v.ID)
		m.Polygons = append(m.Polygons, v)
	case *Circle:
		v.ID = ensureID(v.ID)
		m.Circles = append(m.Circles, v)
	case *Rectangle:
		v.ID = ensureID(v.ID)
		m.Rectangles = append(m.Rectangles, v)
	default:
		return fmt.Errorf("unsupported overlay type %T", o)
	}
	return nil
}

// AssignIDs gives every overlay decoded without an id a generated one.
func (m *MapModel) AssignIDs() {
	for _, v := range m.Markers {
		v.ID = ensureID(v.ID)
	}
	for _, v := range m.Polylines {
		v.ID = ensureID(v.ID)
	}
	for _, v := range m.Polygons {
		v.ID = ensureID(v.ID)
	}
	for _, v := range m.Circles {
		v.ID = ensureID(v.ID)
	}
	for _, v := range m.Rectangles {
		v.ID = ensureID(v.ID)
	}
}

func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// FindOverlay looks an overlay up by id across all collections.
func (m *MapModel) FindOverlay(id string) (Overlay, bool) {
	for _, v := range m.Markers {
		if v.ID == id {
			return v, true
		}
	}
	for _, v := range m.Polylines {
		if v.ID == id {
			return v, true
		}
	}
	for _, v := range m.Polygons {
		if v.ID == id {
			return v, true
		}
	}
	for _, v := range m.Circles {
		if v.ID == id {
			return v, true
		}
	}
	for _, v := range m.Rectangles {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

func (m *MapModel) FindMarker(id string) (*Marker, bool) {
	for _, v := range m.Markers {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

// Bounds returns the envelope of every overlay coordinate. Circles
// contribute their center only. ok is false for an empty model.
func (m *MapModel) Bounds() (bounds LatLngBounds, ok bool) {
	var env geom.Envelope
	add := func(l LatLng) {
		env = env.ExpandToIncludeXY(geom.XY{X: l.Lng, Y: l.Lat})
	}

	for _, v := range m.Markers {
		add(v.Position)
	}
	for _, v := range m.Polylines {
		for _, l := range v.Path {
			add(l)
		}
	}
	for _, v := range m.Polygons {
		for _, l := range v.Path {
			add(l)
		}
	}
	for _, v := range m.Circles {
		add(v.Center)
	}
	for _, v := range m.Rectangles {
		add(v.Bounds.NorthEast)
		add(v.Bounds.SouthWest)
	}

	minXY, maxXY, ok := env.MinMaxXYs()
	if !ok {
		return LatLngBounds{}, false
	}
	return LatLngBounds{
		NorthEast: LatLng{Lat: maxXY.Y, Lng: maxXY.X},
		SouthWest: LatLng{Lat: minXY.Y, Lng: minXY.X},
	}, true
}

// EncodePath returns the Google encoded polyline form of path.
func EncodePath(path []LatLng) string {
	coords := make([][]float64, len(path))
	for i, l := range path {
		coords[i] = []float64{l.Lat, l.Lng}
	}
	return string(polyline.EncodeCoords(coords))
}

func DecodePath(encoded string) ([]LatLng, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("error decoding encoded path: %w", err)
	}
	path := make([]LatLng, len(coords))
	for i, c := range coords {
		path[i] = LatLng{Lat: c[0], Lng: c[1]}
	}
	return path, nil
}
