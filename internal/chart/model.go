package chart

import (
	"errors"
	"fmt"
	"strings"

	"widgetry.dev/internal/widget"
)

// ErrUnsupportedValue is returned for axis bounds that are neither numbers
// nor strings.
var ErrUnsupportedValue = errors.New("unsupported chart value")

type AxisType string

const (
	XAxis  AxisType = "xaxis"
	YAxis  AxisType = "yaxis"
	X2Axis AxisType = "x2axis"
	Y2Axis AxisType = "y2axis"
)

// axisOrder is the order axes are written in.
var axisOrder = []AxisType{XAxis, YAxis, X2Axis, Y2Axis}

type LegendPlacement string

const (
	LegendInside      LegendPlacement = "inside"
	LegendOutside     LegendPlacement = "outside"
	LegendOutsideGrid LegendPlacement = "outsideGrid"
)

type Axis struct {
	Label string `json:"label"`
	// Min and Max hold a number or a string such as a date.
	Min          any    `json:"min,omitempty"`
	Max          any    `json:"max,omitempty"`
	Renderer     string `json:"renderer,omitempty"`
	TickAngle    int    `json:"tickAngle,omitempty"`
	TickFormat   string `json:"tickFormat,omitempty"`
	TickInterval string `json:"tickInterval,omitempty"`
	TickCount    int    `json:"tickCount,omitempty"`
}

// DataPoint is one keyed value of a series. A nil Value renders as null.
type DataPoint struct {
	Key   any      `json:"key"`
	Value *float64 `json:"value"`
}

// Point builds a data point with a value.
func Point(key any, value float64) DataPoint {
	return DataPoint{Key: key, Value: &value}
}

// LineStyle carries the series settings only line charts read.
type LineStyle struct {
	ShowLine    bool    `json:"showLine"`
	ShowMarker  bool    `json:"showMarker"`
	MarkerStyle string  `json:"markerStyle,omitempty"`
	Fill        bool    `json:"fill,omitempty"`
	FillAlpha   float64 `json:"fillAlpha,omitempty"`
	Smooth      bool    `json:"smooth,omitempty"`
}

type ChartSeries struct {
	Label        string      `json:"label"`
	Data         []DataPoint `json:"data"`
	Renderer     string      `json:"renderer,omitempty"`
	XAxis        AxisType    `json:"xaxis,omitempty"`
	YAxis        AxisType    `json:"yaxis,omitempty"`
	DisableStack bool        `json:"disableStack,omitempty"`
	Line         *LineStyle  `json:"line,omitempty"`
}

// Set appends or replaces the value stored under key, keeping first-insert
// order.
func (s *ChartSeries) Set(key any, value float64) {
	for i := range s.Data {
		if s.Data[i].Key == key {
			s.Data[i].Value = &value
			return
		}
	}
	s.Data = append(s.Data, Point(key, value))
}

// Options holds the settings every plot shares.
type Options struct {
	Title                string          `json:"title,omitempty"`
	Shadow               bool            `json:"shadow"`
	SeriesColors         string          `json:"seriesColors,omitempty"`
	NegativeSeriesColors string          `json:"negativeSeriesColors,omitempty"`
	LegendPosition       string          `json:"legendPosition,omitempty"`
	LegendCols           int             `json:"legendCols,omitempty"`
	LegendRows           int             `json:"legendRows,omitempty"`
	LegendPlacement      LegendPlacement `json:"legendPlacement,omitempty"`
	LegendEscapeHTML     bool            `json:"legendEscapeHtml,omitempty"`
	MouseoverHighlight   bool            `json:"mouseoverHighlight"`
	Extender             string          `json:"extender,omitempty"`
	ResetAxesOnResize    bool            `json:"resetAxesOnResize"`
	DataRenderMode       string          `json:"dataRenderMode"`
}

func defaultOptions() Options {
	return Options{
		Shadow:             true,
		MouseoverHighlight: true,
		ResetAxesOnResize:  true,
		DataRenderMode:     "value",
	}
}

// CartesianOptions adds axes and series to Options.
type CartesianOptions struct {
	Options
	Series          []ChartSeries      `json:"series"`
	Axes            map[AxisType]*Axis `json:"axes"`
	ShowDatatip     bool               `json:"showDatatip"`
	DatatipFormat   string             `json:"datatipFormat,omitempty"`
	DatatipEditor   string             `json:"datatipEditor,omitempty"`
	Zoom            bool               `json:"zoom,omitempty"`
	Animate         bool               `json:"animate,omitempty"`
	ShowPointLabels bool               `json:"showPointLabels,omitempty"`
}

func defaultCartesian() CartesianOptions {
	return CartesianOptions{
		Options: defaultOptions(),
		Axes: map[AxisType]*Axis{
			XAxis: {},
			YAxis: {},
		},
		ShowDatatip: true,
	}
}

// Axis returns the axis of the given type, creating it when missing.
func (c *CartesianOptions) Axis(t AxisType) *Axis {
	if c.Axes == nil {
		c.Axes = make(map[AxisType]*Axis)
	}
	a, ok := c.Axes[t]
	if !ok || a == nil {
		a = &Axis{}
		c.Axes[t] = a
	}
	return a
}

func (c *CartesianOptions) AddSeries(s ChartSeries) {
	c.Series = append(c.Series, s)
}

type BarChartModel struct {
	CartesianOptions
	Orientation string   `json:"orientation,omitempty"`
	BarPadding  int      `json:"barPadding"`
	BarMargin   int      `json:"barMargin"`
	BarWidth    int      `json:"barWidth"`
	Stacked     bool     `json:"stacked,omitempty"`
	Ticks       []string `json:"ticks"`
	LegendLabel string   `json:"legendLabel,omitempty"`
}

// NewBarChartModel returns a bar chart with the client defaults applied. The
// x axis is a category axis.
func NewBarChartModel() *BarChartModel {
	m := &BarChartModel{
		CartesianOptions: defaultCartesian(),
		BarPadding:       8,
		BarMargin:        10,
	}
	m.Axis(XAxis).Renderer = "CategoryAxisRenderer"
	return m
}

// IsHorizontal reports whether bars grow along the x axis.
func (m *BarChartModel) IsHorizontal() bool {
	return m.Orientation == "horizontal"
}

type LineChartModel struct {
	CartesianOptions
	Stacked     bool `json:"stacked,omitempty"`
	Fill        bool `json:"fill,omitempty"`
	BreakOnNull bool `json:"breakOnNull,omitempty"`
}

func NewLineChartModel() *LineChartModel {
	return &LineChartModel{CartesianOptions: defaultCartesian()}
}

// NewLineStyle returns the default line series style.
func NewLineStyle() *LineStyle {
	return &LineStyle{ShowLine: true, ShowMarker: true}
}

// escapeChartData writes numbers bare and quotes everything else.
func escapeChartData(value any) string {
	if value == nil {
		return "null"
	}
	if n, ok := numberString(value); ok {
		return n
	}
	return widget.Quote(fmt.Sprint(value))
}

func numberString(value any) (string, bool) {
	switch v := value.(type) {
	case float64:
		return widget.FormatNumber(v), true
	case float32:
		return widget.FormatNumber(float64(v)), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), true
	}
	return "", false
}

// boundValue renders an axis bound: numbers bare, strings quoted.
func boundValue(value any) (string, error) {
	if n, ok := numberString(value); ok {
		return n, nil
	}
	if s, ok := value.(string); ok {
		return widget.Quote(s), nil
	}
	return "", fmt.Errorf("%w: axis bound of type %T", ErrUnsupportedValue, value)
}

func splitColors(colors string) []string {
	parts := strings.Split(colors, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, "#"+strings.TrimSpace(p))
	}
	return out
}
