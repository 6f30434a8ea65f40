// Package chart renders jqPlot chart widgets from bar and line chart models.
package chart

import (
	"fmt"
	"strings"

	"widgetry.dev/internal/widget"
)

// Renderer writes the data and options of one chart type.
type Renderer interface {
	Type() string
	Encode(o *widget.Options) error
}

// Chart holds the widget attributes around a model.
type Chart struct {
	ClientID   string `json:"clientId"`
	WidgetVar  string `json:"widgetVar,omitempty"`
	Style      string `json:"style,omitempty"`
	StyleClass string `json:"styleClass,omitempty"`
	Responsive bool   `json:"responsive,omitempty"`
}

// Render produces the container and initialization script for c.
func Render(c Chart, r Renderer) (widget.Rendered, error) {
	script := widget.NewScript("Chart", c.WidgetVar, c.ClientID)
	opts := script.Options().String("type", r.Type())
	if err := r.Encode(opts); err != nil {
		return widget.Rendered{}, fmt.Errorf("error encoding %s chart %q: %w", r.Type(), c.ClientID, err)
	}
	opts.BoolUnless("responsive", c.Responsive, false)

	styleClass := "ui-chart"
	if c.StyleClass != "" {
		styleClass += " " + c.StyleClass
	}
	markup := widget.NewMarkup().
		Start("div").
		Attr("id", c.ClientID).
		Attr("style", c.Style).
		Attr("class", styleClass).
		String()

	return widget.Rendered{
		Widget:    "Chart",
		WidgetVar: script.WidgetVar(),
		ClientID:  c.ClientID,
		Markup:    markup,
		Script:    script.Finish(),
	}, nil
}

// encodeBase writes the options shared by all plots.
func encodeBase(o *widget.Options, m *Options) {
	o.StringIf("title", m.Title)
	o.BoolUnless("shadow", m.Shadow, true)

	if m.SeriesColors != "" {
		o.Strings("seriesColors", splitColors(m.SeriesColors))
	}
	if m.NegativeSeriesColors != "" {
		o.Strings("negativeSeriesColors", splitColors(m.NegativeSeriesColors))
	}

	if m.LegendPosition != "" {
		o.String("legendPosition", m.LegendPosition).
			IntUnless("legendCols", m.LegendCols, 0).
			IntUnless("legendRows", m.LegendRows, 0).
			StringIf("legendPlacement", string(m.LegendPlacement)).
			BoolUnless("escapeHtml", m.LegendEscapeHTML, false)
	}

	o.BoolUnless("highlightMouseOver", m.MouseoverHighlight, true)
	o.NativeIf("extender", m.Extender)
	o.BoolUnless("resetAxesOnResize", m.ResetAxesOnResize, true)
	o.String("dataRenderMode", dataRenderMode(m))
}

func dataRenderMode(m *Options) string {
	if m.DataRenderMode == "" {
		return "value"
	}
	return m.DataRenderMode
}

// encodeCartesian writes the base options followed by axes and datatip.
func encodeCartesian(o *widget.Options, m *CartesianOptions) error {
	encodeBase(o, &m.Options)

	axes := widget.NewOptions()
	for _, t := range axisOrder {
		axis, ok := m.Axes[t]
		if !ok || axis == nil {
			continue
		}
		encoded, err := encodeAxis(axis)
		if err != nil {
			return fmt.Errorf("error encoding %s: %w", t, err)
		}
		axes.Native(string(t), encoded)
	}
	o.Nested("axes", axes)

	if m.ShowDatatip {
		o.Bool("datatip", true).
			StringIf("datatipFormat", m.DatatipFormat).
			NativeIf("datatipEditor", m.DatatipEditor)
	}
	return nil
}

func encodeAxis(a *Axis) (string, error) {
	o := widget.NewOptions().String("label", a.Label)

	if a.Min != nil {
		v, err := boundValue(a.Min)
		if err != nil {
			return "", err
		}
		o.Native("min", v)
	}
	if a.Max != nil {
		v, err := boundValue(a.Max)
		if err != nil {
			return "", err
		}
		o.Native("max", v)
	}
	if a.Renderer != "" {
		o.Native("renderer", "$.jqplot."+a.Renderer)
	}

	ticks := widget.NewOptions().Int("angle", a.TickAngle).StringIf("formatString", a.TickFormat)
	o.Nested("tickOptions", ticks)
	o.StringIf("tickInterval", a.TickInterval)
	o.IntUnless("numberTicks", a.TickCount, 0)

	return o.Object(), nil
}

func encodeSeries(s ChartSeries, fill bool) string {
	o := widget.NewOptions().String("label", s.Label)
	if s.Renderer != "" {
		o.Native("renderer", "$.jqplot."+s.Renderer)
	}
	o.StringIf("xaxis", string(s.XAxis))
	o.StringIf("yaxis", string(s.YAxis))
	o.BoolUnless("disableStack", s.DisableStack, false)

	if s.Line != nil {
		st := s.Line
		o.BoolUnless("fill", st.Fill || fill, false)
		if st.Fill || fill {
			o.FloatUnless("fillAlpha", st.FillAlpha, 0)
		}
		o.BoolUnless("showLine", st.ShowLine, true)
		marker := widget.NewOptions().Bool("show", st.ShowMarker).StringIf("style", st.MarkerStyle)
		o.Nested("markerOptions", marker)
		if st.Smooth {
			o.Nested("rendererOptions", widget.NewOptions().Bool("smooth", true))
		}
	} else if fill {
		o.Bool("fill", true)
	}
	return o.Object()
}

func encodeSeriesList(series []ChartSeries, fill bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		parts[i] = encodeSeries(s, fill)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// encodeInteraction writes the flags every cartesian renderer ends with.
func encodeInteraction(o *widget.Options, m *CartesianOptions) {
	o.BoolUnless("zoom", m.Zoom, false).
		BoolUnless("animate", m.Animate, false).
		BoolUnless("showPointLabels", m.ShowPointLabels, false)
}

func valueString(v *float64) string {
	if v == nil {
		return "null"
	}
	return widget.FormatNumber(*v)
}
