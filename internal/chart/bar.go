package chart

import (
	"fmt"
	"strconv"
	"strings"

	"widgetry.dev/internal/widget"
)

// BarRenderer renders a BarChartModel.
type BarRenderer struct {
	Model *BarChartModel
}

func (BarRenderer) Type() string { return "bar" }

func (r BarRenderer) Encode(o *widget.Options) error {
	m := r.Model
	if m == nil {
		return fmt.Errorf("%w: nil bar chart model", ErrUnsupportedValue)
	}

	o.Native("data", r.data())

	if err := encodeCartesian(o, &m.CartesianOptions); err != nil {
		return err
	}

	if m.DataRenderMode == "key" && m.LegendLabel != "" {
		o.Native("series", "["+widget.NewOptions().String("label", m.LegendLabel).Object()+"]")
	} else {
		o.Native("series", encodeSeriesList(m.Series, false))
	}

	ticks := m.Ticks
	if ticks == nil {
		ticks = []string{}
	}
	o.Strings("ticks", ticks)

	o.StringIf("orientation", m.Orientation).
		IntUnless("barPadding", m.BarPadding, 8).
		IntUnless("barMargin", m.BarMargin, 10).
		IntUnless("barWidth", m.BarWidth, 0).
		BoolUnless("stackSeries", m.Stacked, false)
	encodeInteraction(o, &m.CartesianOptions)
	return nil
}

// data writes one array per series. Horizontal bars pair each value with its
// 1-based category index; key mode interleaves quoted keys with values.
func (r BarRenderer) data() string {
	m := r.Model
	horizontal := m.IsHorizontal()
	keyMode := m.DataRenderMode == "key"

	var sb strings.Builder
	sb.WriteString("[")
	for si, s := range m.Series {
		if si > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("[")
		for i, p := range s.Data {
			if i > 0 {
				sb.WriteString(",")
			}
			value := valueString(p.Value)
			switch {
			case horizontal:
				sb.WriteString("[" + value + "," + strconv.Itoa(i+1) + "]")
			case keyMode:
				sb.WriteString("'" + widget.EscapeJS(fmt.Sprint(p.Key)) + "'," + value)
			default:
				sb.WriteString(value)
			}
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}
