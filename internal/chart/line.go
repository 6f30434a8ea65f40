package chart

import (
	"fmt"
	"strings"

	"widgetry.dev/internal/widget"
)

// LineRenderer renders a LineChartModel. Each point is written as a
// [key,value] pair.
type LineRenderer struct {
	Model *LineChartModel
}

func (LineRenderer) Type() string { return "line" }

func (r LineRenderer) Encode(o *widget.Options) error {
	m := r.Model
	if m == nil {
		return fmt.Errorf("%w: nil line chart model", ErrUnsupportedValue)
	}

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
			sb.WriteString("[" + escapeChartData(p.Key) + "," + valueString(p.Value) + "]")
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	o.Native("data", sb.String())

	if err := encodeCartesian(o, &m.CartesianOptions); err != nil {
		return err
	}

	o.Native("series", encodeSeriesList(m.Series, m.Fill))
	o.BoolUnless("stackSeries", m.Stacked, false).
		BoolUnless("breakOnNull", m.BreakOnNull, false)
	encodeInteraction(o, &m.CartesianOptions)
	return nil
}
