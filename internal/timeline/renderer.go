package timeline

import (
	"fmt"
	"html"
	"strings"
	"time"

	"widgetry.dev/internal/tzconv"
	"widgetry.dev/internal/widget"
)

// RenderContext supplies what the renderer would otherwise look up
// globally.
type RenderContext struct {
	Now         func() time.Time
	DefaultZone *time.Location
}

func (rc RenderContext) now() time.Time {
	if rc.Now == nil {
		return time.Now().UTC()
	}
	return rc.Now().UTC()
}

// Render produces the container and the initialization script for t and m.
func Render(t *Timeline, m *Model, rc RenderContext) (widget.Rendered, error) {
	if m == nil {
		m = NewModel()
	}
	browser, target, err := t.Zones(rc.DefaultZone)
	if err != nil {
		return widget.Rendered{}, err
	}
	date := func(utc time.Time) string {
		return tzconv.EncodeDate(utc, browser, target)
	}

	script := widget.NewScript("Timeline", t.WidgetVar, t.ClientID)
	o := script.Options()

	groups := m.RenderGroups()
	explicit := m.HasExplicitGroups()
	if len(groups) > 0 {
		parts := make([]string, len(groups))
		for i, g := range groups {
			parts[i] = encodeGroup(t, g, i, explicit)
		}
		o.Native("groups", "["+strings.Join(parts, ",")+"]")
	}

	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g.ID] = true
	}
	events := m.Events()
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = encodeEvent(e, known, date)
	}
	o.Native("data", "["+strings.Join(parts, ",")+"]")

	if t.ShowCurrentTime {
		o.Native("currentTime", date(rc.now()))
	}

	o.Float("preloadFactor", max(t.PreloadFactor, 0)).
		StringIf("hoverClass", t.DropHoverStyleClass).
		StringIf("activeClass", t.DropActiveStyleClass).
		StringIf("accept", t.DropAccept).
		StringIf("scope", t.DropScope).
		NativeIf("extender", t.Extender)
	if t.Menu != "" {
		o.Bool("isMenuPresent", true)
	}

	o.Nested("opts", encodeOpts(t, explicit, date))

	return widget.Rendered{
		Widget:    "Timeline",
		WidgetVar: script.WidgetVar(),
		ClientID:  t.ClientID,
		Markup:    renderMarkup(t),
		Script:    script.Finish(),
	}, nil
}

func renderMarkup(t *Timeline) string {
	mk := widget.NewMarkup().
		Start("div").
		Attr("id", t.ClientID).
		Attr("style", t.Style).
		Attr("class", t.StyleClass)

	if t.Menu != "" {
		css := "timeline-menu"
		switch t.OrientationAxis {
		case "top":
			css += " timeline-menu-axis-top"
		case "both":
			css += " timeline-menu-axis-both"
		}
		if t.RTL {
			css += " timeline-menu-rtl"
		}
		mk.Start("div").Attr("class", css).Attr("style", "display:none;").Raw(t.Menu).End()
	}
	return mk.String()
}

// encodeGroup writes one group. order is emitted only for explicit groups;
// derived groups are ordered by content on the client.
func encodeGroup(t *Timeline, g Group, index int, explicit bool) string {
	o := widget.NewOptions().
		String("id", g.ID).
		StringIf("content", g.Content).
		StringIf("style", t.GroupStyle).
		StringIf("className", g.StyleClass).
		StringIf("title", g.Title)
	if explicit {
		o.Int("order", index)
	}
	return o.Object()
}

func encodeEvent(e Event, knownGroups map[string]bool, date func(time.Time) string) string {
	o := widget.NewOptions().
		String("id", e.ID()).
		Native("start", date(e.Start()))

	if end := e.End(); end != nil {
		o.Native("end", date(*end))
	} else {
		o.Native("end", "null")
	}

	editable := widget.NewOptions()
	if v := e.EditableTime(); v != nil {
		editable.Bool("updateTime", *v)
	}
	if v := e.EditableGroup(); v != nil {
		editable.Bool("updateGroup", *v)
	}
	if v := e.EditableRemove(); v != nil {
		editable.Bool("remove", *v)
	}
	if editable.Len() > 0 {
		o.Nested("editable", editable)
	}

	if g := e.Group(); g != "" && knownGroups[g] {
		o.String("group", g)
	} else {
		o.Native("group", "null")
	}

	if c := e.StyleClass(); strings.TrimSpace(c) != "" {
		o.String("className", c)
	} else {
		o.Native("className", "null")
	}

	o.StringIf("title", e.Title())

	// the client inserts content as HTML
	content := ""
	if e.Data() != nil {
		content = html.EscapeString(fmt.Sprint(e.Data()))
	}
	o.String("content", content)
	return o.Object()
}

func encodeOpts(t *Timeline, explicitGroups bool, date func(time.Time) string) *widget.Options {
	o := widget.NewOptions().
		Bool("autoResize", t.Responsive).
		StringIf("height", t.Height).
		StringIf("minHeight", t.MinHeight).
		StringIf("maxHeight", t.MaxHeight).
		String("width", t.Width).
		Nested("orientation", widget.NewOptions().
			String("axis", t.OrientationAxis).
			String("item", t.OrientationItem)).
		Nested("editable", widget.NewOptions().
			Bool("add", t.IsEditableAdd()).
			Bool("remove", t.IsEditableRemove()).
			Bool("updateTime", t.IsEditableTime()).
			Bool("updateGroup", t.IsEditableGroup()).
			Bool("overrideItems", t.EditableOverrideItems)).
		Bool("selectable", t.Selectable).
		Bool("zoomable", t.Zoomable).
		Bool("moveable", t.Moveable)

	for _, d := range []struct {
		key string
		at  *time.Time
	}{{"start", t.Start}, {"end", t.End}, {"min", t.Min}, {"max", t.Max}} {
		if d.at != nil {
			o.Native(d.key, date(*d.at))
		}
	}

	o.Int64("zoomMin", t.ZoomMin).
		Int64("zoomMax", t.ZoomMax).
		Nested("margin", widget.NewOptions().
			Int("axis", t.EventMarginAxis).
			Nested("item", widget.NewOptions().
				Int("horizontal", t.EventHorizontalMargin).
				Int("vertical", t.EventVerticalMargin))).
		StringIf("type", t.EventStyle)

	if t.GroupsOrder {
		if explicitGroups {
			o.String("groupOrder", "order")
		} else {
			o.String("groupOrder", "content")
		}
	}

	o.NativeIf("snap", t.Snap).
		Bool("stack", t.StackEvents).
		Bool("showCurrentTime", t.ShowCurrentTime).
		Bool("showMajorLabels", t.ShowMajorLabels).
		Bool("showMinorLabels", t.ShowMinorLabels).
		String("locale", t.Locale).
		Bool("clickToUse", t.ClickToUse).
		Bool("showTooltips", t.ShowTooltips).
		Nested("tooltip", widget.NewOptions().
			Bool("followMouse", t.TooltipFollowMouse).
			String("overflowMethod", t.TooltipOverflowMethod).
			Int("delay", t.TooltipDelay)).
		BoolUnless("rtl", t.RTL, false)

	if t.Loading != "" {
		o.Callback("loadingScreenTemplate", "function()", "return "+widget.Quote(t.Loading)+";")
	}
	return o
}
