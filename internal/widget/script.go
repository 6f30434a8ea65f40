package widget

import "strings"

// Rendered is the output of a widget renderer: the container markup and the
// script that initializes the client-side widget inside it.
type Rendered struct {
	Widget    string `json:"widget"`
	WidgetVar string `json:"widgetVar"`
	ClientID  string `json:"clientId"`
	Markup    string `json:"markup"`
	Script    string `json:"script"`
}

// Script builds a PrimeFaces.cw(...) initialization call.
type Script struct {
	widget    string
	widgetVar string
	clientID  string
	opts      *Options
}

// NewScript starts a widget initialization script. An empty widgetVar
// resolves to "widget_" plus the client id with separators replaced.
func NewScript(widget, widgetVar, clientID string) *Script {
	return &Script{
		widget:    widget,
		widgetVar: ResolveWidgetVar(widgetVar, clientID),
		clientID:  clientID,
		opts:      NewOptions(),
	}
}

// Options exposes the option list following the implicit id key.
func (s *Script) Options() *Options {
	return s.opts
}

func (s *Script) WidgetVar() string {
	return s.widgetVar
}

// Finish renders the full statement.
func (s *Script) Finish() string {
	var sb strings.Builder
	sb.WriteString(`PrimeFaces.cw(`)
	sb.WriteString(Quote(s.widget))
	sb.WriteString(",")
	sb.WriteString(Quote(s.widgetVar))
	sb.WriteString(",{id:")
	sb.WriteString(Quote(s.clientID))
	sb.WriteString(s.opts.Fragments())
	sb.WriteString("});")
	return sb.String()
}

// ResolveWidgetVar returns widgetVar, or a name derived from clientID.
func ResolveWidgetVar(widgetVar, clientID string) string {
	if widgetVar != "" {
		return widgetVar
	}
	return "widget_" + strings.NewReplacer(":", "_", "-", "_", ".", "_").Replace(clientID)
}
