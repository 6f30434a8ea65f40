package widget

import (
	"html"
	"strings"
)

// Markup writes HTML elements. Attribute values and text are escaped; Raw
// content is written as is and must already be safe.
type Markup struct {
	sb   strings.Builder
	open []string
	// pending is true while a start tag awaits its closing '>'
	pending bool
}

func NewMarkup() *Markup {
	return &Markup{}
}

func (m *Markup) closePending() {
	if m.pending {
		m.sb.WriteString(">")
		m.pending = false
	}
}

func (m *Markup) Start(tag string) *Markup {
	m.closePending()
	m.sb.WriteString("<" + tag)
	m.open = append(m.open, tag)
	m.pending = true
	return m
}

// Attr writes an attribute on the element just started. Empty values are
// skipped.
func (m *Markup) Attr(name, value string) *Markup {
	if !m.pending || value == "" {
		return m
	}
	m.sb.WriteString(" " + name + `="` + html.EscapeString(value) + `"`)
	return m
}

func (m *Markup) Text(text string) *Markup {
	m.closePending()
	m.sb.WriteString(html.EscapeString(text))
	return m
}

func (m *Markup) Raw(content string) *Markup {
	m.closePending()
	m.sb.WriteString(content)
	return m
}

// End closes the innermost open element.
func (m *Markup) End() *Markup {
	if len(m.open) == 0 {
		return m
	}
	m.closePending()
	tag := m.open[len(m.open)-1]
	m.open = m.open[:len(m.open)-1]
	m.sb.WriteString("</" + tag + ">")
	return m
}

// EndVoid closes an element that was just started and has no content, as
// in <input .../>.
func (m *Markup) EndVoid() *Markup {
	if !m.pending || len(m.open) == 0 {
		return m.End()
	}
	m.open = m.open[:len(m.open)-1]
	m.pending = false
	m.sb.WriteString("/>")
	return m
}

// String closes any open elements and returns the document.
func (m *Markup) String() string {
	for len(m.open) > 0 {
		m.End()
	}
	return m.sb.String()
}
