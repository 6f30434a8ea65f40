package datalist

import (
	"strconv"
	"strings"

	"widgetry.dev/internal/widget"
)

const (
	defaultPaginatorTemplate   = "{FirstPageLink} {PreviousPageLink} {PageLinks} {NextPageLink} {LastPageLink}"
	defaultCurrentPageTemplate = "({currentPage} of {totalPages})"
)

// pager is the paging state of one render.
type pager struct {
	list     *DataList
	rowCount int
}

func (p pager) pageCount() int {
	if p.list.Rows <= 0 {
		return 1
	}
	return max((p.rowCount+p.list.Rows-1)/p.list.Rows, 1)
}

// pageLinkRange returns the first and last page index shown as links,
// keeping the current page near the middle.
func (p pager) pageLinkRange() (int, int) {
	count := p.pageCount()
	links := min(max(p.list.PageLinks, 1), count)
	page := p.list.Page()

	start := max(0, page-links/2)
	end := min(count-1, start+links-1)
	start = max(0, start-(links-(end-start+1)))
	return start, end
}

func (p pager) containerIDs() []string {
	var ids []string
	if p.list.PaginatorPosition != "bottom" {
		ids = append(ids, p.list.ClientID+"_paginator_top")
	}
	if p.list.PaginatorPosition != "top" {
		ids = append(ids, p.list.ClientID+"_paginator_bottom")
	}
	return ids
}

func (p pager) encodeMarkup(m *widget.Markup, position string) {
	corner := "ui-corner-top"
	if position == "bottom" {
		corner = "ui-corner-bottom"
	}
	m.Start("div").
		Attr("id", p.list.ClientID+"_paginator_"+position).
		Attr("class", "ui-paginator ui-paginator-"+position+" ui-widget-header "+corner).
		Attr("role", "navigation").
		Attr("aria-label", "Pagination")
	if !p.list.PaginatorAlwaysVisible && p.pageCount() <= 1 {
		m.Attr("style", "display:none")
	}

	tmpl := p.list.PaginatorTemplate
	if tmpl == "" {
		tmpl = defaultPaginatorTemplate
	}
	for _, token := range strings.Fields(tmpl) {
		p.encodeElement(m, token)
	}
	m.End()
}

func (p pager) encodeElement(m *widget.Markup, token string) {
	page, last := p.list.Page(), p.pageCount()-1

	switch token {
	case "{FirstPageLink}":
		p.encodeLink(m, "ui-paginator-first", "ui-icon-seek-first", "F", page == 0)
	case "{PreviousPageLink}":
		p.encodeLink(m, "ui-paginator-prev", "ui-icon-seek-prev", "P", page == 0)
	case "{NextPageLink}":
		p.encodeLink(m, "ui-paginator-next", "ui-icon-seek-next", "N", page >= last)
	case "{LastPageLink}":
		p.encodeLink(m, "ui-paginator-last", "ui-icon-seek-end", "E", page >= last)
	case "{PageLinks}":
		start, end := p.pageLinkRange()
		m.Start("span").Attr("class", "ui-paginator-pages")
		for i := start; i <= end; i++ {
			class := "ui-paginator-page ui-state-default ui-corner-all"
			if i == page {
				class += " ui-state-active"
			}
			m.Start("a").Attr("href", "#").Attr("class", class).Text(strconv.Itoa(i + 1)).End()
		}
		m.End()
	case "{CurrentPageReport}":
		m.Start("span").Attr("class", "ui-paginator-current").Text(p.currentPageReport()).End()
	case "{RowsPerPageDropdown}":
		options := p.rowsPerPageOptions()
		if len(options) == 0 {
			return
		}
		m.Start("select").Attr("id", p.list.ClientID+"_rppDD").
			Attr("class", "ui-paginator-rpp-options ui-widget ui-state-default ui-corner-left")
		for _, n := range options {
			m.Start("option").Attr("value", strconv.Itoa(n))
			if n == p.list.Rows {
				m.Attr("selected", "selected")
			}
			m.Text(strconv.Itoa(n)).End()
		}
		m.End()
	default:
		m.Text(token)
	}
}

func (p pager) encodeLink(m *widget.Markup, class, icon, label string, disabled bool) {
	class += " ui-state-default ui-corner-all"
	if disabled {
		class += " ui-state-disabled"
	}
	m.Start("a").Attr("href", "#").Attr("class", class).Attr("tabindex", "-1").
		Start("span").Attr("class", "ui-icon "+icon).Text(label).End().
		End()
}

func (p pager) currentPageReport() string {
	tmpl := p.list.CurrentPageTemplate
	if tmpl == "" {
		tmpl = defaultCurrentPageTemplate
	}
	start := 0
	end := 0
	if p.rowCount > 0 {
		start = p.list.First + 1
		end = p.rowCount
		if p.list.Rows > 0 {
			end = min(p.list.First+p.list.Rows, p.rowCount)
		}
	}
	return strings.NewReplacer(
		"{currentPage}", strconv.Itoa(p.list.Page()+1),
		"{totalPages}", strconv.Itoa(p.pageCount()),
		"{totalRecords}", strconv.Itoa(p.rowCount),
		"{startRecord}", strconv.Itoa(start),
		"{endRecord}", strconv.Itoa(end),
	).Replace(tmpl)
}

// rowsPerPageOptions reads the comma separated template, skipping entries
// that are not positive numbers.
func (p pager) rowsPerPageOptions() []int {
	var options []int
	for _, s := range strings.Split(p.list.RowsPerPageTemplate, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			options = append(options, n)
		}
	}
	return options
}

// encodeConfig writes the paginator object of the widget script.
func (p pager) encodeConfig(o *widget.Options) {
	cfg := widget.NewOptions().
		Strings("id", p.containerIDs()).
		Int("rows", p.list.Rows).
		Int("rowCount", p.rowCount).
		Int("page", p.list.Page()).
		IntUnless("pageLinks", p.list.PageLinks, 10).
		StringIf("template", p.list.PaginatorTemplate).
		StringIf("rowsPerPageTemplate", p.list.RowsPerPageTemplate).
		StringIf("currentPageTemplate", p.list.CurrentPageTemplate).
		BoolUnless("alwaysVisible", p.list.PaginatorAlwaysVisible, true)
	o.Nested("paginator", cfg)
}
