// Package datalist renders data lists with an optional paginator and decodes
// their paging behavior.
package datalist

import "fmt"

type ListType string

const (
	Unordered  ListType = "unordered"
	Ordered    ListType = "ordered"
	Definition ListType = "definition"
	// Free renders rows without list markup.
	Free ListType = "none"
)

const (
	listClass         = "ui-datalist"
	contentClass      = "ui-datalist-content ui-widget-content"
	listElementClass  = "ui-datalist-data"
	noBulletsClass    = "ui-datalist-nobullets"
	itemClass         = "ui-datalist-item"
	emptyMessageClass = "ui-datalist-empty-message"
	headerClass       = "ui-datalist-header ui-widget-header ui-corner-top"
	footerClass       = "ui-datalist-footer ui-widget-header ui-corner-bottom"
)

// DataList holds the widget attributes of a list.
type DataList struct {
	ClientID               string   `json:"clientId" yaml:"clientId"`
	WidgetVar              string   `json:"widgetVar,omitempty" yaml:"widgetVar,omitempty"`
	Type                   ListType `json:"type" yaml:"type"`
	ItemType               string   `json:"itemType,omitempty" yaml:"itemType,omitempty"`
	ItemStyleClass         string   `json:"itemStyleClass,omitempty" yaml:"itemStyleClass,omitempty"`
	EmptyMessage           string   `json:"emptyMessage" yaml:"emptyMessage"`
	Paginator              bool     `json:"paginator,omitempty" yaml:"paginator,omitempty"`
	Rows                   int      `json:"rows,omitempty" yaml:"rows,omitempty"`
	First                  int      `json:"first,omitempty" yaml:"first,omitempty"`
	PaginatorPosition      string   `json:"paginatorPosition" yaml:"paginatorPosition"`
	PaginatorTemplate      string   `json:"paginatorTemplate,omitempty" yaml:"paginatorTemplate,omitempty"`
	RowsPerPageTemplate    string   `json:"rowsPerPageTemplate,omitempty" yaml:"rowsPerPageTemplate,omitempty"`
	CurrentPageTemplate    string   `json:"currentPageReportTemplate,omitempty" yaml:"currentPageReportTemplate,omitempty"`
	PageLinks              int      `json:"pageLinks" yaml:"pageLinks"`
	PaginatorAlwaysVisible bool     `json:"paginatorAlwaysVisible" yaml:"paginatorAlwaysVisible"`
	Header                 string   `json:"header,omitempty" yaml:"header,omitempty"`
	Footer                 string   `json:"footer,omitempty" yaml:"footer,omitempty"`
	Style                  string   `json:"style,omitempty" yaml:"style,omitempty"`
	StyleClass             string   `json:"styleClass,omitempty" yaml:"styleClass,omitempty"`
}

// NewDataList returns a list with the client defaults applied.
func NewDataList(clientID string) *DataList {
	return &DataList{
		ClientID:               clientID,
		Type:                   Unordered,
		EmptyMessage:           "No records found.",
		PaginatorPosition:      "both",
		PageLinks:              10,
		PaginatorAlwaysVisible: true,
	}
}

func (d *DataList) listTag() (string, error) {
	switch d.Type {
	case Unordered, "":
		return "ul", nil
	case Ordered:
		return "ol", nil
	case Definition:
		return "dl", nil
	}
	return "", fmt.Errorf("unknown list type %q", d.Type)
}

// Page is the zero-based index of the page holding First.
func (d *DataList) Page() int {
	if d.Rows <= 0 {
		return 0
	}
	return d.First / d.Rows
}

// CalculateFirst moves First onto the last page when it points past
// rowCount.
func (d *DataList) CalculateFirst(rowCount int) {
	if d.Rows <= 0 || rowCount <= 0 || d.First < rowCount {
		return
	}
	pages := (rowCount + d.Rows - 1) / d.Rows
	d.First = max((pages-1)*d.Rows, 0)
}

// window is the load request for the rows currently shown. A page size of
// zero asks for every row.
func (d *DataList) window() LoadRequest {
	if !d.Paginator || d.Rows <= 0 {
		return LoadRequest{}
	}
	return LoadRequest{First: d.First, PageSize: d.Rows}
}
