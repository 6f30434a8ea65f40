package datalist

import (
	"fmt"
	"strconv"

	"widgetry.dev/internal/behavior"
)

type BehaviorEvent interface {
	listEvent()
}

// PageEvent asks for the page starting at row First.
type PageEvent struct {
	First int `json:"first"`
	Rows  int `json:"rows"`
	Page  int `json:"page"`
}

type PassThroughEvent struct {
	Name string `json:"name"`
}

func (PageEvent) listEvent()        {}
func (PassThroughEvent) listEvent() {}

// IsPaginationRequest reports whether req asks d for a new page.
func IsPaginationRequest(req behavior.Request, d *DataList) bool {
	return req.IsSource(d.ClientID) && req.Param(d.ClientID, "pagination") == "true"
}

// Decode maps a behavior request onto a typed event. A pagination request
// decodes to a PageEvent whatever behavior name it carries.
func Decode(req behavior.Request, d *DataList) (BehaviorEvent, error) {
	if !req.IsSource(d.ClientID) {
		return PassThroughEvent{Name: req.Event}, nil
	}
	if !IsPaginationRequest(req, d) && req.Event != "page" {
		return PassThroughEvent{Name: req.Event}, nil
	}

	first, err := strconv.Atoi(req.Param(d.ClientID, "first"))
	if err != nil || first < 0 {
		return nil, fmt.Errorf("error parsing first row %q", req.Param(d.ClientID, "first"))
	}
	rows, err := strconv.Atoi(req.Param(d.ClientID, "rows"))
	if err != nil || rows < 0 {
		return nil, fmt.Errorf("error parsing rows %q", req.Param(d.ClientID, "rows"))
	}
	ev := PageEvent{First: first, Rows: rows}
	if rows > 0 {
		ev.Page = first / rows
	}
	return ev, nil
}
