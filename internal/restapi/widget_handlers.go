package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"widgetry.dev/internal/behavior"
	"widgetry.dev/internal/chart"
	"widgetry.dev/internal/datalist"
	"widgetry.dev/internal/datepicker"
	"widgetry.dev/internal/gmap"
	"widgetry.dev/internal/models"
	"widgetry.dev/internal/utils"
	"widgetry.dev/internal/widget"
)

// pathID extracts and validates the :id route parameter. On failure the
// validation response has already been sent.
func (api *RestAPI) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.fieldErrorResponse(w, r, "id", err)
		return "", false
	}
	return id, true
}

type chartRequest struct {
	Chart chart.Chart     `json:"chart"`
	Model json.RawMessage `json:"model"`
}

func (api *RestAPI) chartHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathID(w, r)
	if !ok {
		return
	}

	var req chartRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		api.fieldErrorResponse(w, r, "body", err)
		return
	}
	req.Chart.ClientID = id

	var renderer chart.Renderer
	switch kind := utils.ExtractIDFromParams(r, "kind"); kind {
	case "bar":
		m := chart.NewBarChartModel()
		if err := unmarshalModel(req.Model, m); err != nil {
			api.fieldErrorResponse(w, r, "model", err)
			return
		}
		renderer = chart.BarRenderer{Model: m}
	case "line":
		m := chart.NewLineChartModel()
		if err := unmarshalModel(req.Model, m); err != nil {
			api.fieldErrorResponse(w, r, "model", err)
			return
		}
		renderer = chart.LineRenderer{Model: m}
	default:
		api.sendNotFound(w, r)
		return
	}

	start := time.Now()
	rendered, err := chart.Render(req.Chart, renderer)
	api.Metrics.ObserveRender("Chart", start, err)
	if err != nil {
		if errors.Is(err, chart.ErrUnsupportedValue) {
			api.fieldErrorResponse(w, r, "model", err)
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(rendered))
}

func unmarshalModel(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func (api *RestAPI) gmapHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathID(w, r)
	if !ok {
		return
	}

	m := gmap.NewMap(id)
	if err := decodeJSONBody(w, r, m); err != nil {
		api.fieldErrorResponse(w, r, "body", err)
		return
	}
	m.ClientID = id

	if fieldErrors := validateMap(m); len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	entry := models.MapEntry{}
	if m.Model != nil {
		m.Model.AssignIDs()
		if bounds, ok := m.Model.Bounds(); ok {
			entry.Bounds = &bounds
		}
	}

	start := time.Now()
	rendered, err := gmap.Render(m)
	api.Metrics.ObserveRender("GMap", start, err)
	if err != nil {
		api.fieldErrorResponse(w, r, "center", err)
		return
	}
	entry.Rendered = rendered
	api.sendResponse(w, r, models.NewEntryResponse(entry))
}

func validateMap(m *gmap.Map) map[string][]string {
	var fieldErrors map[string][]string
	center, err := gmap.ParseLatLng(m.Center)
	if err != nil {
		fieldErrors = utils.AddFieldError(fieldErrors, "center", err.Error())
	} else {
		fieldErrors = utils.ValidateCoordinate("center", center.Lat, center.Lng, fieldErrors)
	}
	if m.Model != nil {
		for i, mk := range m.Model.Markers {
			fieldErrors = utils.ValidateCoordinate(fmt.Sprintf("markers[%d]", i), mk.Position.Lat, mk.Position.Lng, fieldErrors)
		}
	}
	return fieldErrors
}

type dataListRequest struct {
	List             json.RawMessage     `json:"list"`
	Rows             []map[string]string `json:"rows"`
	ItemField        string              `json:"itemField"`
	DescriptionField string              `json:"descriptionField"`
}

func (api *RestAPI) dataListHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathID(w, r)
	if !ok {
		return
	}

	var req dataListRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		api.fieldErrorResponse(w, r, "body", err)
		return
	}
	d := datalist.NewDataList(id)
	if err := unmarshalModel(req.List, d); err != nil {
		api.fieldErrorResponse(w, r, "list", err)
		return
	}
	d.ClientID = id
	if req.ItemField == "" {
		req.ItemField = "label"
	}

	model := datalist.NewSliceModel(req.Rows)
	model.Field = func(row map[string]string, name string) string { return row[name] }
	items := datalist.FieldItems(req.ItemField, req.DescriptionField)

	breq, err := behavior.FromHTTP(r)
	if err != nil {
		api.fieldErrorResponse(w, r, "behavior", err)
		return
	}

	ctx := r.Context()
	if datalist.IsPaginationRequest(breq, d) {
		ev, err := datalist.Decode(breq, d)
		if err != nil {
			api.fieldErrorResponse(w, r, "behavior", err)
			return
		}
		page, ok := ev.(datalist.PageEvent)
		if !ok {
			api.fieldErrorResponse(w, r, "behavior", fmt.Errorf("unexpected event %T", ev))
			return
		}
		api.Metrics.CountBehavior("DataList", "page")

		start := time.Now()
		html, err := datalist.RenderPage(ctx, d, model, items, page)
		api.Metrics.ObserveRender("DataList", start, err)
		if err != nil {
			api.fieldErrorResponse(w, r, "list", err)
			return
		}
		api.sendResponse(w, r, models.NewEntryResponse(models.DataListEntry{Page: html, RowCount: model.RowCount()}))
		return
	}

	start := time.Now()
	rendered, err := datalist.Render(ctx, d, model, items)
	api.Metrics.ObserveRender("DataList", start, err)
	if err != nil {
		api.fieldErrorResponse(w, r, "list", err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(models.DataListEntry{Rendered: &rendered, RowCount: model.RowCount()}))
}

type datePickerRequest struct {
	Picker      json.RawMessage              `json:"picker"`
	Constraints datepicker.ConstraintsRecord `json:"constraints"`
}

// datePicker builds a picker from its attributes and constraint record.
func (api *RestAPI) datePicker(id string, attrs json.RawMessage, rec datepicker.ConstraintsRecord) (*datepicker.DatePicker, map[string][]string) {
	p := datepicker.NewDatePicker(id)
	if err := unmarshalModel(attrs, p); err != nil {
		return nil, map[string][]string{"picker": {err.Error()}}
	}
	p.ClientID = id

	c, err := rec.Constraints(api.DefaultZone)
	if err != nil {
		return nil, map[string][]string{"constraints": {err.Error()}}
	}
	p.Constraints = c
	return p, nil
}

func (api *RestAPI) datePickerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathID(w, r)
	if !ok {
		return
	}

	var req datePickerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		api.fieldErrorResponse(w, r, "body", err)
		return
	}
	p, fieldErrors := api.datePicker(id, req.Picker, req.Constraints)
	if fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	start := time.Now()
	rendered := datepicker.Render(p)
	api.Metrics.ObserveRender("DatePicker", start, nil)
	api.sendResponse(w, r, models.NewEntryResponse(rendered))
}
