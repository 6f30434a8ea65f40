package restapi

import (
	"encoding/json"
	"net/http"
	"net/url"

	"widgetry.dev/internal/behavior"
	"widgetry.dev/internal/datepicker"
	"widgetry.dev/internal/models"
)

type validateDateRequest struct {
	Constraints datepicker.ConstraintsRecord `json:"constraints"`
	Value       datepicker.ValueRecord       `json:"value"`
}

func (api *RestAPI) validateDateHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := api.pathID(w, r); !ok {
		return
	}

	var req validateDateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		api.fieldErrorResponse(w, r, "body", err)
		return
	}

	c, err := req.Constraints.Constraints(api.DefaultZone)
	if err != nil {
		api.fieldErrorResponse(w, r, "constraints", err)
		return
	}
	value, err := req.Value.Value(c.Location)
	if err != nil {
		api.fieldErrorResponse(w, r, "value", err)
		return
	}
	result, err := datepicker.Validate(c, value)
	if err != nil {
		api.fieldErrorResponse(w, r, "value", err)
		return
	}
	api.Metrics.CountValidation(result.String())

	api.sendResponse(w, r, models.NewEntryResponse(models.ValidationEntry{
		Valid:   result == datepicker.OK,
		Result:  result.String(),
		Message: datepicker.Message(result, c),
	}))
}

type datePickerBehaviorRequest struct {
	Picker      json.RawMessage              `json:"picker"`
	Constraints datepicker.ConstraintsRecord `json:"constraints"`
	Params      url.Values                   `json:"params"`
}

// datePickerBehaviorHandler decodes behavior parameters posted alongside
// the picker configuration they belong to.
func (api *RestAPI) datePickerBehaviorHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathID(w, r)
	if !ok {
		return
	}

	var req datePickerBehaviorRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		api.fieldErrorResponse(w, r, "body", err)
		return
	}
	p, fieldErrors := api.datePicker(id, req.Picker, req.Constraints)
	if fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	ev, err := datepicker.Decode(behavior.NewRequest(req.Params), p)
	if err != nil {
		api.fieldErrorResponse(w, r, "behavior", err)
		return
	}

	entry := models.BehaviorEntry{Widget: "DatePicker", Event: ev}
	switch v := ev.(type) {
	case datepicker.SelectEvent:
		entry.Type = "select"
		entry.Event = map[string]interface{}{"name": v.Name, "value": datepicker.RecordOf(v.Value)}
	case datepicker.RejectedEvent:
		entry.Type = "rejected"
		api.Metrics.CountValidation(v.Result.String())
	case datepicker.ViewChangeEvent:
		entry.Type = "viewChange"
	case datepicker.PassThroughEvent:
		entry.Type = "passthrough"
	}
	api.Metrics.CountBehavior("DatePicker", entry.Type)
	api.sendResponse(w, r, models.NewEntryResponse(entry))
}
