package restapi

import (
	"errors"
	"net/http"
	"time"

	"widgetry.dev/internal/behavior"
	"widgetry.dev/internal/models"
	"widgetry.dev/internal/timeline"
)

func (api *RestAPI) renderContext() timeline.RenderContext {
	return timeline.RenderContext{Now: api.Now, DefaultZone: api.DefaultZone}
}

func (api *RestAPI) putTimelineHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathID(w, r)
	if !ok {
		return
	}

	var req models.TimelineRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		api.fieldErrorResponse(w, r, "body", err)
		return
	}

	attrs := timeline.NewTimeline(id)
	if err := unmarshalModel(req.Timeline, attrs); err != nil {
		api.fieldErrorResponse(w, r, "timeline", err)
		return
	}
	if attrs.ClientID == "" {
		attrs.ClientID = id
	}
	if _, _, err := attrs.Zones(api.DefaultZone); err != nil {
		api.fieldErrorResponse(w, r, "timeline", err)
		return
	}

	model, err := req.Model.Model()
	if err != nil {
		api.fieldErrorResponse(w, r, "model", err)
		return
	}

	if err := api.Registry.Put(r.Context(), id, attrs, model); err != nil {
		api.errorResponse(w, r, err)
		return
	}
	api.Metrics.SetStoredTimelines(len(api.Registry.IDs()))

	api.sendResponse(w, r, models.NewEntryResponse(models.TimelineEntry{
		ID:       id,
		Timeline: attrs,
		Model:    model.Record(),
	}))
}

func (api *RestAPI) getTimelineHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathID(w, r)
	if !ok {
		return
	}

	attrs, model, err := api.Registry.Get(id)
	if err != nil {
		api.errorResponse(w, r, err)
		return
	}

	start := time.Now()
	rendered, err := timeline.Render(attrs, model, api.renderContext())
	api.Metrics.ObserveRender("Timeline", start, err)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(rendered))
}

func (api *RestAPI) deleteTimelineHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathID(w, r)
	if !ok {
		return
	}

	if err := api.Registry.Delete(r.Context(), id); err != nil {
		api.errorResponse(w, r, err)
		return
	}
	api.Metrics.SetStoredTimelines(len(api.Registry.IDs()))
	api.sendResponse(w, r, models.NewEntryResponse(map[string]string{"id": id}))
}

func (api *RestAPI) listTimelinesHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.Registry.IDs()))
}

// decodeError marks a behavior the stored timeline could not decode.
type decodeError struct{ err error }

func (e decodeError) Error() string { return e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }

// timelineBehaviorHandler decodes the posted behavior against the stored
// model, applies add, change and delete to it and echoes the typed event.
// Decoding and applying run inside one registry update.
func (api *RestAPI) timelineBehaviorHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.pathID(w, r)
	if !ok {
		return
	}

	req, err := behavior.FromHTTP(r)
	if err != nil {
		api.fieldErrorResponse(w, r, "behavior", err)
		return
	}

	var (
		ev    timeline.BehaviorEvent
		added *timeline.Event
	)
	_, err = api.Registry.Update(r.Context(), id, func(attrs *timeline.Timeline, model *timeline.Model) error {
		browser, target, err := attrs.Zones(api.DefaultZone)
		if err != nil {
			return err
		}
		ev, err = timeline.Decode(req, timeline.DecodeContext{
			ClientID: attrs.ClientID,
			Model:    model,
			Browser:  browser,
			Target:   target,
		})
		if err != nil {
			return decodeError{err}
		}
		if err := model.Apply(ev); err != nil {
			return err
		}
		if _, ok := ev.(timeline.AddEvent); ok {
			// Add appends, so the stored event is last
			events := model.Events()
			added = &events[len(events)-1]
		}
		return nil
	})

	if ev != nil {
		api.Metrics.CountBehavior("Timeline", timelineBehaviorEntry(ev, nil).Type)
	}
	var decodeErr decodeError
	switch {
	case err == nil:
		api.sendResponse(w, r, models.NewEntryResponse(timelineBehaviorEntry(ev, added)))
	case errors.As(err, &decodeErr),
		errors.Is(err, timeline.ErrStartDateRequired),
		errors.Is(err, timeline.ErrDuplicateEvent),
		errors.Is(err, timeline.ErrUnknownEvent):
		api.fieldErrorResponse(w, r, "behavior", err)
	default:
		api.errorResponse(w, r, err)
	}
}

func eventRecord(e *timeline.Event) *timeline.EventRecord {
	if e == nil {
		return nil
	}
	rec := e.Record()
	return &rec
}

// timelineBehaviorEntry describes ev for the response. added is the stored
// event an add produced, carrying the id generated when the client sent none.
func timelineBehaviorEntry(ev timeline.BehaviorEvent, added *timeline.Event) models.BehaviorEntry {
	entry := models.BehaviorEntry{Widget: "Timeline", Event: ev}
	switch v := ev.(type) {
	case timeline.AddEvent:
		entry.Type = "add"
		if added != nil {
			entry.Event = map[string]interface{}{"event": eventRecord(added)}
		}
	case timeline.ModificationEvent:
		entry.Type = string(v.Kind)
		entry.Event = map[string]interface{}{"kind": v.Kind, "event": eventRecord(v.Event)}
	case timeline.SelectEvent:
		entry.Type = "select"
		entry.Event = map[string]interface{}{"event": eventRecord(v.Event)}
	case timeline.RangeEvent:
		entry.Type = string(v.Kind)
	case timeline.LazyLoadEvent:
		entry.Type = "lazyload"
	case timeline.DropEvent:
		entry.Type = "drop"
	case timeline.PassThroughEvent:
		entry.Type = "passthrough"
	}
	return entry
}
