package timeline

import (
	"fmt"
	"time"

	"widgetry.dev/internal/behavior"
	"widgetry.dev/internal/tzconv"
)

// BehaviorEvent is a decoded timeline behavior. The set of implementations
// is closed; switch on the concrete type.
type BehaviorEvent interface {
	timelineEvent()
}

type ModificationKind string

const (
	Change  ModificationKind = "change"
	Changed ModificationKind = "changed"
	Edit    ModificationKind = "edit"
	Delete  ModificationKind = "delete"
)

type RangeKind string

const (
	RangeChange  RangeKind = "rangechange"
	RangeChanged RangeKind = "rangechanged"
)

// AddEvent asks for a new event. Start is nil when the client sent none.
type AddEvent struct {
	ID    string     `json:"id,omitempty"`
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end,omitempty"`
	Group string     `json:"group,omitempty"`
}

// ModificationEvent carries a reconstructed copy of the affected event, or
// nil when the id is not in the model. For change and changed the copy has
// the posted dates and group.
type ModificationEvent struct {
	Kind  ModificationKind `json:"kind"`
	Event *Event           `json:"-"`
}

type SelectEvent struct {
	Event *Event `json:"-"`
}

type RangeEvent struct {
	Kind  RangeKind  `json:"kind"`
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type LazyLoadEvent struct {
	StartFirst  *time.Time `json:"startFirst"`
	EndFirst    *time.Time `json:"endFirst"`
	StartSecond *time.Time `json:"startSecond,omitempty"`
	EndSecond   *time.Time `json:"endSecond,omitempty"`
}

// DropEvent reports an item dragged onto the timeline.
type DropEvent struct {
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end,omitempty"`
	Group  string     `json:"group,omitempty"`
	DragID string     `json:"dragId"`
	Data   any        `json:"data,omitempty"`
}

// PassThroughEvent is any behavior this widget does not type.
type PassThroughEvent struct {
	Name string `json:"name"`
}

func (AddEvent) timelineEvent()          {}
func (ModificationEvent) timelineEvent() {}
func (SelectEvent) timelineEvent()       {}
func (RangeEvent) timelineEvent()        {}
func (LazyLoadEvent) timelineEvent()     {}
func (DropEvent) timelineEvent()         {}
func (PassThroughEvent) timelineEvent()  {}

// DragDataResolver returns the data behind a draggable rendered inside the
// data component uiDataID.
type DragDataResolver func(uiDataID, dragID string) (any, error)

// DecodeContext is everything Decode needs besides the request.
type DecodeContext struct {
	ClientID string
	Model    *Model
	Browser  *time.Location
	Target   *time.Location
	DragData DragDataResolver
}

type decoder struct {
	req behavior.Request
	dc  DecodeContext
}

func (d decoder) param(name string) string {
	return d.req.Param(d.dc.ClientID, name)
}

func (d decoder) date(name string) (*time.Time, error) {
	t, err := tzconv.ParseToUTC(d.param(name), d.dc.Browser, d.dc.Target)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", name, err)
	}
	return t, nil
}

func (d decoder) lookup() *Event {
	if d.dc.Model == nil {
		return nil
	}
	e, ok := d.dc.Model.Event(d.param("eventId"))
	if !ok {
		return nil
	}
	return &e
}

// Decode maps a behavior request onto a typed event. Requests that another
// widget sent come back as a PassThroughEvent.
func Decode(req behavior.Request, dc DecodeContext) (BehaviorEvent, error) {
	if dc.Browser == nil {
		dc.Browser = time.UTC
	}
	if dc.Target == nil {
		dc.Target = time.UTC
	}
	if !req.IsSource(dc.ClientID) {
		return PassThroughEvent{Name: req.Event}, nil
	}
	d := decoder{req: req, dc: dc}

	switch req.Event {
	case "add":
		start, err := d.date("startDate")
		if err != nil {
			return nil, err
		}
		end, err := d.date("endDate")
		if err != nil {
			return nil, err
		}
		return AddEvent{ID: d.param("id"), Start: start, End: end, Group: d.param("group")}, nil

	case string(Change), string(Changed):
		ev := d.lookup()
		if ev != nil {
			start, err := d.date("startDate")
			if err != nil {
				return nil, err
			}
			if start == nil {
				return nil, fmt.Errorf("error decoding %s: %w", req.Event, ErrStartDateRequired)
			}
			end, err := d.date("endDate")
			if err != nil {
				return nil, err
			}
			r := ev.Record()
			r.Start = *start
			r.End = end
			r.Group = d.param("group")
			moved, err := r.Event()
			if err != nil {
				return nil, err
			}
			ev = &moved
		}
		return ModificationEvent{Kind: ModificationKind(req.Event), Event: ev}, nil

	case string(Edit), string(Delete):
		return ModificationEvent{Kind: ModificationKind(req.Event), Event: d.lookup()}, nil

	case "select":
		return SelectEvent{Event: d.lookup()}, nil

	case string(RangeChange), string(RangeChanged):
		start, err := d.date("startDate")
		if err != nil {
			return nil, err
		}
		end, err := d.date("endDate")
		if err != nil {
			return nil, err
		}
		return RangeEvent{Kind: RangeKind(req.Event), Start: start, End: end}, nil

	case "lazyload":
		var ev LazyLoadEvent
		for _, f := range []struct {
			name string
			dst  **time.Time
		}{
			{"startDateFirst", &ev.StartFirst},
			{"endDateFirst", &ev.EndFirst},
			{"startDateSecond", &ev.StartSecond},
			{"endDateSecond", &ev.EndSecond},
		} {
			t, err := d.date(f.name)
			if err != nil {
				return nil, err
			}
			*f.dst = t
		}
		return ev, nil

	case "drop":
		dragID := d.param("dragId")
		uiDataID := d.param("uiDataId")
		var data any
		if dragID != "" && uiDataID != "" && dc.DragData != nil {
			resolved, err := dc.DragData(uiDataID, dragID)
			if err != nil {
				return nil, fmt.Errorf("error resolving drag data: %w", err)
			}
			data = resolved
		}
		start, err := d.date("startDate")
		if err != nil {
			return nil, err
		}
		end, err := d.date("endDate")
		if err != nil {
			return nil, err
		}
		return DropEvent{Start: start, End: end, Group: d.param("group"), DragID: dragID, Data: data}, nil
	}

	return PassThroughEvent{Name: req.Event}, nil
}

// Name returns the behavior name an event was decoded from.
func Name(ev BehaviorEvent) string {
	switch v := ev.(type) {
	case AddEvent:
		return "add"
	case ModificationEvent:
		return string(v.Kind)
	case SelectEvent:
		return "select"
	case RangeEvent:
		return string(v.Kind)
	case LazyLoadEvent:
		return "lazyload"
	case DropEvent:
		return "drop"
	case PassThroughEvent:
		return v.Name
	}
	return ""
}
