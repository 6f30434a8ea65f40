package timeline

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrStartDateRequired = errors.New("event start date is required")

// Event is an immutable timeline item. Build one from an EventRecord or with
// NewEvent; derive modified copies through Record or the With* methods.
type Event struct {
	id             string
	data           any
	start          time.Time
	end            *time.Time
	editable       *bool
	editableTime   *bool
	editableGroup  *bool
	editableRemove *bool
	group          string
	title          string
	styleClass     string
}

// EventRecord is the exported, mutable form of an Event used for JSON and
// storage. A nil Editable* field inherits from the timeline.
type EventRecord struct {
	ID             string     `json:"id,omitempty"`
	Data           any        `json:"data,omitempty"`
	Start          time.Time  `json:"start"`
	End            *time.Time `json:"end,omitempty"`
	Editable       *bool      `json:"editable,omitempty"`
	EditableTime   *bool      `json:"editableTime,omitempty"`
	EditableGroup  *bool      `json:"editableGroup,omitempty"`
	EditableRemove *bool      `json:"editableRemove,omitempty"`
	Group          string     `json:"group,omitempty"`
	Title          string     `json:"title,omitempty"`
	StyleClass     string     `json:"styleClass,omitempty"`
}

// NewEvent creates an event with a generated id.
func NewEvent(data any, start time.Time, end *time.Time) (Event, error) {
	return EventRecord{Data: data, Start: start, End: end}.Event()
}

// Event validates the record and builds an event from it. Editable, when
// set, is the default for the three finer flags.
func (r EventRecord) Event() (Event, error) {
	if r.Start.IsZero() {
		return Event{}, ErrStartDateRequired
	}
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	e := Event{
		id:             id,
		data:           r.Data,
		start:          r.Start.UTC(),
		end:            utcPtr(r.End),
		editable:       boolPtr(r.Editable),
		editableTime:   boolPtr(r.Editable),
		editableGroup:  boolPtr(r.Editable),
		editableRemove: boolPtr(r.Editable),
		group:          r.Group,
		title:          r.Title,
		styleClass:     r.StyleClass,
	}
	if r.EditableTime != nil {
		e.editableTime = boolPtr(r.EditableTime)
	}
	if r.EditableGroup != nil {
		e.editableGroup = boolPtr(r.EditableGroup)
	}
	if r.EditableRemove != nil {
		e.editableRemove = boolPtr(r.EditableRemove)
	}
	return e, nil
}

// Record returns a copy of every field. Changing the record never affects e.
func (e Event) Record() EventRecord {
	return EventRecord{
		ID:             e.id,
		Data:           e.data,
		Start:          e.start,
		End:            utcPtr(e.end),
		Editable:       boolPtr(e.editable),
		EditableTime:   boolPtr(e.editableTime),
		EditableGroup:  boolPtr(e.editableGroup),
		EditableRemove: boolPtr(e.editableRemove),
		Group:          e.group,
		Title:          e.title,
		StyleClass:     e.styleClass,
	}
}

func (e Event) ID() string            { return e.id }
func (e Event) Data() any             { return e.data }
func (e Event) Start() time.Time      { return e.start }
func (e Event) End() *time.Time       { return utcPtr(e.end) }
func (e Event) Editable() *bool       { return boolPtr(e.editable) }
func (e Event) EditableTime() *bool   { return boolPtr(e.editableTime) }
func (e Event) EditableGroup() *bool  { return boolPtr(e.editableGroup) }
func (e Event) EditableRemove() *bool { return boolPtr(e.editableRemove) }
func (e Event) Group() string         { return e.group }
func (e Event) Title() string         { return e.title }
func (e Event) StyleClass() string    { return e.styleClass }

// Equal reports whether both events carry the same id.
func (e Event) Equal(other Event) bool {
	return e.id == other.id
}

// WithDates returns a copy moved to start and end.
func (e Event) WithDates(start time.Time, end *time.Time) (Event, error) {
	r := e.Record()
	r.Start = start
	r.End = end
	return r.Event()
}

// WithGroup returns a copy assigned to group.
func (e Event) WithGroup(group string) Event {
	r := e.Record()
	r.Group = group
	out, _ := r.Event()
	return out
}

func boolPtr(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
