package timeline

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateEvent = errors.New("duplicate timeline event")
	ErrUnknownEvent   = errors.New("unknown timeline event")
	ErrDuplicateGroup = errors.New("duplicate timeline group")
)

type Group struct {
	ID         string `json:"id"`
	Content    string `json:"content,omitempty"`
	Title      string `json:"title,omitempty"`
	StyleClass string `json:"styleClass,omitempty"`
}

// Model holds ordered events and optional explicit groups. It is not safe for
// concurrent use.
type Model struct {
	events []Event
	groups []Group
}

func NewModel(events ...Event) *Model {
	m := &Model{}
	for _, e := range events {
		// later duplicates replace earlier ones
		if i := m.index(e.ID()); i >= 0 {
			m.events[i] = e
			continue
		}
		m.events = append(m.events, e)
	}
	return m
}

func (m *Model) index(id string) int {
	return slices.IndexFunc(m.events, func(e Event) bool { return e.ID() == id })
}

// Events returns the events in order. The slice is a copy.
func (m *Model) Events() []Event {
	return slices.Clone(m.events)
}

func (m *Model) Len() int {
	return len(m.events)
}

func (m *Model) Event(id string) (Event, bool) {
	i := m.index(id)
	if i < 0 {
		return Event{}, false
	}
	return m.events[i], true
}

func (m *Model) Add(e Event) error {
	if m.index(e.ID()) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateEvent, e.ID())
	}
	m.events = append(m.events, e)
	return nil
}

// Replace swaps the stored event that has e's id for e.
func (m *Model) Replace(e Event) error {
	i := m.index(e.ID())
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, e.ID())
	}
	m.events[i] = e
	return nil
}

// Delete removes the event with id and reports whether it existed.
func (m *Model) Delete(id string) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.events = slices.Delete(m.events, i, i+1)
	return true
}

func (m *Model) SetGroups(groups []Group) {
	m.groups = slices.Clone(groups)
}

// Groups returns the explicit groups, or nil when none were set.
func (m *Model) Groups() []Group {
	return slices.Clone(m.groups)
}

func (m *Model) HasExplicitGroups() bool {
	return len(m.groups) > 0
}

// RenderGroups returns the explicit groups, or the distinct event groups in
// first-seen order with the id doubling as content.
func (m *Model) RenderGroups() []Group {
	if m.HasExplicitGroups() {
		return m.Groups()
	}
	var groups []Group
	seen := make(map[string]bool)
	for _, e := range m.events {
		g := e.Group()
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		groups = append(groups, Group{ID: g, Content: g})
	}
	return groups
}

// Apply folds a decoded behavior event into the model: add inserts, change
// and changed replace, delete removes. Other events leave it untouched.
func (m *Model) Apply(ev BehaviorEvent) error {
	switch v := ev.(type) {
	case AddEvent:
		if v.Start == nil {
			return ErrStartDateRequired
		}
		e, err := EventRecord{ID: v.ID, Start: *v.Start, End: v.End, Group: v.Group}.Event()
		if err != nil {
			return err
		}
		return m.Add(e)
	case ModificationEvent:
		if v.Event == nil {
			return nil
		}
		switch v.Kind {
		case Change, Changed:
			return m.Replace(*v.Event)
		case Delete:
			m.Delete(v.Event.ID())
		}
	}
	return nil
}

// Record is the storable form of a model.
type Record struct {
	Events []EventRecord `json:"events"`
	Groups []Group       `json:"groups,omitempty"`
}

func (m *Model) Record() Record {
	r := Record{Groups: m.Groups()}
	r.Events = make([]EventRecord, len(m.events))
	for i, e := range m.events {
		r.Events[i] = e.Record()
	}
	return r
}

// Model validates every event record, rejects repeated group ids and builds
// a model.
func (r Record) Model() (*Model, error) {
	events := make([]Event, 0, len(r.Events))
	for i, rec := range r.Events {
		e, err := rec.Event()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, e)
	}
	seen := make(map[string]bool, len(r.Groups))
	for _, g := range r.Groups {
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGroup, g.ID)
		}
		seen[g.ID] = true
	}
	m := NewModel(events...)
	m.SetGroups(r.Groups)
	return m, nil
}
