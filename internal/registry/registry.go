// Package registry keeps the stored timelines in memory and writes every
// change through to the widget database.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"widgetry.dev/internal/logging"
	"widgetry.dev/internal/timeline"
	"widgetry.dev/widgetdb"
)

var (
	ErrUnknownTimeline = errors.New("unknown timeline")
	ErrShutdown        = errors.New("registry is shut down")
)

type entry struct {
	attrs *timeline.Timeline
	model *timeline.Model
}

// Manager is safe for concurrent use. Readers get copies; the stored model
// only changes through Put, Update, Apply and Delete.
type Manager struct {
	mu           sync.RWMutex
	timelines    map[string]entry
	db           *widgetdb.Client
	logger       *slog.Logger
	closed       bool
	shutdownOnce sync.Once
}

// NewManager loads every timeline stored in db. A nil db keeps the registry
// in memory only.
func NewManager(ctx context.Context, db *widgetdb.Client, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		timelines: make(map[string]entry),
		db:        db,
		logger:    logger,
	}
	if db == nil {
		return m, nil
	}

	ids, err := db.ListTimelines(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing stored timelines: %w", err)
	}
	for _, id := range ids {
		attrs, model, err := db.LoadTimeline(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error loading timeline %q: %w", id, err)
		}
		m.timelines[id] = entry{attrs: attrs, model: model}
	}
	logging.LogOperation(logger, "timelines_loaded", slog.Int("count", len(ids)))
	return m, nil
}

func copyEntry(e entry) (*timeline.Timeline, *timeline.Model, error) {
	attrs := *e.attrs
	model, err := e.model.Record().Model()
	if err != nil {
		return nil, nil, err
	}
	return &attrs, model, nil
}

// Get returns copies of the attributes and model stored under id.
func (m *Manager) Get(id string) (*timeline.Timeline, *timeline.Model, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.timelines[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownTimeline, id)
	}
	return copyEntry(e)
}

// IDs returns the stored ids in order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.timelines))
	for id := range m.timelines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Put stores the timeline under id, replacing any previous one.
func (m *Manager) Put(ctx context.Context, id string, attrs *timeline.Timeline, model *timeline.Model) error {
	if model == nil {
		model = timeline.NewModel()
	}
	stored, storedModel, err := copyEntry(entry{attrs: attrs, model: model})
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrShutdown
	}
	if err := m.persist(ctx, id, stored, storedModel); err != nil {
		return err
	}
	m.timelines[id] = entry{attrs: stored, model: storedModel}
	return nil
}

// Update runs fn on a copy of the timeline stored under id while holding the
// write lock, then persists and stores the copied model. Changes fn makes to
// attrs are discarded. Nothing is stored when fn fails.
func (m *Manager) Update(ctx context.Context, id string, fn func(attrs *timeline.Timeline, model *timeline.Model) error) (*timeline.Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrShutdown
	}

	e, ok := m.timelines[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTimeline, id)
	}
	attrs, next, err := copyEntry(e)
	if err != nil {
		return nil, err
	}
	if err := fn(attrs, next); err != nil {
		return nil, err
	}
	if err := m.persist(ctx, id, e.attrs, next); err != nil {
		return nil, err
	}
	m.timelines[id] = entry{attrs: e.attrs, model: next}

	_, result, err := copyEntry(m.timelines[id])
	return result, err
}

// Apply applies a decoded behavior to the model stored under id and
// returns a copy of the result.
func (m *Manager) Apply(ctx context.Context, id string, ev timeline.BehaviorEvent) (*timeline.Model, error) {
	return m.Update(ctx, id, func(_ *timeline.Timeline, model *timeline.Model) error {
		return model.Apply(ev)
	})
}

// Delete removes the timeline stored under id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrShutdown
	}

	if _, ok := m.timelines[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTimeline, id)
	}
	if m.db != nil {
		if _, err := m.db.DeleteTimeline(ctx, id); err != nil {
			return fmt.Errorf("error deleting timeline %q: %w", id, err)
		}
	}
	delete(m.timelines, id)
	return nil
}

func (m *Manager) persist(ctx context.Context, id string, attrs *timeline.Timeline, model *timeline.Model) error {
	if m.db == nil {
		return nil
	}
	if err := m.db.SaveTimeline(ctx, id, attrs, model); err != nil {
		logging.LogError(m.logger, "failed to persist timeline", err, slog.String("timeline_id", id))
		return fmt.Errorf("error saving timeline %q: %w", id, err)
	}
	return nil
}

// Shutdown stops accepting changes and closes the database.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.closed = true
		if m.db != nil {
			logging.SafeCloseWithLogging(m.db, m.logger, "widget_database")
		}
	})
}
