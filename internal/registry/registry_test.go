package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"widgetry.dev/internal/appconf"
	"widgetry.dev/internal/timeline"
	"widgetry.dev/widgetdb"
)

func newTestDB(t *testing.T) *widgetdb.Client {
	t.Helper()
	db, err := widgetdb.NewClient(widgetdb.NewConfig(":memory:", appconf.Test, false), nil)
	require.NoError(t, err)
	return db
}

func sampleModel(t *testing.T) *timeline.Model {
	t.Helper()
	e, err := timeline.EventRecord{ID: "e1", Start: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), Group: "a"}.Event()
	require.NoError(t, err)
	return timeline.NewModel(e)
}

func TestPutGetIsolation(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(ctx, nil, nil)
	require.NoError(t, err)

	model := sampleModel(t)
	require.NoError(t, m.Put(ctx, "tl", timeline.NewTimeline("tl"), model))

	model.Delete("e1")
	_, stored, err := m.Get("tl")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Len())

	stored.Delete("e1")
	_, again, err := m.Get("tl")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Len())

	_, _, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownTimeline)
	assert.Equal(t, []string{"tl"}, m.IDs())
}

func TestApplyWritesThrough(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	m, err := NewManager(ctx, db, nil)
	require.NoError(t, err)
	defer m.Shutdown()

	require.NoError(t, m.Put(ctx, "tl", timeline.NewTimeline("tl"), sampleModel(t)))

	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	result, err := m.Apply(ctx, "tl", timeline.AddEvent{ID: "e2", Start: &start, Group: "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Len())

	_, persisted, err := db.LoadTimeline(ctx, "tl")
	require.NoError(t, err)
	got, ok := persisted.Event("e2")
	require.True(t, ok)
	assert.Equal(t, "b", got.Group())

	_, err = m.Apply(ctx, "tl", timeline.AddEvent{ID: "e3"})
	assert.ErrorIs(t, err, timeline.ErrStartDateRequired)

	_, err = m.Apply(ctx, "nope", timeline.AddEvent{ID: "e3", Start: &start})
	assert.ErrorIs(t, err, ErrUnknownTimeline)
}

func TestNewManagerLoadsStoredTimelines(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.SaveTimeline(ctx, "stored", timeline.NewTimeline("stored"), sampleModel(t)))

	m, err := NewManager(ctx, db, nil)
	require.NoError(t, err)
	defer m.Shutdown()

	attrs, model, err := m.Get("stored")
	require.NoError(t, err)
	assert.Equal(t, "stored", attrs.ClientID)
	assert.Equal(t, 1, model.Len())
}

func TestDeleteAndShutdown(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	m, err := NewManager(ctx, db, nil)
	require.NoError(t, err)

	require.NoError(t, m.Put(ctx, "tl", timeline.NewTimeline("tl"), nil))
	require.NoError(t, m.Delete(ctx, "tl"))
	assert.ErrorIs(t, m.Delete(ctx, "tl"), ErrUnknownTimeline)

	ids, err := db.ListTimelines(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	m.Shutdown()
	m.Shutdown()
	assert.ErrorIs(t, m.Put(ctx, "tl", timeline.NewTimeline("tl"), nil), ErrShutdown)
}

func TestConcurrentApply(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(ctx, nil, nil)
	require.NoError(t, err)
	require.NoError(t, m.Put(ctx, "tl", timeline.NewTimeline("tl"), timeline.NewModel()))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Apply(ctx, "tl", timeline.AddEvent{Start: &start})
			assert.NoError(t, err)
			_, _, err = m.Get("tl")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, model, err := m.Get("tl")
	require.NoError(t, err)
	assert.Equal(t, 20, model.Len())
}

func TestUpdateSeesLatestModel(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(ctx, newTestDB(t), nil)
	require.NoError(t, err)
	defer m.Shutdown()
	require.NoError(t, m.Put(ctx, "tl", timeline.NewTimeline("tl"), timeline.NewModel()))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Update(ctx, "tl", func(_ *timeline.Timeline, model *timeline.Model) error {
				// each update extends whatever the previous one stored
				e, err := timeline.EventRecord{Start: start.Add(time.Duration(model.Len()) * time.Hour)}.Event()
				if err != nil {
					return err
				}
				return model.Add(e)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, model, err := m.Get("tl")
	require.NoError(t, err)
	require.Equal(t, 10, model.Len())
	for i, e := range model.Events() {
		assert.Equal(t, start.Add(time.Duration(i)*time.Hour), e.Start())
	}

	failed := errors.New("rejected")
	_, err = m.Update(ctx, "tl", func(_ *timeline.Timeline, model *timeline.Model) error {
		model.Delete(model.Events()[0].ID())
		return failed
	})
	assert.ErrorIs(t, err, failed)
	_, model, err = m.Get("tl")
	require.NoError(t, err)
	assert.Equal(t, 10, model.Len())

	_, err = m.Update(ctx, "nope", func(*timeline.Timeline, *timeline.Model) error { return nil })
	assert.ErrorIs(t, err, ErrUnknownTimeline)
}
