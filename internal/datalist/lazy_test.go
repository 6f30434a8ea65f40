package datalist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingModel serves the integers below total and counts its loads.
type countingModel struct {
	total int
	loads int
}

func (m *countingModel) Load(_ context.Context, req LoadRequest) ([]int, error) {
	m.loads++
	var page []int
	for i := req.First; i < req.First+req.PageSize && i < m.total; i++ {
		page = append(page, i)
	}
	return page, nil
}

func (m *countingModel) RowCount() int { return m.total }

func TestIterateLoadCounts(t *testing.T) {
	tests := []struct {
		name      string
		pageSize  int
		total     int
		wantLoads int
	}{
		{"page smaller than total", 3, 10, 4},
		{"page equal to total", 20, 20, 2},
		{"page larger than total", 10, 9, 1},
		{"empty source", 10, 0, 1},
		{"half page", 10, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &countingModel{total: tt.total}
			var got []int
			err := Iterate(context.Background(), m, LoadRequest{PageSize: tt.pageSize}, func(index, item int) error {
				assert.Equal(t, index, item)
				got = append(got, item)
				return nil
			})
			require.NoError(t, err)
			assert.Len(t, got, tt.total)
			assert.Equal(t, tt.wantLoads, m.loads)
		})
	}
}

func TestIterateStopsOnVisitError(t *testing.T) {
	stop := errors.New("stop")
	m := &countingModel{total: 10}
	visited := 0
	err := Iterate(context.Background(), m, LoadRequest{PageSize: 3}, func(int, int) error {
		visited++
		if visited == 4 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, m.loads)
}

func TestIterateRejectsBadPageSize(t *testing.T) {
	err := Iterate(context.Background(), &countingModel{}, LoadRequest{}, func(int, int) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestIterateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &countingModel{total: 10}
	err := Iterate(ctx, m, LoadRequest{PageSize: 3}, func(int, int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, m.loads)
}

type person struct {
	Name string
	City string
}

func TestSliceModelFilterAndSort(t *testing.T) {
	m := NewSliceModel([]person{
		{"Ana", "Lisbon"},
		{"Bob", "Porto"},
		{"Cleo", "lisbon"},
		{"Dan", "Braga"},
	})
	m.Field = func(p person, name string) string {
		if name == "city" {
			return p.City
		}
		return p.Name
	}

	rows, err := m.Load(context.Background(), LoadRequest{
		PageSize:  1,
		First:     1,
		SortField: "name",
		SortOrder: SortDescending,
		Filters:   map[string]string{"city": "LISBON"},
	})
	require.NoError(t, err)
	assert.Equal(t, []person{{"Ana", "Lisbon"}}, rows)
	assert.Equal(t, 2, m.RowCount())

	rows, err = m.Load(context.Background(), LoadRequest{First: 3})
	require.NoError(t, err)
	assert.Equal(t, []person{{"Dan", "Braga"}}, rows)
	assert.Equal(t, 4, m.RowCount())

	rows, err = m.Load(context.Background(), LoadRequest{First: 10, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
