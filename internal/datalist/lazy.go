package datalist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidPageSize = errors.New("page size must be positive")

type SortOrder string

const (
	SortAscending  SortOrder = "ASCENDING"
	SortDescending SortOrder = "DESCENDING"
	SortUnsorted   SortOrder = "UNSORTED"
)

// LoadRequest selects one page of a lazy model. A zero PageSize selects every
// row from First on.
type LoadRequest struct {
	First     int               `json:"first"`
	PageSize  int               `json:"pageSize"`
	SortField string            `json:"sortField,omitempty"`
	SortOrder SortOrder         `json:"sortOrder,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
}

// LazyDataModel loads rows on demand, one page at a time.
type LazyDataModel[T any] interface {
	Load(ctx context.Context, req LoadRequest) ([]T, error)
	// RowCount is the total number of rows, as known after the last load.
	RowCount() int
}

// Iterate walks every row of m page by page, starting at req.First. A page
// shorter than the page size ends the walk, so a source whose size is a
// multiple of the page size costs one extra empty load.
func Iterate[T any](ctx context.Context, m LazyDataModel[T], req LoadRequest, visit func(index int, item T) error) error {
	if req.PageSize <= 0 {
		return ErrInvalidPageSize
	}

	index := req.First
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := m.Load(ctx, req)
		if err != nil {
			return fmt.Errorf("error loading rows from %d: %w", req.First, err)
		}
		for _, item := range page {
			if err := visit(index, item); err != nil {
				return err
			}
			index++
		}
		if len(page) < req.PageSize {
			return nil
		}
		req.First += req.PageSize
	}
}

// SliceModel is a lazy model over rows held in memory. Filters match a
// field's text by substring; Field extracts it.
type SliceModel[T any] struct {
	Rows  []T
	Field func(item T, name string) string

	rowCount int
}

func NewSliceModel[T any](rows []T) *SliceModel[T] {
	return &SliceModel[T]{Rows: rows, rowCount: len(rows)}
}

func (m *SliceModel[T]) Load(_ context.Context, req LoadRequest) ([]T, error) {
	rows := m.Rows
	if m.Field != nil && len(req.Filters) > 0 {
		rows = make([]T, 0, len(m.Rows))
		for _, item := range m.Rows {
			if m.matches(item, req.Filters) {
				rows = append(rows, item)
			}
		}
	}
	if m.Field != nil && req.SortField != "" && req.SortOrder != SortUnsorted && req.SortOrder != "" {
		sorted := make([]T, len(rows))
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := m.Field(sorted[i], req.SortField), m.Field(sorted[j], req.SortField)
			if req.SortOrder == SortDescending {
				return a > b
			}
			return a < b
		})
		rows = sorted
	}
	m.rowCount = len(rows)

	first := min(max(req.First, 0), len(rows))
	last := len(rows)
	if req.PageSize > 0 {
		last = min(first+req.PageSize, len(rows))
	}
	return rows[first:last], nil
}

func (m *SliceModel[T]) matches(item T, filters map[string]string) bool {
	for field, want := range filters {
		if !strings.Contains(strings.ToLower(m.Field(item, field)), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

func (m *SliceModel[T]) RowCount() int {
	return m.rowCount
}
