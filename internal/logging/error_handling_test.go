package logging

import (
	"bytes"
	"database/sql"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type errorCloser struct {
	err error
}

func (e *errorCloser) Close() error {
	return e.err
}

type mockTransaction struct {
	rollbackErr error
}

func (m *mockTransaction) Rollback() error {
	return m.rollbackErr
}

func TestSafeClose(t *testing.T) {
	t.Run("successful close logs nothing", func(t *testing.T) {
		var buf bytes.Buffer
		SafeCloseWithLogging(&errorCloser{}, NewStructuredLogger(&buf, slog.LevelInfo), "widget_database")
		assert.Empty(t, buf.String())
	})

	t.Run("nil closer is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() {
			SafeCloseWithLogging(nil, nil, "nothing")
		})
	})

	t.Run("failed close is logged", func(t *testing.T) {
		var buf bytes.Buffer
		SafeCloseWithLogging(&errorCloser{err: assert.AnError}, NewStructuredLogger(&buf, slog.LevelInfo), "widget_database")

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to close resource"`)
		assert.Contains(t, output, `"operation":"widget_database"`)
	})
}

func TestSafeRollback(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantLog bool
	}{
		{"successful rollback", nil, false},
		{"already committed", sql.ErrTxDone, false},
		{"wrapped already committed", fmt.Errorf("driver: %w", sql.ErrTxDone), false},
		{"rollback failure", assert.AnError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SafeRollbackWithLogging(&mockTransaction{rollbackErr: tt.err}, NewStructuredLogger(&buf, slog.LevelInfo), "save_timeline")

			if !tt.wantLog {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), `"msg":"failed to rollback transaction"`)
			assert.Contains(t, buf.String(), `"operation":"save_timeline"`)
		})
	}
}

func TestHandleDeferredError(t *testing.T) {
	t.Run("deferred failure becomes the result", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		run := func() (err error) {
			defer HandleDeferredError(&err, func() error { return assert.AnError }, logger, "close_definition")
			return nil
		}

		err := run()
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "close_definition failed")
		assert.Contains(t, buf.String(), `"msg":"deferred operation failed"`)
	})

	t.Run("original error wins", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)
		original := fmt.Errorf("parse failed")

		run := func() (err error) {
			defer HandleDeferredError(&err, func() error { return assert.AnError }, logger, "close_definition")
			return original
		}

		assert.Equal(t, original, run())
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
	})
}
