package restapi

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDateHandler(t *testing.T) {
	api := createTestApi(t)

	constraints := map[string]interface{}{
		"min":           "2024-01-10",
		"disabledDates": []string{"2024-01-15"},
	}

	tests := []struct {
		name       string
		value      map[string]interface{}
		wantValid  bool
		wantResult string
		wantInMsg  string
	}{
		{
			name:       "accepted",
			value:      map[string]interface{}{"mode": "single", "date": "2024-01-12"},
			wantValid:  true,
			wantResult: "OK",
		},
		{
			name:       "before min",
			value:      map[string]interface{}{"mode": "single", "date": "2024-01-02"},
			wantResult: "BELOW_MIN",
			wantInMsg:  "2024",
		},
		{
			name:       "disabled date",
			value:      map[string]interface{}{"date": "2024-01-15"},
			wantResult: "DISABLED_DATE",
		},
		{
			name:       "range out of order",
			value:      map[string]interface{}{"mode": "range", "start": "2024-01-20", "end": "2024-01-12"},
			wantResult: "INVALID_RANGE_ORDER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]interface{}{"constraints": constraints, "value": tt.value}
			resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/datepicker/when/validate?key=TEST", body)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			e := entry(t, model)
			assert.Equal(t, tt.wantValid, e["valid"])
			assert.Equal(t, tt.wantResult, e["result"])
			if tt.wantValid {
				assert.Empty(t, e["message"])
			} else {
				assert.NotEmpty(t, e["message"])
				assert.Contains(t, e["message"], tt.wantInMsg)
			}
		})
	}

	count, err := testutil.GatherAndCount(api.Metrics.Registry(), "widgetry_datepicker_validation_results_total")
	require.NoError(t, err)
	assert.Equal(t, len(tests), count)

	t.Run("malformed value", func(t *testing.T) {
		body := map[string]interface{}{"value": map[string]interface{}{"mode": "range", "start": "2024-01-20"}}
		resp, raw := serveApiAndRetrieveRaw(t, api, http.MethodPost, "/api/datepicker/when/validate?key=TEST", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, fieldErrors(t, raw), "value")
	})
}

func TestDatePickerBehaviorHandler(t *testing.T) {
	api := createTestApi(t)

	request := func(event string, params map[string][]string) map[string]interface{} {
		all := map[string][]string{
			"javax.faces.source":         {"when"},
			"javax.faces.behavior.event": {event},
		}
		for k, v := range params {
			all[k] = v
		}
		return map[string]interface{}{
			"picker":      map[string]interface{}{"selectionMode": "single"},
			"constraints": map[string]interface{}{"max": "2024-06-30"},
			"params":      all,
		}
	}

	t.Run("select", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/datepicker/when/behavior?key=TEST",
			request("dateSelect", map[string][]string{"when_input": {"2024-03-05"}}))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		e := entry(t, model)
		assert.Equal(t, "DatePicker", e["widget"])
		assert.Equal(t, "select", e["type"])
		ev := e["event"].(map[string]interface{})
		assert.Equal(t, "dateSelect", ev["name"])
		assert.Equal(t, map[string]interface{}{"mode": "single", "date": "2024-03-05"}, ev["value"])
	})

	t.Run("rejected", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/datepicker/when/behavior?key=TEST",
			request("dateSelect", map[string][]string{"when_input": {"2024-07-01"}}))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		e := entry(t, model)
		assert.Equal(t, "rejected", e["type"])
		assert.Equal(t, "ABOVE_MAX", e["event"].(map[string]interface{})["result"])
	})

	t.Run("view change", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/datepicker/when/behavior?key=TEST",
			request("viewChange", map[string][]string{"when_month": {"4"}, "when_year": {"2024"}}))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "viewChange", entry(t, model)["type"])
	})

	t.Run("unparseable date", func(t *testing.T) {
		resp, raw := serveApiAndRetrieveRaw(t, api, http.MethodPost, "/api/datepicker/when/behavior?key=TEST",
			request("dateSelect", map[string][]string{"when_input": {"soon"}}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, fieldErrors(t, raw), "behavior")
	})

	// select, rejected and viewChange; the failed decode is not counted.
	count, err := testutil.GatherAndCount(api.Metrics.Registry(), "widgetry_behavior_events_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
