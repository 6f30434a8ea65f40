package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartHandler(t *testing.T) {
	api := createTestApi(t)

	body := map[string]interface{}{
		"chart": map[string]interface{}{"style": "height:300px"},
		"model": map[string]interface{}{
			"title": "Births",
			"series": []map[string]interface{}{{
				"label": "Boys",
				"data": []map[string]interface{}{
					{"key": "2004", "value": 120},
					{"key": "2005", "value": 100},
				},
			}},
		},
	}

	for _, kind := range []string{"bar", "line"} {
		t.Run(kind, func(t *testing.T) {
			resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/widgets/chart/"+kind+"/births?key=TEST", body)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			e := entry(t, model)
			assert.Equal(t, "Chart", e["widget"])
			assert.Equal(t, "births", e["clientId"])
			assert.Contains(t, e["markup"], `id="births"`)
			assert.Contains(t, e["script"], `PrimeFaces.cw("Chart","widget_births",{id:"births",type:"`+kind+`"`)
			assert.Contains(t, e["script"], `title:"Births"`)
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		resp, _ := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/widgets/chart/pie/births?key=TEST", body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unsupported axis bound", func(t *testing.T) {
		bad := map[string]interface{}{
			"model": map[string]interface{}{
				"axes": map[string]interface{}{"yaxis": map[string]interface{}{"min": true}},
			},
		}
		resp, raw := serveApiAndRetrieveRaw(t, api, http.MethodPost, "/api/widgets/chart/bar/births?key=TEST", bad)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, fieldErrors(t, raw), "model")
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, raw := serveApiAndRetrieveRaw(t, api, http.MethodPost, "/api/widgets/chart/bar/bad%20id?key=TEST", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, fieldErrors(t, raw), "id")
	})
}

func TestGMapHandler(t *testing.T) {
	api := createTestApi(t)

	t.Run("markers get ids and bounds", func(t *testing.T) {
		body := map[string]interface{}{
			"center": "41.381542, 2.122893",
			"zoom":   12,
			"model": map[string]interface{}{
				"markers": []map[string]interface{}{
					{"position": map[string]float64{"lat": 41.38, "lng": 2.12}, "title": "Konyaalti", "visible": true},
					{"position": map[string]float64{"lat": 41.39, "lng": 2.15}, "title": "Ataturk", "visible": true},
				},
			},
		}
		resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/widgets/gmap/map?key=TEST", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		e := entry(t, model)
		assert.Equal(t, "GMap", e["widget"])
		assert.Contains(t, e["script"], "Konyaalti")

		bounds, ok := e["bounds"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, map[string]interface{}{"lat": 41.39, "lng": 2.15}, bounds["northEast"])
		assert.Equal(t, map[string]interface{}{"lat": 41.38, "lng": 2.12}, bounds["southWest"])
	})

	t.Run("no overlays has no bounds", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/widgets/gmap/map?key=TEST", map[string]interface{}{"center": "0,0"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotContains(t, entry(t, model), "bounds")
	})

	t.Run("bad coordinates", func(t *testing.T) {
		body := map[string]interface{}{
			"center": "north",
			"model": map[string]interface{}{
				"markers": []map[string]interface{}{
					{"position": map[string]float64{"lat": 95, "lng": 0}},
				},
			},
		}
		resp, raw := serveApiAndRetrieveRaw(t, api, http.MethodPost, "/api/widgets/gmap/map?key=TEST", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		errs := fieldErrors(t, raw)
		assert.Contains(t, errs, "center")
		assert.Contains(t, errs, "markers[0]")
	})
}

func TestDataListHandler(t *testing.T) {
	api := createTestApi(t)

	body := map[string]interface{}{
		"list": map[string]interface{}{"type": "definition", "paginator": true, "rows": 2},
		"rows": []map[string]string{
			{"label": "Apple", "note": "<b>red</b>"},
			{"label": "Banana", "note": "yellow"},
			{"label": "Cherry", "note": "dark"},
		},
		"descriptionField": "note",
	}

	t.Run("full render", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/widgets/datalist/fruits?key=TEST", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		e := entry(t, model)
		assert.EqualValues(t, 3, e["rowCount"])
		rendered, ok := e["rendered"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "DataList", rendered["widget"])
		assert.Contains(t, rendered["markup"], "Apple")
		assert.Contains(t, rendered["markup"], "&lt;b&gt;red&lt;/b&gt;")
		assert.NotContains(t, rendered["markup"], "Cherry")
		assert.NotContains(t, e, "page")
	})

	t.Run("pagination request", func(t *testing.T) {
		query := "?key=TEST&javax.faces.source=fruits&fruits_pagination=true&fruits_first=2&fruits_rows=2"
		resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/widgets/datalist/fruits"+query, body)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		e := entry(t, model)
		assert.NotContains(t, e, "rendered")
		assert.Contains(t, e["page"], "Cherry")
		assert.NotContains(t, e["page"], "Apple")
	})

	t.Run("malformed page", func(t *testing.T) {
		query := "?key=TEST&javax.faces.source=fruits&fruits_pagination=true&fruits_first=x&fruits_rows=2"
		resp, raw := serveApiAndRetrieveRaw(t, api, http.MethodPost, "/api/widgets/datalist/fruits"+query, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, fieldErrors(t, raw), "behavior")
	})
}

func TestDatePickerHandler(t *testing.T) {
	api := createTestApi(t)

	body := map[string]interface{}{
		"picker":      map[string]interface{}{"selectionMode": "range", "showIcon": true},
		"constraints": map[string]interface{}{"min": "2024-01-01", "disabledDays": []int{0}},
	}
	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPost, "/api/widgets/datepicker/when?key=TEST", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	e := entry(t, model)
	assert.Equal(t, "DatePicker", e["widget"])
	assert.Equal(t, "when", e["clientId"])
	assert.Contains(t, e["script"], `mindate:"`)
	assert.Contains(t, e["script"], `"range"`)

	t.Run("bad constraints", func(t *testing.T) {
		bad := map[string]interface{}{"constraints": map[string]interface{}{"timeZone": "Nowhere/Special"}}
		resp, raw := serveApiAndRetrieveRaw(t, api, http.MethodPost, "/api/widgets/datepicker/when?key=TEST", bad)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, fieldErrors(t, raw), "constraints")
	})
}
