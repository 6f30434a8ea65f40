package restapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"widgetry.dev/internal/behavior"
	"widgetry.dev/internal/models"
)

func putSampleTimeline(t *testing.T, api *RestAPI, id string) {
	t.Helper()
	body := map[string]interface{}{
		"timeline": map[string]interface{}{"height": "200px"},
		"model": map[string]interface{}{
			"events": []map[string]interface{}{
				{"id": "e1", "start": "2024-01-02T10:00:00Z", "end": "2024-01-02T11:00:00Z", "data": "Meeting", "group": "Room A"},
			},
			"groups": []map[string]interface{}{
				{"id": "Room A", "content": "Room A"},
			},
		},
	}
	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodPut, "/api/timelines/"+id+"?key=TEST", body)
	require.Equal(t, http.StatusOK, resp.StatusCode, model.Text)
}

// postBehavior sends a form-encoded behavior request for the timeline id.
func postBehavior(t *testing.T, api *RestAPI, id, event string, params map[string]string) (*http.Response, []byte) {
	t.Helper()
	server := newTestServer(t, api)

	form := url.Values{
		behavior.SourceParam: {id},
		behavior.EventParam:  {event},
	}
	for k, v := range params {
		form.Set(id+"_"+k, v)
	}
	resp, err := http.Post(server.URL+"/api/timelines/"+id+"/behavior?key=TEST",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func behaviorEntry(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var model models.ResponseModel
	require.NoError(t, json.Unmarshal(raw, &model), string(raw))
	return entry(t, model)
}

func TestTimelineLifecycle(t *testing.T) {
	api := createTestApi(t)

	putSampleTimeline(t, api, "tl")

	resp, model := serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/api/timelines?key=TEST", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := model.Data.(map[string]interface{})
	assert.Equal(t, []interface{}{"tl"}, data["list"])
	assert.Equal(t, false, data["limitExceeded"])

	resp, model = serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/api/timelines/tl?key=TEST", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	e := entry(t, model)
	assert.Equal(t, "Timeline", e["widget"])
	assert.Contains(t, e["script"], "Meeting")
	assert.Contains(t, e["markup"], `id="tl"`)

	resp, model = serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, entry(t, model)["timelines"])

	resp, _ = serveApiAndRetrieveEndpoint(t, api, http.MethodDelete, "/api/timelines/tl?key=TEST", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/api/timelines/tl?key=TEST", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = serveApiAndRetrieveEndpoint(t, api, http.MethodDelete, "/api/timelines/tl?key=TEST", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutTimelineValidation(t *testing.T) {
	api := createTestApi(t)

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{
			name:  "unknown zone",
			body:  map[string]interface{}{"timeline": map[string]interface{}{"timeZone": "Mars/Olympus"}},
			field: "timeline",
		},
		{
			name: "event without start",
			body: map[string]interface{}{
				"model": map[string]interface{}{"events": []map[string]interface{}{{"id": "x", "start": "0001-01-01T00:00:00Z"}}},
			},
			field: "model",
		},
		{
			name: "repeated group id",
			body: map[string]interface{}{
				"model": map[string]interface{}{
					"events": []map[string]interface{}{{"id": "x", "start": "2024-01-02T10:00:00Z", "group": "a"}},
					"groups": []map[string]interface{}{{"id": "a"}, {"id": "a", "content": "A"}},
				},
			},
			field: "model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := serveApiAndRetrieveRaw(t, api, http.MethodPut, "/api/timelines/tl?key=TEST", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, fieldErrors(t, raw), tt.field)
		})
	}

	resp, _ := serveApiAndRetrieveEndpoint(t, api, http.MethodGet, "/api/timelines/tl?key=TEST", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTimelineBehavior(t *testing.T) {
	api := createTestApi(t)
	putSampleTimeline(t, api, "tl")

	t.Run("add", func(t *testing.T) {
		resp, raw := postBehavior(t, api, "tl", "add", map[string]string{
			"id":        "e2",
			"startDate": "1704276000000",
			"group":     "Room B",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

		e := behaviorEntry(t, raw)
		assert.Equal(t, "Timeline", e["widget"])
		assert.Equal(t, "add", e["type"])
		stored := e["event"].(map[string]interface{})["event"].(map[string]interface{})
		assert.Equal(t, "e2", stored["id"])
		assert.Equal(t, "Room B", stored["group"])

		_, model, err := api.Registry.Get("tl")
		require.NoError(t, err)
		assert.Equal(t, 2, model.Len())
	})

	t.Run("add reports the generated id", func(t *testing.T) {
		resp, raw := postBehavior(t, api, "tl", "add", map[string]string{"startDate": "1704362400000"})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

		stored := behaviorEntry(t, raw)["event"].(map[string]interface{})["event"].(map[string]interface{})
		id, _ := stored["id"].(string)
		require.NotEmpty(t, id)

		_, model, err := api.Registry.Get("tl")
		require.NoError(t, err)
		_, ok := model.Event(id)
		assert.True(t, ok)

		resp, raw = postBehavior(t, api, "tl", "delete", map[string]string{"eventId": id})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	})

	t.Run("select echoes the event", func(t *testing.T) {
		resp, raw := postBehavior(t, api, "tl", "select", map[string]string{"eventId": "e1"})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

		e := behaviorEntry(t, raw)
		assert.Equal(t, "select", e["type"])
		ev := e["event"].(map[string]interface{})["event"].(map[string]interface{})
		assert.Equal(t, "e1", ev["id"])
		assert.Equal(t, "Meeting", ev["data"])
	})

	t.Run("delete", func(t *testing.T) {
		resp, raw := postBehavior(t, api, "tl", "delete", map[string]string{"eventId": "e2"})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
		assert.Equal(t, "delete", behaviorEntry(t, raw)["type"])

		_, model, err := api.Registry.Get("tl")
		require.NoError(t, err)
		assert.Equal(t, 1, model.Len())
	})

	t.Run("add without start", func(t *testing.T) {
		resp, raw := postBehavior(t, api, "tl", "add", map[string]string{"id": "e3"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, fieldErrors(t, raw), "behavior")
	})

	t.Run("other sources pass through", func(t *testing.T) {
		server := newTestServer(t, api)
		form := url.Values{behavior.SourceParam: {"other"}, behavior.EventParam: {"add"}}
		resp, err := http.PostForm(server.URL+"/api/timelines/tl/behavior?key=TEST", form)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "passthrough", behaviorEntry(t, raw)["type"])

		_, model, err := api.Registry.Get("tl")
		require.NoError(t, err)
		assert.Equal(t, 1, model.Len())
	})

	t.Run("unknown timeline", func(t *testing.T) {
		resp, _ := postBehavior(t, api, "missing", "select", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
