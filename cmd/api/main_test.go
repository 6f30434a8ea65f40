package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"widgetry.dev/internal/appconf"
	"widgetry.dev/internal/models"
	"widgetry.dev/internal/widget"
)

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "widget.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	root := newRootCommand(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name       string
		definition string
		want       []string
	}{
		{
			name: "timeline",
			definition: `
kind: timeline
id: schedule
widget:
  height: 200px
model:
  events:
    - id: e1
      start: 2024-01-02T10:00:00Z
      data: Standup
`,
			want: []string{`<div id="schedule"`, `PrimeFaces.cw("Timeline"`, "Standup"},
		},
		{
			name: "datepicker",
			definition: `
kind: datepicker
id: when
widget:
  selectionMode: range
constraints:
  min: "2024-01-01"
`,
			want: []string{`PrimeFaces.cw("DatePicker"`, `mindate:"`, `"range"`},
		},
		{
			name: "datalist",
			definition: `
kind: datalist
id: fruits
widget:
  type: ordered
rows:
  - label: Apple
  - label: Fish & Chips
`,
			want: []string{"<ol", "Apple", "Fish &amp; Chips"},
		},
		{
			name: "line chart",
			definition: `
kind: chart
chart: line
id: births
model:
  title: Births
  series:
    - label: Boys
      data:
        - {key: 1, value: 120}
        - {key: 2, value: 100}
`,
			want: []string{`type:"line"`, `title:"Births"`},
		},
		{
			name: "map",
			definition: `
kind: gmap
id: map
widget:
  center: "41.38, 2.12"
model:
  markers:
    - position: {lat: 41.38, lng: 2.12}
      title: Konyaalti
      visible: true
`,
			want: []string{`PrimeFaces.cw("GMap"`, "Konyaalti"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, "render", writeDefinition(t, tt.definition), "--time-zone", "UTC")
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			assert.Contains(t, out, "<script>PrimeFaces.cw(")
		})
	}
}

func TestRenderCommandJSON(t *testing.T) {
	path := writeDefinition(t, "kind: datepicker\nid: when\n")
	out, err := runCommand(t, "render", path, "--format", "json", "--time-zone", "UTC")
	require.NoError(t, err)

	var rendered widget.Rendered
	require.NoError(t, json.Unmarshal([]byte(out), &rendered))
	assert.Equal(t, "DatePicker", rendered.Widget)
	assert.Equal(t, "when", rendered.ClientID)
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name       string
		definition string
		args       []string
		wantErr    string
	}{
		{"unknown kind", "kind: slider\nid: s\n", nil, `unknown widget kind "slider"`},
		{"missing id", "kind: datepicker\n", nil, "has no id"},
		{"unknown chart", "kind: chart\nchart: pie\nid: c\n", nil, `unknown chart type "pie"`},
		{"bad format", "kind: datepicker\nid: when\n", []string{"--format", "xml"}, `unknown format "xml"`},
		{"bad zone", "kind: datepicker\nid: when\n", []string{"--time-zone", "Mars/Olympus"}, "invalid time zone"},
		{"malformed yaml", "kind: [\n", nil, "error parsing definition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", writeDefinition(t, tt.definition)}, tt.args...)
			if len(tt.args) == 0 || tt.args[0] != "--time-zone" {
				args = append(args, "--time-zone", "UTC")
			}
			_, err := runCommand(t, args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := runCommand(t, "render", filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "error opening definition")
	})
}

func TestLoadConfigFlags(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgetry.yaml"), []byte("port: 8080\nlogLevel: debug\n"), 0o644))

	cmd := newServeCommand(&dir)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9090", "--api-keys", "a,b"}))

	cfg, err := loadConfig(cmd, dir)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"a", "b"}, cfg.ApiKeys)
	assert.Equal(t, ":memory:", cfg.DBPath)
}

func TestServerHandler(t *testing.T) {
	cfg := appconf.Config{
		Env:             appconf.Test,
		ApiKeys:         []string{"TEST"},
		DBPath:          ":memory:",
		DefaultTimeZone: "UTC",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, release, err := buildApplication(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer release()

	handler, api := newHandler(application)
	defer api.Shutdown()

	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var model models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&model))
	assert.Equal(t, http.StatusOK, model.Code)

	preview, err := http.Get(server.URL + "/preview/timelines/none?key=TEST")
	require.NoError(t, err)
	defer func() { _ = preview.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, preview.StatusCode)

	_, _, err = buildApplication(context.Background(), appconf.Config{DefaultTimeZone: "Mars/Olympus"}, logger)
	assert.ErrorContains(t, err, "invalid default time zone")
}
