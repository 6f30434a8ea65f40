package webui

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/julienschmidt/httprouter"
	"widgetry.dev/internal/logging"
	"widgetry.dev/internal/registry"
	"widgetry.dev/internal/timeline"
	"widgetry.dev/internal/utils"
)

//go:embed preview.html
var templateFS embed.FS

var previewTemplate = template.Must(template.ParseFS(templateFS, "preview.html"))

type previewData struct {
	Title  string
	Markup template.HTML
	// Script is emitted inside a script element; the renderers escape every
	// string they embed.
	Script template.JS
	Dump   string
}

// dumpConfig writes the stored record without pointer addresses so the page
// is stable between requests.
var dumpConfig = &spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}

func (webUI *WebUI) previewTimelineHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.RequestHasInvalidAPIKey(r) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if err := utils.ValidateID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	attrs, model, err := webUI.Registry.Get(id)
	if errors.Is(err, registry.ErrUnknownTimeline) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		webUI.serverError(w, r, err)
		return
	}

	start := time.Now()
	rendered, err := timeline.Render(attrs, model, timeline.RenderContext{Now: webUI.Now, DefaultZone: webUI.DefaultZone})
	webUI.Metrics.ObserveRender("Timeline", start, err)
	if err != nil {
		webUI.serverError(w, r, err)
		return
	}

	writePreview(w, r, previewData{
		Title:  "Timeline " + id,
		Markup: template.HTML(rendered.Markup),
		Script: template.JS(rendered.Script),
		Dump:   dumpConfig.Sdump(model.Record()),
	})
}

func writePreview(w http.ResponseWriter, r *http.Request, data previewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTemplate.Execute(w, data); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to write preview", err,
			slog.String("component", "webui"))
	}
}

func (webUI *WebUI) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "preview failed", err,
		slog.String("path", r.URL.Path),
		slog.String("component", "webui"))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
