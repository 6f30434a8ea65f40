// Package webui serves HTML previews of stored widgets.
package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"widgetry.dev/internal/app"
)

type WebUI struct {
	*app.Application
}

func SetWebUIRoutes(router *httprouter.Router, webUI *WebUI) {
	router.HandlerFunc(http.MethodGet, "/preview/timelines/:id", webUI.previewTimelineHandler)
}
