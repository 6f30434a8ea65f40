package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"widgetry.dev/internal/models"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// SetRoutes registers the API on router. Everything but the health check
// and the metrics endpoint needs a valid key.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodPost, "/api/widgets/chart/:kind/:id", validateAPIKey(api, api.chartHandler))
	router.Handler(http.MethodPost, "/api/widgets/gmap/:id", validateAPIKey(api, api.gmapHandler))
	router.Handler(http.MethodPost, "/api/widgets/datalist/:id", validateAPIKey(api, api.dataListHandler))
	router.Handler(http.MethodPost, "/api/widgets/datepicker/:id", validateAPIKey(api, api.datePickerHandler))

	router.Handler(http.MethodPut, "/api/timelines/:id", validateAPIKey(api, api.putTimelineHandler))
	router.Handler(http.MethodGet, "/api/timelines/:id", validateAPIKey(api, api.getTimelineHandler))
	router.Handler(http.MethodDelete, "/api/timelines/:id", validateAPIKey(api, api.deleteTimelineHandler))
	router.Handler(http.MethodGet, "/api/timelines", validateAPIKey(api, api.listTimelinesHandler))
	router.Handler(http.MethodPost, "/api/timelines/:id/behavior", validateAPIKey(api, api.timelineBehaviorHandler))

	router.Handler(http.MethodPost, "/api/datepicker/:id/validate", validateAPIKey(api, api.validateDateHandler))
	router.Handler(http.MethodPost, "/api/datepicker/:id/behavior", validateAPIKey(api, api.datePickerBehaviorHandler))

	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)
	if api.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())
	}

	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.writeJSON(w, r, http.StatusMethodNotAllowed, models.NewErrorResponse(http.StatusMethodNotAllowed, "method not allowed"))
	})
}

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	stored := 0
	if api.Registry != nil {
		stored = len(api.Registry.IDs())
	}
	api.sendResponse(w, r, models.NewEntryResponse(map[string]interface{}{
		"status":    "ok",
		"timelines": stored,
	}))
}
