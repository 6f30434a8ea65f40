package restapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"widgetry.dev/internal/logging"
	"widgetry.dev/internal/models"
	"widgetry.dev/internal/registry"
)

// invalidAPIKeyResponse sends a 401 with the permission-denied envelope.
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, r, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "permission denied"))
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err,
		slog.String("path", r.URL.Path),
		slog.String("component", "http_server"))
	api.writeJSON(w, r, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "internal server error"))
}

// validationErrorResponse sends a 400 listing the problems per field.
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}
	api.writeJSON(w, r, http.StatusBadRequest, response)
}

func (api *RestAPI) fieldErrorResponse(w http.ResponseWriter, r *http.Request, field string, err error) {
	api.validationErrorResponse(w, r, map[string][]string{field: {err.Error()}})
}

// errorResponse maps err onto a status: unknown resources are 404, anything
// else is a server error.
func (api *RestAPI) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, registry.ErrUnknownTimeline) {
		api.sendNotFound(w, r)
		return
	}
	api.serverErrorResponse(w, r, err)
}

func (api *RestAPI) writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	setJSONResponseType(&w)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to encode response", err,
			slog.Int("status", status))
	}
}
