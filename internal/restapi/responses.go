package restapi

import (
	"encoding/json"
	"net/http"

	"widgetry.dev/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	api.writeJSON(w, r, response.Code, response)
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, r, http.StatusNotFound, models.NewErrorResponse(http.StatusNotFound, "resource not found"))
}

// maxBodyBytes bounds widget definitions posted to the API.
const maxBodyBytes = 4 << 20

// decodeJSONBody decodes the request body into dst, which should already
// hold the widget defaults.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
