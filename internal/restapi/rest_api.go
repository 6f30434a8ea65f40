package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"widgetry.dev/internal/app"
	"widgetry.dev/internal/logging"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a RestAPI with a rate limiter built from the config.
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}

// Handler wraps router with the middleware chain: request logging, security
// headers, rate limiting and compression, outermost first.
func (api *RestAPI) Handler(router *httprouter.Router) http.Handler {
	var handler http.Handler = router
	if compress, err := NewCompressionMiddleware(api.Config.Compression); err != nil {
		logging.LogError(api.Logger, "compression disabled", err)
	} else {
		handler = compress(handler)
	}
	handler = api.rateLimiter.Handler(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger, api.Metrics)(handler)
	return handler
}

// Shutdown stops the rate limiter's background cleanup.
func (api *RestAPI) Shutdown() {
	api.rateLimiter.Stop()
}
