package restapi

import (
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"widgetry.dev/internal/appconf"
)

// compressedTypes are the bodies the API produces: JSON envelopes, preview
// pages and rendered scripts.
var compressedTypes = []string{
	"application/json",
	"text/html",
	"text/javascript",
	"application/javascript",
}

func defaultCompression() appconf.Compression {
	return appconf.Compression{MinSize: 1024, Level: 6}
}

// withCompressionDefaults fills unset fields from defaultCompression.
func withCompressionDefaults(c appconf.Compression) appconf.Compression {
	def := defaultCompression()
	if c.MinSize <= 0 {
		c.MinSize = def.MinSize
	}
	if c.Level <= 0 {
		c.Level = def.Level
	}
	return c
}

// NewCompressionMiddleware gzips widget responses for clients that accept
// it. Other content types, and bodies below MinSize, pass through.
func NewCompressionMiddleware(c appconf.Compression) (func(http.Handler) http.Handler, error) {
	c = withCompressionDefaults(c)
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(c.MinSize),
		gzhttp.CompressionLevel(c.Level),
		gzhttp.ContentTypes(compressedTypes),
	)
	if err != nil {
		return nil, fmt.Errorf("error configuring compression: %w", err)
	}
	return func(next http.Handler) http.Handler { return wrapper(next) }, nil
}
