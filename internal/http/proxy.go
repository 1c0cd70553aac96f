package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"

	"finboard/internal/log"
	"finboard/internal/middleware/trace"
)

// newAPIProxy forwards /api/... to target. The backend sees the original
// host in X-Forwarded-Host and the request id in X-Request-ID.
func newAPIProxy(target *url.URL, stripPrefix bool, logger *log.Logger) http.Handler {
	logger = logger.WithComponent(log.ComponentProxy)

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			if id := trace.GetRequestID(pr.In.Context()); id != "" {
				pr.Out.Header.Set(trace.HeaderRequestID, id)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if errors.Is(err, context.Canceled) {
				// Client went away, usually because a newer request replaced it.
				log.FromContext(r.Context()).WithComponent(log.ComponentProxy).Debug("API proxy request cancelled",
					log.FieldPath, r.URL.Path)
				w.WriteHeader(499)
				return
			}
			log.FromContext(r.Context()).WithComponent(log.ComponentProxy).Error("API proxy error",
				log.NewFields().
					WithOperation(log.OpProxy).
					WithErrorType(log.ErrorTypeNetwork).
					WithError(err).
					ToSlice()...)
			writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "Backend unavailable"})
		},
	}

	logger.Debug("API proxy configured", log.FieldTarget, target.String())
	if stripPrefix {
		return http.StripPrefix("/api", rp)
	}
	return rp
}
