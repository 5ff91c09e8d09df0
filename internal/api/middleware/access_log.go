package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// AccessLog пишет в лог одну строку на запрос
func AccessLog(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			id := RequestIDFromContext(r.Context())
			switch {
			case sw.status >= http.StatusInternalServerError:
				logger.Error("%s %s - %d in %s (request_id=%s)", r.Method, r.URL.RequestURI(), sw.status, elapsed, id)
			case sw.status >= http.StatusBadRequest:
				logger.Warn("%s %s - %d in %s (request_id=%s)", r.Method, r.URL.RequestURI(), sw.status, elapsed, id)
			default:
				logger.Info("%s %s - %d in %s (request_id=%s)", r.Method, r.URL.RequestURI(), sw.status, elapsed, id)
			}
		})
	}
}
