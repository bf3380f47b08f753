package monitoring

import (
	"net/http"
	"strconv"
	"time"
)

// metricsResponseWriter captures the status code written by a handler
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *metricsResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// HTTPMiddleware records request count and duration metrics for a service
func HTTPMiddleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapper := &metricsResponseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapper, r)

			RecordHTTPRequest(
				r.Method,
				r.URL.Path,
				strconv.Itoa(wrapper.statusCode),
				service,
				time.Since(start).Seconds(),
			)
		})
	}
}
