package middleware

import (
	"net/http"
	"strconv"

	"priceshield/internal/metrics"
)

func Metrics(mon *metrics.Monitor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{w: w, status: 200}
			next.ServeHTTP(rw, r)
			mon.HTTPRequests.WithLabelValues(r.URL.Path, strconv.Itoa(rw.status)).Inc()
		})
	}
}
