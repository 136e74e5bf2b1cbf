package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tienda_http_requests_total",
		Help: "HTTP requests served, by method and path.",
	}, []string{"method", "path"})

	ordersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tienda_orders_total",
		Help: "Orders recorded at checkout.",
	})
)

// countRequests is middleware counting every served request.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsTotal.WithLabelValues(r.Method, r.URL.Path).Inc()
		next.ServeHTTP(w, r)
	})
}
