package metrics

import "github.com/prometheus/client_golang/prometheus"

// Monitor holds the Prometheus registry and every metric the service
// exposes.
type Monitor struct {
	Registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	Compares      prometheus.Counter
	Dedupes       prometheus.Counter
	ListingsSaved prometheus.Counter
	GroupSize     prometheus.Histogram
}

func NewMonitor() *Monitor {
	reg := prometheus.NewRegistry()
	m := &Monitor{
		Registry: reg,

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "priceshield_http_requests_total",
			Help: "HTTP requests by path and status",
		}, []string{"path", "status"}),

		Compares: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "priceshield_compares_total",
			Help: "Resolve-and-compare calls",
		}),

		Dedupes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "priceshield_dedupes_total",
			Help: "Batch display-dedupe calls",
		}),

		ListingsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "priceshield_listings_saved_total",
			Help: "Listings persisted to the catalog",
		}),

		GroupSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "priceshield_group_size",
			Help:    "Resolved product group sizes",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		}),
	}

	reg.MustRegister(m.HTTPRequests)
	reg.MustRegister(m.Compares)
	reg.MustRegister(m.Dedupes)
	reg.MustRegister(m.ListingsSaved)
	reg.MustRegister(m.GroupSize)

	return m
}
