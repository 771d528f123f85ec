package handlers

import "github.com/prometheus/client_golang/prometheus"

// LookoutMetrics counts lookups served by the health check REST surface.
type LookoutMetrics struct {
	Lookups *prometheus.CounterVec
}

func (m *LookoutMetrics) IncLookup(endpoint, status string) {
	if m == nil || m.Lookups == nil {
		return
	}

	m.Lookups.WithLabelValues(endpoint, status).Inc()
}
