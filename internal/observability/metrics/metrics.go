package metrics

import "github.com/prometheus/client_golang/prometheus"

// RelayMetrics exposes counters/histograms for webhook relay flows.
type RelayMetrics struct {
	relayTotal   *prometheus.CounterVec
	relayLatency *prometheus.HistogramVec
	extractTotal *prometheus.CounterVec
	exportedPDFs prometheus.Counter
}

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		relayTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesportal",
			Subsystem: "relay",
			Name:      "upstream_total",
			Help:      "Total upstream webhook calls",
		}, []string{"target", "status"}),
		relayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salesportal",
			Subsystem: "relay",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of upstream webhook calls",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"target"}),
		extractTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salesportal",
			Subsystem: "extract",
			Name:      "documents_total",
			Help:      "Total documents processed by the extractor",
		}, []string{"format", "status"}),
		exportedPDFs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salesportal",
			Subsystem: "export",
			Name:      "pdf_reports_total",
			Help:      "Total recommendation PDF reports generated",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.relayTotal, m.relayLatency, m.extractTotal, m.exportedPDFs)
	return m
}

func (m *RelayMetrics) ObserveRelay(target, status string, seconds float64) {
	if m == nil {
		return
	}
	m.relayTotal.WithLabelValues(target, status).Inc()
	m.relayLatency.WithLabelValues(target).Observe(seconds)
}

func (m *RelayMetrics) ObserveExtract(format, status string) {
	if m == nil {
		return
	}
	m.extractTotal.WithLabelValues(format, status).Inc()
}

func (m *RelayMetrics) ObservePDFExport() {
	if m == nil {
		return
	}
	m.exportedPDFs.Inc()
}
