package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRelay(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRelayMetrics(reg)

	m.ObserveRelay("product-recs", "ok", 1.5)
	m.ObserveRelay("product-recs", "ok", 0.5)
	m.ObserveRelay("qualify-leads", "upstream_error", 2)

	expected := `
		# HELP salesportal_relay_upstream_total Total upstream webhook calls
		# TYPE salesportal_relay_upstream_total counter
		salesportal_relay_upstream_total{status="ok",target="product-recs"} 2
		salesportal_relay_upstream_total{status="upstream_error",target="qualify-leads"} 1
	`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "salesportal_relay_upstream_total"))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *RelayMetrics
	assert.NotPanics(t, func() {
		m.ObserveRelay("feedback", "ok", 0.1)
		m.ObserveExtract("pdf", "ok")
		m.ObservePDFExport()
	})
}
