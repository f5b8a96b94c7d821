package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.EntriesCreated == nil || m.Allocations == nil || m.RateLimitHits == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.EntriesCreated.WithLabelValues("CREDIT", "RENT").Inc()
	m.AdvanceAmountUsed.Add(120)

	if got := testutil.ToFloat64(m.EntriesCreated.WithLabelValues("CREDIT", "RENT")); got != 1 {
		t.Fatalf("expected entries counter 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.AdvanceAmountUsed); got != 120 {
		t.Fatalf("expected amount used 120, got %v", got)
	}

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}
