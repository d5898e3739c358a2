package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.TransactionsProcessed == nil || m.TransactionsApplied == nil || m.MalformedRecords == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.TransactionsProcessed.WithLabelValues("deposit").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	found := false
	for _, family := range metricFamilies {
		if family.GetName() == "payengine_transactions_total" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected payengine_transactions_total to be registered")
	}
}
