// Package promhelp reads values back out of prometheus registries in tests.
package promhelp

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// GaugeValue returns the value of the gauge with the given name and exact
// label set, failing the test if it is not found.
func GaugeValue(t testing.TB, reg prometheus.Gatherer, name string, labels prometheus.Labels) int {
	t.Helper()
	m := metricValue(t, reg, name, labels)
	require.NotNilf(t, m, "gauge %q with labels %v not found", name, labels)
	return int(m.GetGauge().GetValue())
}

// CounterValue returns the value of the counter with the given name and exact
// label set, failing the test if it is not found.
func CounterValue(t testing.TB, reg prometheus.Gatherer, name string, labels prometheus.Labels) int {
	t.Helper()
	m := metricValue(t, reg, name, labels)
	require.NotNilf(t, m, "counter %q with labels %v not found", name, labels)
	return int(m.GetCounter().GetValue())
}

func metricValue(t testing.TB, reg prometheus.Gatherer, name string, labels prometheus.Labels) *dto.Metric {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err, "gather metrics")

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if labelsMatch(m.GetLabel(), labels) {
				return m
			}
		}
	}
	return nil
}

func labelsMatch(pairs []*dto.LabelPair, labels prometheus.Labels) bool {
	if len(pairs) != len(labels) {
		return false
	}
	for _, pair := range pairs {
		if labels[pair.GetName()] != pair.GetValue() {
			return false
		}
	}
	return true
}
