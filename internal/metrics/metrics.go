// Package metrics defines the prometheus instrumentation for the daemon,
// exposed by the web package on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Fetches counts fetch cycles by result ("samples" or "empty").
	Fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_monitor_fetches_total",
			Help: "Fetch cycles against the time-series source, by result.",
		},
		[]string{"result"},
	)

	// SamplesStored counts samples accepted into the window.
	SamplesStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "solar_monitor_samples_stored_total",
			Help: "Samples accepted into the sliding window.",
		},
	)

	// Redraws counts display redraws by region and kind.
	Redraws = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_monitor_redraws_total",
			Help: "Display redraws, by region (chart, readout) and kind (full, incremental).",
		},
		[]string{"region", "kind"},
	)

	// ReadoutSuppressed counts readout updates skipped by the epsilon check.
	ReadoutSuppressed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "solar_monitor_readout_suppressed_total",
			Help: "Readout updates suppressed because the reading was unchanged within epsilon.",
		},
	)
)

func init() {
	prometheus.MustRegister(Fetches, SamplesStored, Redraws, ReadoutSuppressed)
}

// FetchResult converts a sample count into the Fetches label value.
func FetchResult(samples int) string {
	if samples == 0 {
		return "empty"
	}
	return "samples"
}
