// Package metrics exposes the outcome of runs as prometheus metrics for the `serve` command.
package metrics

import (
	"net/http"
	"strconv"
	"healthplanet-notify/internal/scrapers/healthplanet"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess      = "success"
	OutcomeFailed       = "failed"
	OutcomeNotifyFailed = "notify_failed"
	OutcomeEmpty        = "empty"
)

type Metrics struct {
	registry      *prometheus.Registry
	weight        prometheus.Gauge
	fatPercentage prometheus.Gauge
	measurements  prometheus.Gauge
	runs          *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		weight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "healthplanet_latest_weight_kg",
			Help: "Shows the latest weight measurement.",
		}),
		fatPercentage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "healthplanet_latest_fat_percentage",
			Help: "Shows the latest body fat percentage measurement.",
		}),
		measurements: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "healthplanet_measurements_fetched",
			Help: "Number of measurements fetched by the last run.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthplanet_runs_total",
			Help: "Runs by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.weight, m.fatPercentage, m.measurements, m.runs)
	return m
}

// ObserveMeasurements sets the latest value gauges from the measurement with the greatest date of each tag.
// Values that don't parse as numbers are skipped.
func (m *Metrics) ObserveMeasurements(measurements []healthplanet.Measurement) {
	m.measurements.Set(float64(len(measurements)))

	latest := map[healthplanet.Tag]healthplanet.Measurement{}
	for _, measurement := range measurements {
		current, ok := latest[measurement.Tag]
		if !ok || measurement.Date >= current.Date {
			latest[measurement.Tag] = measurement
		}
	}

	gauges := map[healthplanet.Tag]prometheus.Gauge{
		healthplanet.TagWeight:        m.weight,
		healthplanet.TagFatPercentage: m.fatPercentage,
	}
	for tag, gauge := range gauges {
		measurement, ok := latest[tag]
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(measurement.Keydata, 64)
		if err != nil {
			continue
		}
		gauge.Set(value)
	}
}

func (m *Metrics) ObserveRun(outcome string) {
	m.runs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
