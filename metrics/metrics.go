// Copyright © 2023 EcoSwell

// Package metrics exposes readings and scheduler health to Prometheus.
package metrics

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

// Sink records every reading and failed read.
type Sink struct {
	registry *prometheus.Registry
	reading  *prometheus.GaugeVec
	total    *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func New() *Sink {
	s := &Sink{
		registry: prometheus.NewRegistry(),
		reading: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "envirolog_reading",
				Help: "Last recorded value of a sensor column",
			},
			[]string{"sensor", "heading"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envirolog_readings_total",
				Help: "Readings recorded per sensor",
			},
			[]string{"sensor"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envirolog_read_failures_total",
				Help: "Failed readings per sensor and reason",
			},
			[]string{"sensor", "reason"},
		),
	}
	s.registry.MustRegister(s.reading, s.total, s.failures)
	s.registry.MustRegister(prometheus.NewBuildInfoCollector())
	return s
}

func (s *Sink) Record(r sensors.Reading) error {
	name := r.Sensor.Name()
	for i, h := range r.Headings() {
		if i < len(r.Values) {
			s.reading.WithLabelValues(name, h).Set(r.Values[i])
		}
	}
	s.total.WithLabelValues(name).Inc()
	return nil
}

func (s *Sink) RecordFailure(id sensors.ID, err error) {
	s.failures.WithLabelValues(id.Name(), reason(err)).Inc()
}

func reason(err error) string {
	switch {
	case errors.Is(err, sensors.ErrReadTimeout):
		return "timeout"
	case errors.Is(err, sensors.ErrUnavailable):
		return "unavailable"
	}
	return "error"
}

// QueueDepth publishes the number of pending jobs reported by depth.
func (s *Sink) QueueDepth(depth func() int) {
	s.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "envirolog_queue_depth",
			Help: "Readings waiting for the sensor bus",
		},
		func() float64 { return float64(depth()) },
	))
}

func (s *Sink) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Serve exposes /metrics on addr in the background.
func (s *Sink) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			jww.ERROR.Println("metrics server:", err)
		}
	}()
	jww.INFO.Println("Serving metrics on", addr)
	return srv
}
