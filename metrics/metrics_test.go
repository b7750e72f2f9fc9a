// Copyright © 2023 EcoSwell

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

func TestRecord(t *testing.T) {
	s := New()
	s.Record(sensors.Reading{Sensor: sensors.Particulates, Values: []float64{1, 2, 3}})
	s.Record(sensors.Reading{Sensor: sensors.Particulates, Values: []float64{4, 5, 6}})

	if v := testutil.ToFloat64(s.total.WithLabelValues("pm")); v != 2 {
		t.Errorf("readings total: %v", v)
	}
	if v := testutil.ToFloat64(s.reading.WithLabelValues("pm", "PM2.5 (ug/m3)")); v != 5 {
		t.Errorf("pm2.5 gauge: %v", v)
	}
}

func TestRecordFailure(t *testing.T) {
	s := New()
	s.RecordFailure(sensors.Particulates, errors.Wrap(sensors.ErrReadTimeout, "pms5003"))
	s.RecordFailure(sensors.Light, sensors.ErrUnavailable)
	s.RecordFailure(sensors.Light, errors.New("bus error"))

	if v := testutil.ToFloat64(s.failures.WithLabelValues("pm", "timeout")); v != 1 {
		t.Errorf("timeouts: %v", v)
	}
	if v := testutil.ToFloat64(s.failures.WithLabelValues("light", "unavailable")); v != 1 {
		t.Errorf("unavailable: %v", v)
	}
	if v := testutil.ToFloat64(s.failures.WithLabelValues("light", "error")); v != 1 {
		t.Errorf("errors: %v", v)
	}
}

func TestHandlerExposesQueueDepth(t *testing.T) {
	s := New()
	s.QueueDepth(func() int { return 3 })

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "envirolog_queue_depth 3") {
		t.Errorf("queue depth missing from:\n%s", body)
	}
}
