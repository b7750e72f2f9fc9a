// Copyright © 2023 EcoSwell

package sensors

import (
	"context"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/EcoSwell/RaspberryPi-Sensor/units"
)

const (
	// ProximityThreshold is the LTR559 proximity count at or above which an
	// object is covering the sensor. Larger counts mean closer objects.
	ProximityThreshold = 10

	// DarkLux is recorded instead of a lux reading while the sensor is covered.
	DarkLux = 1
)

// MeasureFunc takes one converted measurement for a sensor.
type MeasureFunc func(ctx context.Context) ([]float64, error)

// Station turns raw Reader values into calibrated measurements.
type Station struct {
	reader   Reader
	factor   float64
	baseline units.Baseline
	window   *units.CPUWindow
	warmup   time.Duration
}

// NewStation primes the CPU temperature window and returns a Station.
// factor is the temperature compensation factor, warmup the pause after the
// discarded stabilising read that precedes every measurement.
func NewStation(reader Reader, factor float64, baseline units.Baseline, warmup time.Duration) (*Station, error) {
	if factor == 0 {
		return nil, errors.New("temperature compensation factor must not be zero")
	}
	if _, err := reader.ReadCPUTemperature(); err != nil {
		return nil, errors.Wrap(err, "priming cpu temperature")
	}
	cpu, err := reader.ReadCPUTemperature()
	if err != nil {
		return nil, errors.Wrap(err, "priming cpu temperature")
	}
	return &Station{
		reader:   reader,
		factor:   factor,
		baseline: baseline,
		window:   units.NewCPUWindow(units.CPUWindowSize, cpu),
		warmup:   warmup,
	}, nil
}

// Window exposes the CPU temperature window shared with calibration.
func (s *Station) Window() *units.CPUWindow {
	return s.window
}

// Handlers returns the measurement function of every sensor channel.
func (s *Station) Handlers() map[ID]MeasureFunc {
	return map[ID]MeasureFunc{
		Temperature:     s.temperature,
		Pressure:        s.pressure,
		Humidity:        s.humidity,
		Light:           s.light,
		CarbonMonoxide:  s.gas(units.CarbonMonoxide),
		NitrogenDioxide: s.gas(units.NitrogenDioxide),
		Ammonia:         s.gas(units.Ammonia),
		Particulates:    s.particulates,
	}
}

// SmoothedCPU reads the CPU temperature, pushes it into the window and
// returns the window average.
func (s *Station) SmoothedCPU() (float64, error) {
	cpu, err := s.reader.ReadCPUTemperature()
	if err != nil {
		return 0, errors.Wrap(err, "cpu temperature")
	}
	return s.window.Push(cpu), nil
}

func (s *Station) stabilise(ctx context.Context, read func() error) error {
	if s.warmup <= 0 {
		return nil
	}
	if err := read(); err != nil {
		jww.DEBUG.Println("stabilising read failed:", err)
	}
	return Sleep(ctx, s.warmup)
}

func (s *Station) temperature(ctx context.Context) ([]float64, error) {
	if err := s.stabilise(ctx, func() error {
		_, err := s.reader.ReadTemperature()
		return err
	}); err != nil {
		return nil, err
	}
	avg, err := s.SmoothedCPU()
	if err != nil {
		return nil, err
	}
	raw, err := s.reader.ReadTemperature()
	if err != nil {
		return nil, errors.Wrap(err, "temperature")
	}
	return []float64{units.Compensate(raw, avg, s.factor)}, nil
}

func (s *Station) pressure(ctx context.Context) ([]float64, error) {
	if err := s.stabilise(ctx, func() error {
		_, err := s.reader.ReadPressure()
		return err
	}); err != nil {
		return nil, err
	}
	p, err := s.reader.ReadPressure()
	if err != nil {
		return nil, errors.Wrap(err, "pressure")
	}
	return []float64{p}, nil
}

func (s *Station) humidity(ctx context.Context) ([]float64, error) {
	if err := s.stabilise(ctx, func() error {
		_, err := s.reader.ReadHumidity()
		return err
	}); err != nil {
		return nil, err
	}
	h, err := s.reader.ReadHumidity()
	if err != nil {
		return nil, errors.Wrap(err, "humidity")
	}
	return []float64{h}, nil
}

func (s *Station) light(ctx context.Context) ([]float64, error) {
	if err := s.stabilise(ctx, func() error {
		_, err := s.reader.ReadLux()
		return err
	}); err != nil {
		return nil, err
	}
	proximity, err := s.reader.ReadProximity()
	if err != nil {
		return nil, errors.Wrap(err, "proximity")
	}
	if proximity >= ProximityThreshold {
		return []float64{DarkLux}, nil
	}
	lux, err := s.reader.ReadLux()
	if err != nil {
		return nil, errors.Wrap(err, "light")
	}
	return []float64{lux}, nil
}

func (s *Station) gas(g units.Gas) MeasureFunc {
	return func(ctx context.Context) ([]float64, error) {
		if err := s.stabilise(ctx, func() error {
			_, err := s.reader.ReadGasResistances()
			return err
		}); err != nil {
			return nil, err
		}
		r, err := s.reader.ReadGasResistances()
		if err != nil {
			return nil, errors.Wrap(err, g.String())
		}
		var rs float64
		switch g {
		case units.CarbonMonoxide:
			rs = r.Reducing
		case units.NitrogenDioxide:
			rs = r.Oxidising
		case units.Ammonia:
			rs = r.NH3
		}
		return []float64{units.Concentration(g, units.Kiloohms(rs), s.baseline)}, nil
	}
}

func (s *Station) particulates(ctx context.Context) ([]float64, error) {
	if err := s.stabilise(ctx, func() error {
		_, err := s.reader.ReadParticulates()
		return err
	}); err != nil {
		return nil, err
	}
	pm, err := s.reader.ReadParticulates()
	if err != nil {
		return nil, errors.Wrap(err, "particulates")
	}
	return []float64{pm.PM1, pm.PM25, pm.PM10}, nil
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
