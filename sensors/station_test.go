// Copyright © 2023 EcoSwell

package sensors

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/EcoSwell/RaspberryPi-Sensor/units"
)

type fakeReader struct {
	temp      float64
	pressure  float64
	humidity  float64
	lux       float64
	proximity float64
	gas       GasResistances
	pm        ParticulateMatter
	pmErr     error
	cpu       []float64
	luxReads  int
}

func (f *fakeReader) ReadTemperature() (float64, error) { return f.temp, nil }
func (f *fakeReader) ReadPressure() (float64, error)    { return f.pressure, nil }
func (f *fakeReader) ReadHumidity() (float64, error)    { return f.humidity, nil }
func (f *fakeReader) ReadProximity() (float64, error)   { return f.proximity, nil }

func (f *fakeReader) ReadLux() (float64, error) {
	f.luxReads++
	return f.lux, nil
}

func (f *fakeReader) ReadGasResistances() (GasResistances, error) { return f.gas, nil }

func (f *fakeReader) ReadParticulates() (ParticulateMatter, error) {
	if f.pmErr != nil {
		return ParticulateMatter{}, f.pmErr
	}
	return f.pm, nil
}

func (f *fakeReader) ReadCPUTemperature() (float64, error) {
	if len(f.cpu) == 0 {
		return 45.0, nil
	}
	v := f.cpu[0]
	if len(f.cpu) > 1 {
		f.cpu = f.cpu[1:]
	}
	return v, nil
}

func newTestStation(t *testing.T, r Reader, b units.Baseline) *Station {
	s, err := NewStation(r, 1.31, b, 0)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTemperatureCompensated(t *testing.T) {
	r := &fakeReader{temp: 20.0, cpu: []float64{45.0}}
	s := newTestStation(t, r, units.Baseline{})

	values, err := s.Handlers()[Temperature](context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := 20.0 - (45.0-20.0)/1.31
	if len(values) != 1 || math.Abs(values[0]-want) > 1e-9 {
		t.Errorf("temperature: got %v, want [%f]", values, want)
	}
}

func TestTemperatureUsesWindowAverage(t *testing.T) {
	r := &fakeReader{temp: 20.0, cpu: []float64{40.0, 40.0, 65.0}}
	s := newTestStation(t, r, units.Baseline{})

	values, err := s.Handlers()[Temperature](context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// window 40,40,40,40,65
	want := units.Compensate(20.0, 45.0, 1.31)
	if math.Abs(values[0]-want) > 1e-9 {
		t.Errorf("temperature: got %f, want %f", values[0], want)
	}
}

func TestLightObstructed(t *testing.T) {
	r := &fakeReader{lux: 350, proximity: 15}
	s := newTestStation(t, r, units.Baseline{})

	values, err := s.Handlers()[Light](context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(values, []float64{DarkLux}) {
		t.Errorf("obstructed light: got %v, want [1]", values)
	}
	if r.luxReads != 0 {
		t.Errorf("lux should not be read while obstructed, read %d times", r.luxReads)
	}
}

func TestLightClear(t *testing.T) {
	r := &fakeReader{lux: 350, proximity: 3}
	s := newTestStation(t, r, units.Baseline{})

	values, err := s.Handlers()[Light](context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(values, []float64{350}) {
		t.Errorf("clear light: got %v, want [350]", values)
	}
}

func TestGasUncalibrated(t *testing.T) {
	r := &fakeReader{gas: GasResistances{Reducing: 10000, Oxidising: 20000, NH3: 30000}}
	s := newTestStation(t, r, units.Baseline{})

	h := s.Handlers()
	for id, want := range map[ID]float64{CarbonMonoxide: 10, NitrogenDioxide: 20, Ammonia: 30} {
		values, err := h[id](context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if values[0] != want {
			t.Errorf("%s: got %v, want %v", id, values[0], want)
		}
	}
}

func TestGasCalibrated(t *testing.T) {
	r := &fakeReader{gas: GasResistances{Reducing: 10000}}
	s := newTestStation(t, r, units.Baseline{CO: 20})

	values, err := s.Handlers()[CarbonMonoxide](context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := math.Pow(10, -1.25*math.Log10(0.5)+0.64)
	if math.Abs(values[0]-want) > 1e-9 {
		t.Errorf("co: got %f, want %f", values[0], want)
	}
}

func TestParticulateTimeout(t *testing.T) {
	r := &fakeReader{pmErr: ErrReadTimeout}
	s := newTestStation(t, r, units.Baseline{})

	_, err := s.Handlers()[Particulates](context.Background())
	if !errors.Is(err, ErrReadTimeout) {
		t.Errorf("expected ErrReadTimeout, got %v", err)
	}
}

func TestParticulates(t *testing.T) {
	r := &fakeReader{pm: ParticulateMatter{PM1: 1, PM25: 2.5, PM10: 10}}
	s := newTestStation(t, r, units.Baseline{})

	values, err := s.Handlers()[Particulates](context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(values, []float64{1, 2.5, 10}) {
		t.Errorf("pm: got %v", values)
	}
}

func TestWarmupHonoursContext(t *testing.T) {
	r := &fakeReader{pressure: 1013}
	s, err := NewStation(r, 1.31, units.Baseline{}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Handlers()[Pressure](ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestZeroFactor(t *testing.T) {
	if _, err := NewStation(&fakeReader{}, 0, units.Baseline{}, 0); err == nil {
		t.Error("zero factor should be rejected")
	}
}
