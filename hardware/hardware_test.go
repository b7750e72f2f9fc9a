// Copyright © 2023 EcoSwell

package hardware

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
	"periph.io/x/periph/conn/i2c/i2ctest"
	"periph.io/x/periph/conn/physic"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

type fakeEnv struct {
	env    physic.Env
	halted bool
}

func (f *fakeEnv) Sense(e *physic.Env) error {
	*e = f.env
	return nil
}

func (f *fakeEnv) Halt() error {
	f.halted = true
	return nil
}

func TestBME280Conversion(t *testing.T) {
	dev := &fakeEnv{env: physic.Env{
		Temperature: physic.ZeroCelsius + 20*physic.Celsius,
		Pressure:    101325 * physic.Pascal,
		Humidity:    45 * physic.PercentRH,
	}}
	b := &BME280{dev: dev}

	if v, err := b.Temperature(); err != nil || !floatEquals(v, 20) {
		t.Errorf("temperature: %v, %v", v, err)
	}
	if v, err := b.Pressure(); err != nil || !floatEquals(v, 1013.25) {
		t.Errorf("pressure: %v, %v", v, err)
	}
	if v, err := b.Humidity(); err != nil || !floatEquals(v, 45) {
		t.Errorf("humidity: %v, %v", v, err)
	}
	b.Close()
	if !dev.halted {
		t.Error("close should halt the device")
	}
}

func TestLTR559(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: LTR559Address, W: []byte{0x80, 0x09}},
			{Addr: LTR559Address, W: []byte{0x81, 0x03}},
			{Addr: LTR559Address, W: []byte{0x85, 0x08}},
			{Addr: LTR559Address, W: []byte{0x88}, R: []byte{200, 0, 0xE8, 0x03}},
			{Addr: LTR559Address, W: []byte{0x8D}, R: []byte{0x34, 0xF2}},
		},
		DontPanic: true,
	}
	l, err := NewLTR559(bus)
	if err != nil {
		t.Fatal(err)
	}

	lx, err := l.Lux()
	if err != nil {
		t.Fatal(err)
	}
	// ch0 1000, ch1 200: (1000*17743 + 200*11059) / 0.5 / 4 / 10000
	if !floatEquals(lx, 997.74) {
		t.Errorf("lux: got %v", lx)
	}

	p, err := l.Proximity()
	if err != nil {
		t.Fatal(err)
	}
	if p != 0x234 {
		t.Errorf("proximity: got %v", p)
	}

	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestLuxDark(t *testing.T) {
	if v := lux(0, 0); v != 0 {
		t.Errorf("no light should be 0 lux, got %v", v)
	}
}

func voltageBytes(raw int16) []byte {
	v := uint16(raw << 4)
	return []byte{byte(v >> 8), byte(v)}
}

func TestADS1015Resistances(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: ADS1015Address, W: []byte{0x01, 0xC1, 0x83}},
			{Addr: ADS1015Address, W: []byte{0x00}, R: voltageBytes(500)},
			{Addr: ADS1015Address, W: []byte{0x01, 0xD1, 0x83}},
			{Addr: ADS1015Address, W: []byte{0x00}, R: voltageBytes(250)},
			{Addr: ADS1015Address, W: []byte{0x01, 0xE1, 0x83}},
			{Addr: ADS1015Address, W: []byte{0x00}, R: voltageBytes(1000)},
		},
		DontPanic: true,
	}
	a := NewADS1015(bus)
	a.wait = 0

	g, err := a.Resistances()
	if err != nil {
		t.Fatal(err)
	}
	ohms := func(raw float64) float64 {
		v := raw / 2048 * 6.144
		return v * 56000 / (3.3 - v)
	}
	if !floatEquals(g.Oxidising, ohms(500)) || !floatEquals(g.Reducing, ohms(250)) || !floatEquals(g.NH3, ohms(1000)) {
		t.Errorf("got %+v", g)
	}
	if !floatEquals(g.Oxidising, 1.5*56000/1.8) {
		t.Errorf("oxidising: got %v", g.Oxidising)
	}
	if err := bus.Close(); err != nil {
		t.Error(err)
	}
}

func TestGasSaturated(t *testing.T) {
	if _, err := resistance(3.6); err == nil {
		t.Error("voltage above supply should fail")
	}
}

func TestCPUThermal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp")
	os.WriteFile(path, []byte("48312\n"), 0644)
	v, err := CPUThermal(path).Temperature()
	if err != nil || !floatEquals(v, 48.312) {
		t.Errorf("got %v, %v", v, err)
	}

	if _, err := CPUThermal(filepath.Join(t.TempDir(), "missing")).Temperature(); err == nil {
		t.Error("missing zone should fail")
	}
}

func TestEnviroUnavailable(t *testing.T) {
	var e Enviro
	if _, err := e.ReadLux(); !errors.Is(err, sensors.ErrUnavailable) {
		t.Errorf("lux: %v", err)
	}
	if _, err := e.ReadParticulates(); !errors.Is(err, sensors.ErrUnavailable) {
		t.Errorf("particulates: %v", err)
	}
	if _, err := e.ReadGasResistances(); !errors.Is(err, sensors.ErrUnavailable) {
		t.Errorf("gas: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Error(err)
	}
}

func TestSimulatedIsAReader(t *testing.T) {
	var r sensors.Reader = NewSimulated(1)
	pm, err := r.ReadParticulates()
	if err != nil {
		t.Fatal(err)
	}
	if pm.PM1 > pm.PM25 || pm.PM25 > pm.PM10 {
		t.Errorf("particulates out of order: %+v", pm)
	}
	if p, _ := r.ReadProximity(); p >= sensors.ProximityThreshold {
		t.Errorf("simulated proximity should never cover the sensor, got %v", p)
	}
}

func TestEnableGasHeater(t *testing.T) {
	pin := &gpiotest.Pin{N: DefaultGasHeater, Num: 24}
	if err := EnableGasHeater(pin); err != nil {
		t.Fatal(err)
	}
	if pin.Read() != gpio.High {
		t.Error("heater pin should be driven high")
	}
}
