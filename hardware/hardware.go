// Copyright © 2023 EcoSwell

// Package hardware drives the sensors of a Pimoroni Enviro+ board on a
// Raspberry Pi.
package hardware

import (
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

// Config names the buses the board's devices are attached to.
type Config struct {
	I2CBus     string
	PMSPort    string
	PMSBaud    int
	CPUThermal string
	GasHeater  string
}

// DefaultGasHeater is the pin switching the MICS6814 heater.
const DefaultGasHeater = "GPIO24"

// EnableGasHeater drives the heater pin high. The gas channels read a cold
// sensor until it is on.
func EnableGasHeater(pin gpio.PinOut) error {
	return errors.Wrapf(pin.Out(gpio.High), "gas heater %s", pin.Name())
}

type weather interface {
	Temperature() (float64, error)
	Pressure() (float64, error)
	Humidity() (float64, error)
}

type light interface {
	Lux() (float64, error)
	Proximity() (float64, error)
}

type gas interface {
	Resistances() (sensors.GasResistances, error)
}

type particulates interface {
	Read() (sensors.ParticulateMatter, error)
}

type cpu interface {
	Temperature() (float64, error)
}

// Enviro is a sensors.Reader over whichever devices could be opened.
// Channels without a device return sensors.ErrUnavailable.
type Enviro struct {
	weather      weather
	light        light
	gas          gas
	particulates particulates
	cpu          cpu

	closers []func() error
}

// Open initialises the host drivers and every device on the board. Missing
// devices are logged and left unavailable; only a missing I2C bus is fatal.
func Open(c Config) (*Enviro, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "host init")
	}
	bus, err := i2creg.Open(c.I2CBus)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", c.I2CBus)
	}

	e := &Enviro{cpu: CPUThermal(c.CPUThermal)}
	if c.CPUThermal == "" {
		e.cpu = CPUThermal(DefaultCPUThermal)
	}
	e.closers = append(e.closers, bus.Close)
	e.attach(bus, c)
	return e, nil
}

func (e *Enviro) attach(bus i2c.Bus, c Config) {
	if b, err := NewBME280(bus); err != nil {
		jww.WARN.Println("No weather sensor:", err)
	} else {
		e.weather = b
		e.closers = append(e.closers, b.Close)
	}

	if l, err := NewLTR559(bus); err != nil {
		jww.WARN.Println("No light sensor:", err)
	} else {
		e.light = l
	}

	e.gas = NewADS1015(bus)
	heater := c.GasHeater
	if heater == "" {
		heater = DefaultGasHeater
	}
	if pin := gpioreg.ByName(heater); pin == nil {
		jww.WARN.Printf("No gas heater pin %s", heater)
	} else if err := EnableGasHeater(pin); err != nil {
		jww.WARN.Println(err)
	}

	port, baud := c.PMSPort, c.PMSBaud
	if port == "" {
		port = DefaultPMSPort
	}
	if baud == 0 {
		baud = DefaultPMSBaud
	}
	if p, err := OpenPMS5003(port, baud); err != nil {
		jww.WARN.Println("No particulate sensor:", err)
	} else {
		e.particulates = p
		e.closers = append(e.closers, p.Close)
	}
}

// Close releases every device, the bus last.
func (e *Enviro) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (e *Enviro) ReadTemperature() (float64, error) {
	if e.weather == nil {
		return 0, sensors.ErrUnavailable
	}
	return e.weather.Temperature()
}

func (e *Enviro) ReadPressure() (float64, error) {
	if e.weather == nil {
		return 0, sensors.ErrUnavailable
	}
	return e.weather.Pressure()
}

func (e *Enviro) ReadHumidity() (float64, error) {
	if e.weather == nil {
		return 0, sensors.ErrUnavailable
	}
	return e.weather.Humidity()
}

func (e *Enviro) ReadLux() (float64, error) {
	if e.light == nil {
		return 0, sensors.ErrUnavailable
	}
	return e.light.Lux()
}

func (e *Enviro) ReadProximity() (float64, error) {
	if e.light == nil {
		return 0, sensors.ErrUnavailable
	}
	return e.light.Proximity()
}

func (e *Enviro) ReadGasResistances() (sensors.GasResistances, error) {
	if e.gas == nil {
		return sensors.GasResistances{}, sensors.ErrUnavailable
	}
	return e.gas.Resistances()
}

func (e *Enviro) ReadParticulates() (sensors.ParticulateMatter, error) {
	if e.particulates == nil {
		return sensors.ParticulateMatter{}, sensors.ErrUnavailable
	}
	return e.particulates.Read()
}

func (e *Enviro) ReadCPUTemperature() (float64, error) {
	if e.cpu == nil {
		return 0, sensors.ErrUnavailable
	}
	return e.cpu.Temperature()
}
