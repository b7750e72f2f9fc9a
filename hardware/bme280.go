// Copyright © 2023 EcoSwell

package hardware

import (
	"github.com/pkg/errors"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/devices/bmxx80"

	"github.com/EcoSwell/RaspberryPi-Sensor/units"
)

// BME280Address is the sensor's address on the Enviro+ board.
const BME280Address = 0x76

type senseDevice interface {
	Sense(e *physic.Env) error
	Halt() error
}

// BME280 reads temperature, pressure and humidity.
type BME280 struct {
	dev senseDevice
}

func NewBME280(bus i2c.Bus) (*BME280, error) {
	opts := bmxx80.DefaultOpts
	dev, err := bmxx80.NewI2C(bus, BME280Address, &opts)
	if err != nil {
		return nil, errors.Wrap(err, "bme280")
	}
	return &BME280{dev: dev}, nil
}

func (b *BME280) sense() (physic.Env, error) {
	var env physic.Env
	err := b.dev.Sense(&env)
	return env, errors.Wrap(err, "bme280")
}

// Temperature in degrees Celsius.
func (b *BME280) Temperature() (float64, error) {
	env, err := b.sense()
	if err != nil {
		return 0, err
	}
	return celsius(env.Temperature), nil
}

// Pressure in hPa.
func (b *BME280) Pressure() (float64, error) {
	env, err := b.sense()
	if err != nil {
		return 0, err
	}
	return hectopascal(env.Pressure), nil
}

// Humidity in percent.
func (b *BME280) Humidity() (float64, error) {
	env, err := b.sense()
	if err != nil {
		return 0, err
	}
	return percent(env.Humidity), nil
}

func (b *BME280) Close() error {
	return b.dev.Halt()
}

func celsius(t physic.Temperature) float64 {
	return units.NewTemperatureKelvin(float64(t) / float64(physic.Kelvin)).Celsius()
}

func hectopascal(p physic.Pressure) float64 {
	return units.NewPressurePascal(float64(p) / float64(physic.Pascal)).Hectopascal()
}

func percent(h physic.RelativeHumidity) float64 {
	return float64(h) / float64(physic.PercentRH)
}
