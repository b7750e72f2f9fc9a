// Copyright © 2023 EcoSwell

package units

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownUnit is returned by the Get helpers for unsupported unit names.
var ErrUnknownUnit = errors.New("unknown unit")

type Temperature struct {
	celsius float64
}

func NewTemperatureCelsius(value float64) Temperature {
	return Temperature{value}
}

func NewTemperatureKelvin(value float64) Temperature {
	return Temperature{value - 273.15}
}

func (t Temperature) Celsius() float64 {
	return t.celsius
}

func (t Temperature) Fahrenheit() float64 {
	return t.celsius*1.8 + 32
}

func (t Temperature) Kelvin() float64 {
	return t.celsius + 273.15
}

func (t Temperature) Get(unit string) (float64, error) {
	switch strings.ToLower(unit) {
	case "", "c", "celsius":
		return t.Celsius(), nil
	case "f", "fahrenheit":
		return t.Fahrenheit(), nil
	case "k", "kelvin":
		return t.Kelvin(), nil
	}
	return 0, errors.Wrap(ErrUnknownUnit, unit)
}

// Compensate removes the heating effect of the CPU from a raw board
// temperature. avgCPU is the smoothed CPU temperature and factor the
// user-tuned compensation factor.
func Compensate(raw, avgCPU, factor float64) float64 {
	return raw - (avgCPU-raw)/factor
}
