// Copyright © 2023 EcoSwell

package units

import (
	"strings"

	"github.com/pkg/errors"
)

type Pressure struct {
	hectopascal float64
}

func NewPressureHectopascal(value float64) Pressure {
	return Pressure{value}
}

func NewPressurePascal(value float64) Pressure {
	return Pressure{value / 100.0}
}

func (p Pressure) Pascal() float64 {
	return p.hectopascal * 100.0
}

func (p Pressure) Hectopascal() float64 {
	return p.hectopascal
}

func (p Pressure) Kilopascal() float64 {
	return p.hectopascal / 10.0
}

func (p Pressure) InchMercury() float64 {
	return p.Pascal() / 3386.389
}

func (p Pressure) MillimeterMercury() float64 {
	return p.Pascal() / 133.322387415
}

func (p Pressure) Get(unit string) (float64, error) {
	switch strings.ToLower(unit) {
	case "pa", "pascal":
		return p.Pascal(), nil
	case "", "hpa", "hectopascal", "mbar", "millibar":
		return p.Hectopascal(), nil
	case "kpa", "kilopascal":
		return p.Kilopascal(), nil
	case "mmhg":
		return p.MillimeterMercury(), nil
	case "inhg":
		return p.InchMercury(), nil
	}
	return 0, errors.Wrap(ErrUnknownUnit, unit)
}
