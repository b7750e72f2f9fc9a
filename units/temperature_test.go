// Copyright © 2023 EcoSwell

package units

import (
	"testing"
	"testing/quick"

	"github.com/pkg/errors"
)

func TestTemperatureKelvin(t *testing.T) {
	if err := quick.Check(func(x float64) bool {
		y := NewTemperatureKelvin(x)
		return floatEquals(x, y.Kelvin())
	}, nil); err != nil {
		t.Error(err)
	}
}

func TestTemperatureGet(t *testing.T) {
	temp := NewTemperatureCelsius(0)

	value, err := temp.Get("C")
	if err != nil {
		t.Fatal(err)
	}
	if !floatEquals(value, 0) {
		t.Fatal("Value should be 0")
	}

	value, err = temp.Get("F")
	if err != nil {
		t.Fatal(err)
	}
	if !floatEquals(value, 32) {
		t.Fatal("Value should be 32")
	}

	_, err = temp.Get("M")
	if errors.Cause(err) != ErrUnknownUnit {
		t.Fatal("Invalid unit should give ErrUnknownUnit, got", err)
	}
}

func TestCompensate(t *testing.T) {
	got := Compensate(20.0, 45.0, 1.31)
	want := 20.0 - (45.0-20.0)/1.31
	if !floatEquals(got, want) {
		t.Errorf("Compensate: got %f, want %f", got, want)
	}
	if Round(got, 3) != 0.916 {
		t.Errorf("Compensate rounded: got %v, want 0.916", Round(got, 3))
	}
}

func TestCompensateNoOffset(t *testing.T) {
	if err := quick.Check(func(x float64) bool {
		return Compensate(x, x, 1.31) == x
	}, nil); err != nil {
		t.Error(err)
	}
}
