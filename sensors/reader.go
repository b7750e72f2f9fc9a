// Copyright © 2023 EcoSwell

package sensors

import "github.com/pkg/errors"

var (
	// ErrReadTimeout is returned when a device did not answer in time. The
	// reading is skipped and retried at the next interval.
	ErrReadTimeout = errors.New("sensor read timed out")

	// ErrUnavailable is returned by readers that have no driver for a channel.
	ErrUnavailable = errors.New("sensor not available")
)

// GasResistances are the raw MICS6814 resistances in ohms.
type GasResistances struct {
	Reducing  float64
	Oxidising float64
	NH3       float64
}

// ParticulateMatter holds PMS5003 concentrations in ug/m3.
type ParticulateMatter struct {
	PM1  float64
	PM25 float64
	PM10 float64
}

// Reader is the hardware capability used to take readings. Implementations
// are not required to be safe for concurrent use; the dispatcher serialises
// every call.
type Reader interface {
	ReadTemperature() (float64, error)
	ReadPressure() (float64, error)
	ReadHumidity() (float64, error)
	ReadLux() (float64, error)
	ReadProximity() (float64, error)
	ReadGasResistances() (GasResistances, error)
	ReadParticulates() (ParticulateMatter, error)
	ReadCPUTemperature() (float64, error)
}
