// Copyright © 2023 EcoSwell

package units

import "math"

// Gas identifies one channel of the MICS6814 gas sensor.
type Gas int

const (
	CarbonMonoxide Gas = iota
	NitrogenDioxide
	Ammonia
)

func (g Gas) String() string {
	switch g {
	case CarbonMonoxide:
		return "co"
	case NitrogenDioxide:
		return "no2"
	case Ammonia:
		return "nh3"
	}
	return "unknown"
}

// Baseline holds the clean-air reference resistance R0 (kOhm) of each gas
// channel. A value <= 0 means the channel has not been calibrated.
type Baseline struct {
	CO  float64
	NO2 float64
	NH3 float64
}

// R0 returns the reference resistance for g and whether it is set.
func (b Baseline) R0(g Gas) (float64, bool) {
	var r0 float64
	switch g {
	case CarbonMonoxide:
		r0 = b.CO
	case NitrogenDioxide:
		r0 = b.NO2
	case Ammonia:
		r0 = b.NH3
	}
	return r0, r0 > 0
}

// Calibrated reports whether every channel has a reference resistance.
func (b Baseline) Calibrated() bool {
	return b.CO > 0 && b.NO2 > 0 && b.NH3 > 0
}

// Concentration converts the sensor resistance rs (kOhm) of gas g into ppm
// using the baseline. Uncalibrated channels return rs unchanged.
func Concentration(g Gas, rs float64, b Baseline) float64 {
	r0, ok := b.R0(g)
	if !ok {
		return rs
	}
	ratio := math.Log10(rs / r0)
	switch g {
	case CarbonMonoxide:
		return math.Pow(10, -1.25*ratio+0.64)
	case NitrogenDioxide:
		return math.Pow(10, ratio-0.8129)
	case Ammonia:
		return math.Pow(10, -1.8*ratio-0.163)
	}
	return rs
}

// Kiloohms converts a raw resistance in ohms to kOhm.
func Kiloohms(ohms float64) float64 {
	return ohms / 1000
}
