// Copyright © 2023 EcoSwell

package units

import "math"

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
