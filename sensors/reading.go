// Copyright © 2023 EcoSwell

package sensors

import "time"

// Reading is one completed measurement, handed to every sink.
type Reading struct {
	Run      string
	Sensor   ID
	Config   Config
	RunStart time.Time
	Time     time.Time
	Values   []float64
}

// Headings returns the column headings matching Values.
func (r Reading) Headings() []string {
	return r.Sensor.Headings()
}
