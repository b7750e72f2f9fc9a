// Copyright © 2023 EcoSwell

package hardware

import (
	"math"
	"math/rand"
	"time"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

// Simulated produces plausible readings without any hardware attached.
type Simulated struct {
	rnd   *rand.Rand
	start time.Time
}

func NewSimulated(seed int64) *Simulated {
	return &Simulated{rnd: rand.New(rand.NewSource(seed)), start: time.Now()}
}

// drift is a slow daily-looking wave plus a little noise.
func (s *Simulated) drift(base, amplitude, noise float64) float64 {
	phase := time.Since(s.start).Hours() / 24 * 2 * math.Pi
	return base + amplitude*math.Sin(phase) + noise*(s.rnd.Float64()-0.5)
}

func (s *Simulated) ReadTemperature() (float64, error)    { return s.drift(21, 3, 0.4), nil }
func (s *Simulated) ReadPressure() (float64, error)       { return s.drift(1013, 4, 0.5), nil }
func (s *Simulated) ReadHumidity() (float64, error)       { return s.drift(45, 10, 2), nil }
func (s *Simulated) ReadLux() (float64, error)            { return math.Max(0, s.drift(300, 250, 20)), nil }
func (s *Simulated) ReadProximity() (float64, error)      { return float64(s.rnd.Intn(4)), nil }
func (s *Simulated) ReadCPUTemperature() (float64, error) { return s.drift(48, 2, 1), nil }

func (s *Simulated) ReadGasResistances() (sensors.GasResistances, error) {
	return sensors.GasResistances{
		Reducing:  s.drift(250000, 20000, 5000),
		Oxidising: s.drift(20000, 3000, 1000),
		NH3:       s.drift(120000, 10000, 4000),
	}, nil
}

func (s *Simulated) ReadParticulates() (sensors.ParticulateMatter, error) {
	pm1 := math.Round(s.drift(3, 1, 2))
	pm25 := pm1 + math.Round(s.rnd.Float64()*3)
	return sensors.ParticulateMatter{
		PM1:  math.Max(0, pm1),
		PM25: math.Max(0, pm25),
		PM10: math.Max(0, pm25+math.Round(s.rnd.Float64()*3)),
	}, nil
}
