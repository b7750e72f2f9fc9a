// Copyright © 2023 EcoSwell

package sensors

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ID is the user-facing number of a sensor channel on the board.
type ID int

const (
	Temperature ID = iota + 1
	Pressure
	Humidity
	Light
	CarbonMonoxide
	NitrogenDioxide
	Ammonia
	Particulates
)

// All lists every sensor channel in numeric order.
var All = []ID{
	Temperature,
	Pressure,
	Humidity,
	Light,
	CarbonMonoxide,
	NitrogenDioxide,
	Ammonia,
	Particulates,
}

// ErrInvalidID is returned for sensor numbers outside 1..8.
var ErrInvalidID = errors.New("invalid sensor id")

type descriptor struct {
	name     string
	title    string
	headings []string
}

var descriptors = map[ID]descriptor{
	Temperature:     {"temp", "Temperature", []string{"Temperature (*C)"}},
	Pressure:        {"pressure", "Pressure", []string{"Pressure (hPa)"}},
	Humidity:        {"humidity", "Humidity", []string{"Humidity (%)"}},
	Light:           {"light", "Light", []string{"Light (lux)"}},
	CarbonMonoxide:  {"co", "Carbon monoxide", []string{"Carbon monoxide (ppm)"}},
	NitrogenDioxide: {"no2", "Nitrogen dioxide", []string{"Nitrogen dioxide (ppm)"}},
	Ammonia:         {"nh3", "Ammonia", []string{"Ammonia (ppm)"}},
	Particulates:    {"pm", "Particulate matter", []string{"PM1.0 (ug/m3)", "PM2.5 (ug/m3)", "PM10 (ug/m3)"}},
}

func (id ID) Valid() bool {
	_, ok := descriptors[id]
	return ok
}

// Name is the short name used in log file names, e.g. "co".
func (id ID) Name() string {
	if d, ok := descriptors[id]; ok {
		return d.name
	}
	return "sensor" + strconv.Itoa(int(id))
}

// Title is the human readable name shown on the display.
func (id ID) Title() string {
	if d, ok := descriptors[id]; ok {
		return d.title
	}
	return "Sensor " + strconv.Itoa(int(id))
}

// Headings returns the data column headings of the sensor's log.
func (id ID) Headings() []string {
	d, ok := descriptors[id]
	if !ok {
		return nil
	}
	out := make([]string, len(d.headings))
	copy(out, d.headings)
	return out
}

func (id ID) String() string {
	return id.Name()
}

// ParseID accepts either a sensor number ("5") or a short name ("co").
func ParseID(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		id := ID(n)
		if !id.Valid() {
			return 0, errors.Wrapf(ErrInvalidID, "%d", n)
		}
		return id, nil
	}
	for id, d := range descriptors {
		if d.name == s {
			return id, nil
		}
	}
	return 0, errors.Wrap(ErrInvalidID, s)
}

// Config describes one active sensor: how often to read it and for how long.
type Config struct {
	ID              ID      `mapstructure:"id"`
	IntervalSeconds float64 `mapstructure:"interval"`
	DurationMinutes float64 `mapstructure:"duration"`
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds * float64(time.Second))
}

func (c Config) Duration() time.Duration {
	return time.Duration(c.DurationMinutes * float64(time.Minute))
}

// Validate checks the id and that interval and duration are finite and
// at least one nanosecond long.
func (c Config) Validate() error {
	if !c.ID.Valid() {
		return errors.Wrapf(ErrInvalidID, "%d", int(c.ID))
	}
	if !span(c.IntervalSeconds, time.Second) {
		return errors.Errorf("sensor %d: interval must be positive, got %v", c.ID, c.IntervalSeconds)
	}
	if !span(c.DurationMinutes, time.Minute) {
		return errors.Errorf("sensor %d: duration must be positive, got %v", c.ID, c.DurationMinutes)
	}
	return nil
}

// span reports whether v units converts to a positive time.Duration.
func span(v float64, unit time.Duration) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	ns := v * float64(unit)
	return ns >= 1 && ns < math.MaxInt64
}
