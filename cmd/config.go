// Copyright © 2023 EcoSwell

package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

// parseSensors reads the sensors key. Each entry is either an
// [id, interval, duration] list or a map with those keys; ids may be
// numbers or sensor names.
func parseSensors(raw interface{}) ([]sensors.Config, error) {
	if raw == nil {
		return nil, nil
	}
	entries, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, errors.Wrap(err, "sensors must be a list")
	}

	configs := make([]sensors.Config, 0, len(entries))
	for i, entry := range entries {
		c, err := parseSensor(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "sensors[%d]", i)
		}
		configs = append(configs, c)
	}
	return configs, nil
}

func parseSensor(entry interface{}) (sensors.Config, error) {
	var id, interval, duration interface{}
	switch e := entry.(type) {
	case []interface{}:
		if len(e) != 3 {
			return sensors.Config{}, errors.Errorf("expected [id, interval, duration], got %d values", len(e))
		}
		id, interval, duration = e[0], e[1], e[2]
	default:
		m, err := cast.ToStringMapE(entry)
		if err != nil {
			return sensors.Config{}, errors.Errorf("unsupported entry %v", entry)
		}
		id, interval, duration = m["id"], m["interval"], m["duration"]
	}

	s, err := cast.ToStringE(id)
	if err != nil {
		return sensors.Config{}, errors.Wrap(err, "id")
	}
	c := sensors.Config{}
	if c.ID, err = sensors.ParseID(s); err != nil {
		return c, err
	}
	if c.IntervalSeconds, err = cast.ToFloat64E(interval); err != nil {
		return c, errors.Wrap(err, "interval")
	}
	if c.DurationMinutes, err = cast.ToFloat64E(duration); err != nil {
		return c, errors.Wrap(err, "duration")
	}
	return c, c.Validate()
}
