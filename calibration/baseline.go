// Copyright © 2023 EcoSwell

package calibration

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/EcoSwell/RaspberryPi-Sensor/units"
)

// LoadBaseline reads the R0 values for CO, NO2 and NH3, one per line. A
// missing or empty file yields an uncalibrated baseline.
func LoadBaseline(path string) (units.Baseline, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return units.Baseline{}, nil
	}
	if err != nil {
		return units.Baseline{}, errors.Wrap(err, "open baseline")
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := cast.ToFloat64E(line)
		if err != nil {
			return units.Baseline{}, errors.Wrapf(err, "%s line %d", path, len(values)+1)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return units.Baseline{}, errors.Wrap(err, "read baseline")
	}

	switch len(values) {
	case 0:
		return units.Baseline{}, nil
	case 3:
		return units.Baseline{CO: values[0], NO2: values[1], NH3: values[2]}, nil
	}
	return units.Baseline{}, errors.Errorf("%s: expected 3 values, found %d", path, len(values))
}

// SaveBaseline overwrites path with b.
func SaveBaseline(path string, b units.Baseline) error {
	content := fmt.Sprintf("%v\n%v\n%v", b.CO, b.NO2, b.NH3)
	return errors.Wrap(os.WriteFile(path, []byte(content), 0644), "write baseline")
}
