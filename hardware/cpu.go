// Copyright © 2023 EcoSwell

package hardware

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// DefaultCPUThermal is the Raspberry Pi SoC temperature in millidegrees.
const DefaultCPUThermal = "/sys/class/thermal/thermal_zone0/temp"

// CPUThermal reads the CPU temperature from a sysfs thermal zone.
type CPUThermal string

func (c CPUThermal) Temperature() (float64, error) {
	b, err := os.ReadFile(string(c))
	if err != nil {
		return 0, errors.Wrap(err, "cpu temperature")
	}
	milli, err := cast.ToFloat64E(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", string(c))
	}
	return milli / 1000, nil
}
