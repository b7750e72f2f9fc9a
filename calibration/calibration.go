// Copyright © 2023 EcoSwell

// Package calibration collects the data needed to tune the station: the
// temperature compensation factor and the gas sensor baseline (R0).
package calibration

import (
	"context"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/EcoSwell/RaspberryPi-Sensor/data"
	"github.com/EcoSwell/RaspberryPi-Sensor/display"
	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
	"github.com/EcoSwell/RaspberryPi-Sensor/units"
)

// ErrConflictingModes is returned when both calibration modes are requested.
var ErrConflictingModes = errors.New("cannot calculate temperature and gas factor in the same run")

// ConflictMessage is shown on the display for ErrConflictingModes.
const ConflictMessage = "Error!\nCannot calculate temp\nand gas factor."

const (
	// TempFactorLog is the log name of temperature factor collection.
	TempFactorLog = "calculate_temp_factor"

	DefaultTempRounds = 15
	DefaultGasRounds  = 10
	DefaultSpacing    = time.Minute
	DefaultWarmup     = 2 * time.Second
	DefaultHold       = 30 * time.Second

	tempFactorDone = "Temperature factor\n readings\n complete"
	gasDone        = "Gas calibration\n readings\n complete"
)

var tempFactorHeadings = []string{"Data 1", "Data 2"}

// Mode selects what a run does.
type Mode int

const (
	Normal Mode = iota
	TemperatureFactor
	GasBaseline
)

func (m Mode) String() string {
	switch m {
	case TemperatureFactor:
		return "temperature factor"
	case GasBaseline:
		return "gas baseline"
	default:
		return "normal"
	}
}

// SelectMode maps the two configuration switches to a Mode.
func SelectMode(temp, gas bool) (Mode, error) {
	switch {
	case temp && gas:
		return Normal, ErrConflictingModes
	case temp:
		return TemperatureFactor, nil
	case gas:
		return GasBaseline, nil
	}
	return Normal, nil
}

// Logs is where temperature factor rows are written.
type Logs interface {
	Append(name string, runStart time.Time, meta data.Meta, headings []string, rec data.Record) error
	Finalize() ([]string, error)
}

// Options tune a collection. Zero values take the defaults for the mode; a
// negative Spacing or Warmup disables that pause.
type Options struct {
	Rounds   int
	Spacing  time.Duration
	Warmup   time.Duration
	Hold     time.Duration
	Notifier display.Notifier
}

func (o Options) withDefaults(rounds int) Options {
	if o.Rounds <= 0 {
		o.Rounds = rounds
	}
	if o.Spacing == 0 {
		o.Spacing = DefaultSpacing
	}
	if o.Warmup == 0 {
		o.Warmup = DefaultWarmup
	}
	if o.Hold == 0 {
		o.Hold = DefaultHold
	}
	if o.Notifier == nil {
		o.Notifier = display.Nop{}
	}
	return o
}

// CollectTemperatureFactor logs (avgCpu-raw, raw) pairs once per round so
// the compensation factor can be fitted offline. window is the station's
// CPU window; no scheduled readings may run at the same time.
func CollectTemperatureFactor(ctx context.Context, r sensors.Reader, window *units.CPUWindow, logs Logs, opts Options) error {
	opts = opts.withDefaults(DefaultTempRounds)

	if _, err := r.ReadTemperature(); err != nil {
		jww.DEBUG.Println("stabilising read failed:", err)
	}
	if err := sensors.Sleep(ctx, opts.Warmup); err != nil {
		return err
	}

	start := time.Now()
	meta := data.Meta{
		IntervalSeconds: opts.Spacing.Seconds(),
		DurationMinutes: float64(opts.Rounds) * opts.Spacing.Minutes(),
	}
	if opts.Spacing < 0 {
		meta = data.Meta{}
	}

	for i := 0; i < opts.Rounds; i++ {
		if i > 0 {
			if err := sensors.Sleep(ctx, opts.Spacing); err != nil {
				return err
			}
		}

		raw, err := r.ReadTemperature()
		if err != nil {
			return errors.Wrap(err, "temperature")
		}
		cpu, err := r.ReadCPUTemperature()
		if err != nil {
			return errors.Wrap(err, "cpu temperature")
		}
		avg := window.Push(cpu)

		rec := data.Record{Time: time.Now(), Values: []float64{avg - raw, raw}}
		if err := logs.Append(TempFactorLog, start, meta, tempFactorHeadings, rec); err != nil {
			return err
		}
		jww.INFO.Printf("Temperature factor round %d/%d: cpu %.2f, raw %.2f", i+1, opts.Rounds, avg, raw)
	}

	if _, err := logs.Finalize(); err != nil {
		return err
	}
	display.Announce(opts.Notifier, tempFactorDone, opts.Hold)
	return nil
}

// CollectGasBaseline averages the gas sensor resistances in clean air, in
// kOhm rounded to 2 places, and stores them as the baseline at path.
func CollectGasBaseline(ctx context.Context, r sensors.Reader, path string, opts Options) (units.Baseline, error) {
	opts = opts.withDefaults(DefaultGasRounds)

	if _, err := r.ReadGasResistances(); err != nil {
		jww.DEBUG.Println("stabilising read failed:", err)
	}

	var sum units.Baseline
	for i := 0; i < opts.Rounds; i++ {
		if i > 0 {
			if err := sensors.Sleep(ctx, opts.Spacing); err != nil {
				return units.Baseline{}, err
			}
		}
		g, err := r.ReadGasResistances()
		if err != nil {
			return units.Baseline{}, errors.Wrap(err, "gas")
		}
		sum.CO += units.Kiloohms(g.Reducing)
		sum.NO2 += units.Kiloohms(g.Oxidising)
		sum.NH3 += units.Kiloohms(g.NH3)
		jww.INFO.Printf("Gas calibration round %d/%d", i+1, opts.Rounds)
	}

	n := float64(opts.Rounds)
	b := units.Baseline{
		CO:  units.Round(sum.CO/n, 2),
		NO2: units.Round(sum.NO2/n, 2),
		NH3: units.Round(sum.NH3/n, 2),
	}
	if err := SaveBaseline(path, b); err != nil {
		return b, err
	}
	jww.INFO.Printf("Gas baseline saved to %s: %v", path, b)
	display.Announce(opts.Notifier, gasDone, opts.Hold)
	return b, nil
}
