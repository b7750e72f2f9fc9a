// Copyright © 2023 EcoSwell

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/EcoSwell/RaspberryPi-Sensor/broker"
	"github.com/EcoSwell/RaspberryPi-Sensor/calibration"
	"github.com/EcoSwell/RaspberryPi-Sensor/data"
	"github.com/EcoSwell/RaspberryPi-Sensor/display"
	"github.com/EcoSwell/RaspberryPi-Sensor/hardware"
	"github.com/EcoSwell/RaspberryPi-Sensor/metrics"
	"github.com/EcoSwell/RaspberryPi-Sensor/schedule"
	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Take scheduled sensor readings",
	Long: `Reads every configured sensor at its interval until its duration has
passed, writing one CSV log per sensor. With calculateTempFactor or
calculateGasFactor set, runs the matching calibration instead.`,
	Run: run,
}

func runInit() {
	if !runCmd.Flags().HasFlags() {
		runCmd.Flags().Bool("simulate", false, "Use simulated sensors instead of the Enviro+ board")
		runCmd.Flags().String("metrics", "", "Address to serve Prometheus metrics on, e.g. :9100")
		runCmd.Flags().Bool("publish", false, "Publish every reading to the MQTT broker")
	}
}

func init() {
	RootCmd.AddCommand(runCmd)
	runInit()
	viper.BindPFlags(runCmd.Flags())

	viper.SetDefault("factor", 1.31)
	viper.SetDefault("dataDir", "data")
	viper.SetDefault("readyDir", "data_final")
	viper.SetDefault("baseline", "gas_factors.txt")
	viper.SetDefault("settle", schedule.DefaultSettle)
	viper.SetDefault("grace", schedule.DefaultGrace)
	viper.SetDefault("hold", schedule.DefaultHold)
	viper.SetDefault("warmup", calibration.DefaultWarmup)
	viper.SetDefault("i2cBus", "")
	viper.SetDefault("pmsPort", hardware.DefaultPMSPort)
	viper.SetDefault("gasHeater", hardware.DefaultGasHeater)
	viper.SetDefault("pmsBaud", hardware.DefaultPMSBaud)
	viper.SetDefault("cpuThermal", hardware.DefaultCPUThermal)
}

func openReader() (sensors.Reader, func(), error) {
	if viper.GetBool("simulate") {
		jww.INFO.Println("Using simulated sensors")
		return hardware.NewSimulated(time.Now().UnixNano()), func() {}, nil
	}
	board, err := hardware.Open(hardware.Config{
		I2CBus:     viper.GetString("i2cBus"),
		PMSPort:    viper.GetString("pmsPort"),
		PMSBaud:    viper.GetInt("pmsBaud"),
		CPUThermal: viper.GetString("cpuThermal"),
		GasHeater:  viper.GetString("gasHeater"),
	})
	if err != nil {
		return nil, nil, err
	}
	return board, func() { board.Close() }, nil
}

func run(cmd *cobra.Command, args []string) {
	notifier := display.NewConsole(os.Stdout)
	hold := viper.GetDuration("hold")

	mode, err := calibration.SelectMode(viper.GetBool("calculateTempFactor"), viper.GetBool("calculateGasFactor"))
	if err != nil {
		display.Announce(notifier, calibration.ConflictMessage, hold)
		jww.FATAL.Fatalln(err)
	}

	// Fail on a bad sensor list before touching the hardware.
	var configs []sensors.Config
	if mode == calibration.Normal {
		if configs, err = parseSensors(viper.Get("sensors")); err != nil {
			jww.FATAL.Fatalln(err)
		}
		if len(configs) == 0 {
			jww.FATAL.Fatalln(schedule.ErrNoSensors)
		}
	}

	reader, closeReader, err := openReader()
	if err != nil {
		jww.FATAL.Fatalln(err)
	}
	defer closeReader()

	baseline, err := calibration.LoadBaseline(viper.GetString("baseline"))
	if err != nil {
		jww.ERROR.Println("Ignoring gas baseline:", err)
	}
	if !baseline.Calibrated() {
		jww.INFO.Println("Gas sensors are not calibrated, logging raw resistances")
	}

	warmup := viper.GetDuration("warmup")
	station, err := sensors.NewStation(reader, viper.GetFloat64("factor"), baseline, warmup)
	if err != nil {
		jww.FATAL.Fatalln(err)
	}

	logs, err := data.NewLogWriter(viper.GetString("dataDir"), viper.GetString("readyDir"))
	if err != nil {
		jww.FATAL.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := calibration.Options{Warmup: warmup, Hold: hold, Notifier: notifier}
	switch mode {
	case calibration.TemperatureFactor:
		err = calibration.CollectTemperatureFactor(ctx, reader, station.Window(), logs, opts)
	case calibration.GasBaseline:
		_, err = calibration.CollectGasBaseline(ctx, reader, viper.GetString("baseline"), opts)
	default:
		err = runSchedule(ctx, station, logs, notifier, configs)
	}

	switch {
	case errors.Is(err, context.Canceled):
		jww.WARN.Println("Interrupted")
	case err != nil:
		jww.FATAL.Fatalln(err)
	}
}

func runSchedule(ctx context.Context, station *sensors.Station, logs *data.LogWriter, notifier display.Notifier, configs []sensors.Config) error {
	sinks := []schedule.Sink{logs}

	if viper.GetBool("publish") {
		client, err := broker.Connect(viper.GetString("broker"), "envirolog", nil)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)
		sinks = append(sinks, broker.NewPublisher(client))
	}

	var prom *metrics.Sink
	if addr := viper.GetString("metrics"); addr != "" {
		prom = metrics.New()
		sinks = append(sinks, prom)
	}

	sched := schedule.New(station.Handlers(), schedule.Options{
		Settle:    viper.GetDuration("settle"),
		Grace:     viper.GetDuration("grace"),
		Hold:      viper.GetDuration("hold"),
		Notifier:  notifier,
		Finalizer: logs,
		Sinks:     sinks,
	})

	if prom != nil {
		prom.QueueDepth(sched.Queue().Len)
		srv := prom.Serve(viper.GetString("metrics"))
		defer srv.Close()
	}

	r, err := sched.Start(ctx, configs)
	if err != nil {
		return err
	}
	if err := r.Wait(); err != nil {
		return err
	}
	jww.INFO.Printf("Run %s finished, logs are in %s", r.ID, logs.ReadyDir())
	return nil
}
