// Copyright © 2023 EcoSwell

package cmd

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/EcoSwell/RaspberryPi-Sensor/data"
	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
	"github.com/EcoSwell/RaspberryPi-Sensor/units"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print aggregated readings",
	Long: `Prints the aggregated rows of one sensor from the database as CSV,
optionally converting temperature and pressure units.`,
	Run: history,
}

func historyInit() {
	if !historyCmd.Flags().HasFlags() {
		historyCmd.Flags().String("sensor", "temp", "Sensor name or number")
		historyCmd.Flags().String("key", "", "Column heading, default all")
		historyCmd.Flags().Duration("since", 24*time.Hour, "How far back to go")
		historyCmd.Flags().String("unit", "", "Output unit: C, F, K for temperature; hPa, kPa, inHg, mmHg for pressure")
	}
}

func init() {
	RootCmd.AddCommand(historyCmd)
	historyInit()
	viper.BindPFlags(historyCmd.Flags())
}

func history(cmd *cobra.Command, args []string) {
	id, err := sensors.ParseID(viper.GetString("sensor"))
	if err != nil {
		jww.FATAL.Fatalln(err)
	}

	db, err := data.OpenDatabase()
	if err != nil {
		jww.FATAL.Fatalln(err)
	}
	defer db.Close()

	start := time.Now().Add(-viper.GetDuration("since")).UTC().Unix()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rows, err := db.QueryRows(ctx, start, id.Name(), viper.GetString("key"))
	if err != nil {
		jww.FATAL.Fatalln(err)
	}

	convert, err := converter(id, viper.GetString("unit"))
	if err != nil {
		jww.FATAL.Fatalln(err)
	}
	err = writeHistory(os.Stdout, rows, convert)
	cancel()
	if err != nil {
		jww.FATAL.Fatalln(err)
	}
}

// converter maps stored values (Celsius, hPa) to unit.
func converter(id sensors.ID, unit string) (func(float64) (float64, error), error) {
	if unit == "" {
		return func(v float64) (float64, error) { return v, nil }, nil
	}
	switch id {
	case sensors.Temperature:
		return func(v float64) (float64, error) {
			return units.NewTemperatureCelsius(v).Get(unit)
		}, nil
	case sensors.Pressure:
		return func(v float64) (float64, error) {
			return units.NewPressureHectopascal(v).Get(unit)
		}, nil
	}
	return nil, errors.Errorf("%s has no unit conversions", id.Title())
}

func writeHistory(out io.Writer, rows <-chan data.Row, convert func(float64) (float64, error)) error {
	w := csv.NewWriter(out)
	w.Write([]string{"Date", "Time", "Run", "Key", "Min", "Max", "Avg"})
	for row := range rows {
		record := []string{}
		t := time.Unix(row.Timestamp, 0)
		record = append(record, t.Format(data.DateLayout), t.Format(data.TimeLayout), row.Run, row.Key)
		for _, v := range []float64{row.Min, row.Max, row.Avg} {
			c, err := convert(v)
			if err != nil {
				return err
			}
			record = append(record, strconv.FormatFloat(units.Round(c, 3), 'f', -1, 64))
		}
		w.Write(record)
	}
	w.Flush()
	return w.Error()
}
