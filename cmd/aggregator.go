// Copyright © 2023 EcoSwell

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/EcoSwell/RaspberryPi-Sensor/aggregator"
	"github.com/EcoSwell/RaspberryPi-Sensor/broker"
	"github.com/EcoSwell/RaspberryPi-Sensor/data"
)

// aggregatorCmd represents the aggregator command
var aggregatorCmd = &cobra.Command{
	Use:   "aggregator",
	Short: "Aggregates published readings",
	Long: `Subscribes to the readings published by "run --publish" and stores
their min, max and average per interval into the database.`,
	Run: aggregate,
}

func aggregatorInit() {
	if !aggregatorCmd.Flags().HasFlags() {
		aggregatorCmd.Flags().Int("interval", 300, "Interval (in seconds) to aggregate data.")
	}
}

func init() {
	RootCmd.AddCommand(aggregatorCmd)
	aggregatorInit()
	viper.BindPFlags(aggregatorCmd.Flags())
}

func aggregate(cmd *cobra.Command, args []string) {
	db, err := data.OpenDatabase()
	if err != nil {
		jww.FATAL.Fatalln(err)
	}
	defer db.Close()

	agg := aggregator.New()
	client, err := broker.Connect(viper.GetString("broker"), "aggregator", func(c MQTT.Client) {
		if err := broker.Subscribe(c, agg.Add); err != nil {
			jww.ERROR.Println(err)
		}
	})
	if err != nil {
		jww.FATAL.Fatalln(err)
	}
	defer client.Disconnect(250)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Duration(viper.GetInt("interval")) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			store(db, agg.Flush(time.Now().UTC().Unix()))
		case <-ctx.Done():
			store(db, agg.Flush(time.Now().UTC().Unix()))
			return
		}
	}
}

func store(db *data.Database, rows []data.Row) {
	for _, row := range rows {
		if err := db.InsertRow(row); err != nil {
			jww.ERROR.Println(err)
		}
	}
	jww.DEBUG.Printf("Stored %d aggregate row(s)", len(rows))
}
