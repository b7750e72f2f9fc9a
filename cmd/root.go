// Copyright © 2023 EcoSwell

package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/EcoSwell/RaspberryPi-Sensor/data"
)

var cfgFile string
var verbose bool

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "envirolog",
	Short: "Enviro+ sensor logger",
	Long: `envirolog takes scheduled readings from the sensors of a Pimoroni
Enviro+ board and writes them to one CSV log per sensor.

Finished logs can be mailed or uploaded, readings can be fanned out over
MQTT, aggregated into a database and exposed to Prometheus.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			jww.SetStdoutThreshold(jww.LevelTrace)
		}
		if logfile := viper.GetString("logfile"); logfile != "" {
			f, err := os.OpenFile(logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				jww.ERROR.Println("cannot open log file:", err)
				return
			}
			jww.SetLogOutput(f)
			jww.SetLogThreshold(jww.LevelInfo)
		}
	},
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		jww.ERROR.Println(err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is envirolog.yaml)")
	RootCmd.PersistentFlags().String("broker", "tcp://localhost:1883", "MQTT Server")
	RootCmd.PersistentFlags().String("database", "envirolog.db", "Database")
	RootCmd.PersistentFlags().String("logfile", "", "Also write the log to this file")
	RootCmd.PersistentFlags().String("envFile", ".env", "File with secrets loaded into the environment")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	dbdrivers := data.DBDrivers()
	if len(dbdrivers) > 1 {
		RootCmd.PersistentFlags().String("dbDriver", "sqlite3", "Database Driver, one of ["+strings.Join(dbdrivers, ", ")+"]")
	} else {
		viper.SetDefault("dbDriver", "sqlite3")
	}
	viper.BindPFlags(RootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" { // enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	}

	viper.SetConfigName("envirolog") // name of config file (without extension)
	viper.AddConfigPath("/etc/envirolog/")
	viper.AddConfigPath("$HOME/.envirolog/")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("envirolog")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		jww.DEBUG.Println("Using config file:", viper.ConfigFileUsed())
	}
}
