// Copyright © 2023 EcoSwell

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/EcoSwell/RaspberryPi-Sensor/data"
	"github.com/EcoSwell/RaspberryPi-Sensor/mailer"
)

// mailCmd represents the mail command
var mailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Email the finished logs",
	Long: `Sends every finished log as an attachment of a single email and moves
the sent logs to the sent directory. SMTP credentials are read from the
environment (ENVIROLOG_SMTP_*), optionally loaded from an .env file.`,
	Run: mail,
}

func mailInit() {
	if !mailCmd.Flags().HasFlags() {
		mailCmd.Flags().String("email", "", "Recipient address")
		mailCmd.Flags().String("sentDir", "data_emailed", "Directory sent logs are moved to")
		mailCmd.Flags().Uint64("retries", mailer.DefaultRetries, "Attempts after the first failed send")
	}
}

func init() {
	RootCmd.AddCommand(mailCmd)
	mailInit()
	viper.BindPFlags(mailCmd.Flags())

	viper.SetDefault("smtp.host", "smtp-mail.outlook.com")
	viper.SetDefault("smtp.port", mailer.DefaultPort)
}

// loadEnv reads the configured .env file, if any, into the environment.
func loadEnv() {
	path := viper.GetString("envFile")
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		jww.DEBUG.Printf("No %s file, using the environment", path)
	}
}

func mail(cmd *cobra.Command, args []string) {
	loadEnv()

	files, err := data.ReadyFiles(viper.GetString("readyDir"))
	if err != nil {
		jww.FATAL.Fatalln(err)
	}

	m := mailer.New(mailer.Config{
		Host:     viper.GetString("smtp.host"),
		Port:     viper.GetInt("smtp.port"),
		Username: viper.GetString("smtp.username"),
		Password: viper.GetString("smtp.password"),
		From:     viper.GetString("smtp.from"),
		To:       viper.GetString("email"),
		Retries:  viper.GetUint64("retries"),
	}, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = m.Send(ctx, files)
	if errors.Is(err, mailer.ErrNoAttachments) {
		jww.INFO.Println("Nothing to send")
		return
	}
	if err != nil {
		jww.FATAL.Fatalln(err)
	}

	if _, err := data.MoveFiles(files, viper.GetString("sentDir")); err != nil {
		jww.FATAL.Fatalln(err)
	}
}
