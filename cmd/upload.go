// Copyright © 2023 EcoSwell

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/EcoSwell/RaspberryPi-Sensor/data"
	"github.com/EcoSwell/RaspberryPi-Sensor/storage"
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload the finished logs to S3",
	Long: `Uploads every finished log to an S3 compatible bucket and removes the
uploaded files. Credentials are read from the environment (ENVIROLOG_S3_*),
optionally loaded from an .env file.`,
	Run: upload,
}

func uploadInit() {
	if !uploadCmd.Flags().HasFlags() {
		uploadCmd.Flags().Bool("keep", false, "Keep uploaded files")
	}
}

func init() {
	RootCmd.AddCommand(uploadCmd)
	uploadInit()
	viper.BindPFlags(uploadCmd.Flags())

	viper.SetDefault("s3.endpoint", "localhost:9000")
	viper.SetDefault("s3.bucket", "envirolog")
	viper.SetDefault("s3.retries", 5)
}

func upload(cmd *cobra.Command, args []string) {
	loadEnv()

	files, err := data.ReadyFiles(viper.GetString("readyDir"))
	if err != nil {
		jww.FATAL.Fatalln(err)
	}
	if len(files) == 0 {
		jww.INFO.Println("Nothing to upload")
		return
	}

	bucket, err := storage.NewBucket(storage.Config{
		Endpoint:  viper.GetString("s3.endpoint"),
		AccessKey: viper.GetString("s3.accessKey"),
		SecretKey: viper.GetString("s3.secretKey"),
		Bucket:    viper.GetString("s3.bucket"),
		Secure:    viper.GetBool("s3.secure"),
	})
	if err != nil {
		jww.FATAL.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bucket.Ensure(ctx); err != nil {
		jww.FATAL.Fatalln(err)
	}

	u := storage.NewUploader(bucket, viper.GetUint64("s3.retries"), viper.GetBool("keep"))
	done, err := u.UploadAll(ctx, files)
	jww.INFO.Printf("Uploaded %d of %d file(s)", len(done), len(files))
	if err != nil {
		jww.FATAL.Fatalln(err)
	}
}
