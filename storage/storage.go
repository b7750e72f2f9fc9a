// Copyright © 2023 EcoSwell

// Package storage uploads finished logs to an S3 compatible bucket.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// Bucket stores objects in one S3 bucket.
type Bucket struct {
	client *minio.Client
	name   string
}

func NewBucket(cfg Config) (*Bucket, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("no bucket configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create s3 client")
	}
	return &Bucket{client: client, name: cfg.Bucket}, nil
}

// Ensure creates the bucket if it does not exist yet.
func (b *Bucket) Ensure(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.name)
	if err != nil {
		return errors.Wrapf(err, "check bucket %s", b.name)
	}
	if exists {
		return nil
	}
	return errors.Wrapf(b.client.MakeBucket(ctx, b.name, minio.MakeBucketOptions{}), "create bucket %s", b.name)
}

// Put uploads the file at path under its base name.
func (b *Bucket) Put(ctx context.Context, path string) error {
	_, err := b.client.FPutObject(ctx, b.name, filepath.Base(path), path, minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	return errors.Wrapf(err, "put %s", filepath.Base(path))
}

// Putter is the upload side of a Bucket.
type Putter interface {
	Put(ctx context.Context, path string) error
}

// Uploader pushes files with bounded retries.
type Uploader struct {
	Putter  Putter
	Retries uint64
	// Keep leaves uploaded files in place instead of removing them.
	Keep bool

	backoff func() backoff.BackOff
}

func NewUploader(p Putter, retries uint64, keep bool) *Uploader {
	return &Uploader{
		Putter:  p,
		Retries: retries,
		Keep:    keep,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			return b
		},
	}
}

// UploadAll uploads every file and returns the ones that made it. It
// carries on past failed files and reports the first error.
func (u *Uploader) UploadAll(ctx context.Context, files []string) ([]string, error) {
	var done []string
	var first error
	for _, f := range files {
		op := func() error { return u.Putter.Put(ctx, f) }
		b := backoff.WithContext(backoff.WithMaxRetries(u.backoff(), u.Retries), ctx)
		if err := backoff.Retry(op, b); err != nil {
			jww.ERROR.Println(err)
			if first == nil {
				first = err
			}
			continue
		}
		done = append(done, f)
		jww.INFO.Println("Uploaded", filepath.Base(f))

		if !u.Keep {
			if err := os.Remove(f); err != nil {
				jww.WARN.Println("cannot remove uploaded file:", err)
			}
		}
	}
	return done, first
}
