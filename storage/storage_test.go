// Copyright © 2023 EcoSwell

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

type memoryPutter struct {
	failFor map[string]int
	stored  []string
}

func (m *memoryPutter) Put(ctx context.Context, path string) error {
	name := filepath.Base(path)
	if m.failFor[name] > 0 {
		m.failFor[name]--
		return errors.New("503 slow down")
	}
	m.stored = append(m.stored, name)
	return nil
}

func writeFiles(t *testing.T, names ...string) []string {
	dir := t.TempDir()
	var files []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		files = append(files, p)
	}
	return files
}

func instantUploader(p Putter, keep bool) *Uploader {
	u := NewUploader(p, 2, keep)
	u.backoff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return u
}

func TestUploadAllRemoves(t *testing.T) {
	p := &memoryPutter{failFor: map[string]int{"co.csv": 1}}
	files := writeFiles(t, "co.csv", "temp.csv")

	done, err := instantUploader(p, false).UploadAll(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 2 || len(p.stored) != 2 {
		t.Errorf("done %v, stored %v", done, p.stored)
	}
	for _, f := range files {
		if _, err := os.Stat(f); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", f)
		}
	}
}

func TestUploadAllKeep(t *testing.T) {
	p := &memoryPutter{failFor: map[string]int{"co.csv": 5}}
	files := writeFiles(t, "co.csv", "temp.csv")

	done, err := instantUploader(p, true).UploadAll(context.Background(), files)
	if err == nil {
		t.Error("co.csv should fail after retries")
	}
	if len(done) != 1 || filepath.Base(done[0]) != "temp.csv" {
		t.Errorf("done: %v", done)
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("%s should be kept: %v", f, err)
		}
	}
}
