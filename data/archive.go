// Copyright © 2023 EcoSwell

package data

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// ReadyFiles lists the regular files of dir in name order.
func ReadyFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// MoveFiles moves files into dir, creating it if needed, and returns the
// new paths. It stops at the first failure.
func MoveFiles(files []string, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "cannot create %s", dir)
	}
	moved := make([]string, 0, len(files))
	for _, f := range files {
		to := filepath.Join(dir, filepath.Base(f))
		if err := os.Rename(f, to); err != nil {
			return moved, errors.Wrapf(err, "move %s", filepath.Base(f))
		}
		moved = append(moved, to)
	}
	return moved, nil
}
