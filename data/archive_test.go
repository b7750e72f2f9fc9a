// Copyright © 2023 EcoSwell

package data

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadyFilesAndMove(t *testing.T) {
	dir := t.TempDir()
	ready := filepath.Join(dir, "data_final")
	os.MkdirAll(filepath.Join(ready, "nested"), 0755)
	for _, name := range []string{"temp.csv", "co.csv"} {
		os.WriteFile(filepath.Join(ready, name), []byte("x"), 0644)
	}

	files, err := ReadyFiles(ready)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(ready, "co.csv"), filepath.Join(ready, "temp.csv")}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("got %v, want %v", files, want)
	}

	sent := filepath.Join(dir, "data_emailed")
	moved, err := MoveFiles(files, sent)
	if err != nil {
		t.Fatal(err)
	}
	if len(moved) != 2 || filepath.Dir(moved[0]) != sent {
		t.Errorf("moved: %v", moved)
	}
	if left, _ := ReadyFiles(ready); len(left) != 0 {
		t.Errorf("ready dir still has %v", left)
	}
}

func TestReadyFilesMissingDir(t *testing.T) {
	if _, err := ReadyFiles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("missing directory should fail")
	}
}
