// Copyright © 2023 EcoSwell

package data

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
	"github.com/EcoSwell/RaspberryPi-Sensor/units"
)

const (
	DateLayout = "02.01.2006"
	TimeLayout = "15:04:05"
)

// Meta is written as the two metadata rows of a new log.
type Meta struct {
	IntervalSeconds float64
	DurationMinutes float64
}

// Record is one data row of a log.
type Record struct {
	Time   time.Time
	Values []float64
}

// LogWriter appends readings to per-sensor CSV logs in a working directory
// and moves finished logs to a ready directory. Files are named
//
//	<sensor>-<DD.MM.YYYY>-<HH:MM:SS>.csv
//
// after the start of the run.
type LogWriter struct {
	mu      sync.Mutex
	working string
	ready   string
}

// NewLogWriter creates both directories if needed.
func NewLogWriter(working, ready string) (*LogWriter, error) {
	for _, dir := range []string{working, ready} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "cannot create %s", dir)
		}
	}
	return &LogWriter{working: working, ready: ready}, nil
}

// FileName returns the log file name of a sensor for the run started at runStart.
func FileName(name string, runStart time.Time) string {
	return name + "-" + runStart.Format(DateLayout) + "-" + runStart.Format(TimeLayout) + ".csv"
}

// Path returns where the working log of a sensor/run lives.
func (w *LogWriter) Path(name string, runStart time.Time) string {
	return filepath.Join(w.working, FileName(name, runStart))
}

// Append writes rec to the log of name/runStart. A missing log is created
// with the metadata and heading rows first; an existing one is only appended to.
func (w *LogWriter) Append(name string, runStart time.Time, meta Meta, headings []string, rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.Path(name, runStart)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "open log")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "stat log")
	}

	writer := csv.NewWriter(f)
	if info.Size() == 0 {
		writer.Write([]string{"Time between readings(sec): ", formatFloat(meta.IntervalSeconds)})
		writer.Write([]string{"Duration of readings (mins): ", formatFloat(meta.DurationMinutes)})
		writer.Write(append([]string{"Date", "Time"}, headings...))
	}

	row := []string{rec.Time.Format(DateLayout), rec.Time.Format(TimeLayout)}
	for _, v := range rec.Values {
		row = append(row, formatFloat(units.Round(v, 3)))
	}
	writer.Write(row)
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "write log")
	}
	return f.Close()
}

// Record appends a completed reading to its sensor's log.
func (w *LogWriter) Record(r sensors.Reading) error {
	meta := Meta{
		IntervalSeconds: r.Config.IntervalSeconds,
		DurationMinutes: r.Config.DurationMinutes,
	}
	return w.Append(r.Sensor.Name(), r.RunStart, meta, r.Headings(), Record{Time: r.Time, Values: r.Values})
}

// Finalize moves every file of the working directory to the ready
// directory and returns the new paths.
func (w *LogWriter) Finalize() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	files, err := ReadyFiles(w.working)
	if err != nil {
		return nil, err
	}
	moved, err := MoveFiles(files, w.ready)
	for _, f := range moved {
		jww.DEBUG.Println("Finalized", f)
	}
	return moved, err
}

// ReadyDir is the directory finished logs are moved to.
func (w *LogWriter) ReadyDir() string {
	return w.ready
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
