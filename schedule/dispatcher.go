// Copyright © 2023 EcoSwell

package schedule

import (
	"context"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/EcoSwell/RaspberryPi-Sensor/display"
	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

const (
	// DefaultSettle is the pause after every reading before the next one
	// may touch the shared sensor bus.
	DefaultSettle = 2 * time.Second

	// DefaultGrace is waited after the last sensor finished and the queue
	// drained, before the run is declared complete.
	DefaultGrace = 5 * time.Second

	// DefaultHold is how long status messages stay on the display.
	DefaultHold = 30 * time.Second
)

const completeMessage = "All readings \nnow complete.\nYou can safely unplug \n the sensor now."

// Finalizer moves finished logs out of the working area.
type Finalizer interface {
	Finalize() ([]string, error)
}

// FailureRecorder is implemented by sinks that want to see failed readings.
type FailureRecorder interface {
	RecordFailure(id sensors.ID, err error)
}

// Dispatcher executes queued jobs one at a time.
type Dispatcher struct {
	queue     *Queue
	tracker   *Tracker
	settle    time.Duration
	grace     time.Duration
	hold      time.Duration
	notifier  display.Notifier
	finalizer Finalizer
	failures  []FailureRecorder
}

// Run executes jobs until every sensor is inactive and the queue is empty,
// then finalizes the logs. A cancelled ctx stops the loop early; the logs
// written so far are still finalized.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if job, ok := d.queue.Pop(); ok {
			d.execute(ctx, job)
			if err := sensors.Sleep(ctx, d.settle); err != nil {
				return d.stop(err)
			}
			continue
		}

		select {
		case <-d.queue.Ready():
		case <-d.tracker.Done():
			if d.queue.Len() > 0 {
				continue
			}
			if err := sensors.Sleep(ctx, d.grace); err != nil {
				return d.stop(err)
			}
			if d.queue.Len() > 0 {
				continue
			}
			return d.complete()
		case <-ctx.Done():
			return d.stop(ctx.Err())
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, job Job) {
	jww.DEBUG.Printf("Reading %s (job %d, queued %s)", job.Sensor, job.Seq, time.Since(job.Enqueued).Round(time.Millisecond))
	err := job.Do(ctx)
	if err == nil {
		return
	}

	for _, f := range d.failures {
		f.RecordFailure(job.Sensor, err)
	}
	if errors.Is(err, sensors.ErrReadTimeout) {
		jww.WARN.Printf("%s read timed out, skipping this reading", job.Sensor)
		display.Announce(d.notifier, "Failed to read \n"+job.Sensor.Title(), d.hold)
		return
	}
	jww.ERROR.Printf("%s reading failed: %v", job.Sensor, err)
}

func (d *Dispatcher) finalize() error {
	if d.finalizer == nil {
		return nil
	}
	moved, err := d.finalizer.Finalize()
	jww.INFO.Printf("Moved %d log(s) to the ready area", len(moved))
	return errors.Wrap(err, "finalize logs")
}

func (d *Dispatcher) complete() error {
	err := d.finalize()
	display.Announce(d.notifier, completeMessage, d.hold)
	jww.INFO.Println("All readings complete")
	return err
}

func (d *Dispatcher) stop(cause error) error {
	jww.WARN.Println("Run interrupted:", cause)
	if err := d.finalize(); err != nil {
		jww.ERROR.Println(err)
	}
	return cause
}
