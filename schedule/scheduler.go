// Copyright © 2023 EcoSwell

package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/EcoSwell/RaspberryPi-Sensor/display"
	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

var (
	ErrNoSensors       = errors.New("no active sensors configured")
	ErrUnknownSensor   = errors.New("no handler for sensor")
	ErrDuplicateSensor = errors.New("sensor configured more than once")
)

// Sink receives every completed reading.
type Sink interface {
	Record(r sensors.Reading) error
}

// Options tune a Scheduler. Zero durations take the package defaults; use a
// negative value to disable a delay.
type Options struct {
	Settle    time.Duration
	Grace     time.Duration
	Hold      time.Duration
	Notifier  display.Notifier
	Finalizer Finalizer
	Sinks     []Sink
}

// Scheduler runs one producer per configured sensor and a single
// dispatcher executing their jobs.
type Scheduler struct {
	handlers map[sensors.ID]sensors.MeasureFunc
	opts     Options
	queue    *Queue
	tracker  *Tracker
	started  bool
}

// New builds a scheduler over the per-sensor measurement functions.
func New(handlers map[sensors.ID]sensors.MeasureFunc, opts Options) *Scheduler {
	if opts.Settle == 0 {
		opts.Settle = DefaultSettle
	}
	if opts.Grace == 0 {
		opts.Grace = DefaultGrace
	}
	if opts.Hold == 0 {
		opts.Hold = DefaultHold
	}
	if opts.Notifier == nil {
		opts.Notifier = display.Nop{}
	}
	return &Scheduler{
		handlers: handlers,
		opts:     opts,
		queue:    NewQueue(),
		tracker:  NewTracker(),
	}
}

func (s *Scheduler) Queue() *Queue {
	return s.queue
}

func (s *Scheduler) Tracker() *Tracker {
	return s.tracker
}

// Run is a started schedule.
type Run struct {
	ID    string
	Start time.Time

	done chan struct{}
	err  error
}

// Wait blocks until the dispatcher has finished and returns its error.
func (r *Run) Wait() error {
	<-r.done
	return r.err
}

// Done is closed when the run is complete.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Validate checks configs against the handler table without starting anything.
func (s *Scheduler) Validate(configs []sensors.Config) error {
	if len(configs) == 0 {
		return ErrNoSensors
	}
	seen := make(map[sensors.ID]bool)
	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, ok := s.handlers[c.ID]; !ok {
			return errors.Wrapf(ErrUnknownSensor, "%d", int(c.ID))
		}
		if seen[c.ID] {
			return errors.Wrapf(ErrDuplicateSensor, "%d", int(c.ID))
		}
		seen[c.ID] = true
	}
	return nil
}

// Start validates configs, activates every sensor and launches the
// producers and the dispatcher. A Scheduler can be started once.
func (s *Scheduler) Start(ctx context.Context, configs []sensors.Config) (*Run, error) {
	if s.started {
		return nil, errors.New("scheduler already started")
	}
	if err := s.Validate(configs); err != nil {
		return nil, err
	}
	s.started = true

	run := &Run{
		ID:    uuid.New().String(),
		Start: time.Now(),
		done:  make(chan struct{}),
	}

	for _, c := range configs {
		if err := s.tracker.Activate(c.ID); err != nil {
			return nil, err
		}
	}

	var producers sync.WaitGroup
	for _, c := range configs {
		producers.Add(1)
		go s.produce(ctx, run, c, &producers)
	}

	d := &Dispatcher{
		queue:     s.queue,
		tracker:   s.tracker,
		settle:    s.opts.Settle,
		grace:     s.opts.Grace,
		hold:      s.opts.Hold,
		notifier:  s.opts.Notifier,
		finalizer: s.opts.Finalizer,
	}
	for _, sink := range s.opts.Sinks {
		if f, ok := sink.(FailureRecorder); ok {
			d.failures = append(d.failures, f)
		}
	}

	go func() {
		run.err = d.Run(ctx)
		producers.Wait()
		close(run.done)
	}()

	jww.INFO.Printf("Run %s started with %d sensor(s)", run.ID, len(configs))
	return run, nil
}

// produce queues a reading immediately and then every interval until the
// sensor's duration has elapsed since the start of the run.
func (s *Scheduler) produce(ctx context.Context, run *Run, c sensors.Config, wg *sync.WaitGroup) {
	defer wg.Done()

	interval, duration := c.Interval(), c.Duration()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(duration - time.Since(run.Start))
	defer deadline.Stop()

	do := s.job(run, c)
loop:
	for time.Since(run.Start) < duration {
		s.queue.Push(Job{Sensor: c.ID, Do: do})

		select {
		case <-ticker.C:
		case <-deadline.C:
			break loop
		case <-ctx.Done():
			break loop
		}
	}

	if s.tracker.Deactivate(c.ID) {
		jww.INFO.Printf("%s readings complete", c.ID.Title())
		display.Announce(s.opts.Notifier, c.ID.Title()+"\nreadings\ncomplete", s.opts.Hold)
	}
}

func (s *Scheduler) job(run *Run, c sensors.Config) func(ctx context.Context) error {
	measure := s.handlers[c.ID]
	return func(ctx context.Context) error {
		values, err := measure(ctx)
		if err != nil {
			return err
		}
		r := sensors.Reading{
			Run:      run.ID,
			Sensor:   c.ID,
			Config:   c,
			RunStart: run.Start,
			Time:     time.Now(),
			Values:   values,
		}
		for _, sink := range s.opts.Sinks {
			if err := sink.Record(r); err != nil {
				jww.ERROR.Printf("%s: cannot record reading: %v", c.ID, err)
			}
		}
		return nil
	}
}
