// Copyright © 2023 EcoSwell

package schedule

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

// ErrFinished is returned when a sensor that already completed its run is
// activated again.
var ErrFinished = errors.New("sensor already finished this run")

// Tracker records which sensors are still producing readings. Done is
// closed once every activated sensor has been deactivated.
type Tracker struct {
	mu       sync.Mutex
	active   map[sensors.ID]bool
	finished map[sensors.ID]bool
	count    int
	started  bool
	done     chan struct{}
}

// NewTracker returns a tracker with every sensor inactive.
func NewTracker() *Tracker {
	t := &Tracker{
		active:   make(map[sensors.ID]bool),
		finished: make(map[sensors.ID]bool),
		done:     make(chan struct{}),
	}
	for _, id := range sensors.All {
		t.active[id] = false
	}
	return t
}

// Activate marks id active. A sensor is activated at most once per run.
func (t *Tracker) Activate(id sensors.ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !id.Valid() {
		return errors.Wrapf(sensors.ErrInvalidID, "%d", int(id))
	}
	if t.finished[id] {
		return errors.Wrap(ErrFinished, id.Name())
	}
	if t.active[id] {
		return errors.Wrap(ErrDuplicateSensor, id.Name())
	}
	t.active[id] = true
	t.count++
	t.started = true
	return nil
}

// Deactivate marks id inactive. It reports whether this call performed the
// transition; repeated calls are no-ops.
func (t *Tracker) Deactivate(id sensors.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active[id] {
		return false
	}
	t.active[id] = false
	t.finished[id] = true
	t.count--
	if t.count == 0 && t.started {
		close(t.done)
	}
	return true
}

func (t *Tracker) Active(id sensors.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active[id]
}

func (t *Tracker) AnyActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count > 0
}

// Snapshot returns a copy of the status table.
func (t *Tracker) Snapshot() map[sensors.ID]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[sensors.ID]bool, len(t.active))
	for id, a := range t.active {
		out[id] = a
	}
	return out
}

// Done is closed when the last active sensor is deactivated.
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}
