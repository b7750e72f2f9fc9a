// Copyright © 2023 EcoSwell

package units

import "sync"

// CPUWindowSize is the number of CPU temperature samples averaged to damp
// jitter in the compensated temperature.
const CPUWindowSize = 5

// CPUWindow is a fixed-size sliding window of CPU temperature samples.
type CPUWindow struct {
	mu      sync.Mutex
	samples []float64
}

// NewCPUWindow returns a window of the given size filled with initial.
func NewCPUWindow(size int, initial float64) *CPUWindow {
	if size < 1 {
		size = 1
	}
	w := &CPUWindow{samples: make([]float64, size)}
	for i := range w.samples {
		w.samples[i] = initial
	}
	return w
}

// Push drops the oldest sample, appends sample and returns the new average.
func (w *CPUWindow) Push(sample float64) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	copy(w.samples, w.samples[1:])
	w.samples[len(w.samples)-1] = sample
	return w.average()
}

// Average returns the mean of the samples currently in the window.
func (w *CPUWindow) Average() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.average()
}

// Samples returns a copy of the window, oldest first.
func (w *CPUWindow) Samples() []float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]float64, len(w.samples))
	copy(out, w.samples)
	return out
}

func (w *CPUWindow) average() float64 {
	sum := 0.0
	for _, s := range w.samples {
		sum += s
	}
	return sum / float64(len(w.samples))
}
