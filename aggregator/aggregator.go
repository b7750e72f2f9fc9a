// Copyright © 2023 EcoSwell

// Package aggregator reduces the readings seen on the broker to min/max/avg
// rows per sensor column.
package aggregator

import (
	"sort"
	"sync"

	"github.com/EcoSwell/RaspberryPi-Sensor/broker"
	"github.com/EcoSwell/RaspberryPi-Sensor/data"
)

type mapKey struct {
	Run    string
	Sensor string
	Key    string
}

// Aggregator collects values until Flush. It is safe for concurrent use.
type Aggregator struct {
	mu   sync.Mutex
	data map[mapKey][]float64
}

func New() *Aggregator {
	return &Aggregator{data: make(map[mapKey][]float64)}
}

// Add files every value of m under its heading.
func (a *Aggregator) Add(m broker.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, v := range m.Values {
		key := mapKey{Run: m.Run, Sensor: m.Name, Key: m.Headings[i]}
		a.data[key] = append(a.data[key], v)
	}
}

// Flush returns one row per collected column, stamped with timestamp, and
// starts a new interval.
func (a *Aggregator) Flush(timestamp int64) []data.Row {
	a.mu.Lock()
	collected := a.data
	a.data = make(map[mapKey][]float64)
	a.mu.Unlock()

	rows := make([]data.Row, 0, len(collected))
	for key, slice := range collected {
		rows = append(rows, data.Row{
			Timestamp: timestamp,
			Run:       key.Run,
			Sensor:    key.Sensor,
			Key:       key.Key,
			Min:       minimum(slice),
			Max:       maximum(slice),
			Avg:       mean(slice),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Sensor != rows[j].Sensor {
			return rows[i].Sensor < rows[j].Sensor
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

func minimum(d []float64) float64 {
	result := d[0]
	for _, x := range d {
		if x < result {
			result = x
		}
	}
	return result
}

func maximum(d []float64) float64 {
	result := d[0]
	for _, x := range d {
		if x > result {
			result = x
		}
	}
	return result
}

func mean(d []float64) float64 {
	sum := 0.0
	for _, x := range d {
		sum += x
	}
	return sum / float64(len(d))
}
