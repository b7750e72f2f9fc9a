// Copyright © 2023 EcoSwell

package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

// Job is one pending reading of a single sensor.
type Job struct {
	Sensor   sensors.ID
	Seq      uint64
	Enqueued time.Time
	Do       func(ctx context.Context) error
}

// Queue is a FIFO of jobs shared by every producer and the dispatcher.
type Queue struct {
	mu    sync.Mutex
	jobs  []Job
	seq   uint64
	ready chan struct{}
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends a job, stamping its sequence number, and wakes the consumer.
func (q *Queue) Push(job Job) Job {
	q.mu.Lock()
	q.seq++
	job.Seq = q.seq
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now()
	}
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return job
}

// Pop removes the oldest job. ok is false if the queue is empty.
func (q *Queue) Pop() (job Job, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return Job{}, false
	}
	job = q.jobs[0]
	q.jobs[0] = Job{}
	q.jobs = q.jobs[1:]
	return job, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Ready receives a value after at least one Push since the last receive.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}
