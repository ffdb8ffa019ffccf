package equeue

import "sync/atomic"

// Metrics tracks low-overhead, thread-safe runtime counters for a Queue.
// There is no latency-percentile engine here (no P-square estimator);
// this scheduler has no latency-distribution requirement, only the
// counts below. See DESIGN.md.
//
// All fields are safe to read concurrently with the Queue they are
// attached to; each is updated with a single atomic add on its
// respective hot path.
type Metrics struct {
	Posted        atomic.Int64 // successful Post calls
	Cancelled     atomic.Int64 // Cancel calls that matched a pending or in-flight event
	Dispatched    atomic.Int64 // callbacks invoked
	AllocFailures atomic.Int64 // Alloc calls, including those made by Call*, that failed (region exhausted)
	Breaks        atomic.Int64 // Break calls
}

// newMetrics returns a zeroed Metrics.
func newMetrics() *Metrics {
	return &Metrics{}
}
