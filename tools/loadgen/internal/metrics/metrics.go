// Package metrics collects request latencies during a load run and
// aggregates them into percentile summaries.
package metrics

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Recorder accumulates per-operation latency samples. Safe for
// concurrent use by all worker goroutines.
type Recorder struct {
	mu      sync.Mutex
	samples map[string][]time.Duration
	errors  map[string]int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		samples: make(map[string][]time.Duration),
		errors:  make(map[string]int),
	}
}

// Record adds one latency sample for the named operation.
func (r *Recorder) Record(op string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples[op] = append(r.samples[op], d)
}

// RecordError counts one failed request for the named operation.
func (r *Recorder) RecordError(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[op]++
}

// Summary holds the aggregated result for one operation.
type Summary struct {
	Operation string
	Count     int
	Errors    int
	Min       time.Duration
	P50       time.Duration
	P95       time.Duration
	P99       time.Duration
	Max       time.Duration
}

// Summaries aggregates all recorded samples, sorted by operation name.
func (r *Recorder) Summaries() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]string, 0, len(r.samples))
	for op := range r.samples {
		ops = append(ops, op)
	}
	for op := range r.errors {
		if _, ok := r.samples[op]; !ok {
			ops = append(ops, op)
		}
	}
	sort.Strings(ops)

	out := make([]Summary, 0, len(ops))
	for _, op := range ops {
		s := Summary{Operation: op, Errors: r.errors[op]}
		durations := append([]time.Duration(nil), r.samples[op]...)
		s.Count = len(durations)
		if s.Count > 0 {
			sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
			s.Min = durations[0]
			s.Max = durations[len(durations)-1]
			s.P50 = percentile(durations, 0.50)
			s.P95 = percentile(durations, 0.95)
			s.P99 = percentile(durations, 0.99)
		}
		out = append(out, s)
	}
	return out
}

// percentile expects a sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

// String formats the summary as a single report line.
func (s Summary) String() string {
	return fmt.Sprintf("%-16s count=%-6d errors=%-4d min=%-10s p50=%-10s p95=%-10s p99=%-10s max=%s",
		s.Operation, s.Count, s.Errors, s.Min, s.P50, s.P95, s.P99, s.Max)
}
