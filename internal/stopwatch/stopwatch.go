// Package stopwatch provides coarse, named-bucket timing for the CLI
// driver. It is never touched from inside the enumerator hot loop —
// synchronization or bookkeeping overhead there has no place in that
// loop — only around driver-level phases such as "split" or a worker's
// total run time.
package stopwatch

import (
	"fmt"
	"sort"
	"time"
)

// Stopwatch accumulates elapsed time per named bucket. Create one with
// New; the zero value has nil maps and Start panics on it.
type Stopwatch struct {
	buckets      map[string]int64
	bucketStarts map[string]int64
}

// New returns a ready-to-use Stopwatch.
func New() *Stopwatch {
	return &Stopwatch{
		buckets:      make(map[string]int64),
		bucketStarts: make(map[string]int64),
	}
}

// Start begins timing bucket b, creating it at zero if this is the first
// use. Starting an already-running bucket resets its start time.
func (s *Stopwatch) Start(b string) {
	s.bucketStarts[b] = time.Now().UnixNano()
	if _, ok := s.buckets[b]; !ok {
		s.buckets[b] = 0
	}
}

// Stop adds the elapsed time since the matching Start into bucket b. It
// is a no-op if b was never started.
func (s *Stopwatch) Stop(b string) {
	end := time.Now().UnixNano()
	start, ok := s.bucketStarts[b]
	if !ok {
		return
	}
	s.buckets[b] += end - start
	delete(s.bucketStarts, b)
}

// Seconds returns the accumulated time for bucket b, in seconds.
func (s *Stopwatch) Seconds(b string) float64 {
	return float64(s.buckets[b]) / 1e9
}

// Results renders every bucket's accumulated time, one per line, sorted
// by name so output is stable across runs.
func (s *Stopwatch) Results() string {
	names := make([]string, 0, len(s.buckets))
	for k := range s.buckets {
		names = append(names, k)
	}
	sort.Strings(names)

	out := ""
	for _, k := range names {
		out += fmt.Sprintf("%s: %.4f\n", k, float64(s.buckets[k])/1e9)
	}
	return out
}
