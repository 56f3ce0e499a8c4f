package stats

import (
	"sort"
	"sync"
	"time"
)

// ErrorStats aggregates error occurrences by error name.
type ErrorStats struct {
	mu     sync.Mutex
	counts map[string]uint64
	timers map[string]*SafeHistogram
}

func NewErrorStats() *ErrorStats {
	return &ErrorStats{
		counts: make(map[string]uint64),
		timers: make(map[string]*SafeHistogram),
	}
}

func (s *ErrorStats) Count(name string) {
	s.mu.Lock()
	s.counts[name]++
	s.mu.Unlock()
}

// Time records how long the failed operation took before it failed.
func (s *ErrorStats) Time(name string, elapsed time.Duration) {
	s.mu.Lock()
	h, ok := s.timers[name]
	if !ok {
		h = NewSafeHistogram()
		s.timers[name] = h
	}
	s.mu.Unlock()

	h.RecordDuration(elapsed)
}

// Summary is a point-in-time view of one error name.
type Summary struct {
	Name  string
	Count uint64
	Timed int64
	P50Ms float64
	P99Ms float64
	MaxMs float64
}

// Snapshot returns one summary per error name, sorted by name.
func (s *ErrorStats) Snapshot() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make(map[string]struct{}, len(s.counts)+len(s.timers))
	for n := range s.counts {
		names[n] = struct{}{}
	}
	for n := range s.timers {
		names[n] = struct{}{}
	}

	out := make([]Summary, 0, len(names))
	for n := range names {
		sum := Summary{Name: n, Count: s.counts[n]}
		if h, ok := s.timers[n]; ok {
			sum.Timed = h.TotalCount()
			sum.P50Ms = float64(h.ValueAtQuantile(50)) / 1000.0
			sum.P99Ms = float64(h.ValueAtQuantile(99)) / 1000.0
			sum.MaxMs = float64(h.Max()) / 1000.0
		}
		out = append(out, sum)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
