// Package simulated is the single home for placeholder values the dashboard
// displays when no real measurement exists: synthesized probability figures,
// task statuses, and monthly admission volumes. Callers never touch math/rand
// directly, so a fixed seed makes every "random" output reproducible in tests
// and a future real data source can replace this package without touching the
// aggregation logic.
package simulated

import (
	"math/rand"
	"sync"
	"time"
)

var taskStatuses = []string{"Pending", "In Progress", "Scheduled", "Completed"}

// Source produces display-only placeholder values.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a time-seeded source for production use.
func NewSource() *Source {
	return NewSeededSource(time.Now().UnixNano())
}

// NewSeededSource returns a deterministic source for tests.
func NewSeededSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// ProbabilityBetween samples uniformly from [lo, hi). Used for per-tier
// display probabilities when no model score is attached.
func (s *Source) ProbabilityBetween(lo, hi float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Float64()*(hi-lo)
}

// TaskStatus picks a placeholder care-task status.
func (s *Source) TaskStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return taskStatuses[s.rng.Intn(len(taskStatuses))]
}

// MonthlyAdmissions returns a placeholder admission volume for one month.
func (s *Source) MonthlyAdmissions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 100 + s.rng.Intn(200)
}

// MonthlyReadmissions returns a placeholder readmission volume for one month.
func (s *Source) MonthlyReadmissions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 10 + s.rng.Intn(30)
}

// MonthlyAvgCost returns a placeholder average cost for one month.
func (s *Source) MonthlyAvgCost() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 10000 + s.rng.Intn(5000)
}
