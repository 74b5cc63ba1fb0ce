package simulated

import "testing"

func TestProbabilityBetweenStaysInRange(t *testing.T) {
	s := NewSeededSource(1)
	for i := 0; i < 1000; i++ {
		p := s.ProbabilityBetween(0.4, 0.7)
		if p < 0.4 || p >= 0.7 {
			t.Fatalf("probability %v outside [0.4, 0.7)", p)
		}
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a := NewSeededSource(42)
	b := NewSeededSource(42)
	for i := 0; i < 100; i++ {
		if a.ProbabilityBetween(0, 1) != b.ProbabilityBetween(0, 1) {
			t.Fatal("same seed produced different sequences")
		}
	}
}

func TestTaskStatusFromCatalog(t *testing.T) {
	valid := map[string]bool{
		"Pending": true, "In Progress": true, "Scheduled": true, "Completed": true,
	}
	s := NewSeededSource(7)
	for i := 0; i < 50; i++ {
		if st := s.TaskStatus(); !valid[st] {
			t.Fatalf("unexpected status %q", st)
		}
	}
}

func TestMonthlyVolumesInRange(t *testing.T) {
	s := NewSeededSource(3)
	for i := 0; i < 100; i++ {
		if v := s.MonthlyAdmissions(); v < 100 || v > 299 {
			t.Fatalf("admissions %d outside [100, 299]", v)
		}
		if v := s.MonthlyReadmissions(); v < 10 || v > 39 {
			t.Fatalf("readmissions %d outside [10, 39]", v)
		}
		if v := s.MonthlyAvgCost(); v < 10000 || v > 14999 {
			t.Fatalf("avg cost %d outside [10000, 14999]", v)
		}
	}
}
