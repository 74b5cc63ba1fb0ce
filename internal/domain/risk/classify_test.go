package risk

import (
	"testing"

	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/platform/simulated"
)

func TestTierOfBoundaries(t *testing.T) {
	cases := []struct {
		name string
		rec  patient.Record
		want string
	}{
		{"all at medium-high boundary", patient.Record{Age: 75, LengthOfStay: 10, Medications: 15}, TierMedium},
		{"age just over high cutoff", patient.Record{Age: 76}, TierHigh},
		{"stay just over high cutoff", patient.Record{LengthOfStay: 11}, TierHigh},
		{"medications just over high cutoff", patient.Record{Medications: 16}, TierHigh},
		{"readmitted dominates", patient.Record{Readmitted: true, Age: 30}, TierHigh},
		{"all at low-medium boundary", patient.Record{Age: 60, LengthOfStay: 5, Medications: 8}, TierLow},
		{"age just over medium cutoff", patient.Record{Age: 61}, TierMedium},
		{"stay just over medium cutoff", patient.Record{LengthOfStay: 6}, TierMedium},
		{"medications just over medium cutoff", patient.Record{Medications: 9}, TierMedium},
		{"healthy young patient", patient.Record{Age: 30, LengthOfStay: 2, Medications: 1}, TierLow},
		{"unknown values stay low", patient.Record{Age: patient.Unknown, LengthOfStay: patient.Unknown}, TierLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TierOf(tc.rec); got != tc.want {
				t.Errorf("TierOf(%+v) = %s, want %s", tc.rec, got, tc.want)
			}
		})
	}
}

func TestTierOfNormalizedUploadRow(t *testing.T) {
	// A heavily medicated patient must land High even when the upload spells
	// the medications column the long way.
	rec := patient.Normalize(map[string]interface{}{
		"age":                        float64(40),
		"length_of_stay":             float64(2),
		"num_medications_prescribed": float64(20),
	}, 0)
	if got := TierOf(rec); got != TierHigh {
		t.Errorf("TierOf(%+v) = %s, want %s", rec, got, TierHigh)
	}
}

func TestTierOfIsMonotoneInAge(t *testing.T) {
	rank := map[string]int{TierLow: 0, TierMedium: 1, TierHigh: 2}
	prev := 0
	for age := 0; age <= 100; age++ {
		tier := TierOf(patient.Record{Age: age})
		if rank[tier] < prev {
			t.Fatalf("tier dropped at age %d", age)
		}
		prev = rank[tier]
	}
}

func TestFromScoreThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.0, TierLow},
		{0.39, TierLow},
		{0.4, TierMedium},
		{0.69, TierMedium},
		{0.7, TierHigh},
		{1.0, TierHigh},
	}
	for _, tc := range cases {
		a := FromScore(tc.score)
		if a.Tier != tc.want {
			t.Errorf("FromScore(%v).Tier = %s, want %s", tc.score, a.Tier, tc.want)
		}
		if a.Probability != tc.score {
			t.Errorf("FromScore(%v).Probability = %v", tc.score, a.Probability)
		}
	}
}

func TestClassifyProbabilityMatchesTierRange(t *testing.T) {
	src := simulated.NewSeededSource(11)
	cases := []struct {
		rec    patient.Record
		lo, hi float64
	}{
		{patient.Record{Readmitted: true}, 0.70, 1.00},
		{patient.Record{Age: 65}, 0.40, 0.70},
		{patient.Record{Age: 40}, 0.10, 0.40},
	}
	for _, tc := range cases {
		for i := 0; i < 200; i++ {
			a := Classify(tc.rec, src)
			if a.Probability < tc.lo || a.Probability >= tc.hi {
				t.Fatalf("tier %s probability %v outside [%v, %v)", a.Tier, a.Probability, tc.lo, tc.hi)
			}
			if FromScore(a.Probability).Tier != a.Tier {
				t.Fatalf("probability %v does not round-trip to tier %s", a.Probability, a.Tier)
			}
		}
	}
}
