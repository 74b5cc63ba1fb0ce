// Package risk assigns readmission-risk tiers to patient records. A tier
// comes either from clinical factors on the record or from a model score;
// both paths land in the same three tiers so downstream views never mix
// scales.
package risk

import (
	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/platform/simulated"
)

// Tiers, highest first.
const (
	TierHigh   = "High"
	TierMedium = "Medium"
	TierLow    = "Low"
)

// Score thresholds for model outputs. A score of exactly 0.7 is High and
// exactly 0.4 is Medium.
const (
	HighScoreThreshold   = 0.7
	MediumScoreThreshold = 0.4
)

// Display probability ranges per tier, half open. A synthesized probability
// for a High patient falls in [0.70, 1.00).
var tierRanges = map[string][2]float64{
	TierHigh:   {0.70, 1.00},
	TierMedium: {0.40, 0.70},
	TierLow:    {0.10, 0.40},
}

// Assessment is a tier plus a display probability for one record.
type Assessment struct {
	Tier        string  `json:"tier"`
	Probability float64 `json:"probability"`
}

// TierOf applies the clinical factor cascade. All comparisons are strict,
// so a 75 year old with a 10 day stay and 15 medications is Medium, not
// High. Unknown values never promote a record.
func TierOf(rec patient.Record) string {
	if rec.Readmitted || rec.Age > 75 || rec.LengthOfStay > 10 || rec.Medications > 15 {
		return TierHigh
	}
	if rec.Age > 60 || rec.LengthOfStay > 5 || rec.Medications > 8 {
		return TierMedium
	}
	return TierLow
}

// Classify derives a full assessment from clinical factors, synthesizing a
// display probability inside the tier's range.
func Classify(rec patient.Record, src *simulated.Source) Assessment {
	tier := TierOf(rec)
	r := tierRanges[tier]
	return Assessment{
		Tier:        tier,
		Probability: src.ProbabilityBetween(r[0], r[1]),
	}
}

// FromScore maps a model score in [0, 1] onto an assessment. The score
// itself is the probability.
func FromScore(score float64) Assessment {
	tier := TierLow
	switch {
	case score >= HighScoreThreshold:
		tier = TierHigh
	case score >= MediumScoreThreshold:
		tier = TierMedium
	}
	return Assessment{Tier: tier, Probability: score}
}
