package analytics

import (
	"math"
	"sort"

	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/domain/risk"
	"github.com/riskboard/riskboard/internal/platform/simulated"
)

var months = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

const (
	targetSavingsShare = 0.15
	maxDiagnosisLabel  = 20
)

type ageBucket struct {
	label    string
	min, max int
}

var ageBuckets = []ageBucket{
	{"18-30", 18, 30},
	{"31-50", 31, 50},
	{"51-65", 51, 65},
	{"66-80", 66, 80},
	{"80+", 81, math.MaxInt32},
}

var stayBuckets = []ageBucket{
	{"1-3", 1, 3},
	{"4-7", 4, 7},
	{"8-14", 8, 14},
	{"15+", 15, math.MaxInt32},
}

// Summarize aggregates a population into the dashboard summary. Records with
// unknown or non-positive numerics count toward the total but are excluded
// from averages and histogram buckets.
func Summarize(records []patient.Record, src *simulated.Source) DashboardSummary {
	s := DashboardSummary{
		TotalPatients:  len(records),
		AgeBuckets:     emptyBuckets(ageBuckets),
		StayBuckets:    emptyBuckets(stayBuckets),
		MonthlyVolumes: monthlyVolumes(src),
	}

	var (
		costSum, ageSum, staySum, medsSum   float64
		costN, ageN, stayN, medsN, icuCount int

		tiers      = map[string]int{}
		diagnoses  = map[string]int{}
		genders    = map[string]int{}
		admissions = map[string]int{}
	)

	for _, rec := range records {
		if rec.Readmitted {
			s.ReadmissionCount++
		}
		if rec.ICUStay {
			icuCount++
		}
		tiers[risk.TierOf(rec)]++
		diagnoses[rec.Diagnosis]++
		genders[rec.Gender]++
		admissions[rec.AdmissionType]++

		if rec.BaselineCost > 0 {
			costSum += rec.BaselineCost
			costN++
			if s.MaxCost == 0 || rec.BaselineCost > s.MaxCost {
				s.MaxCost = rec.BaselineCost
			}
			if s.MinCost == 0 || rec.BaselineCost < s.MinCost {
				s.MinCost = rec.BaselineCost
			}
		}
		if rec.Age > 0 {
			ageSum += float64(rec.Age)
			ageN++
			fillBucket(s.AgeBuckets, ageBuckets, rec.Age)
		}
		if rec.LengthOfStay > 0 {
			staySum += float64(rec.LengthOfStay)
			stayN++
			fillBucket(s.StayBuckets, stayBuckets, rec.LengthOfStay)
		}
		if rec.Medications > 0 {
			medsSum += float64(rec.Medications)
			medsN++
		}
	}

	if len(records) > 0 {
		s.ReadmissionRate = round1(float64(s.ReadmissionCount) / float64(len(records)) * 100)
		s.ICUStayPercent = round1(float64(icuCount) / float64(len(records)) * 100)
	}
	s.AvgCost = positiveMean(costSum, costN)
	s.AvgAge = positiveMean(ageSum, ageN)
	s.AvgLengthOfStay = positiveMean(staySum, stayN)
	s.AvgMedications = positiveMean(medsSum, medsN)
	s.RiskDistribution = tierDistribution(tiers, len(records))
	s.DiagnosisBreakdown = diagnosisBreakdown(diagnoses, len(records))
	s.GenderBreakdown = categoryBreakdown(genders, len(records))
	s.AdmissionTypeBreakdown = categoryBreakdown(admissions, len(records))
	applyBucketShares(s.AgeBuckets, len(records))
	applyBucketShares(s.StayBuckets, len(records))
	s.CostSavings = costSavings(records)

	return s
}

// costSavings assigns records to calendar months round robin, keeping
// readmitted and non-readmitted populations in separate sequences so each
// contributes evenly across the year.
func costSavings(records []patient.Record) CostSavingsReport {
	report := CostSavingsReport{Months: make([]MonthlySavings, len(months))}
	for i := range report.Months {
		report.Months[i].Month = months[i]
	}

	baselines := make([]float64, len(months))
	var readmitSeq, otherSeq int
	var totalBaseline float64

	for _, rec := range records {
		var m int
		if rec.Readmitted {
			m = readmitSeq % len(months)
			readmitSeq++
			report.Months[m].ReadmittedSavings += math.Abs(rec.CostSavings)
		} else {
			m = otherSeq % len(months)
			otherSeq++
			report.Months[m].NonReadmittedSavings += math.Abs(rec.CostSavings)
		}
		baselines[m] += rec.BaselineCost
		totalBaseline += rec.BaselineCost
	}

	for i := range report.Months {
		mo := &report.Months[i]
		mo.ActualSavings = mo.ReadmittedSavings + mo.NonReadmittedSavings
		mo.TargetSavings = baselines[i] * targetSavingsShare
		if baselines[i] > 0 {
			mo.SavingsRate = round1(mo.ActualSavings / baselines[i] * 100)
		}
		report.TotalActualSavings += mo.ActualSavings
	}

	report.TotalTargetSavings = totalBaseline * targetSavingsShare
	if totalBaseline > 0 {
		report.ActualSavingsRate = round1(report.TotalActualSavings / totalBaseline * 100)
	}
	if report.TotalTargetSavings > 0 {
		report.TargetAchievement = round1(report.TotalActualSavings / report.TotalTargetSavings * 100)
	}
	report.PotentialSavings = report.TotalTargetSavings - report.TotalActualSavings

	return report
}

// tierDistribution reports every tier even when its count is zero, High
// first, so dashboard charts keep a stable shape.
func tierDistribution(counts map[string]int, total int) []TierCount {
	dist := make([]TierCount, 0, 3)
	for _, tier := range []string{risk.TierHigh, risk.TierMedium, risk.TierLow} {
		dist = append(dist, TierCount{
			Tier:       tier,
			Count:      counts[tier],
			Percentage: share(counts[tier], total),
		})
	}
	return dist
}

func diagnosisBreakdown(counts map[string]int, total int) []DiagnosisCount {
	items := make([]DiagnosisCount, 0, len(counts))
	for name, count := range counts {
		if len(name) > maxDiagnosisLabel {
			name = name[:maxDiagnosisLabel] + "..."
		}
		items = append(items, DiagnosisCount{Name: name, Count: count, Percentage: share(count, total)})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
	return items
}

func categoryBreakdown(counts map[string]int, total int) []CategoryCount {
	items := make([]CategoryCount, 0, len(counts))
	for label, count := range counts {
		items = append(items, CategoryCount{Label: label, Count: count, Percentage: share(count, total)})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Label < items[j].Label
	})
	return items
}

func applyBucketShares(buckets []BucketCount, total int) {
	for i := range buckets {
		buckets[i].Percentage = share(buckets[i].Count, total)
	}
}

// share is count over total as a percentage rounded to one decimal.
func share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(count) / float64(total) * 100)
}

func monthlyVolumes(src *simulated.Source) []MonthlyVolume {
	vols := make([]MonthlyVolume, len(months))
	for i, m := range months {
		vols[i] = MonthlyVolume{
			Month:        m,
			Admissions:   src.MonthlyAdmissions(),
			Readmissions: src.MonthlyReadmissions(),
			AvgCost:      float64(src.MonthlyAvgCost()),
		}
	}
	return vols
}

func emptyBuckets(defs []ageBucket) []BucketCount {
	buckets := make([]BucketCount, len(defs))
	for i, d := range defs {
		buckets[i] = BucketCount{Label: d.label}
	}
	return buckets
}

func fillBucket(buckets []BucketCount, defs []ageBucket, value int) {
	for i, d := range defs {
		if value >= d.min && value <= d.max {
			buckets[i].Count++
			return
		}
	}
}

func positiveMean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return round1(sum / float64(n))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
