// Package analytics aggregates a hospital's patient population into the
// dashboard summary: readmission rate, cost figures, demographic breakdowns,
// and the monthly cost-savings report.
package analytics

// DashboardSummary is the full aggregation for one hospital.
type DashboardSummary struct {
	TotalPatients    int     `json:"total_patients"`
	ReadmissionCount int     `json:"readmission_count"`
	ReadmissionRate  float64 `json:"readmission_rate"`

	AvgCost float64 `json:"avg_cost"`
	MaxCost float64 `json:"max_cost"`
	MinCost float64 `json:"min_cost"`

	AvgAge          float64 `json:"avg_age"`
	AvgLengthOfStay float64 `json:"avg_length_of_stay"`
	AvgMedications  float64 `json:"avg_medications"`
	ICUStayPercent  float64 `json:"icu_stay_percent"`

	RiskDistribution       []TierCount      `json:"risk_distribution"`
	DiagnosisBreakdown     []DiagnosisCount `json:"diagnosis_breakdown"`
	GenderBreakdown        []CategoryCount  `json:"gender_breakdown"`
	AdmissionTypeBreakdown []CategoryCount  `json:"admission_type_breakdown"`
	AgeBuckets             []BucketCount    `json:"age_buckets"`
	StayBuckets            []BucketCount    `json:"stay_buckets"`

	MonthlyVolumes []MonthlyVolume   `json:"monthly_volumes"`
	CostSavings    CostSavingsReport `json:"cost_savings"`
}

// TierCount is one risk tier's share of the population, ordered High to Low.
type TierCount struct {
	Tier       string  `json:"tier"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DiagnosisCount is one slice of the diagnosis breakdown. Names longer than
// 20 characters are truncated for display.
type DiagnosisCount struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CategoryCount is one slice of a categorical breakdown such as gender or
// admission type.
type CategoryCount struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BucketCount is one bar of a demographic histogram. Percentage is taken over
// the whole population, so bars of records with unknown values do not appear.
type BucketCount struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthlyVolume is one month of admission volume. Volumes are placeholder
// figures until an admissions feed exists.
type MonthlyVolume struct {
	Month        string  `json:"month"`
	Admissions   int     `json:"admissions"`
	Readmissions int     `json:"readmissions"`
	AvgCost      float64 `json:"avg_cost"`
}

// CostSavingsReport breaks savings into twelve calendar months plus totals.
// Target savings are 15 percent of baseline costs.
type CostSavingsReport struct {
	Months             []MonthlySavings `json:"months"`
	TotalActualSavings float64          `json:"total_actual_savings"`
	TotalTargetSavings float64          `json:"total_target_savings"`
	ActualSavingsRate  float64          `json:"actual_savings_rate"`
	TargetAchievement  float64          `json:"target_achievement"`
	PotentialSavings   float64          `json:"potential_savings"`
}

// MonthlySavings is one month of the cost-savings report.
type MonthlySavings struct {
	Month                string  `json:"month"`
	ReadmittedSavings    float64 `json:"readmitted_savings"`
	NonReadmittedSavings float64 `json:"non_readmitted_savings"`
	ActualSavings        float64 `json:"actual_savings"`
	TargetSavings        float64 `json:"target_savings"`
	SavingsRate          float64 `json:"savings_rate"`
}
