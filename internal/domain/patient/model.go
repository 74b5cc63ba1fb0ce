// Package patient stores uploaded patient rows and normalizes their loosely
// typed payloads into canonical records. Uploaded CSVs disagree on column
// names and cell types, so every consumer goes through Normalize instead of
// reading the raw payload.
package patient

import (
	"time"

	"github.com/google/uuid"
)

// Unknown marks a numeric field that was absent or unparsable in the source
// row. Consumers must exclude it from averages and threshold checks.
const Unknown = -1

// Row is one stored patient document: the raw payload as uploaded, scoped to
// a hospital.
type Row struct {
	ID         string                 `json:"id"`
	HospitalID uuid.UUID              `json:"hospital_id"`
	Data       map[string]interface{} `json:"data"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Record is the canonical view of a patient row after synonym resolution and
// type coercion.
type Record struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Age               int     `json:"age"`
	Gender            string  `json:"gender"`
	LengthOfStay      int     `json:"length_of_stay"`
	Medications       int     `json:"medications"`
	ProceduresCount   int     `json:"procedures_count"`
	Diagnosis         string  `json:"diagnosis"`
	AdmissionType     string  `json:"admission_type"`
	DischargeLocation string  `json:"discharge_location"`
	Readmitted        bool    `json:"readmitted"`
	BaselineCost      float64 `json:"baseline_cost"`
	CostSavings       float64 `json:"cost_savings"`
	ICUStay           bool    `json:"icu_stay"`
}
