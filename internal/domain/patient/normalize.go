package patient

import (
	"fmt"
	"strconv"
	"strings"
)

// Field synonyms, in priority order. Uploads name the same column many ways;
// the first key present in the row wins.
var (
	idKeys         = []string{"patient_id", "id"}
	nameKeys       = []string{"patient_name", "name"}
	ageKeys        = []string{"age"}
	genderKeys     = []string{"gender", "sex"}
	stayKeys       = []string{"length_of_stay", "los", "days_in_hospital"}
	medicationKeys = []string{"num_medications_prescribed", "num_medications", "medications", "medication_count"}
	procedureKeys  = []string{"num_procedures", "procedures_count", "procedures"}
	diagnosisKeys  = []string{"primary_diagnosis", "diagnosis", "condition"}
	admissionKeys  = []string{"admission_type", "admission"}
	dischargeKeys  = []string{"discharge_location", "discharge_disposition"}
	readmitKeys    = []string{"readmitted_30_days", "readmitted", "readmission"}
	costKeys       = []string{"baseline_cost", "cost", "treatment_cost", "total_cost", "readmission_cost"}
	savingsKeys    = []string{"cost_savings", "actual_cost_savings"}
	icuKeys        = []string{"icu_stay_flag", "icu_stay"}
)

// Normalize maps a raw row onto the canonical record. index is the row's
// position in its source batch and seeds fallback identifiers; Normalize
// never fails, missing numerics become Unknown and missing flags false.
func Normalize(raw map[string]interface{}, index int) Record {
	rec := Record{
		ID:                firstString(raw, idKeys),
		Name:              firstString(raw, nameKeys),
		Age:               firstInt(raw, ageKeys, Unknown),
		Gender:            firstString(raw, genderKeys),
		LengthOfStay:      firstInt(raw, stayKeys, Unknown),
		Medications:       firstInt(raw, medicationKeys, 0),
		ProceduresCount:   firstInt(raw, procedureKeys, 0),
		Diagnosis:         firstString(raw, diagnosisKeys),
		AdmissionType:     firstString(raw, admissionKeys),
		DischargeLocation: firstString(raw, dischargeKeys),
		Readmitted:        firstBool(raw, readmitKeys),
		BaselineCost:      firstFloat(raw, costKeys, 0),
		CostSavings:       firstFloat(raw, savingsKeys, 0),
		ICUStay:           firstBool(raw, icuKeys),
	}

	if rec.ID == "" {
		rec.ID = fmt.Sprintf("patient_%d", index+1)
	}
	if rec.Name == "" {
		rec.Name = fmt.Sprintf("Patient %d", index+1)
	}
	if rec.Gender == "" {
		rec.Gender = "Unknown"
	}
	if rec.Diagnosis == "" {
		rec.Diagnosis = "Unknown"
	}
	if rec.AdmissionType == "" {
		rec.AdmissionType = "Unknown"
	}
	if rec.DischargeLocation == "" {
		rec.DischargeLocation = "Unknown"
	}
	return rec
}

func firstString(raw map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			if s := strings.TrimSpace(toString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstInt(raw map[string]interface{}, keys []string, fallback int) int {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			if n, ok := toInt(v); ok {
				return n
			}
		}
	}
	return fallback
}

func firstFloat(raw map[string]interface{}, keys []string, fallback float64) float64 {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			if f, ok := toFloat(v); ok {
				return f
			}
		}
	}
	return fallback
}

func firstBool(raw map[string]interface{}, keys []string) bool {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return truthy(v)
		}
	}
	return false
}

// truthy recognizes the flag encodings seen in uploads: booleans, the number
// one, and yes/true strings in any casing.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes":
			return true
		}
		return false
	default:
		f, ok := toFloat(v)
		return ok && f == 1
	}
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func toInt(v interface{}) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}
