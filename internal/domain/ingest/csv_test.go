package ingest

import (
	"strings"
	"testing"
)

func TestValidateFile(t *testing.T) {
	if err := ValidateFile("patients.csv", "", 1024, 0); err != nil {
		t.Errorf("csv extension rejected: %v", err)
	}
	if err := ValidateFile("export", "text/csv; charset=utf-8", 1024, 0); err != nil {
		t.Errorf("csv content type rejected: %v", err)
	}
	if err := ValidateFile("patients.xlsx", "application/vnd.ms-excel", 1024, 0); err == nil {
		t.Error("spreadsheet accepted")
	}
	if err := ValidateFile("patients.csv", "", DefaultMaxUploadBytes+1, 0); err == nil {
		t.Error("oversized file accepted")
	}
	if err := ValidateFile("patients.csv", "", 2048, 1024); err == nil {
		t.Error("custom size cap ignored")
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Patient ID":         "patient_id",
		"  Readmitted (30d)": "readmitted_30d",
		"LENGTH_OF_STAY":     "length_of_stay",
		"cost$":              "cost",
		"a  b\tc":            "a_b_c",
	}
	for in, want := range cases {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanCell(t *testing.T) {
	if v := CleanCell("  "); v != nil {
		t.Errorf("blank cell = %v, want nil", v)
	}
	if v := CleanCell("42.5"); v != 42.5 {
		t.Errorf("numeric cell = %v (%T)", v, v)
	}
	if v := CleanCell("Yes"); v != float64(1) {
		t.Errorf("yes cell = %v, want 1", v)
	}
	if v := CleanCell("FALSE"); v != float64(0) {
		t.Errorf("false cell = %v, want 0", v)
	}
	if v := CleanCell("Heart Failure"); v != "Heart Failure" {
		t.Errorf("text cell = %v", v)
	}
}

func TestParseCleansRows(t *testing.T) {
	input := strings.Join([]string{
		"Patient ID,Age,Readmitted (30d),Primary Diagnosis",
		"P-1,72,Yes,Heart Failure",
		"P-2,45,No,",
	}, "\n")

	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Rows) != 2 || result.Skipped != 0 {
		t.Fatalf("rows=%d skipped=%d", len(result.Rows), result.Skipped)
	}

	first := result.Rows[0]
	if first["patient_id"] != "P-1" {
		t.Errorf("patient_id = %v", first["patient_id"])
	}
	if first["age"] != float64(72) {
		t.Errorf("age = %v (%T)", first["age"], first["age"])
	}
	if first["readmitted_30d"] != float64(1) {
		t.Errorf("flag = %v", first["readmitted_30d"])
	}

	// Empty diagnosis cell is absent from the row entirely.
	if _, ok := result.Rows[1]["primary_diagnosis"]; ok {
		t.Error("empty cell stored")
	}
}

func TestParseDropsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"id,age",
		"P-1,50",
		"P-2,60,extra,fields",
		"P-3",
		"P-4,70",
	}, "\n")

	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Rows) != 2 {
		t.Errorf("kept %d rows, want 2", len(result.Rows))
	}
	if result.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", result.Skipped)
	}
}

func TestParseEmptyFile(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Error("empty file accepted")
	}
}
