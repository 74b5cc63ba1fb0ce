// Package coordination manages the care-team worklist: follow-up tasks
// derived from patient records and the roster of staff who work them.
package coordination

import (
	"time"

	"github.com/google/uuid"
)

// Task types, assigned round robin when tasks are derived from records.
var taskTypes = []string{"appointment", "medication", "assessment", "education", "follow-up"}

// Task priorities. The derivation cascade uses readmission, age, and length
// of stay only; medication count does not factor into task urgency.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// CareTask is one worklist item for a hospital's care team.
type CareTask struct {
	ID          uuid.UUID `json:"id"`
	HospitalID  uuid.UUID `json:"hospital_id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Type        string    `json:"type"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TeamMember is one care-team roster entry.
type TeamMember struct {
	ID         uuid.UUID `json:"id"`
	HospitalID uuid.UUID `json:"hospital_id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
}

// defaultRoster is served when a hospital has no roster of its own.
var defaultRoster = []TeamMember{
	{Name: "Dr. Sarah Chen", Role: "Attending Physician"},
	{Name: "Michael Torres", Role: "Care Coordinator"},
	{Name: "Priya Natarajan", Role: "Clinical Pharmacist"},
	{Name: "James Okafor", Role: "Discharge Planner"},
	{Name: "Emily Zhang", Role: "Social Worker"},
}

var validStatuses = map[string]bool{
	"Pending": true, "In Progress": true, "Scheduled": true, "Completed": true,
}
