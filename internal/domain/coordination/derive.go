package coordination

import (
	"time"

	"github.com/google/uuid"

	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/platform/simulated"
)

// taskPriority is a two-factor cascade over readmission, age, and stay.
// Medication count deliberately does not raise task urgency, unlike the risk
// tiers.
func taskPriority(rec patient.Record) string {
	if rec.Readmitted || rec.Age > 75 || rec.LengthOfStay > 10 {
		return PriorityHigh
	}
	if rec.Age > 60 || rec.LengthOfStay > 5 {
		return PriorityMedium
	}
	return PriorityLow
}

// dueIn maps a priority to its follow-up window.
func dueIn(priority string) time.Duration {
	switch priority {
	case PriorityHigh:
		return 24 * time.Hour
	case PriorityMedium:
		return 3 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// DeriveTask builds a worklist item from a patient record. seq is the
// record's position in the derivation run and drives the round-robin task
// type; the status is a placeholder until staff update the task.
func DeriveTask(rec patient.Record, seq int, now time.Time, src *simulated.Source) CareTask {
	priority := taskPriority(rec)
	return CareTask{
		ID:          uuid.New(),
		PatientID:   rec.ID,
		PatientName: rec.Name,
		Type:        taskTypes[seq%len(taskTypes)],
		Priority:    priority,
		Status:      src.TaskStatus(),
		DueDate:     now.Add(dueIn(priority)),
	}
}
