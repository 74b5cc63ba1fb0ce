// Package hospital manages the hospital catalog. Every patient record,
// dashboard view, and care task is scoped to exactly one hospital.
package hospital

import (
	"time"

	"github.com/google/uuid"
)

// Hospital is one facility in the catalog. TotalRecords counts the patient
// records stored under this hospital and is maintained by the ingest flow.
type Hospital struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location,omitempty"`
	TotalRecords int       `json:"total_records"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
