package risk

import (
	"context"

	"github.com/google/uuid"

	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/platform/simulated"
)

// AssessedPatient is one normalized record with its derived assessment.
type AssessedPatient struct {
	patient.Record
	Risk Assessment `json:"risk"`
}

type Service struct {
	patients *patient.Service
	src      *simulated.Source
}

func NewService(patients *patient.Service, src *simulated.Source) *Service {
	return &Service{patients: patients, src: src}
}

// ListAssessed returns one page of patients with derived risk attached.
func (s *Service) ListAssessed(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]AssessedPatient, int, error) {
	records, total, err := s.patients.ListRecords(ctx, hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	items := make([]AssessedPatient, len(records))
	for i, rec := range records {
		items[i] = AssessedPatient{Record: rec, Risk: Classify(rec, s.src)}
	}
	return items, total, nil
}

// Distribution counts the population of each tier for a hospital.
func (s *Service) Distribution(ctx context.Context, hospitalID uuid.UUID) (map[string]int, error) {
	records, err := s.patients.AllRecords(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	dist := map[string]int{TierHigh: 0, TierMedium: 0, TierLow: 0}
	for _, rec := range records {
		dist[TierOf(rec)]++
	}
	return dist, nil
}
