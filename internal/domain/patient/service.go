package patient

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes stored rows as normalized records. Risk scoring and
// aggregation layer on top of it.
type Service struct {
	rows Repository
}

func NewService(rows Repository) *Service {
	return &Service{rows: rows}
}

// ListRecords returns one page of normalized records for a hospital.
func (s *Service) ListRecords(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]Record, int, error) {
	rows, total, err := s.rows.ListByHospital(ctx, hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		rec := Normalize(row.Data, offset+i)
		if row.ID != "" {
			rec.ID = row.ID
		}
		records[i] = rec
	}
	return records, total, nil
}

// AllRecords returns every normalized record for a hospital, in storage
// order.
func (s *Service) AllRecords(ctx context.Context, hospitalID uuid.UUID) ([]Record, error) {
	rows, err := s.rows.ListAllByHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		rec := Normalize(row.Data, i)
		if row.ID != "" {
			rec.ID = row.ID
		}
		records[i] = rec
	}
	return records, nil
}

func (s *Service) Count(ctx context.Context, hospitalID uuid.UUID) (int, error) {
	return s.rows.Count(ctx, hospitalID)
}
