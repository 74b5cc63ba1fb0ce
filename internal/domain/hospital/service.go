package hospital

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	hospitals Repository
}

func NewService(hospitals Repository) *Service {
	return &Service{hospitals: hospitals}
}

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return fmt.Errorf("name is required")
	}
	h.TotalRecords = 0
	return s.hospitals.Create(ctx, h)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

func (s *Service) ListHospitals(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.List(ctx, limit, offset)
}

// RecordUploaded bumps the stored record counter after an ingest run commits.
func (s *Service) RecordUploaded(ctx context.Context, id uuid.UUID, count int) error {
	if count <= 0 {
		return nil
	}
	return s.hospitals.IncrementTotalRecords(ctx, id, count)
}
