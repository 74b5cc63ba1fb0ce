package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists raw patient rows per hospital.
type Repository interface {
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Row, int, error)
	// ListAllByHospital returns every row for a hospital, oldest first. The
	// aggregation pipeline needs the full population.
	ListAllByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Row, error)
	// InsertBatch upserts one chunk of rows atomically. Either every row in
	// the chunk commits or none does.
	InsertBatch(ctx context.Context, hospitalID uuid.UUID, rows []*Row) error
	Upsert(ctx context.Context, row *Row) error
	Count(ctx context.Context, hospitalID uuid.UUID) (int, error)
}
