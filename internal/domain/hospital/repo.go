package hospital

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists the hospital catalog.
type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
	IncrementTotalRecords(ctx context.Context, id uuid.UUID, delta int) error
}
