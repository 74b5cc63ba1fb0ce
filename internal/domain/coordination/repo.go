package coordination

import (
	"context"

	"github.com/google/uuid"
)

// TaskRepository persists the care-task worklist.
type TaskRepository interface {
	Create(ctx context.Context, task *CareTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*CareTask, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*CareTask, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByHospital(ctx context.Context, hospitalID uuid.UUID) (int, error)
}

// TeamRepository persists the care-team roster.
type TeamRepository interface {
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*TeamMember, error)
	Add(ctx context.Context, member *TeamMember) error
}
