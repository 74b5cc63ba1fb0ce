package coordination

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/platform/simulated"
	"github.com/riskboard/riskboard/internal/platform/ws"
)

// worklistSeedSize caps how many records seed an empty worklist.
const worklistSeedSize = 8

type Service struct {
	tasks    TaskRepository
	team     TeamRepository
	patients *patient.Service
	src      *simulated.Source
	events   ws.Publisher
	now      func() time.Time
}

func NewService(tasks TaskRepository, team TeamRepository, patients *patient.Service, src *simulated.Source, events ws.Publisher) *Service {
	return &Service{
		tasks:    tasks,
		team:     team,
		patients: patients,
		src:      src,
		events:   events,
		now:      time.Now,
	}
}

// Worklist returns the hospital's task list. An empty store is seeded from
// the first records on file so a freshly loaded hospital has something to
// work immediately.
func (s *Service) Worklist(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*CareTask, int, error) {
	total, err := s.tasks.CountByHospital(ctx, hospitalID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		if err := s.seedWorklist(ctx, hospitalID); err != nil {
			return nil, 0, err
		}
	}
	return s.tasks.ListByHospital(ctx, hospitalID, limit, offset)
}

func (s *Service) seedWorklist(ctx context.Context, hospitalID uuid.UUID) error {
	records, _, err := s.patients.ListRecords(ctx, hospitalID, worklistSeedSize, 0)
	if err != nil {
		return err
	}

	now := s.now()
	for i, rec := range records {
		task := DeriveTask(rec, i, now, s.src)
		task.HospitalID = hospitalID
		if err := s.tasks.Create(ctx, &task); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) CreateTask(ctx context.Context, task *CareTask) error {
	if task.HospitalID == uuid.Nil {
		return fmt.Errorf("hospital_id is required")
	}
	if task.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if task.Status == "" {
		task.Status = "Pending"
	}
	if !validStatuses[task.Status] {
		return fmt.Errorf("invalid status: %s", task.Status)
	}
	if task.Priority == "" {
		task.Priority = PriorityLow
	}
	if task.DueDate.IsZero() {
		task.DueDate = s.now().Add(dueIn(task.Priority))
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return err
	}
	s.publishChange(ctx, task.HospitalID)
	return nil
}

func (s *Service) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status string) (*CareTask, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	task.Status = status
	s.publishChange(ctx, task.HospitalID)
	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.publishChange(ctx, task.HospitalID)
	return nil
}

// Roster returns the hospital's care team, falling back to the default
// roster when none is configured.
func (s *Service) Roster(ctx context.Context, hospitalID uuid.UUID) ([]*TeamMember, error) {
	members, err := s.team.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	if len(members) > 0 {
		return members, nil
	}

	fallback := make([]*TeamMember, len(defaultRoster))
	for i := range defaultRoster {
		m := defaultRoster[i]
		m.HospitalID = hospitalID
		fallback[i] = &m
	}
	return fallback, nil
}

func (s *Service) AddTeamMember(ctx context.Context, member *TeamMember) error {
	if member.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.team.Add(ctx, member)
}

func (s *Service) publishChange(ctx context.Context, hospitalID uuid.UUID) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, ws.Event{
		Type:       ws.EventTaskChanged,
		HospitalID: hospitalID.String(),
	})
}
