package coordination

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type taskRepoPG struct{ pool *pgxpool.Pool }

func NewTaskRepoPG(pool *pgxpool.Pool) TaskRepository {
	return &taskRepoPG{pool: pool}
}

const taskCols = `id, hospital_id, patient_id, patient_name, task_type,
	priority, status, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (*CareTask, error) {
	var t CareTask
	err := row.Scan(&t.ID, &t.HospitalID, &t.PatientID, &t.PatientName,
		&t.Type, &t.Priority, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *taskRepoPG) Create(ctx context.Context, task *CareTask) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO care_tasks (id, hospital_id, patient_id, patient_name,
			task_type, priority, status, due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		task.ID, task.HospitalID, task.PatientID, task.PatientName,
		task.Type, task.Priority, task.Status, task.DueDate)
	return err
}

func (r *taskRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*CareTask, error) {
	return scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskCols+` FROM care_tasks WHERE id = $1`, id))
}

func (r *taskRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*CareTask, int, error) {
	total, err := r.CountByHospital(ctx, hospitalID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+taskCols+` FROM care_tasks
		WHERE hospital_id = $1
		ORDER BY due_date, created_at LIMIT $2 OFFSET $3`,
		hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*CareTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (r *taskRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE care_tasks SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	return err
}

func (r *taskRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM care_tasks WHERE id = $1`, id)
	return err
}

func (r *taskRepoPG) CountByHospital(ctx context.Context, hospitalID uuid.UUID) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM care_tasks WHERE hospital_id = $1`, hospitalID).Scan(&total)
	return total, err
}

type teamRepoPG struct{ pool *pgxpool.Pool }

func NewTeamRepoPG(pool *pgxpool.Pool) TeamRepository {
	return &teamRepoPG{pool: pool}
}

func (r *teamRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*TeamMember, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, hospital_id, name, role FROM care_team
		WHERE hospital_id = $1 ORDER BY name`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*TeamMember
	for rows.Next() {
		var m TeamMember
		if err := rows.Scan(&m.ID, &m.HospitalID, &m.Name, &m.Role); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

func (r *teamRepoPG) Add(ctx context.Context, member *TeamMember) error {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO care_team (id, hospital_id, name, role)
		VALUES ($1,$2,$3,$4)`,
		member.ID, member.HospitalID, member.Name, member.Role)
	return err
}
