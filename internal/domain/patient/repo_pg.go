package patient

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const cols = `id, hospital_id, payload, created_at`

func scanRow(row pgx.Row) (*Row, error) {
	var (
		r       Row
		payload []byte
	)
	if err := row.Scan(&r.ID, &r.HospitalID, &payload, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &r.Data); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Row, int, error) {
	total, err := r.Count(ctx, hospitalID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+cols+` FROM patient_records
		WHERE hospital_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
		hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collect(rows)
	return items, total, err
}

func (r *repoPG) ListAllByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Row, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cols+` FROM patient_records
		WHERE hospital_id = $1 ORDER BY created_at, id`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Row, error) {
	var items []*Row
	for rows.Next() {
		item, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

const upsertSQL = `
	INSERT INTO patient_records (id, hospital_id, payload)
	VALUES ($1, $2, $3)
	ON CONFLICT (id, hospital_id)
	DO UPDATE SET payload = EXCLUDED.payload`

func (r *repoPG) InsertBatch(ctx context.Context, hospitalID uuid.UUID, items []*Row) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, item := range items {
		payload, err := json.Marshal(item.Data)
		if err != nil {
			return err
		}
		batch.Queue(upsertSQL, item.ID, hospitalID, payload)
	}

	br := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *repoPG) Upsert(ctx context.Context, row *Row) error {
	payload, err := json.Marshal(row.Data)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, upsertSQL, row.ID, row.HospitalID, payload)
	return err
}

func (r *repoPG) Count(ctx context.Context, hospitalID uuid.UUID) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_records WHERE hospital_id = $1`, hospitalID).Scan(&total)
	return total, err
}
