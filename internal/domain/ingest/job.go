package ingest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riskboard/riskboard/internal/domain/patient"
)

// DefaultChunkSize is how many rows commit per transaction.
const DefaultChunkSize = 400

// chunkPause is the breather between chunk commits so a large upload does
// not monopolize the pool.
const chunkPause = 100 * time.Millisecond

// ProgressFunc receives the running percentage after each committed chunk.
type ProgressFunc func(uploaded, total int, percent float64)

// Job commits parsed rows to storage in sequential atomic chunks.
type Job struct {
	Repo       patient.Repository
	ChunkSize  int
	Pause      time.Duration
	OnProgress ProgressFunc
}

// Result reports how far an upload got. On failure Uploaded holds the count
// that committed before the failing chunk.
type Result struct {
	Total    int `json:"total"`
	Uploaded int `json:"uploaded"`
}

// rowKey picks the storage key for one row: its patient id if present,
// otherwise a generated key unique to this upload.
func rowKey(row map[string]interface{}, pos int, uploadedAt time.Time) string {
	for _, k := range []string{"patient_id", "id"} {
		if v, ok := row[k]; ok && v != nil {
			if s := strings.TrimSpace(fmt.Sprintf("%v", v)); s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("csv_%d_%s_%d",
		uploadedAt.UnixMilli(), uuid.New().String()[:8], pos)
}

// Run uploads all rows for one hospital. Chunks commit in order; a chunk
// failure aborts the run and the result reports what already committed.
func (j *Job) Run(ctx context.Context, hospitalID uuid.UUID, rows []map[string]interface{}) (*Result, error) {
	chunkSize := j.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	result := &Result{Total: len(rows)}
	uploadedAt := time.Now()

	for start := 0; start < len(rows); start += chunkSize {
		if start > 0 && j.Pause > 0 {
			select {
			case <-time.After(j.Pause):
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}

		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		chunk := make([]*patient.Row, 0, end-start)
		for pos := start; pos < end; pos++ {
			chunk = append(chunk, &patient.Row{
				ID:         rowKey(rows[pos], pos, uploadedAt),
				HospitalID: hospitalID,
				Data:       rows[pos],
			})
		}

		if err := j.Repo.InsertBatch(ctx, hospitalID, chunk); err != nil {
			return result, fmt.Errorf("chunk starting at row %d failed after %d rows committed: %w",
				start, result.Uploaded, err)
		}

		result.Uploaded = end
		if j.OnProgress != nil {
			j.OnProgress(result.Uploaded, result.Total, percent(result.Uploaded, result.Total))
		}
	}
	return result, nil
}

func percent(uploaded, total int) float64 {
	if total == 0 {
		return 100
	}
	return math.Round(float64(uploaded)/float64(total)*1000) / 10
}
