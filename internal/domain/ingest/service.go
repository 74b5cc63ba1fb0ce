package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/platform/ws"
)

// RecordCounter bumps a hospital's stored-record counter after a commit.
type RecordCounter interface {
	RecordUploaded(ctx context.Context, hospitalID uuid.UUID, count int) error
}

// SummaryInvalidator drops cached aggregations after the population changes.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context, hospitalID uuid.UUID)
}

type Service struct {
	rows      patient.Repository
	counter   RecordCounter
	summaries SummaryInvalidator
	events    ws.Publisher
	maxBytes  int64
	chunkSize int
}

func NewService(rows patient.Repository, counter RecordCounter, summaries SummaryInvalidator, events ws.Publisher, maxBytes int64, chunkSize int) *Service {
	return &Service{
		rows:      rows,
		counter:   counter,
		summaries: summaries,
		events:    events,
		maxBytes:  maxBytes,
		chunkSize: chunkSize,
	}
}

// UploadReport is the API response for one upload.
type UploadReport struct {
	Total    int `json:"total"`
	Uploaded int `json:"uploaded"`
	Skipped  int `json:"skipped"`
}

// Upload validates, parses, and commits one CSV stream for a hospital. A
// mid-run failure still reports the rows that committed, and the stored
// counter reflects only those.
func (s *Service) Upload(ctx context.Context, hospitalID uuid.UUID, filename, contentType string, size int64, r io.Reader) (*UploadReport, error) {
	if err := ValidateFile(filename, contentType, size, s.maxBytes); err != nil {
		return nil, err
	}

	parsed, err := Parse(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if len(parsed.Rows) == 0 {
		return nil, fmt.Errorf("no usable rows in %q (%d malformed)", filename, parsed.Skipped)
	}
	if parsed.Skipped > 0 {
		log.Warn().Int("skipped", parsed.Skipped).Str("file", filename).
			Msg("dropped malformed csv rows")
	}

	job := &Job{Repo: s.rows, ChunkSize: s.chunkSize, Pause: chunkPause}
	result, runErr := job.Run(ctx, hospitalID, parsed.Rows)

	report := &UploadReport{
		Total:    result.Total,
		Uploaded: result.Uploaded,
		Skipped:  parsed.Skipped,
	}
	s.afterCommit(ctx, hospitalID, result.Uploaded)

	if runErr != nil {
		return report, runErr
	}
	return report, nil
}

func (s *Service) afterCommit(ctx context.Context, hospitalID uuid.UUID, uploaded int) {
	if uploaded == 0 {
		return
	}
	if s.counter != nil {
		if err := s.counter.RecordUploaded(ctx, hospitalID, uploaded); err != nil {
			log.Warn().Err(err).Msg("record counter update failed")
		}
	}
	if s.summaries != nil {
		s.summaries.Invalidate(ctx, hospitalID)
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, ws.Event{
			Type:       ws.EventRecordsUploaded,
			HospitalID: hospitalID.String(),
			Count:      uploaded,
			Timestamp:  time.Now(),
		})
	}
}
