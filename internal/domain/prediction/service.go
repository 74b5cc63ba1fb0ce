package prediction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/domain/risk"
	"github.com/riskboard/riskboard/internal/platform/simulated"
	"github.com/riskboard/riskboard/internal/platform/ws"
)

// Sources recorded on each result.
const (
	SourceModel     = "model"
	SourceHeuristic = "heuristic"
)

// Result is a scored patient: the assessment plus where it came from.
type Result struct {
	PatientID  string          `json:"patient_id"`
	Assessment risk.Assessment `json:"assessment"`
	Source     string          `json:"source"`
	Confidence string          `json:"confidence,omitempty"`
}

// SummaryInvalidator drops cached aggregations after the population changes.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context, hospitalID uuid.UUID)
}

type Service struct {
	scorer    Scorer
	rows      patient.Repository
	summaries SummaryInvalidator
	events    ws.Publisher
	src       *simulated.Source
}

func NewService(scorer Scorer, rows patient.Repository, summaries SummaryInvalidator, events ws.Publisher, src *simulated.Source) *Service {
	return &Service{scorer: scorer, rows: rows, summaries: summaries, events: events, src: src}
}

// Predict scores one patient and stores the row with its assessment. A model
// transport failure degrades to the clinical-factor heuristic instead of
// failing the request.
func (s *Service) Predict(ctx context.Context, hospitalID uuid.UUID, features map[string]interface{}) (*Result, error) {
	rec := patient.Normalize(features, 0)

	result := &Result{PatientID: rec.ID, Source: SourceModel}
	if s.scorer != nil {
		if resp, err := s.scorer.Score(ctx, features); err == nil {
			result.Assessment = risk.FromScore(resp.Score)
			result.Confidence = resp.Confidence
		} else {
			log.Warn().Err(err).Msg("model unavailable, using heuristic assessment")
			result.Source = SourceHeuristic
			result.Assessment = risk.Classify(rec, s.src)
		}
	} else {
		result.Source = SourceHeuristic
		result.Assessment = risk.Classify(rec, s.src)
	}

	if err := s.store(ctx, hospitalID, rec.ID, features, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) store(ctx context.Context, hospitalID uuid.UUID, id string, features map[string]interface{}, result *Result) error {
	data := make(map[string]interface{}, len(features)+3)
	for k, v := range features {
		data[k] = v
	}
	data["risk_score"] = result.Assessment.Probability
	data["risk_tier"] = result.Assessment.Tier
	data["risk_source"] = result.Source

	row := &patient.Row{ID: id, HospitalID: hospitalID, Data: data}
	if err := s.rows.Upsert(ctx, row); err != nil {
		return err
	}

	if s.summaries != nil {
		s.summaries.Invalidate(ctx, hospitalID)
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, ws.Event{
			Type:       ws.EventPredictionStored,
			HospitalID: hospitalID.String(),
			Count:      1,
			Timestamp:  time.Now(),
		})
	}
	return nil
}
