package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/platform/simulated"
)

type Service struct {
	patients *patient.Service
	src      *simulated.Source
	cache    Cache
	cacheTTL time.Duration
}

func NewService(patients *patient.Service, src *simulated.Source, cache Cache, cacheTTL time.Duration) *Service {
	return &Service{patients: patients, src: src, cache: cache, cacheTTL: cacheTTL}
}

func cacheKey(hospitalID uuid.UUID) string {
	return "dashboard:" + hospitalID.String()
}

// Summary computes the dashboard aggregation for a hospital, serving from
// cache when a fresh entry exists. Cache failures fall through to a live
// computation.
func (s *Service) Summary(ctx context.Context, hospitalID uuid.UUID) (*DashboardSummary, error) {
	key := cacheKey(hospitalID)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("hospital_id", hospitalID.String()).Msg("summary cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	records, err := s.patients.AllRecords(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	summary := Summarize(records, s.src)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, &summary, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("hospital_id", hospitalID.String()).Msg("summary cache write failed")
		}
	}
	return &summary, nil
}

// CostSavings returns just the cost-savings report for a hospital.
func (s *Service) CostSavings(ctx context.Context, hospitalID uuid.UUID) (*CostSavingsReport, error) {
	summary, err := s.Summary(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	return &summary.CostSavings, nil
}

// Invalidate drops the cached summary after the population changes.
func (s *Service) Invalidate(ctx context.Context, hospitalID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(hospitalID)); err != nil {
		log.Warn().Err(err).Str("hospital_id", hospitalID.String()).Msg("summary cache invalidation failed")
	}
}
