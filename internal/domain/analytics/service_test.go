package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/platform/simulated"
)

type memRows struct {
	rows  []*patient.Row
	calls int
}

func (m *memRows) ListByHospital(_ context.Context, _ uuid.UUID, limit, offset int) ([]*patient.Row, int, error) {
	return m.rows, len(m.rows), nil
}

func (m *memRows) ListAllByHospital(_ context.Context, _ uuid.UUID) ([]*patient.Row, error) {
	m.calls++
	return m.rows, nil
}

func (m *memRows) InsertBatch(_ context.Context, _ uuid.UUID, rows []*patient.Row) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *memRows) Upsert(_ context.Context, row *patient.Row) error {
	m.rows = append(m.rows, row)
	return nil
}

func (m *memRows) Count(_ context.Context, _ uuid.UUID) (int, error) {
	return len(m.rows), nil
}

type fakeCache struct {
	entries map[string]*DashboardSummary
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*DashboardSummary)}
}

func (f *fakeCache) Get(_ context.Context, key string) (*DashboardSummary, bool, error) {
	s, ok := f.entries[key]
	return s, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, s *DashboardSummary, _ time.Duration) error {
	f.entries[key] = s
	f.sets++
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func testService(repo *memRows, cache Cache) *Service {
	return NewService(patient.NewService(repo), simulated.NewSeededSource(1), cache, time.Minute)
}

func TestSummaryComputesAndCaches(t *testing.T) {
	repo := &memRows{rows: []*patient.Row{
		{ID: "a", Data: map[string]interface{}{"readmitted": float64(1), "baseline_cost": float64(1000)}},
		{ID: "b", Data: map[string]interface{}{"age": float64(40)}},
	}}
	cache := newFakeCache()
	svc := testService(repo, cache)
	hid := uuid.New()

	s, err := svc.Summary(context.Background(), hid)
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalPatients != 2 || s.ReadmissionCount != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.ReadmissionRate != 50.0 {
		t.Errorf("rate = %v, want 50.0", s.ReadmissionRate)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}

	// Second call is served from cache, not recomputed.
	if _, err := svc.Summary(context.Background(), hid); err != nil {
		t.Fatal(err)
	}
	if repo.calls != 1 {
		t.Errorf("repository scanned %d times, want 1", repo.calls)
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	repo := &memRows{rows: []*patient.Row{
		{ID: "a", Data: map[string]interface{}{"age": float64(40)}},
	}}
	cache := newFakeCache()
	svc := testService(repo, cache)
	hid := uuid.New()

	if _, err := svc.Summary(context.Background(), hid); err != nil {
		t.Fatal(err)
	}
	svc.Invalidate(context.Background(), hid)
	if _, err := svc.Summary(context.Background(), hid); err != nil {
		t.Fatal(err)
	}

	if repo.calls != 2 {
		t.Errorf("repository scanned %d times, want 2 after invalidation", repo.calls)
	}
}

func TestSummaryWorksWithoutCache(t *testing.T) {
	repo := &memRows{rows: []*patient.Row{
		{ID: "a", Data: map[string]interface{}{"age": float64(40)}},
	}}
	svc := testService(repo, nil)

	s, err := svc.Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalPatients != 1 {
		t.Errorf("total = %d", s.TotalPatients)
	}
}
