package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/domain/risk"
	"github.com/riskboard/riskboard/internal/platform/simulated"
)

func TestClientScore(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(ModelResponse{Score: 0.82, Risk: "High", Confidence: "high"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	resp, err := client.Score(context.Background(), map[string]interface{}{"age": 80})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Score != 0.82 || resp.Confidence != "high" {
		t.Errorf("response = %+v", resp)
	}
	if gotBody["age"] != float64(80) {
		t.Errorf("features not forwarded: %v", gotBody)
	}
}

func TestClientDecodesMislabeledBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`{"score":0.55,"risk":"Medium","confidence":"medium"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	resp, err := client.Score(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Score != 0.55 || resp.Risk != "Medium" {
		t.Errorf("response = %+v, want score 0.55", resp)
	}
}

func TestClientRejectsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model retraining", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	if _, err := client.Score(context.Background(), nil); err == nil {
		t.Error("expected error for 503 response")
	}
}

func TestClientRejectsOutOfRangeScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(ModelResponse{Score: 1.7})
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	if _, err := client.Score(context.Background(), nil); err == nil {
		t.Error("expected error for score above 1")
	}
}

type memRows struct {
	rows []*patient.Row
}

func (m *memRows) ListByHospital(context.Context, uuid.UUID, int, int) ([]*patient.Row, int, error) {
	return m.rows, len(m.rows), nil
}

func (m *memRows) ListAllByHospital(context.Context, uuid.UUID) ([]*patient.Row, error) {
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

func (m *memRows) Count(context.Context, uuid.UUID) (int, error) {
	return len(m.rows), nil
}

type fixedScorer struct {
	resp *ModelResponse
	err  error
}

func (f *fixedScorer) Score(context.Context, map[string]interface{}) (*ModelResponse, error) {
	return f.resp, f.err
}

func TestPredictUsesModelScore(t *testing.T) {
	rows := &memRows{}
	svc := NewService(&fixedScorer{resp: &ModelResponse{Score: 0.75, Confidence: "medium"}},
		rows, nil, nil, simulated.NewSeededSource(1))

	result, err := svc.Predict(context.Background(), uuid.New(), map[string]interface{}{
		"patient_id": "P-9", "age": float64(50),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Source != SourceModel {
		t.Errorf("source = %s", result.Source)
	}
	if result.Assessment.Tier != risk.TierHigh || result.Assessment.Probability != 0.75 {
		t.Errorf("assessment = %+v", result.Assessment)
	}

	if len(rows.rows) != 1 {
		t.Fatal("scored row not stored")
	}
	stored := rows.rows[0]
	if stored.ID != "P-9" {
		t.Errorf("stored id = %q", stored.ID)
	}
	if stored.Data["risk_tier"] != risk.TierHigh || stored.Data["risk_source"] != SourceModel {
		t.Errorf("stored annotations = %v", stored.Data)
	}
}

func TestPredictFallsBackToHeuristic(t *testing.T) {
	rows := &memRows{}
	svc := NewService(&fixedScorer{err: context.DeadlineExceeded},
		rows, nil, nil, simulated.NewSeededSource(1))

	result, err := svc.Predict(context.Background(), uuid.New(), map[string]interface{}{
		"patient_id": "P-1", "readmitted": float64(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Source != SourceHeuristic {
		t.Errorf("source = %s, want heuristic fallback", result.Source)
	}
	if result.Assessment.Tier != risk.TierHigh {
		t.Errorf("readmitted patient classified %s", result.Assessment.Tier)
	}
	if len(rows.rows) != 1 {
		t.Error("fallback result not stored")
	}
}
