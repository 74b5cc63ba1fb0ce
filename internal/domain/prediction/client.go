// Package prediction scores individual patients against the external risk
// model, falling back to the clinical-factor heuristic when the model is
// unreachable.
package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ModelResponse is the scoring service's answer for one patient.
type ModelResponse struct {
	Score      float64 `json:"score"`
	Risk       string  `json:"risk"`
	Confidence string  `json:"confidence"`
}

// Scorer calls an external model with a flat feature map.
type Scorer interface {
	Score(ctx context.Context, features map[string]interface{}) (*ModelResponse, error)
}

type restClient struct {
	http *resty.Client
}

// NewClient builds a Scorer for the model service at baseURL.
func NewClient(baseURL string, timeout time.Duration) Scorer {
	return &restClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(1),
	}
}

func (c *restClient) Score(ctx context.Context, features map[string]interface{}) (*ModelResponse, error) {
	var out ModelResponse
	// Some model deployments answer JSON without labeling it as such; force
	// decoding so a mislabeled body cannot pass through as a zero score.
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(features).
		SetResult(&out).
		ForceContentType("application/json").
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("prediction request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("prediction service returned %s", resp.Status())
	}
	if out.Score < 0 || out.Score > 1 {
		return nil, fmt.Errorf("prediction score %v out of range", out.Score)
	}
	return &out, nil
}
