package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/auralabs/aurameter/internal/resilience"
	"github.com/auralabs/aurameter/internal/scoring"
)

// VisionExtraction is everything the vision provider derives from one
// capture: measurement ratios, capture signals, the appearance
// classification, and partial trait scores for traits no ratio covers.
type VisionExtraction struct {
	Signals      scoring.CaptureSignals     `json:"signals"`
	Measurements scoring.Measurements       `json:"measurements"`
	Appearance   *scoring.AppearanceProfile `json:"appearance,omitempty"`
	Overrides    []scoring.ExternalOverride `json:"overrides,omitempty"`
}

// visionRequest is the provider's extraction request body
type visionRequest struct {
	Variant  string `json:"variant"`
	ImageURL string `json:"image_url"`
	SideURL  string `json:"side_url,omitempty"`
}

// VisionAdapter calls the external LLM image-analysis service. All
// calls go through a retry policy and a circuit breaker; the adapter
// never blocks past the caller's context deadline.
type VisionAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
}

// NewVisionAdapter creates a new adapter for the vision service
func NewVisionAdapter(baseURL, apiKey string, timeout time.Duration) *VisionAdapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &VisionAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: 5,
			RecoveryTimeout:  30 * time.Second,
			SuccessThreshold: 3,
		}),
		retry: resilience.DefaultRetryConfig(),
	}
}

// Enabled reports whether the adapter has a configured endpoint
func (v *VisionAdapter) Enabled() bool {
	return v.baseURL != ""
}

// Extract runs the provider's extraction for one capture and parses the
// response into typed measurements.
func (v *VisionAdapter) Extract(ctx context.Context, variant scoring.Variant, imageURL, sideURL string) (*VisionExtraction, error) {
	if !v.Enabled() {
		return nil, fmt.Errorf("vision adapter: no endpoint configured")
	}

	payload, err := json.Marshal(visionRequest{
		Variant:  string(variant),
		ImageURL: imageURL,
		SideURL:  sideURL,
	})
	if err != nil {
		return nil, fmt.Errorf("vision adapter: encode request: %w", err)
	}

	var extraction *VisionExtraction
	err = v.breaker.Call(func() error {
		resp, err := resilience.RetryHTTP(ctx, v.retry, func() (*http.Response, error) {
			return v.post(ctx, payload)
		})
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			return fmt.Errorf("vision service: status %d, body: %s", resp.StatusCode, string(body))
		}

		var out VisionExtraction
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("vision service: decode response: %w", err)
		}
		extraction = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	if extraction.Measurements.Symmetry == nil {
		return nil, fmt.Errorf("vision service: response missing symmetry assessment")
	}

	return extraction, nil
}

func (v *VisionAdapter) post(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/v1/extract", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if v.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.apiKey)
	}

	return v.client.Do(req)
}
