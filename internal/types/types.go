package types

import "github.com/auralabs/aurameter/internal/scoring"

// ScoreRequest is the request body for the score endpoints. Payloads
// carry already-extracted measurements and signals; the service never
// receives image bytes.
type ScoreRequest struct {
	SubjectID    string                     `json:"subject_id,omitempty"`
	Signals      scoring.CaptureSignals     `json:"signals"`
	Measurements scoring.Measurements       `json:"measurements" binding:"required"`
	Appearance   *scoring.AppearanceProfile `json:"appearance,omitempty"`
	Overrides    []scoring.ExternalOverride `json:"overrides,omitempty"`
}

// ScoreResponse wraps one scoring output with its quality assessment
type ScoreResponse struct {
	Variant string                         `json:"variant"`
	Quality scoring.PhotoQualityAssessment `json:"quality"`
	Result  *scoring.Output                `json:"result"`
}

// BlockedResponse reports a capture rejected by the quality gate
type BlockedResponse struct {
	Error   string                         `json:"error"`
	Quality scoring.PhotoQualityAssessment `json:"quality"`
}

// AnalyzeImageRequest asks the service to run the vision provider on an
// externally hosted image and score the extracted measurements.
type AnalyzeImageRequest struct {
	SubjectID string `json:"subject_id,omitempty"`
	ImageURL  string `json:"image_url" binding:"required"`
	SideURL   string `json:"side_url,omitempty"`
}

// HealthResponse is the health endpoint body
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}
