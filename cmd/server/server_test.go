package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auralabs/aurameter/internal/history"
	"github.com/auralabs/aurameter/internal/scoring"
	"github.com/auralabs/aurameter/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := history.NewStoreWithDB(db)
	require.NoError(t, err)

	srv, err := newServer(store)
	require.NoError(t, err)

	return srv, srv.setupRouter()
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func goodScoreRequest() types.ScoreRequest {
	return types.ScoreRequest{
		SubjectID: "test-subject",
		Signals: scoring.CaptureSignals{
			Brightness:   floatPtr(0.5),
			Sharpness:    floatPtr(0.9),
			FaceCount:    intPtr(1),
			SideProvided: true,
		},
		Measurements: scoring.Measurements{
			Ratios: []scoring.RatioMeasurement{
				{Key: scoring.TraitFacialThirds, Value: 1.0, IdealMin: 0.9, IdealMax: 1.1, Confidence: scoring.ConfidenceHigh},
				{Key: scoring.TraitEyeSpacing, Value: 0.46, IdealMin: 0.42, IdealMax: 0.50, Confidence: scoring.ConfidenceHigh},
			},
			Symmetry: &scoring.SymmetryScore{Overall: 0.85, Confidence: scoring.ConfidenceHigh},
		},
	}
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, version, resp.Version)
	assert.Equal(t, "ok", resp.Checks["history"])
}

func TestScoreFaceEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	w := postJSON(t, r, "/v1/score/face", goodScoreRequest())
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "face", resp.Variant)
	assert.True(t, resp.Quality.CanProceed)
	require.NotNil(t, resp.Result)
	assert.GreaterOrEqual(t, resp.Result.Overall.Current, 0.0)
	assert.LessOrEqual(t, resp.Result.Overall.Current, 10.0)
	assert.Len(t, resp.Result.PillarScores, 4)
	assert.NotEmpty(t, resp.Result.TopLevers)
}

func TestScoreBodyEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	req := types.ScoreRequest{
		Signals: scoring.CaptureSignals{
			Brightness: floatPtr(0.5),
			Sharpness:  floatPtr(0.9),
			FaceCount:  intPtr(1),
		},
		Measurements: scoring.Measurements{
			Ratios: []scoring.RatioMeasurement{
				{Key: scoring.TraitShoulderWaist, Value: 1.55, IdealMin: 1.4, IdealMax: 1.7, Confidence: scoring.ConfidenceHigh},
			},
			Symmetry: &scoring.SymmetryScore{Overall: 0.8, Confidence: scoring.ConfidenceMedium},
		},
	}

	w := postJSON(t, r, "/v1/score/body", req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "body", resp.Variant)
}

func TestScoreBlockedOnPoorQuality(t *testing.T) {
	srv, r := newTestServer(t)

	req := goodScoreRequest()
	req.Signals.Brightness = floatPtr(0.1)
	req.Signals.Sharpness = floatPtr(0.2)
	req.Signals.FaceCount = intPtr(3)

	w := postJSON(t, r, "/v1/score/face", req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp types.BlockedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Quality.CanProceed)
	assert.NotEmpty(t, resp.Quality.Warnings)

	stats := srv.metrics.GetStats()
	assert.EqualValues(t, 1, stats["blocked_captures"])
}

func TestScoreRejectsMalformedBody(t *testing.T) {
	_, r := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/score/face", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreRejectsMissingSymmetry(t *testing.T) {
	_, r := newTestServer(t)

	req := goodScoreRequest()
	req.Measurements.Symmetry = nil

	w := postJSON(t, r, "/v1/score/face", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreResponseCached(t *testing.T) {
	srv, r := newTestServer(t)

	req := goodScoreRequest()
	first := postJSON(t, r, "/v1/score/face", req)
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, r, "/v1/score/face", req)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, first.Body.String(), second.Body.String())

	stats := srv.metrics.GetStats()
	assert.EqualValues(t, 1, stats["cache_hits"])
	assert.EqualValues(t, 1, stats["cache_misses"])
}

func TestAnalyzeUnavailableWithoutProvider(t *testing.T) {
	_, r := newTestServer(t)

	w := postJSON(t, r, "/v1/analyze/face", types.AnalyzeImageRequest{ImageURL: "https://img.example/a.jpg"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	srv, r := newTestServer(t)

	out := &scoring.Output{
		Overall:   scoring.OverallScore{Current: 6.1, Confidence: scoring.ConfidenceHigh},
		TopLevers: []scoring.TopLever{{Key: scoring.LeverSkincareRoutine}},
		Harmony:   &scoring.HarmonyIndex{Score: 6.8},
	}
	rec := history.NewRecord("test-subject", scoring.VariantFace, 0.9, out)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.store.Save(ctx, rec))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/history/recent", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Records []*history.Record `json:"records"`
		Count   int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 6.1, resp.Records[0].Current)
	assert.Equal(t, history.HashSubject("test-subject"), resp.Records[0].SubjectHash)
}

func TestHistoryEndpointEmpty(t *testing.T) {
	_, r := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/history/recent?subject=nobody", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"records":[],"count":0}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Contains(t, stats, "total_requests")
	assert.Contains(t, stats, "face_scores")
}
