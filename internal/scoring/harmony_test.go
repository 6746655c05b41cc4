package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHarmony(t *testing.T) {
	engine, err := NewEngine(FaceConfig())
	require.NoError(t, err)

	m := Measurements{
		Ratios: []RatioMeasurement{
			{Key: TraitFacialThirds, Value: 1.0, IdealMin: 0.9, IdealMax: 1.1, Confidence: ConfidenceHigh},
			{Key: TraitFaceRatio, Value: 0.618, IdealMin: 0.60, IdealMax: 0.68, Confidence: ConfidenceHigh},
		},
		Symmetry: &SymmetryScore{Overall: 0.9, Confidence: ConfidenceHigh},
	}

	got := engine.computeHarmony(m, 0.9)
	require.NotNil(t, got)

	// symmetry 9.0, thirds in band 8.5, golden within 0.05 of 1/phi 8.0
	require.Len(t, got.Components, 3)
	byName := make(map[string]float64)
	for _, c := range got.Components {
		byName[c.Name] = c.Score
	}
	assert.Equal(t, 9.0, byName["symmetry"])
	assert.Equal(t, 8.5, byName["vertical_thirds"])
	assert.Equal(t, 8.0, byName["golden_ratio"])

	assert.InDelta(t, 8.5, got.Score, 1e-9)
	assert.Equal(t, ConfidenceHigh, got.Confidence)
}

func TestComputeHarmonySymmetryOnly(t *testing.T) {
	engine, err := NewEngine(FaceConfig())
	require.NoError(t, err)

	m := Measurements{Symmetry: &SymmetryScore{Overall: 0.7, Confidence: ConfidenceHigh}}

	got := engine.computeHarmony(m, 1.0)
	require.Len(t, got.Components, 1)
	assert.Equal(t, "symmetry", got.Components[0].Name)
	assert.InDelta(t, 7.0, got.Score, 1e-9)
}

func TestComputeHarmonyCalibratesWithQuality(t *testing.T) {
	engine, err := NewEngine(FaceConfig())
	require.NoError(t, err)

	m := Measurements{Symmetry: &SymmetryScore{Overall: 0.9, Confidence: ConfidenceHigh}}

	// raw 9.0 at quality 0.55: 5.5 + 3.5*0.6
	got := engine.computeHarmony(m, 0.55)
	assert.InDelta(t, 7.6, got.Score, 1e-9)
	assert.Equal(t, ConfidenceMedium, got.Confidence)
}

func TestBandCheckScore(t *testing.T) {
	engine, err := NewEngine(FaceConfig())
	require.NoError(t, err)

	// eye_spacing reference stddev is 0.04
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{name: "inside the band is good", value: 0.46, want: 8.5},
		{name: "on the edge is good", value: 0.50, want: 8.5},
		{name: "within one stddev of the edge is ok", value: 0.53, want: 6.5},
		{name: "beyond one stddev is off", value: 0.56, want: 4.5},
		{name: "below the band mirrors the rule", value: 0.39, want: 6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := RatioMeasurement{Key: TraitEyeSpacing, Value: tt.value, IdealMin: 0.42, IdealMax: 0.50}
			assert.Equal(t, tt.want, engine.bandCheckScore(m))
		})
	}

	t.Run("unknown reference falls back to ok", func(t *testing.T) {
		m := RatioMeasurement{Key: TraitKey("mystery"), Value: 99, IdealMin: 0.1, IdealMax: 0.2}
		assert.Equal(t, 6.5, engine.bandCheckScore(m))
	})
}

func TestGoldenScore(t *testing.T) {
	g := GoldenCheck{
		Target: goldenRatio,
		Tiers: []GoldenTier{
			{MaxDeviation: 0.05, Score: 8.0},
			{MaxDeviation: 0.10, Score: 6.5},
			{MaxDeviation: 0.15, Score: 5.0},
		},
		FarScore: 4.0,
	}

	assert.Equal(t, 8.0, goldenScore(goldenRatio, g))
	assert.Equal(t, 8.0, goldenScore(goldenRatio+0.05, g))
	assert.Equal(t, 6.5, goldenScore(goldenRatio-0.08, g))
	assert.Equal(t, 5.0, goldenScore(goldenRatio+0.13, g))
	assert.Equal(t, 4.0, goldenScore(goldenRatio+0.4, g))
}

func TestHarmonyConfidence(t *testing.T) {
	tests := []struct {
		name       string
		lowSignals int
		quality    float64
		want       Confidence
	}{
		{name: "clean signals and quality", lowSignals: 0, quality: 0.9, want: ConfidenceHigh},
		{name: "one shaky signal", lowSignals: 1, quality: 0.9, want: ConfidenceMedium},
		{name: "mostly shaky signals", lowSignals: 3, quality: 0.9, want: ConfidenceLow},
		{name: "mediocre quality caps high", lowSignals: 0, quality: 0.65, want: ConfidenceMedium},
		{name: "poor quality caps everything", lowSignals: 0, quality: 0.4, want: ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, harmonyConfidence(tt.lowSignals, tt.quality))
		})
	}
}
