package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func faceInput() Input {
	return Input{
		Measurements: Measurements{
			Ratios: []RatioMeasurement{
				{Key: TraitFacialThirds, Value: 0.98, IdealMin: 0.9, IdealMax: 1.1, Confidence: ConfidenceHigh},
				{Key: TraitEyeSpacing, Value: 0.44, IdealMin: 0.42, IdealMax: 0.50, Confidence: ConfidenceHigh},
				{Key: TraitNoseWidth, Value: 0.27, IdealMin: 0.20, IdealMax: 0.30, Confidence: ConfidenceMedium},
				{Key: TraitJawWidth, Value: 0.80, IdealMin: 0.78, IdealMax: 0.92, Confidence: ConfidenceHigh},
				{Key: TraitFaceRatio, Value: 0.66, IdealMin: 0.58, IdealMax: 0.70, Confidence: ConfidenceHigh},
			},
			Symmetry: &SymmetryScore{Overall: 0.82, Confidence: ConfidenceHigh},
		},
		Quality:      PhotoQualityAssessment{Score: 0.9, CanProceed: true},
		SideProvided: true,
		Overrides: []ExternalOverride{
			{Trait: TraitSkinQuality, Score: 6.0, Confidence: ConfidenceMedium},
			{Trait: TraitGrooming, Score: 5.0, Confidence: ConfidenceMedium},
		},
	}
}

func TestScoreEndToEnd(t *testing.T) {
	engine, err := NewEngine(FaceConfig())
	require.NoError(t, err)

	out, err := engine.Score(faceInput())
	require.NoError(t, err)

	assert.NotEmpty(t, out.TraitScores)
	require.Len(t, out.PillarScores, 4)

	for _, ts := range out.TraitScores {
		assert.GreaterOrEqual(t, ts.DampedScore, 0.0, "trait %s", ts.Trait)
		assert.LessOrEqual(t, ts.DampedScore, 10.0, "trait %s", ts.Trait)
	}
	for _, p := range out.PillarScores {
		assert.GreaterOrEqual(t, p.Score, 0.0, "pillar %s", p.Pillar)
		assert.LessOrEqual(t, p.Score, 10.0, "pillar %s", p.Pillar)
	}

	assert.GreaterOrEqual(t, out.Overall.Current, 0.0)
	assert.LessOrEqual(t, out.Overall.Current, 10.0)
	assert.GreaterOrEqual(t, out.Overall.Potential.Min, out.Overall.Current)
	assert.GreaterOrEqual(t, out.Overall.Potential.Max, out.Overall.Potential.Min)
	assert.LessOrEqual(t, out.Overall.Potential.Max, 9.0)
	assert.NotEmpty(t, out.Overall.Summary)

	require.NotEmpty(t, out.TopLevers)
	assert.LessOrEqual(t, len(out.TopLevers), 3)
	for i, lv := range out.TopLevers {
		assert.Equal(t, i+1, lv.Priority)
	}

	require.NotNil(t, out.Harmony)
	assert.GreaterOrEqual(t, out.Harmony.Score, 0.0)
	assert.LessOrEqual(t, out.Harmony.Score, 10.0)

	// Medium-confidence inputs mean calibration had to act.
	assert.True(t, out.CalibrationApplied)
}

// Two runs over the same input must agree byte for byte. There is no
// randomness anywhere in the pipeline.
func TestScoreDeterministic(t *testing.T) {
	for _, cfg := range []Config{FaceConfig(), BodyConfig()} {
		engine, err := NewEngine(cfg)
		require.NoError(t, err)

		in := faceInput()
		if cfg.Variant == VariantBody {
			in = bodyInput()
		}

		first, err := engine.Score(in)
		require.NoError(t, err)
		second, err := engine.Score(in)
		require.NoError(t, err)

		require.Equal(t, first, second)

		a, err := json.Marshal(first)
		require.NoError(t, err)
		b, err := json.Marshal(second)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func bodyInput() Input {
	return Input{
		Measurements: Measurements{
			Ratios: []RatioMeasurement{
				{Key: TraitShoulderHip, Value: 1.42, IdealMin: 1.35, IdealMax: 1.55, Confidence: ConfidenceHigh},
				{Key: TraitWaistHip, Value: 0.88, IdealMin: 0.80, IdealMax: 0.92, Confidence: ConfidenceMedium},
				{Key: TraitShoulderWaist, Value: 1.50, IdealMin: 1.45, IdealMax: 1.70, Confidence: ConfidenceHigh},
			},
			Symmetry: &SymmetryScore{Overall: 0.78, Confidence: ConfidenceMedium},
		},
		Quality:   PhotoQualityAssessment{Score: 0.75, CanProceed: true},
		Overrides: []ExternalOverride{{Trait: TraitMuscleTone, Score: 6.5, Confidence: ConfidenceMedium}},
	}
}

func TestScoreBodyVariant(t *testing.T) {
	engine, err := NewEngine(BodyConfig())
	require.NoError(t, err)
	assert.Equal(t, VariantBody, engine.Variant())

	out, err := engine.Score(bodyInput())
	require.NoError(t, err)

	byKey := make(map[TraitKey]TraitScore)
	for _, ts := range out.TraitScores {
		byKey[ts.Trait] = ts
	}
	assert.Contains(t, byKey, TraitShoulderWaist)
	assert.Contains(t, byKey, TraitMuscleTone)
	assert.NotContains(t, byKey, TraitFacialThirds)
}

func TestScoreInputValidation(t *testing.T) {
	engine, err := NewEngine(FaceConfig())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{
			name:   "missing symmetry",
			mutate: func(in *Input) { in.Measurements.Symmetry = nil },
		},
		{
			name:   "symmetry above one",
			mutate: func(in *Input) { in.Measurements.Symmetry.Overall = 1.2 },
		},
		{
			name:   "negative symmetry",
			mutate: func(in *Input) { in.Measurements.Symmetry.Overall = -0.1 },
		},
		{
			name:   "quality out of range",
			mutate: func(in *Input) { in.Quality.Score = 1.5 },
		},
		{
			name: "inverted ideal band",
			mutate: func(in *Input) {
				in.Measurements.Ratios[0].IdealMin = 1.1
				in.Measurements.Ratios[0].IdealMax = 0.9
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := faceInput()
			tt.mutate(&in)
			out, err := engine.Score(in)
			assert.Error(t, err)
			assert.Nil(t, out)
		})
	}
}

func TestScoreCalibrationAppliedFlag(t *testing.T) {
	engine, err := NewEngine(FaceConfig())
	require.NoError(t, err)

	in := Input{
		Measurements: Measurements{
			Ratios: []RatioMeasurement{
				{Key: TraitFacialThirds, Value: 1.0, IdealMin: 0.9, IdealMax: 1.1, Confidence: ConfidenceHigh},
			},
			Symmetry: &SymmetryScore{Overall: 0.9, Confidence: ConfidenceHigh},
		},
		Quality:      PhotoQualityAssessment{Score: 1.0, CanProceed: true},
		SideProvided: true,
	}

	out, err := engine.Score(in)
	require.NoError(t, err)
	assert.False(t, out.CalibrationApplied, "all-high confidence at perfect quality is a pass-through")

	in.Quality.Score = 0.6
	out, err = engine.Score(in)
	require.NoError(t, err)
	assert.True(t, out.CalibrationApplied)
}

func TestConfigValidation(t *testing.T) {
	assert.NoError(t, FaceConfig().Validate())
	assert.NoError(t, BodyConfig().Validate())

	t.Run("rejects a broken confidence table", func(t *testing.T) {
		cfg := FaceConfig()
		cfg.Calibration.ConfidenceFactors = map[Confidence]float64{ConfidenceHigh: 1.0}
		_, err := NewEngine(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects a zero pillar weight", func(t *testing.T) {
		cfg := FaceConfig()
		cfg.Pillars.Weights[PresentationNeutral][PillarStructure] = 0
		_, err := NewEngine(cfg)
		assert.Error(t, err)
	})

	t.Run("rejects a lever referencing an unmapped trait", func(t *testing.T) {
		cfg := FaceConfig()
		cfg.Levers.Catalog[0].RelatedTraits = []TraitKey{TraitKey("nowhere")}
		_, err := NewEngine(cfg)
		assert.Error(t, err)
	})
}
