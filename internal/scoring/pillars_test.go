package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPillar(t *testing.T) {
	tests := []struct {
		name     string
		members  []TraitScore
		want     float64
		wantConf Confidence
	}{
		{
			name:     "no members defaults to the target mean at low confidence",
			members:  nil,
			want:     5.5,
			wantConf: ConfidenceLow,
		},
		{
			name: "mean of member damped scores",
			members: []TraitScore{
				{Trait: TraitJawWidth, DampedScore: 6.0, Confidence: ConfidenceHigh},
				{Trait: TraitCheekboneWidth, DampedScore: 8.0, Confidence: ConfidenceHigh},
			},
			want:     7.0,
			wantConf: ConfidenceHigh,
		},
		{
			name: "one low member caps confidence at medium",
			members: []TraitScore{
				{Trait: TraitJawWidth, DampedScore: 6.0, Confidence: ConfidenceLow},
				{Trait: TraitCheekboneWidth, DampedScore: 8.0, Confidence: ConfidenceHigh},
			},
			want:     7.0,
			wantConf: ConfidenceMedium,
		},
		{
			name: "two low members drop confidence to low",
			members: []TraitScore{
				{Trait: TraitJawWidth, DampedScore: 6.0, Confidence: ConfidenceLow},
				{Trait: TraitCheekboneWidth, DampedScore: 8.0, Confidence: ConfidenceLow},
				{Trait: TraitFaceRatio, DampedScore: 7.0, Confidence: ConfidenceHigh},
			},
			want:     7.0,
			wantConf: ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPillar(PillarStructure, tt.members, 5.5)
			assert.InDelta(t, tt.want, got.Score, 1e-9)
			assert.Equal(t, tt.wantConf, got.Confidence)
		})
	}
}

func TestPillarWeightsAppearanceGate(t *testing.T) {
	engine, err := NewEngine(FaceConfig())
	require.NoError(t, err)

	neutral := engine.cfg.Pillars.Weights[PresentationNeutral]
	masculine := engine.cfg.Pillars.Weights[PresentationMasculine]

	tests := []struct {
		name    string
		profile *AppearanceProfile
		want    map[PillarKey]float64
	}{
		{
			name:    "nil profile uses neutral weights",
			profile: nil,
			want:    neutral,
		},
		{
			name:    "low confidence classification is ignored",
			profile: &AppearanceProfile{Presentation: PresentationMasculine, Confidence: 0.5},
			want:    neutral,
		},
		{
			name:    "confidence at the gate is trusted",
			profile: &AppearanceProfile{Presentation: PresentationMasculine, Confidence: 0.65},
			want:    masculine,
		},
		{
			name:    "unknown presentation falls back to neutral",
			profile: &AppearanceProfile{Presentation: Presentation("other"), Confidence: 0.9},
			want:    neutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.pillarWeights(tt.profile))
		})
	}
}

func TestAggregatePillarsSideDiscount(t *testing.T) {
	engine, err := NewEngine(FaceConfig())
	require.NoError(t, err)

	traits := []TraitScore{
		{Trait: TraitJawWidth, DampedScore: 9.0, Confidence: ConfidenceHigh},
		{Trait: TraitEyeSpacing, DampedScore: 5.0, Confidence: ConfidenceHigh},
		{Trait: TraitSymmetry, DampedScore: 6.0, Confidence: ConfidenceHigh},
	}
	base := Input{Quality: PhotoQualityAssessment{Score: 1.0}}

	withSide := base
	withSide.SideProvided = true
	pillarsWith, currentWith, _ := engine.aggregatePillars(traits, withSide)

	pillarsWithout, currentWithout, _ := engine.aggregatePillars(traits, base)

	structureWeight := func(pillars []PillarScore) float64 {
		for _, p := range pillars {
			if p.Pillar == PillarStructure {
				return p.Weight
			}
		}
		t.Fatalf("structure pillar missing")
		return 0
	}

	assert.InDelta(t, structureWeight(pillarsWith)*0.5, structureWeight(pillarsWithout), 1e-9)
	// Structure carries the strongest score here, so discounting it
	// must lower the overall.
	assert.Less(t, currentWithout, currentWith)
}

func TestAggregatePillarsOverallConfidence(t *testing.T) {
	tests := []struct {
		name    string
		pillars []PillarScore
		quality float64
		want    Confidence
	}{
		{
			name:    "good quality and solid pillars",
			pillars: []PillarScore{{Confidence: ConfidenceHigh}, {Confidence: ConfidenceMedium}},
			quality: 0.85,
			want:    ConfidenceHigh,
		},
		{
			name:    "mediocre quality caps at medium",
			pillars: []PillarScore{{Confidence: ConfidenceHigh}},
			quality: 0.65,
			want:    ConfidenceMedium,
		},
		{
			name:    "one low pillar caps at medium",
			pillars: []PillarScore{{Confidence: ConfidenceLow}, {Confidence: ConfidenceHigh}},
			quality: 0.9,
			want:    ConfidenceMedium,
		},
		{
			name:    "poor quality is low regardless of pillars",
			pillars: []PillarScore{{Confidence: ConfidenceHigh}},
			quality: 0.45,
			want:    ConfidenceLow,
		},
		{
			name:    "two low pillars are low",
			pillars: []PillarScore{{Confidence: ConfidenceLow}, {Confidence: ConfidenceLow}},
			quality: 0.95,
			want:    ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overallConfidence(tt.pillars, tt.quality))
		})
	}
}

func TestAggregatePillarsEmptyPillarsDefaultToMean(t *testing.T) {
	engine, err := NewEngine(FaceConfig())
	require.NoError(t, err)

	// Only symmetry supplied: structure, features and presentation are
	// all empty and must sit at the target mean with low confidence.
	traits := []TraitScore{{Trait: TraitSymmetry, DampedScore: 6.0, Confidence: ConfidenceHigh}}
	pillars, _, conf := engine.aggregatePillars(traits, Input{Quality: PhotoQualityAssessment{Score: 0.9}, SideProvided: true})

	require.Len(t, pillars, 4)
	for _, p := range pillars {
		if p.Pillar == PillarBalance {
			continue
		}
		assert.Equal(t, 5.5, p.Score, "pillar %s", p.Pillar)
		assert.Equal(t, ConfidenceLow, p.Confidence, "pillar %s", p.Pillar)
	}
	assert.Equal(t, ConfidenceLow, conf)
}
