package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestAssessPhotoQuality(t *testing.T) {
	rules := defaultQualityRules()

	tests := []struct {
		name        string
		signals     CaptureSignals
		wantScore   float64
		wantIssues  []IssueKind
		wantProceed bool
	}{
		{
			name:        "clean frontal capture with side photo",
			signals:     CaptureSignals{Brightness: fptr(0.5), Sharpness: fptr(0.9), FaceCount: iptr(1), SideProvided: true},
			wantScore:   1.0,
			wantIssues:  nil,
			wantProceed: true,
		},
		{
			name:        "dark photo without side still proceeds",
			signals:     CaptureSignals{Brightness: fptr(0.2), Sharpness: fptr(0.9), FaceCount: iptr(1)},
			wantScore:   0.8,
			wantIssues:  []IssueKind{IssueTooDark, IssueSideMissing},
			wantProceed: true,
		},
		{
			name:        "no face forces zero and blocks",
			signals:     CaptureSignals{FaceCount: iptr(0), SideProvided: true},
			wantScore:   0.0,
			wantIssues:  []IssueKind{IssueNoFace},
			wantProceed: false,
		},
		{
			name: "stacked problems clamp at zero",
			signals: CaptureSignals{
				Brightness:           fptr(0.1),
				Sharpness:            fptr(0.2),
				FaceFraction:         fptr(0.8),
				TiltDegrees:          fptr(25),
				FaceCount:            iptr(3),
				NonNeutralExpression: true,
				HairObstruction:      true,
				GlassesObstruction:   true,
				SideProvided:         true,
			},
			wantScore:   0.0,
			wantProceed: false,
			wantIssues: []IssueKind{
				IssueTooDark, IssueBlurry, IssueTooClose, IssueHeadTilt,
				IssueExpression, IssueHairObscured, IssueGlasses, IssueMultipleFaces,
			},
		},
		{
			name:        "harsh light takes the smaller penalty",
			signals:     CaptureSignals{Brightness: fptr(0.95), FaceCount: iptr(1), SideProvided: true},
			wantScore:   0.9,
			wantIssues:  []IssueKind{IssueTooBright},
			wantProceed: true,
		},
		{
			name:        "blur alone lands on the block boundary side",
			signals:     CaptureSignals{Sharpness: fptr(0.3), FaceCount: iptr(1), SideProvided: true},
			wantScore:   0.75,
			wantIssues:  []IssueKind{IssueBlurry},
			wantProceed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessPhotoQuality(tt.signals, rules)

			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantProceed, got.CanProceed)
			assert.Equal(t, tt.wantIssues, got.Issues)
			assert.Len(t, got.Warnings, len(got.Issues), "one warning per issue")
		})
	}
}

func TestAssessPhotoQualitySideMissingHasNoPenalty(t *testing.T) {
	rules := defaultQualityRules()

	withSide := AssessPhotoQuality(CaptureSignals{SideProvided: true}, rules)
	withoutSide := AssessPhotoQuality(CaptureSignals{}, rules)

	assert.Equal(t, withSide.Score, withoutSide.Score)
	assert.True(t, withoutSide.HasIssue(IssueSideMissing))
	assert.False(t, withSide.HasIssue(IssueSideMissing))
}

func TestAssessPhotoQualityProceedMatchesThreshold(t *testing.T) {
	rules := defaultQualityRules()

	// blur + too close + tilt: 1 - 0.25 - 0.15 - 0.1 = 0.5
	above := AssessPhotoQuality(CaptureSignals{
		Sharpness:    fptr(0.4),
		FaceFraction: fptr(0.7),
		TiltDegrees:  fptr(15),
		SideProvided: true,
	}, rules)
	assert.InDelta(t, 0.5, above.Score, 1e-9)
	assert.True(t, above.CanProceed)

	// add multiple faces: 0.5 - 0.3 = 0.2 < 0.35
	below := AssessPhotoQuality(CaptureSignals{
		Sharpness:    fptr(0.4),
		FaceFraction: fptr(0.7),
		TiltDegrees:  fptr(15),
		FaceCount:    iptr(2),
		SideProvided: true,
	}, rules)
	assert.InDelta(t, 0.2, below.Score, 1e-9)
	assert.False(t, below.CanProceed)
}
