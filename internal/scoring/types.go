package scoring

// Confidence is the ordinal trust level attached to measurements and
// derived scores. It scales calibration strength everywhere.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// rank orders confidences so rollups can take the weakest signal.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

func minConfidence(a, b Confidence) Confidence {
	if a.rank() < b.rank() {
		return a
	}
	return b
}

// TraitKey identifies a single measurable attribute. The set is closed:
// a key the active config does not know is skipped, never guessed at.
type TraitKey string

// Face traits.
const (
	TraitFacialThirds   TraitKey = "facial_thirds"
	TraitEyeSpacing     TraitKey = "eye_spacing"
	TraitNoseWidth      TraitKey = "nose_width"
	TraitLipRatio       TraitKey = "lip_ratio"
	TraitJawWidth       TraitKey = "jaw_width"
	TraitCheekboneWidth TraitKey = "cheekbone_width"
	TraitFaceRatio      TraitKey = "face_ratio"
	TraitSkinQuality    TraitKey = "skin_quality"
	TraitHairHealth     TraitKey = "hair_health"
)

// Body traits.
const (
	TraitShoulderHip   TraitKey = "shoulder_hip_ratio"
	TraitWaistHip      TraitKey = "waist_hip_ratio"
	TraitLegTorso      TraitKey = "leg_torso_ratio"
	TraitShoulderWaist TraitKey = "shoulder_waist_ratio"
	TraitPosture       TraitKey = "posture_alignment"
	TraitMuscleTone    TraitKey = "muscle_tone"
	TraitOutfitFit     TraitKey = "outfit_fit"
)

// Shared traits.
const (
	TraitSymmetry TraitKey = "symmetry"
	TraitGrooming TraitKey = "grooming"
)

// PillarKey names a weighted group of traits.
type PillarKey string

const (
	PillarStructure    PillarKey = "structure"
	PillarFeatures     PillarKey = "features"
	PillarPresentation PillarKey = "presentation"
	PillarBalance      PillarKey = "balance"
)

// LeverKey identifies a static improvement lever.
type LeverKey string

const (
	LeverGroomingBasics    LeverKey = "grooming_basics"
	LeverRetakePhoto       LeverKey = "retake_photo"
	LeverSkincareRoutine   LeverKey = "skincare_routine"
	LeverHairstyleUpdate   LeverKey = "hairstyle_update"
	LeverBrowShaping       LeverKey = "brow_shaping"
	LeverJawlineDefinition LeverKey = "jawline_definition"
	LeverOutfitFit         LeverKey = "outfit_fit_upgrade"
	LeverPostureCorrection LeverKey = "posture_correction"
	LeverStrengthTraining  LeverKey = "strength_training"
	LeverNutritionPlan     LeverKey = "nutrition_plan"
)

// Timeline is the expected horizon for a lever to pay off.
type Timeline string

const (
	TimelineDays   Timeline = "days"
	TimelineWeeks  Timeline = "weeks"
	TimelineMonths Timeline = "months"
)

// IssueKind tags a discrete photo-quality problem.
type IssueKind string

const (
	IssueTooDark       IssueKind = "too_dark"
	IssueTooBright     IssueKind = "too_bright"
	IssueBlurry        IssueKind = "blurry"
	IssueTooClose      IssueKind = "too_close"
	IssueHeadTilt      IssueKind = "head_tilt"
	IssueExpression    IssueKind = "non_neutral_expression"
	IssueHairObscured  IssueKind = "hair_obstruction"
	IssueGlasses       IssueKind = "glasses_obstruction"
	IssueMultipleFaces IssueKind = "multiple_faces"
	IssueNoFace        IssueKind = "no_face"
	IssueSideMissing   IssueKind = "side_missing"
)

// Presentation selects which pillar weight table applies.
type Presentation string

const (
	PresentationNeutral   Presentation = "neutral"
	PresentationMasculine Presentation = "masculine"
	PresentationFeminine  Presentation = "feminine"
)

// RatioMeasurement is one externally measured ratio with its ideal band.
// Produced once per analysis by the measurement provider, immutable here.
type RatioMeasurement struct {
	Key        TraitKey   `json:"key"`
	Value      float64    `json:"value"`
	IdealMin   float64    `json:"ideal_min"`
	IdealMax   float64    `json:"ideal_max"`
	Confidence Confidence `json:"confidence"`
	Percentile *float64   `json:"percentile,omitempty"`
	Note       string     `json:"note,omitempty"`
}

// SymmetryScore is the provider's bilateral symmetry assessment.
type SymmetryScore struct {
	Overall            float64            `json:"overall"` // [0,1]
	PerComponentDeltas map[string]float64 `json:"per_component_deltas,omitempty"`
	Confidence         Confidence         `json:"confidence"`
	Notes              []string           `json:"notes,omitempty"`
}

// Measurements bundles everything the measurement provider supplies.
type Measurements struct {
	Ratios   []RatioMeasurement `json:"ratios"`
	Symmetry *SymmetryScore     `json:"symmetry"`
}

// CaptureSignals are the raw capture-time signals behind the quality
// assessment. Pointer fields are optional; nil takes the documented
// default (brightness 0.5, sharpness 1.0, face fraction 0.4, tilt 0,
// face count 1).
type CaptureSignals struct {
	Brightness           *float64 `json:"brightness,omitempty"`
	Sharpness            *float64 `json:"sharpness,omitempty"`
	FaceFraction         *float64 `json:"face_fraction,omitempty"`
	TiltDegrees          *float64 `json:"tilt_degrees,omitempty"`
	FaceCount            *int     `json:"face_count,omitempty"`
	NonNeutralExpression bool     `json:"non_neutral_expression,omitempty"`
	HairObstruction      bool     `json:"hair_obstruction,omitempty"`
	GlassesObstruction   bool     `json:"glasses_obstruction,omitempty"`
	SideProvided         bool     `json:"side_provided,omitempty"`
}

// PhotoQualityAssessment is the single quality verdict for a capture.
/// CanProceed is derived from Score against the block threshold.
type PhotoQualityAssessment struct {
	Score      float64     `json:"score"` // [0,1]
	Issues     []IssueKind `json:"issues"`
	Warnings   []string    `json:"warnings"`
	CanProceed bool        `json:"can_proceed"`
}

// HasIssue reports whether the assessment carries the given issue tag.
func (a PhotoQualityAssessment) HasIssue(kind IssueKind) bool {
	for _, is := range a.Issues {
		if is == kind {
			return true
		}
	}
	return false
}

// TraitScore is one scored trait before and after calibration.
type TraitScore struct {
	Trait       TraitKey   `json:"trait"`
	RawScore    float64    `json:"raw_score"`    // [0,10]
	DampedScore float64    `json:"damped_score"` // [0,10]
	Confidence  Confidence `json:"confidence"`
	Weight      float64    `json:"weight"`
	Source      string     `json:"source"` // "ratio", "symmetry" or "external"
}

// PillarScore summarizes one weighted trait group.
type PillarScore struct {
	Pillar     PillarKey  `json:"pillar"`
	Score      float64    `json:"score"`  // [0,10]
	Weight     float64    `json:"weight"` // effective weight after side discounting
	Confidence Confidence `json:"confidence"`
	Traits     []TraitKey `json:"traits"`
}

// BaselineKind marks levers that are seeded regardless of measurements.
type BaselineKind int

const (
	BaselineNone BaselineKind = iota
	// BaselineAlways levers get a fixed impact boost on every request.
	BaselineAlways
	// BaselineLowQuality levers get the boost only under poor photo quality.
	BaselineLowQuality
)

// Lever is static reference data describing one improvement action.
type Lever struct {
	Key           LeverKey
	Label         string
	MinDelta      float64
	MaxDelta      float64
	Timeline      Timeline
	RelatedTraits []TraitKey
	Actions       []string
	SideDependent bool
	Baseline      BaselineKind
}

// TopLever is a selected lever with per-request deltas and priority.
type TopLever struct {
	Key      LeverKey `json:"key"`
	Label    string   `json:"label"`
	DeltaMin float64  `json:"delta_min"`
	DeltaMax float64  `json:"delta_max"`
	Timeline Timeline `json:"timeline"`
	Priority int      `json:"priority"` // 1..3, contiguous
	Why      string   `json:"why"`
	Actions  []string `json:"actions"`
}

// PotentialRange is the bounded current-to-best-case interval.
type PotentialRange struct {
	Min         float64  `json:"min"`
	Max         float64  `json:"max"`
	Assumptions []string `json:"assumptions"`
}

// OverallScore is the headline current/potential pair.
type OverallScore struct {
	Current    float64        `json:"current"` // [0,10]
	Potential  PotentialRange `json:"potential"`
	Confidence Confidence     `json:"confidence"`
	Summary    string         `json:"summary"`
}

// HarmonyComponent is one named sub-score of the harmony index.
type HarmonyComponent struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"` // [0,10]
}

// HarmonyIndex is the independent proportion/symmetry composite. It is
// reported alongside the pillar score, never folded into it.
type HarmonyIndex struct {
	Score      float64            `json:"score"` // [0,10]
	Confidence Confidence         `json:"confidence"`
	Components []HarmonyComponent `json:"components"`
}

// AppearanceProfile is the confidence-gated appearance classification.
// It only influences pillar weights when Confidence clears the gate.
type AppearanceProfile struct {
	Presentation Presentation `json:"presentation"`
	Confidence   float64      `json:"confidence"` // [0,1]
}

// ExternalOverride is a partial trait score sourced from the external
// LLM response, filling traits no ratio can derive.
type ExternalOverride struct {
	Trait      TraitKey   `json:"trait"`
	Score      float64    `json:"score"` // raw [0,10]
	Confidence Confidence `json:"confidence"`
	Note       string     `json:"note,omitempty"`
}

// Input is everything one scoring request consumes. All fields are
// already typed and validated by the calling layer.
type Input struct {
	Measurements Measurements           `json:"measurements"`
	Quality      PhotoQualityAssessment `json:"quality"`
	SideProvided bool                   `json:"side_provided"`
	Appearance   *AppearanceProfile     `json:"appearance,omitempty"`
	Overrides    []ExternalOverride     `json:"overrides,omitempty"`
}

// Output is the assembled result of one scoring request.
type Output struct {
	TraitScores        []TraitScore  `json:"trait_scores"`
	PillarScores       []PillarScore `json:"pillar_scores"`
	Overall            OverallScore  `json:"overall"`
	TopLevers          []TopLever    `json:"top_levers"`
	Harmony            *HarmonyIndex `json:"harmony,omitempty"`
	CalibrationApplied bool          `json:"calibration_applied"`
}
