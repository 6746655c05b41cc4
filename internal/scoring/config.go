package scoring

import "fmt"

// Variant names which scoring profile a config describes.
type Variant string

const (
	VariantFace Variant = "face"
	VariantBody Variant = "body"
)

// ReferenceStat holds population statistics for one ratio trait.
type ReferenceStat struct {
	Mean   float64
	StdDev float64
}

// QualityRules are the fixed penalties the photo quality assessor
// subtracts per violated rule, plus the proceed/block threshold.
type QualityRules struct {
	DarkBelow      float64
	DarkPenalty    float64
	BrightAbove    float64
	BrightPenalty  float64
	BlurBelow      float64
	BlurPenalty    float64
	CloseAbove     float64
	ClosePenalty   float64
	TiltAbove      float64 // degrees
	TiltPenalty    float64
	ExprPenalty    float64
	ObstrPenalty   float64 // hair and glasses, each
	MultiPenalty   float64
	BlockThreshold float64
}

// QualityBucket maps a quality ceiling to a damping factor. Buckets are
// ordered ascending by Below; the first bucket whose Below exceeds the
// quality score wins.
type QualityBucket struct {
	Below  float64
	Factor float64
}

// CalibrationParams is the single canonical calibration law: a linear
// pull toward TargetMean, first by confidence, then by photo quality.
type CalibrationParams struct {
	TargetMean        float64
	ConfidenceFactors map[Confidence]float64
	QualityGood       float64 // at or above this, no quality damping
	QualityBuckets    []QualityBucket
}

// PillarRules describes pillar membership, weighting and discounting.
type PillarRules struct {
	Order          []PillarKey
	TraitPillar    map[TraitKey]PillarKey
	Weights        map[Presentation]map[PillarKey]float64
	SideDependent  map[PillarKey]bool
	SideFactor     float64 // weight multiplier when no side photo
	AppearanceGate float64 // min classifier confidence to leave neutral
}

// LeverRules describes lever selection and the potential estimate.
type LeverRules struct {
	Catalog          []Lever
	MaxSelected      int
	BaselineBoost    float64 // impact boost for always-seeded levers
	RetakeBoost      float64 // impact boost for the photo-retake lever
	RetakeBelow      float64 // quality below which the retake boost fires
	SideImpactFactor float64 // impact multiplier when no side photo
	DeltaScaleBelow  float64 // quality below which deltas shrink
	DeltaScaleFactor float64
	MaxTotalDelta    float64 // hard cap on summed max-delta, pre scaling
	MinScale         float64 // applied to summed min-deltas
	MaxScale         float64 // applied to summed max-deltas
	MinCap           float64
	MaxCap           float64
}

// HarmonyCheck is one ratio-band component of the harmony index.
type HarmonyCheck struct {
	Trait TraitKey
	Name  string
}

// GoldenCheck compares one ratio against a golden-ratio target with
// distance-based score tiers.
type GoldenCheck struct {
	Trait    TraitKey
	Name     string
	Target   float64
	Tiers    []GoldenTier // ordered ascending by MaxDeviation
	FarScore float64
}

// GoldenTier maps a deviation ceiling to a fixed score.
type GoldenTier struct {
	MaxDeviation float64
	Score        float64
}

// HarmonyRules configures the harmony index components.
type HarmonyRules struct {
	Checks      []HarmonyCheck
	Golden      *GoldenCheck
	GoodScore   float64
	OKScore     float64
	OffScore    float64
	OKWithinStd float64 // band-edge tolerance in population stddevs
}

// Config is the full immutable configuration for one scoring variant.
// It is built once at startup and shared read-only across requests.
type Config struct {
	Variant     Variant
	Quality     QualityRules
	Calibration CalibrationParams
	Reference   map[TraitKey]ReferenceStat
	Pillars     PillarRules
	Levers      LeverRules
	Harmony     HarmonyRules
}

// Validate checks the internal consistency of a config. An invalid
// config is a deployment defect, so construction fails loudly.
func (c Config) Validate() error {
	if c.Variant == "" {
		return fmt.Errorf("config: variant is required")
	}
	if c.Calibration.TargetMean <= 0 || c.Calibration.TargetMean >= 10 {
		return fmt.Errorf("config: target mean %.2f out of (0,10)", c.Calibration.TargetMean)
	}
	for _, conf := range []Confidence{ConfidenceLow, ConfidenceMedium, ConfidenceHigh} {
		f, ok := c.Calibration.ConfidenceFactors[conf]
		if !ok {
			return fmt.Errorf("config: missing confidence factor for %q", conf)
		}
		if f <= 0 || f > 1 {
			return fmt.Errorf("config: confidence factor for %q must be in (0,1], got %.2f", conf, f)
		}
	}
	prev := 0.0
	for _, b := range c.Calibration.QualityBuckets {
		if b.Below <= prev {
			return fmt.Errorf("config: quality buckets must be strictly ascending")
		}
		if b.Factor <= 0 || b.Factor > 1 {
			return fmt.Errorf("config: quality bucket factor %.2f out of (0,1]", b.Factor)
		}
		prev = b.Below
	}
	if len(c.Pillars.Order) == 0 {
		return fmt.Errorf("config: pillar order is empty")
	}
	known := make(map[PillarKey]bool, len(c.Pillars.Order))
	for _, p := range c.Pillars.Order {
		known[p] = true
	}
	for trait, pillar := range c.Pillars.TraitPillar {
		if !known[pillar] {
			return fmt.Errorf("config: trait %q maps to unknown pillar %q", trait, pillar)
		}
	}
	for _, pres := range []Presentation{PresentationNeutral, PresentationMasculine, PresentationFeminine} {
		weights, ok := c.Pillars.Weights[pres]
		if !ok {
			return fmt.Errorf("config: missing pillar weights for %q presentation", pres)
		}
		for _, p := range c.Pillars.Order {
			if weights[p] <= 0 {
				return fmt.Errorf("config: %q weight for pillar %q must be positive", pres, p)
			}
		}
	}
	seen := make(map[LeverKey]bool, len(c.Levers.Catalog))
	for _, lv := range c.Levers.Catalog {
		if seen[lv.Key] {
			return fmt.Errorf("config: duplicate lever %q", lv.Key)
		}
		seen[lv.Key] = true
		if lv.MinDelta < 0 || lv.MaxDelta < lv.MinDelta {
			return fmt.Errorf("config: lever %q has invalid delta range", lv.Key)
		}
		for _, t := range lv.RelatedTraits {
			if _, ok := c.Pillars.TraitPillar[t]; !ok {
				return fmt.Errorf("config: lever %q references unmapped trait %q", lv.Key, t)
			}
		}
	}
	if c.Levers.MaxSelected <= 0 {
		return fmt.Errorf("config: max selected levers must be positive")
	}
	if c.Levers.MinCap > c.Levers.MaxCap || c.Levers.MaxCap > 10 {
		return fmt.Errorf("config: potential caps %.2f/%.2f invalid", c.Levers.MinCap, c.Levers.MaxCap)
	}
	for _, hc := range c.Harmony.Checks {
		if _, ok := c.Reference[hc.Trait]; !ok {
			return fmt.Errorf("config: harmony check %q references trait %q without reference stats", hc.Name, hc.Trait)
		}
	}
	return nil
}
