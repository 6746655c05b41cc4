package scoring

import (
	"fmt"
	"math"
)

// Engine runs the scoring pipeline for one variant. It is pure and
// stateless beyond its immutable config, so a single engine serves any
// number of concurrent requests.
type Engine struct {
	cfg Config
}

// NewEngine validates the config and returns a ready engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Variant reports which scoring profile this engine runs.
func (e *Engine) Variant() Variant {
	return e.cfg.Variant
}

// AssessQuality runs the photo quality gate with this engine's rules.
func (e *Engine) AssessQuality(sig CaptureSignals) PhotoQualityAssessment {
	return AssessPhotoQuality(sig, e.cfg.Quality)
}

// Score runs the full pipeline deterministically: trait scoring with
// calibration, pillar aggregation, lever selection, the potential
// estimate, and the independent harmony index. Identical inputs always
// produce identical outputs.
func (e *Engine) Score(in Input) (*Output, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	traits := e.scoreTraits(in)
	pillars, current, confidence := e.aggregatePillars(traits, in)
	levers := e.selectLevers(traits, in.Quality.Score, in.SideProvided)
	potential := e.estimatePotential(current, levers, in.Quality.Score)
	harmony := e.computeHarmony(in.Measurements, in.Quality.Score)

	return &Output{
		TraitScores:  traits,
		PillarScores: pillars,
		Overall: OverallScore{
			Current:    current,
			Potential:  potential,
			Confidence: confidence,
			Summary:    summarize(current, confidence),
		},
		TopLevers:          levers,
		Harmony:            harmony,
		CalibrationApplied: e.calibrationApplied(traits, in.Quality.Score),
	}, nil
}

// validateInput fails fast on malformed required fields instead of
// guessing a score. Payload-level validation belongs to the caller;
// this only guards what the pipeline itself depends on.
func validateInput(in Input) error {
	if in.Measurements.Symmetry == nil {
		return fmt.Errorf("scoring: symmetry measurement is required")
	}
	overall := in.Measurements.Symmetry.Overall
	if math.IsNaN(overall) || overall < 0 || overall > 1 {
		return fmt.Errorf("scoring: symmetry overall %.3f out of [0,1]", overall)
	}
	if in.Quality.Score < 0 || in.Quality.Score > 1 {
		return fmt.Errorf("scoring: quality score %.3f out of [0,1]", in.Quality.Score)
	}
	for _, m := range in.Measurements.Ratios {
		if m.IdealMin > m.IdealMax {
			return fmt.Errorf("scoring: measurement %q has inverted ideal band", m.Key)
		}
	}
	return nil
}

// calibrationApplied reports whether any damping step was non-identity,
// so consumers can tell a calibrated score from a pass-through one.
func (e *Engine) calibrationApplied(traits []TraitScore, quality float64) bool {
	if quality < e.cfg.Calibration.QualityGood {
		return true
	}
	for _, ts := range traits {
		if ts.Confidence != ConfidenceHigh {
			return true
		}
	}
	return false
}

func summarize(current float64, conf Confidence) string {
	var band string
	switch {
	case current >= 7.5:
		band = "a standout result"
	case current >= 6.5:
		band = "clearly above the population average"
	case current >= 5.0:
		band = "around the population average"
	default:
		band = "below the population average, with clear room to improve"
	}
	if conf == ConfidenceLow {
		return fmt.Sprintf("Current score %.1f, %s. Confidence is low; a better photo would sharpen this read.", current, band)
	}
	return fmt.Sprintf("Current score %.1f, %s.", current, band)
}
