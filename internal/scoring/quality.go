package scoring

import "fmt"

// Defaults applied when a capture signal is absent.
const (
	defaultBrightness   = 0.5
	defaultSharpness    = 1.0
	defaultFaceFraction = 0.4
	defaultTilt         = 0.0
	defaultFaceCount    = 1
)

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// AssessPhotoQuality converts raw capture signals into a single quality
// score in [0,1], the list of discrete issues, warnings, and the
// proceed/block decision. Each violated rule subtracts a fixed penalty
// and appends one issue tag plus one warning. A missing side photo is
// flagged but never penalized here; its effect is confidence
// discounting downstream.
func AssessPhotoQuality(sig CaptureSignals, rules QualityRules) PhotoQualityAssessment {
	score := 1.0
	var issues []IssueKind
	var warnings []string

	flag := func(penalty float64, kind IssueKind, warning string) {
		score -= penalty
		issues = append(issues, kind)
		warnings = append(warnings, warning)
	}

	brightness := floatOr(sig.Brightness, defaultBrightness)
	sharpness := floatOr(sig.Sharpness, defaultSharpness)
	faceFraction := floatOr(sig.FaceFraction, defaultFaceFraction)
	tilt := floatOr(sig.TiltDegrees, defaultTilt)
	faceCount := intOr(sig.FaceCount, defaultFaceCount)

	if brightness < rules.DarkBelow {
		flag(rules.DarkPenalty, IssueTooDark, "The photo is too dark; find softer, brighter light.")
	} else if brightness > rules.BrightAbove {
		flag(rules.BrightPenalty, IssueTooBright, "Harsh lighting is washing out detail; step away from direct light.")
	}
	if sharpness < rules.BlurBelow {
		flag(rules.BlurPenalty, IssueBlurry, "The photo is blurry; hold the camera steady and refocus.")
	}
	if faceFraction > rules.CloseAbove {
		flag(rules.ClosePenalty, IssueTooClose, "The camera is too close; distance distorts proportions.")
	}
	if tilt > rules.TiltAbove {
		flag(rules.TiltPenalty, IssueHeadTilt, fmt.Sprintf("Head tilt of %.0f° skews measurements; look straight at the lens.", tilt))
	}
	if sig.NonNeutralExpression {
		flag(rules.ExprPenalty, IssueExpression, "A neutral expression gives the most accurate read.")
	}
	if sig.HairObstruction {
		flag(rules.ObstrPenalty, IssueHairObscured, "Hair is covering part of the face; pull it back for the photo.")
	}
	if sig.GlassesObstruction {
		flag(rules.ObstrPenalty, IssueGlasses, "Glasses obscure the eye area; remove them if possible.")
	}
	if faceCount > 1 {
		flag(rules.MultiPenalty, IssueMultipleFaces, "More than one face detected; retake with only you in frame.")
	}
	if faceCount == 0 {
		issues = append(issues, IssueNoFace)
		warnings = append(warnings, "No face detected in the photo.")
		score = 0
	}
	if !sig.SideProvided {
		// No score penalty: handled downstream via confidence discounting.
		issues = append(issues, IssueSideMissing)
		warnings = append(warnings, "No side photo provided; profile-dependent scores carry less weight.")
	}

	score = clamp(score, 0, 1)

	return PhotoQualityAssessment{
		Score:      score,
		Issues:     issues,
		Warnings:   warnings,
		CanProceed: score >= rules.BlockThreshold,
	}
}
