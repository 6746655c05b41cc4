package scoring

// aggregatePillars groups calibrated trait scores into pillars, applies
// the appearance-gated weight table and the side-photo discount, and
// produces the overall current score with its rolled-up confidence.
func (e *Engine) aggregatePillars(traits []TraitScore, in Input) ([]PillarScore, float64, Confidence) {
	rules := e.cfg.Pillars

	members := make(map[PillarKey][]TraitScore)
	for _, ts := range traits {
		pillar, ok := rules.TraitPillar[ts.Trait]
		if !ok {
			continue
		}
		members[pillar] = append(members[pillar], ts)
	}

	weights := e.pillarWeights(in.Appearance)

	pillars := make([]PillarScore, 0, len(rules.Order))
	var weightedSum, weightSum float64
	for _, key := range rules.Order {
		ps := buildPillar(key, members[key], e.cfg.Calibration.TargetMean)

		weight := weights[key]
		if rules.SideDependent[key] && !in.SideProvided {
			weight *= rules.SideFactor
		}
		ps.Weight = weight

		pillars = append(pillars, ps)
		weightedSum += ps.Score * weight
		weightSum += weight
	}

	overall := e.cfg.Calibration.TargetMean
	if weightSum > 0 {
		overall = weightedSum / weightSum
	}
	// One more calibration pass against overall photo quality. High
	// confidence keeps the confidence step an identity here.
	overall = Calibrate(overall, ConfidenceHigh, in.Quality.Score, e.cfg.Calibration)

	return pillars, overall, overallConfidence(pillars, in.Quality.Score)
}

// pillarWeights picks the weight table for the inferred appearance
// profile, trusting it only above the configured confidence gate.
func (e *Engine) pillarWeights(profile *AppearanceProfile) map[PillarKey]float64 {
	rules := e.cfg.Pillars
	if profile != nil && profile.Confidence >= rules.AppearanceGate {
		if weights, ok := rules.Weights[profile.Presentation]; ok {
			return weights
		}
	}
	return rules.Weights[PresentationNeutral]
}

// buildPillar averages member trait scores. A pillar with no members
// defaults to the target mean at low confidence; that is expected when
// the user supplied partial data, not an error.
func buildPillar(key PillarKey, members []TraitScore, targetMean float64) PillarScore {
	if len(members) == 0 {
		return PillarScore{
			Pillar:     key,
			Score:      targetMean,
			Confidence: ConfidenceLow,
		}
	}

	var sum float64
	var low, medium int
	traits := make([]TraitKey, 0, len(members))
	for _, ts := range members {
		sum += ts.DampedScore
		traits = append(traits, ts.Trait)
		switch ts.Confidence {
		case ConfidenceLow:
			low++
		case ConfidenceMedium:
			medium++
		}
	}

	conf := ConfidenceHigh
	switch {
	case low >= 2:
		conf = ConfidenceLow
	case low == 1 || medium >= 1:
		conf = ConfidenceMedium
	}

	return PillarScore{
		Pillar:     key,
		Score:      clamp(sum/float64(len(members)), 0, 10),
		Confidence: conf,
		Traits:     traits,
	}
}

// overallConfidence rolls pillar confidences and photo quality into the
// headline confidence.
func overallConfidence(pillars []PillarScore, quality float64) Confidence {
	lowPillars := 0
	for _, p := range pillars {
		if p.Confidence == ConfidenceLow {
			lowPillars++
		}
	}
	switch {
	case quality < 0.5 || lowPillars >= 2:
		return ConfidenceLow
	case quality < 0.7 || lowPillars >= 1:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}
