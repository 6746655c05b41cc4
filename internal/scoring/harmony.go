package scoring

import "math"

// computeHarmony builds the independent proportion composite from the
// same raw measurements: symmetry, the configured band checks, and the
// golden-ratio proximity check. It shares the calibration law with the
// pillar score but never feeds into it.
func (e *Engine) computeHarmony(m Measurements, quality float64) *HarmonyIndex {
	rules := e.cfg.Harmony

	byKey := make(map[TraitKey]RatioMeasurement, len(m.Ratios))
	for _, r := range m.Ratios {
		if _, ok := byKey[r.Key]; !ok {
			byKey[r.Key] = r
		}
	}

	components := make([]HarmonyComponent, 0, len(rules.Checks)+2)
	lowSignals := 0

	components = append(components, HarmonyComponent{
		Name:  "symmetry",
		Score: scoreSymmetry(*m.Symmetry),
	})
	if m.Symmetry.Confidence == ConfidenceLow {
		lowSignals++
	}

	for _, check := range rules.Checks {
		r, ok := byKey[check.Trait]
		if !ok {
			continue
		}
		components = append(components, HarmonyComponent{
			Name:  check.Name,
			Score: e.bandCheckScore(r),
		})
		if r.Confidence == ConfidenceLow {
			lowSignals++
		}
	}

	if g := rules.Golden; g != nil {
		if r, ok := byKey[g.Trait]; ok {
			components = append(components, HarmonyComponent{
				Name:  g.Name,
				Score: goldenScore(r.Value, *g),
			})
			if r.Confidence == ConfidenceLow {
				lowSignals++
			}
		}
	}

	var sum float64
	for _, c := range components {
		sum += c.Score
	}
	mean := sum / float64(len(components))

	return &HarmonyIndex{
		Score:      Calibrate(mean, ConfidenceHigh, quality, e.cfg.Calibration),
		Confidence: harmonyConfidence(lowSignals, quality),
		Components: components,
	}
}

// bandCheckScore classifies a ratio as good/ok/off against its ideal
// band and maps the class to a fixed score. "ok" is within the
// configured number of population stddevs from the nearest edge.
func (e *Engine) bandCheckScore(r RatioMeasurement) float64 {
	rules := e.cfg.Harmony
	if r.Value >= r.IdealMin && r.Value <= r.IdealMax {
		return rules.GoodScore
	}

	ref := e.cfg.Reference[r.Key]
	if ref.StdDev <= 0 {
		// Zero-variance reference: no distance signal, call it ok.
		return rules.OKScore
	}
	edge := r.IdealMin
	if r.Value > r.IdealMax {
		edge = r.IdealMax
	}
	if math.Abs(r.Value-edge) <= rules.OKWithinStd*ref.StdDev {
		return rules.OKScore
	}
	return rules.OffScore
}

// goldenScore maps deviation from the golden-ratio target to tiered
// fixed scores.
func goldenScore(value float64, g GoldenCheck) float64 {
	deviation := math.Abs(value - g.Target)
	for _, tier := range g.Tiers {
		if deviation <= tier.MaxDeviation {
			return tier.Score
		}
	}
	return g.FarScore
}

// harmonyConfidence mirrors the pillar rollup: low-confidence ratio
// signals and photo quality both cap the reported confidence.
func harmonyConfidence(lowSignals int, quality float64) Confidence {
	conf := ConfidenceHigh
	switch {
	case lowSignals > 2:
		conf = ConfidenceLow
	case lowSignals > 0:
		conf = ConfidenceMedium
	}
	switch {
	case quality < 0.5:
		conf = minConfidence(conf, ConfidenceLow)
	case quality < 0.7:
		conf = minConfidence(conf, ConfidenceMedium)
	}
	return conf
}
