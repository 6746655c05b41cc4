package scoring

import "math"

// scoreRatio maps one measured ratio to a raw 0-10 trait score using
// ideal-band logic. Inside the band the score runs 7 at the edges to 10
// at the center; outside it decays at 2 points per population standard
// deviation down to a floor of 2.
func scoreRatio(m RatioMeasurement, ref ReferenceStat) float64 {
	center := (m.IdealMin + m.IdealMax) / 2
	half := (m.IdealMax - m.IdealMin) / 2

	if m.Value >= m.IdealMin && m.Value <= m.IdealMax {
		if half == 0 {
			return 10
		}
		normalized := math.Abs(m.Value-center) / half
		return 7 + 3*(1-normalized)
	}

	edge := m.IdealMin
	if m.Value > m.IdealMax {
		edge = m.IdealMax
	}
	// Zero-variance reference: treat the distance contribution as 0.
	distance := 0.0
	if ref.StdDev > 0 {
		distance = math.Abs(m.Value-edge) / ref.StdDev
	}
	return math.Max(2, 7-2*distance)
}

// scoreSymmetry maps the provider's [0,1] symmetry score linearly.
func scoreSymmetry(s SymmetryScore) float64 {
	return clamp(s.Overall, 0, 1) * 10
}

// scoreTraits turns measurements and external overrides into calibrated
// trait scores. Measurements with no reference stats are skipped, never
// guessed at. Overrides only fill traits the ratios could not produce.
func (e *Engine) scoreTraits(in Input) []TraitScore {
	quality := in.Quality.Score
	traits := make([]TraitScore, 0, len(in.Measurements.Ratios)+len(in.Overrides)+1)
	seen := make(map[TraitKey]bool)

	for _, m := range in.Measurements.Ratios {
		ref, ok := e.cfg.Reference[m.Key]
		if !ok || seen[m.Key] {
			continue
		}
		raw := scoreRatio(m, ref)
		traits = append(traits, TraitScore{
			Trait:       m.Key,
			RawScore:    raw,
			DampedScore: Calibrate(raw, m.Confidence, quality, e.cfg.Calibration),
			Confidence:  m.Confidence,
			Weight:      1,
			Source:      "ratio",
		})
		seen[m.Key] = true
	}

	sym := in.Measurements.Symmetry
	raw := scoreSymmetry(*sym)
	traits = append(traits, TraitScore{
		Trait:       TraitSymmetry,
		RawScore:    raw,
		DampedScore: Calibrate(raw, sym.Confidence, quality, e.cfg.Calibration),
		Confidence:  sym.Confidence,
		Weight:      1,
		Source:      "symmetry",
	})
	seen[TraitSymmetry] = true

	for _, ov := range in.Overrides {
		if _, mapped := e.cfg.Pillars.TraitPillar[ov.Trait]; !mapped || seen[ov.Trait] {
			continue
		}
		raw := clamp(ov.Score, 0, 10)
		traits = append(traits, TraitScore{
			Trait:       ov.Trait,
			RawScore:    raw,
			DampedScore: Calibrate(raw, ov.Confidence, quality, e.cfg.Calibration),
			Confidence:  ov.Confidence,
			Weight:      1,
			Source:      "external",
		})
		seen[ov.Trait] = true
	}

	return traits
}
