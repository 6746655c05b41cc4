package scoring

import (
	"fmt"
	"sort"
)

// leverCandidate pairs a catalog lever with its per-request impact.
type leverCandidate struct {
	lever  Lever
	impact float64
	why    string
}

// selectLevers scores every catalog lever by the deficit in its related
// traits, seeds the baseline levers, and returns the top picks sorted
// by impact with contiguous priorities.
func (e *Engine) selectLevers(traits []TraitScore, quality float64, sideProvided bool) []TopLever {
	rules := e.cfg.Levers
	target := e.cfg.Calibration.TargetMean

	damped := make(map[TraitKey]float64, len(traits))
	for _, ts := range traits {
		damped[ts.Trait] = ts.DampedScore
	}

	candidates := make([]leverCandidate, 0, len(rules.Catalog))
	for _, lv := range rules.Catalog {
		impact := 0.0
		weakest := TraitKey("")
		weakestScore := 10.0
		for _, t := range lv.RelatedTraits {
			score, ok := damped[t]
			if !ok {
				continue
			}
			if deficit := target - score; deficit > 0 {
				impact += deficit
				if score < weakestScore {
					weakest, weakestScore = t, score
				}
			}
		}

		why := ""
		if weakest != "" {
			why = fmt.Sprintf("Your %s score sits below the population mean; this is the most direct way to lift it.", weakest)
		}

		switch lv.Baseline {
		case BaselineAlways:
			impact += rules.BaselineBoost
			if why == "" {
				why = "A reliable quick win regardless of where you start."
			}
		case BaselineLowQuality:
			if quality < rules.RetakeBelow {
				impact += rules.RetakeBoost
				why = "Photo quality limited this analysis; a better capture raises measurement confidence."
			}
		}

		if lv.SideDependent && !sideProvided {
			impact *= rules.SideImpactFactor
		}

		if impact <= 0 {
			continue
		}
		candidates = append(candidates, leverCandidate{lever: lv, impact: impact, why: why})
	}

	// Stable sort keeps catalog order as the deterministic tiebreak.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].impact > candidates[j].impact
	})
	if len(candidates) > rules.MaxSelected {
		candidates = candidates[:rules.MaxSelected]
	}

	deltaScale := 1.0
	if quality < rules.DeltaScaleBelow {
		deltaScale = rules.DeltaScaleFactor
	}

	selected := make([]TopLever, 0, len(candidates))
	totalMax := 0.0
	for i, c := range candidates {
		dMin := c.lever.MinDelta * deltaScale
		dMax := c.lever.MaxDelta * deltaScale
		totalMax += dMax
		selected = append(selected, TopLever{
			Key:      c.lever.Key,
			Label:    c.lever.Label,
			DeltaMin: dMin,
			DeltaMax: dMax,
			Timeline: c.lever.Timeline,
			Priority: i + 1,
			Why:      c.why,
			Actions:  c.lever.Actions,
		})
	}

	// Hard cap on the summed max-delta: shrink all deltas
	// proportionally so no combination promises more than the cap.
	if totalMax > rules.MaxTotalDelta {
		shrink := rules.MaxTotalDelta / totalMax
		for i := range selected {
			selected[i].DeltaMin *= shrink
			selected[i].DeltaMax *= shrink
		}
	}

	return selected
}

// estimatePotential derives the capped current-to-potential range from
// the selected levers' deltas.
func (e *Engine) estimatePotential(current float64, levers []TopLever, quality float64) PotentialRange {
	rules := e.cfg.Levers

	var sumMin, sumMax float64
	for _, lv := range levers {
		sumMin += lv.DeltaMin
		sumMax += lv.DeltaMax
	}

	low := minFloat(current+sumMin*rules.MinScale, rules.MinCap)
	high := minFloat(current+sumMax*rules.MaxScale, rules.MaxCap)

	// Caps never pull the range below the current score.
	if low < current {
		low = current
	}
	if high < low {
		high = low
	}

	assumptions := []string{
		"Assumes consistent follow-through on the recommended levers.",
	}
	if quality < rules.RetakeBelow {
		assumptions = append(assumptions, "A clearer photo may widen the achievable range.")
	}

	return PotentialRange{
		Min:         clamp(low, 0, 10),
		Max:         clamp(high, 0, 10),
		Assumptions: assumptions,
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
