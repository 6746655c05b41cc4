package scoring

// Calibrate dampens a raw score toward the configured target mean,
// first by measurement confidence and then by photo quality. Both steps
// strictly pull toward the mean; neither can push a value further away.
// This is the single calibration law applied everywhere, the
// anti-inflation mechanism of the whole pipeline.
func Calibrate(raw float64, conf Confidence, quality float64, p CalibrationParams) float64 {
	factor, ok := p.ConfidenceFactors[conf]
	if !ok {
		factor = p.ConfidenceFactors[ConfidenceLow]
	}
	damped := p.TargetMean + (raw-p.TargetMean)*factor

	if quality < p.QualityGood {
		damped = p.TargetMean + (damped-p.TargetMean)*qualityFactor(quality, p.QualityBuckets)
	}

	return clamp(damped, 0, 10)
}

// qualityFactor picks the damping factor for a quality score from the
// ascending bucket list. Quality at or above every bucket gets 1.
func qualityFactor(quality float64, buckets []QualityBucket) float64 {
	for _, b := range buckets {
		if quality < b.Below {
			return b.Factor
		}
	}
	return 1
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
