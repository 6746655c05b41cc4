package scoring

// Shared constants across both variants. TargetMean is the population
// anchor every calibration step pulls toward.
const (
	defaultTargetMean     = 5.5
	defaultBlockThreshold = 0.35
	defaultQualityGood    = 0.7
	defaultAppearanceGate = 0.65
	goldenRatio           = 1.6180339887
)

func defaultQualityRules() QualityRules {
	return QualityRules{
		DarkBelow:      0.3,
		DarkPenalty:    0.2,
		BrightAbove:    0.85,
		BrightPenalty:  0.1,
		BlurBelow:      0.5,
		BlurPenalty:    0.25,
		CloseAbove:     0.6,
		ClosePenalty:   0.15,
		TiltAbove:      10,
		TiltPenalty:    0.1,
		ExprPenalty:    0.1,
		ObstrPenalty:   0.1,
		MultiPenalty:   0.3,
		BlockThreshold: defaultBlockThreshold,
	}
}

func defaultCalibration() CalibrationParams {
	return CalibrationParams{
		TargetMean: defaultTargetMean,
		ConfidenceFactors: map[Confidence]float64{
			ConfidenceHigh:   1.0,
			ConfidenceMedium: 0.75,
			ConfidenceLow:    0.5,
		},
		QualityGood: defaultQualityGood,
		QualityBuckets: []QualityBucket{
			{Below: 0.5, Factor: 0.4},
			{Below: 0.6, Factor: 0.6},
			{Below: 0.7, Factor: 0.8},
		},
	}
}

func defaultLeverLimits() LeverRules {
	return LeverRules{
		MaxSelected:      3,
		BaselineBoost:    0.75,
		RetakeBoost:      1.0,
		RetakeBelow:      defaultQualityGood,
		SideImpactFactor: 0.5,
		DeltaScaleBelow:  0.6,
		DeltaScaleFactor: 0.7,
		MaxTotalDelta:    2.5,
		MinScale:         0.7,
		MaxScale:         0.85,
		MinCap:           8.5,
		MaxCap:           9.0,
	}
}

// FaceConfig returns the static face-scoring configuration.
func FaceConfig() Config {
	levers := defaultLeverLimits()
	levers.Catalog = []Lever{
		{
			Key:           LeverGroomingBasics,
			Label:         "Grooming basics",
			MinDelta:      0.2,
			MaxDelta:      0.4,
			Timeline:      TimelineWeeks,
			RelatedTraits: []TraitKey{TraitGrooming},
			Baseline:      BaselineAlways,
			Actions: []string{
				"Keep brows, beard line and hairline edges tidy",
				"Moisturize daily and use SPF",
			},
		},
		{
			Key:      LeverRetakePhoto,
			Label:    "Retake your photo",
			MinDelta: 0.1,
			MaxDelta: 0.3,
			Timeline: TimelineDays,
			Baseline: BaselineLowQuality,
			Actions: []string{
				"Face a window in soft daylight",
				"Hold the camera at eye level, arm's length",
				"Keep a neutral expression and clear the forehead",
			},
		},
		{
			Key:           LeverSkincareRoutine,
			Label:         "Consistent skincare routine",
			MinDelta:      0.3,
			MaxDelta:      0.8,
			Timeline:      TimelineMonths,
			RelatedTraits: []TraitKey{TraitSkinQuality},
			Actions: []string{
				"Cleanse twice daily, moisturize after",
				"Introduce a retinoid gradually at night",
			},
		},
		{
			Key:           LeverHairstyleUpdate,
			Label:         "Hairstyle suited to your face shape",
			MinDelta:      0.2,
			MaxDelta:      0.6,
			Timeline:      TimelineWeeks,
			RelatedTraits: []TraitKey{TraitHairHealth, TraitFaceRatio},
			Actions: []string{
				"Ask a stylist to balance face length and width",
				"Condition weekly to improve shine",
			},
		},
		{
			Key:           LeverBrowShaping,
			Label:         "Brow shaping",
			MinDelta:      0.1,
			MaxDelta:      0.3,
			Timeline:      TimelineDays,
			RelatedTraits: []TraitKey{TraitEyeSpacing, TraitGrooming},
			Actions: []string{
				"Clean up stray hairs below the brow line",
				"Keep the natural arch, avoid over-thinning",
			},
		},
		{
			Key:           LeverJawlineDefinition,
			Label:         "Jawline definition",
			MinDelta:      0.2,
			MaxDelta:      0.5,
			Timeline:      TimelineMonths,
			RelatedTraits: []TraitKey{TraitJawWidth, TraitCheekboneWidth},
			SideDependent: true,
			Actions: []string{
				"Reduce sodium and late-night eating to limit bloat",
				"Maintain a lean body-fat percentage",
			},
		},
	}

	return Config{
		Variant:     VariantFace,
		Quality:     defaultQualityRules(),
		Calibration: defaultCalibration(),
		Reference: map[TraitKey]ReferenceStat{
			TraitFacialThirds:   {Mean: 1.0, StdDev: 0.12},
			TraitEyeSpacing:     {Mean: 0.46, StdDev: 0.04},
			TraitNoseWidth:      {Mean: 0.25, StdDev: 0.03},
			TraitLipRatio:       {Mean: 1.6, StdDev: 0.35},
			TraitJawWidth:       {Mean: 0.85, StdDev: 0.07},
			TraitCheekboneWidth: {Mean: 0.95, StdDev: 0.06},
			TraitFaceRatio:      {Mean: 0.64, StdDev: 0.05},
		},
		Pillars: PillarRules{
			Order: []PillarKey{PillarStructure, PillarFeatures, PillarPresentation, PillarBalance},
			TraitPillar: map[TraitKey]PillarKey{
				TraitJawWidth:       PillarStructure,
				TraitCheekboneWidth: PillarStructure,
				TraitFaceRatio:      PillarStructure,
				TraitEyeSpacing:     PillarFeatures,
				TraitNoseWidth:      PillarFeatures,
				TraitLipRatio:       PillarFeatures,
				TraitSkinQuality:    PillarPresentation,
				TraitHairHealth:     PillarPresentation,
				TraitGrooming:       PillarPresentation,
				TraitFacialThirds:   PillarBalance,
				TraitSymmetry:       PillarBalance,
			},
			Weights: map[Presentation]map[PillarKey]float64{
				PresentationNeutral: {
					PillarStructure:    0.30,
					PillarFeatures:     0.30,
					PillarPresentation: 0.20,
					PillarBalance:      0.20,
				},
				PresentationMasculine: {
					PillarStructure:    0.35,
					PillarFeatures:     0.25,
					PillarPresentation: 0.20,
					PillarBalance:      0.20,
				},
				PresentationFeminine: {
					PillarStructure:    0.25,
					PillarFeatures:     0.35,
					PillarPresentation: 0.20,
					PillarBalance:      0.20,
				},
			},
			SideDependent:  map[PillarKey]bool{PillarStructure: true},
			SideFactor:     0.5,
			AppearanceGate: defaultAppearanceGate,
		},
		Levers: levers,
		Harmony: HarmonyRules{
			Checks: []HarmonyCheck{
				{Trait: TraitFacialThirds, Name: "vertical_thirds"},
				{Trait: TraitEyeSpacing, Name: "eye_spacing"},
				{Trait: TraitLipRatio, Name: "lip_proportion"},
				{Trait: TraitNoseWidth, Name: "nose_width"},
			},
			Golden: &GoldenCheck{
				Trait:  TraitFaceRatio,
				Name:   "golden_ratio",
				Target: 1 / goldenRatio,
				Tiers: []GoldenTier{
					{MaxDeviation: 0.05, Score: 8.0},
					{MaxDeviation: 0.10, Score: 6.5},
					{MaxDeviation: 0.15, Score: 5.0},
				},
				FarScore: 4.0,
			},
			GoodScore:   8.5,
			OKScore:     6.5,
			OffScore:    4.5,
			OKWithinStd: 1.0,
		},
	}
}

// BodyConfig returns the static body-scoring configuration. Same engine,
// different trait set, reference bands and lever catalog.
func BodyConfig() Config {
	levers := defaultLeverLimits()
	levers.Catalog = []Lever{
		{
			Key:           LeverOutfitFit,
			Label:         "Outfit fit upgrade",
			MinDelta:      0.2,
			MaxDelta:      0.5,
			Timeline:      TimelineDays,
			RelatedTraits: []TraitKey{TraitOutfitFit},
			Baseline:      BaselineAlways,
			Actions: []string{
				"Size shirts to the shoulder seam, not the chest",
				"Taper trousers to break once at the shoe",
			},
		},
		{
			Key:      LeverRetakePhoto,
			Label:    "Retake your photo",
			MinDelta: 0.1,
			MaxDelta: 0.3,
			Timeline: TimelineDays,
			Baseline: BaselineLowQuality,
			Actions: []string{
				"Stand in even light against a plain background",
				"Frame the full body straight-on at chest height",
			},
		},
		{
			Key:           LeverPostureCorrection,
			Label:         "Posture correction",
			MinDelta:      0.3,
			MaxDelta:      0.7,
			Timeline:      TimelineMonths,
			RelatedTraits: []TraitKey{TraitPosture},
			SideDependent: true,
			Actions: []string{
				"Stretch hip flexors and chest daily",
				"Strengthen upper back with rows and face pulls",
			},
		},
		{
			Key:           LeverStrengthTraining,
			Label:         "Progressive strength training",
			MinDelta:      0.4,
			MaxDelta:      0.9,
			Timeline:      TimelineMonths,
			RelatedTraits: []TraitKey{TraitShoulderWaist, TraitMuscleTone},
			Actions: []string{
				"Train compound lifts three times a week",
				"Prioritize overhead press and pull-ups for shoulder width",
			},
		},
		{
			Key:           LeverNutritionPlan,
			Label:         "Nutrition plan",
			MinDelta:      0.3,
			MaxDelta:      0.8,
			Timeline:      TimelineMonths,
			RelatedTraits: []TraitKey{TraitWaistHip, TraitMuscleTone},
			Actions: []string{
				"Set a modest calorie deficit or surplus to goal",
				"Hit a daily protein target of 1.6g/kg",
			},
		},
		{
			Key:           LeverGroomingBasics,
			Label:         "Grooming basics",
			MinDelta:      0.2,
			MaxDelta:      0.4,
			Timeline:      TimelineWeeks,
			RelatedTraits: []TraitKey{TraitGrooming},
			Actions: []string{
				"Keep hair and facial hair deliberately styled",
				"Press or steam clothes before photos",
			},
		},
	}

	return Config{
		Variant:     VariantBody,
		Quality:     defaultQualityRules(),
		Calibration: defaultCalibration(),
		Reference: map[TraitKey]ReferenceStat{
			TraitShoulderHip:   {Mean: 1.45, StdDev: 0.12},
			TraitWaistHip:      {Mean: 0.85, StdDev: 0.08},
			TraitLegTorso:      {Mean: 1.12, StdDev: 0.09},
			TraitShoulderWaist: {Mean: 1.55, StdDev: 0.14},
			TraitPosture:       {Mean: 1.0, StdDev: 0.10},
		},
		Pillars: PillarRules{
			Order: []PillarKey{PillarStructure, PillarFeatures, PillarPresentation, PillarBalance},
			TraitPillar: map[TraitKey]PillarKey{
				TraitShoulderHip:   PillarStructure,
				TraitShoulderWaist: PillarStructure,
				TraitWaistHip:      PillarFeatures,
				TraitLegTorso:      PillarFeatures,
				TraitMuscleTone:    PillarPresentation,
				TraitOutfitFit:     PillarPresentation,
				TraitGrooming:      PillarPresentation,
				TraitPosture:       PillarBalance,
				TraitSymmetry:      PillarBalance,
			},
			Weights: map[Presentation]map[PillarKey]float64{
				PresentationNeutral: {
					PillarStructure:    0.30,
					PillarFeatures:     0.30,
					PillarPresentation: 0.20,
					PillarBalance:      0.20,
				},
				PresentationMasculine: {
					PillarStructure:    0.35,
					PillarFeatures:     0.25,
					PillarPresentation: 0.20,
					PillarBalance:      0.20,
				},
				PresentationFeminine: {
					PillarStructure:    0.25,
					PillarFeatures:     0.35,
					PillarPresentation: 0.20,
					PillarBalance:      0.20,
				},
			},
			SideDependent:  map[PillarKey]bool{PillarBalance: true},
			SideFactor:     0.5,
			AppearanceGate: defaultAppearanceGate,
		},
		Levers: levers,
		Harmony: HarmonyRules{
			Checks: []HarmonyCheck{
				{Trait: TraitShoulderHip, Name: "shoulder_hip"},
				{Trait: TraitWaistHip, Name: "waist_hip"},
				{Trait: TraitLegTorso, Name: "leg_torso"},
				{Trait: TraitShoulderWaist, Name: "v_taper"},
			},
			Golden: &GoldenCheck{
				Trait:  TraitShoulderWaist,
				Name:   "golden_ratio",
				Target: goldenRatio,
				Tiers: []GoldenTier{
					{MaxDeviation: 0.05, Score: 8.0},
					{MaxDeviation: 0.10, Score: 6.5},
					{MaxDeviation: 0.15, Score: 5.0},
				},
				FarScore: 4.0,
			},
			GoodScore:   8.5,
			OKScore:     6.5,
			OffScore:    4.5,
			OKWithinStd: 1.0,
		},
	}
}
