package config

// Tuning collects every heuristic constant of the decision pipeline in one
// overridable place. The values are carried over from the original assessment
// flow unchanged; none of them has a documented derivation, so treat them as
// product-calibrated rather than principled.
type Tuning struct {
	// Analysis
	GapThreshold        float64 // category mean below this (0-10) is a knowledge gap
	VarianceScale       float64 // normalizes numeric variance into consistency
	EngagementDivisor   float64 // engagement = min(1, answers/divisor)
	LongTextLen         int     // free-text answers over this length earn a bonus
	TextBonus           float64 // engagement bonus per long free-text answer
	TextBonusCap        float64 // total cap on free-text engagement bonus
	TrendWindow         int     // trailing answers compared against the rest
	TrendThreshold      float64 // mean delta needed to call a trend

	// Skip probability
	SkipBase          float64
	SkipStep          float64 // added once past ManyAnswers, again past VeryManyAnswers
	ManyAnswers       int
	VeryManyAnswers   int
	SkipLowConfidence float64 // added when context confidence < LowConfidence
	LowConfidence     float64
	SkipLateStage     float64 // added when step ratio > LateStageRatio
	LateStageRatio    float64
	SkipCap           float64

	// Difficulty calibration
	HighScore float64 // category mean at or above this raises difficulty
	LowScore  float64 // category mean at or below this lowers difficulty

	// Question type selection
	LowEngagement  float64 // below: multiple choice
	HighEngagement float64 // above (plus open-ended category): free text

	// Confidence scoring
	ConfidenceBase    float64
	ConfidenceStep    float64
	WeakCategory      float64 // category mean below this lowers confidence
	StrongCategory    float64 // category mean above this raises confidence
	Underperforming   float64 // category mean below this is flagged in reasoning
	Challenging       int     // difficulty above this is called out as challenging
	HardDifficulty    int     // difficulty above this lowers confidence
	EasyDifficulty    int     // difficulty below this raises confidence
	ConfidenceFloor   float64
	FallbackConfidence float64

	// Generated skip rules
	CategoryCoverageLimit int     // answers in one category before skipping it
	MinProfileEngagement  float64 // profile engagement below this skips entirely
}

// DefaultTuning returns the calibration used in production
func DefaultTuning() *Tuning {
	return &Tuning{
		GapThreshold:      6.0,
		VarianceScale:     10.0,
		EngagementDivisor: 10.0,
		LongTextLen:       10,
		TextBonus:         0.1,
		TextBonusCap:      0.3,
		TrendWindow:       3,
		TrendThreshold:    1.0,

		SkipBase:          0.1,
		SkipStep:          0.1,
		ManyAnswers:       5,
		VeryManyAnswers:   10,
		SkipLowConfidence: 0.2,
		LowConfidence:     0.5,
		SkipLateStage:     0.1,
		LateStageRatio:    0.8,
		SkipCap:           0.8,

		HighScore: 8.0,
		LowScore:  4.0,

		LowEngagement:  0.5,
		HighEngagement: 0.8,

		ConfidenceBase:     0.8,
		ConfidenceStep:     0.1,
		WeakCategory:       5.0,
		StrongCategory:     8.0,
		Underperforming:    6.0,
		Challenging:        3,
		HardDifficulty:     4,
		EasyDifficulty:     2,
		ConfidenceFloor:    0.1,
		FallbackConfidence: 0.5,

		CategoryCoverageLimit: 5,
		MinProfileEngagement:  0.3,
	}
}
