package generator

import (
	"assessflow/internal/config"
	"assessflow/internal/model"
)

// Fallback is the fixed question served whenever synthesis fails. It has no
// placeholders and no skip conditions, so it is valid in any session state.
func Fallback(t *config.Tuning) model.GeneratedQuestion {
	if t == nil {
		t = config.DefaultTuning()
	}
	return model.GeneratedQuestion{
		ID:         "fallback_question",
		Question:   "How would you rate your overall business performance?",
		Type:       model.AnswerScale,
		Options:    append([]string(nil), scaleOptions...),
		Category:   model.CategoryGeneral,
		Difficulty: 3,
		Confidence: t.FallbackConfidence,
		Reasoning:  "Fallback question due to generation constraints",
	}
}
