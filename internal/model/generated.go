package model

// SkipRule is a dynamically generated condition under which a synthesized
// question should be bypassed by the caller.
type SkipRule struct {
	Type      string  `json:"type"` // "engagement", "category_coverage"
	Threshold float64 `json:"threshold"`
	Action    string  `json:"action"` // always "skip"
}

// GeneratedQuestion is the output of the adaptive synthesizer
type GeneratedQuestion struct {
	ID                string     `json:"id"`
	Question          string     `json:"question"`
	Type              AnswerType `json:"type"`
	Options           []string   `json:"options,omitempty"`
	Category          string     `json:"category"`
	Difficulty        int        `json:"difficulty"` // 1..5
	Confidence        float64    `json:"confidence"` // 0-1
	Reasoning         string     `json:"reasoning"`
	FollowUpQuestions []string   `json:"followUpQuestions,omitempty"`
	SkipConditions    []SkipRule `json:"skipConditions,omitempty"`
}

// QuestionGenerationRequest asks the synthesizer for one adaptive question
type QuestionGenerationRequest struct {
	AssessmentType   string                 `json:"assessmentType"`
	CurrentResponses map[string]interface{} `json:"currentResponses"`
	UserProfile      UserProfile            `json:"userProfile"`
	QuestionHistory  []string               `json:"questionHistory"`
	Difficulty       int                    `json:"difficulty"` // 1..5
	Category         string                 `json:"category,omitempty"`
	Context          map[string]interface{} `json:"context,omitempty"`
}

// Generation wraps a synthesized question so callers can tell normal output
// from a recovered fallback without parsing logs.
type Generation struct {
	Question GeneratedQuestion `json:"question"`
	Fallback bool              `json:"fallback"`
	Reason   string            `json:"reason,omitempty"` // why the fallback fired
}
