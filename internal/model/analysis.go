package model

// Trend classifies the direction of a score series
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// ResponsePattern summarizes the raw shape of the answer set
type ResponsePattern struct {
	ResponseCount int      `json:"responseCount"`
	AvgTextLength float64  `json:"avgTextLength"` // mean length of free-text answers
	TypesSeen     []string `json:"typesSeen"`     // sorted answer-value kinds
	Consistency   float64  `json:"consistency"`   // 0-1, from numeric variance
	Engagement    float64  `json:"engagement"`    // 0-1
}

// CategoryStats holds per-category performance on the 0-10 answer scale
type CategoryStats struct {
	Score    float64 `json:"score"` // mean
	Variance float64 `json:"variance"`
	Trend    Trend   `json:"trend"`
	Count    int     `json:"count"`
}

// KnowledgeGap is a category scoring below the gap threshold
type KnowledgeGap struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Severity float64 `json:"severity"` // threshold - score
}

// ConfidenceTrend tracks how numeric answer scores move over the session
type ConfidenceTrend struct {
	Average  float64 `json:"average"`
	Variance float64 `json:"variance"`
	Trend    Trend   `json:"trend"`
}

// AnalysisSnapshot is the derived statistical view of a session. It is
// computed fresh per decision cycle and never persisted.
type AnalysisSnapshot struct {
	Pattern             ResponsePattern          `json:"pattern"`
	CategoryPerformance map[string]CategoryStats `json:"categoryPerformance"`
	KnowledgeGaps       []KnowledgeGap           `json:"knowledgeGaps"` // severity-descending
	ConfidenceTrend     ConfidenceTrend          `json:"confidenceTrend"`
	Engagement          float64                  `json:"engagement"`      // 0-1
	SkipProbability     float64                  `json:"skipProbability"` // 0-1
}

// Gap returns the snapshot's gap entry for a category, if present
func (s *AnalysisSnapshot) Gap(category string) (KnowledgeGap, bool) {
	for _, g := range s.KnowledgeGaps {
		if g.Category == category {
			return g, true
		}
	}
	return KnowledgeGap{}, false
}
