package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessflow/internal/model"
)

func contextWith(responses map[string]interface{}) *model.ConversationContext {
	return &model.ConversationContext{
		SessionID:   "sess-1",
		CurrentStep: 1,
		TotalSteps:  9,
		Responses:   responses,
		Confidence:  1.0,
	}
}

func TestSnapshot_ZeroResponses(t *testing.T) {
	b := NewBuilder(nil, nil)

	snap := b.Snapshot(contextWith(map[string]interface{}{}), nil)

	assert.Equal(t, 0, snap.Pattern.ResponseCount)
	assert.Zero(t, snap.Pattern.AvgTextLength)
	assert.Empty(t, snap.Pattern.TypesSeen)
	assert.Zero(t, snap.Engagement)
	assert.Empty(t, snap.KnowledgeGaps)
	assert.Empty(t, snap.CategoryPerformance)
	assert.Equal(t, model.TrendStable, snap.ConfidenceTrend.Trend)
	// Only the base term applies with no answers and full confidence
	assert.InDelta(t, 0.1, snap.SkipProbability, 1e-9)
}

func TestSnapshot_PatternShape(t *testing.T) {
	b := NewBuilder(nil, nil)

	snap := b.Snapshot(contextWith(map[string]interface{}{
		"q1": "short",
		"q2": "a considerably longer free text answer",
		"q3": 7.0,
		"q4": 7.0,
		"q5": true,
	}), nil)

	assert.Equal(t, 5, snap.Pattern.ResponseCount)
	assert.Equal(t, []string{"boolean", "numeric", "text"}, snap.Pattern.TypesSeen)
	// Text length averages over the two text answers only
	assert.InDelta(t, float64(len("short")+len("a considerably longer free text answer"))/2, snap.Pattern.AvgTextLength, 1e-9)
	// Identical numeric answers have zero variance
	assert.InDelta(t, 1.0, snap.Pattern.Consistency, 1e-9)
	// 5 answers plus one long-text bonus
	assert.InDelta(t, 0.6, snap.Engagement, 1e-9)
}

func TestSnapshot_CategoryPerformanceAndGaps(t *testing.T) {
	b := NewBuilder(nil, nil)

	snap := b.Snapshot(contextWith(map[string]interface{}{
		"strategy_q1":   9.0,
		"technology_q1": 2.0,
		"process_q1":    4.0,
	}), nil)

	require.Contains(t, snap.CategoryPerformance, "strategy")
	require.Contains(t, snap.CategoryPerformance, "technology")
	require.Contains(t, snap.CategoryPerformance, "process")
	assert.InDelta(t, 9.0, snap.CategoryPerformance["strategy"].Score, 1e-9)

	// Both weak categories are gaps, most severe first
	require.Len(t, snap.KnowledgeGaps, 2)
	assert.Equal(t, "technology", snap.KnowledgeGaps[0].Category)
	assert.InDelta(t, 4.0, snap.KnowledgeGaps[0].Severity, 1e-9)
	assert.Equal(t, "process", snap.KnowledgeGaps[1].Category)
}

func TestSnapshot_GapTieBreaksAlphabetically(t *testing.T) {
	b := NewBuilder(nil, nil)

	snap := b.Snapshot(contextWith(map[string]interface{}{
		"technology_q1": 3.0,
		"process_q1":    3.0,
	}), nil)

	require.Len(t, snap.KnowledgeGaps, 2)
	assert.Equal(t, "process", snap.KnowledgeGaps[0].Category)
	assert.Equal(t, "technology", snap.KnowledgeGaps[1].Category)
}

func TestSnapshot_TrendFromRecordOrder(t *testing.T) {
	b := NewBuilder(nil, nil)

	base := time.Now()
	var records []model.ResponseRecord
	for i, score := range []float64{2, 2, 2, 8, 8, 8} {
		records = append(records, model.ResponseRecord{
			ID:         "r",
			SessionID:  "sess-1",
			QuestionID: "strategy_q",
			Answer:     score,
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		})
	}

	snap := b.Snapshot(contextWith(map[string]interface{}{}), records)
	assert.Equal(t, model.TrendImproving, snap.ConfidenceTrend.Trend)
	assert.Equal(t, model.TrendImproving, snap.CategoryPerformance["strategy"].Trend)

	// Reversed scores decline
	for i := range records {
		records[i].Answer = []float64{8, 8, 8, 2, 2, 2}[i]
	}
	snap = b.Snapshot(contextWith(map[string]interface{}{}), records)
	assert.Equal(t, model.TrendDeclining, snap.ConfidenceTrend.Trend)
}

func TestSnapshot_TrendStableOnShortSeries(t *testing.T) {
	b := NewBuilder(nil, nil)

	snap := b.Snapshot(contextWith(map[string]interface{}{
		"q1": 2.0,
		"q2": 9.0,
	}), nil)
	assert.Equal(t, model.TrendStable, snap.ConfidenceTrend.Trend)
}

func TestSnapshot_SkipProbabilityAccumulates(t *testing.T) {
	b := NewBuilder(nil, nil)

	responses := make(map[string]interface{})
	for i := 0; i < 11; i++ {
		responses[string(rune('a'+i))] = "x"
	}

	cc := &model.ConversationContext{
		SessionID:   "sess-1",
		CurrentStep: 9,
		TotalSteps:  10,
		Responses:   responses,
		Confidence:  0.3,
	}

	snap := b.Snapshot(cc, nil)
	// base + many + very many + low confidence + late stage
	assert.InDelta(t, 0.6, snap.SkipProbability, 1e-9)
	assert.LessOrEqual(t, snap.SkipProbability, 0.8)
}

func TestSnapshot_DeterministicWithoutRecords(t *testing.T) {
	b := NewBuilder(nil, nil)
	responses := map[string]interface{}{
		"strategy_q1": 5.0,
		"team_q1":     "we sync weekly",
		"process_q1":  3.0,
	}

	first := b.Snapshot(contextWith(responses), nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, b.Snapshot(contextWith(responses), nil))
	}
}
