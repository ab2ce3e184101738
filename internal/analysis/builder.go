// Package analysis turns a session's raw answers into the statistical
// snapshot the branching and generation stages decide on. Everything here is
// pure: identical input always yields an identical snapshot, which keeps
// decision cycles reproducible and safe to run concurrently across sessions.
package analysis

import (
	"math"
	"sort"

	"assessflow/internal/config"
	"assessflow/internal/model"
)

// Builder computes AnalysisSnapshots. The category function maps a question
// id to its assessment category; it defaults to the derived mapping when nil.
type Builder struct {
	tuning   *config.Tuning
	category func(string) string
}

func NewBuilder(tuning *config.Tuning, categoryFn func(string) string) *Builder {
	if tuning == nil {
		tuning = config.DefaultTuning()
	}
	if categoryFn == nil {
		categoryFn = model.CategoryOf
	}
	return &Builder{tuning: tuning, category: categoryFn}
}

// Snapshot derives the full statistical view of a session. Records, when
// available, provide chronological answer order for the trend windows; with
// only the context's answer map the order falls back to sorted question ids,
// which keeps the result deterministic either way.
func (b *Builder) Snapshot(cc *model.ConversationContext, records []model.ResponseRecord) *model.AnalysisSnapshot {
	ids, answers := orderedAnswers(cc, records)

	snap := &model.AnalysisSnapshot{
		Pattern:             b.responsePattern(answers),
		CategoryPerformance: b.categoryPerformance(ids, answers),
		ConfidenceTrend:     b.confidenceTrend(answers),
		SkipProbability:     b.skipProbability(cc),
	}
	snap.Engagement = snap.Pattern.Engagement
	snap.KnowledgeGaps = b.knowledgeGaps(snap.CategoryPerformance)
	return snap
}

// orderedAnswers flattens the answer set into parallel id/value slices in a
// deterministic order: record order when records cover the context, sorted id
// order otherwise.
func orderedAnswers(cc *model.ConversationContext, records []model.ResponseRecord) ([]string, []interface{}) {
	if len(records) > 0 {
		ids := make([]string, 0, len(records))
		answers := make([]interface{}, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.QuestionID)
			answers = append(answers, r.Answer)
		}
		return ids, answers
	}

	ids := make([]string, 0, len(cc.Responses))
	for id := range cc.Responses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	answers := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		answers = append(answers, cc.Responses[id])
	}
	return ids, answers
}

func (b *Builder) responsePattern(answers []interface{}) model.ResponsePattern {
	p := model.ResponsePattern{ResponseCount: len(answers)}
	if len(answers) == 0 {
		p.TypesSeen = []string{}
		return p
	}

	types := make(map[string]bool)
	var textLen, textCount, longTexts int
	var numeric []float64
	for _, a := range answers {
		switch v := a.(type) {
		case string:
			types["text"] = true
			textLen += len(v)
			textCount++
			if len(v) > b.tuning.LongTextLen {
				longTexts++
			}
		case bool:
			types["boolean"] = true
		default:
			if f, ok := numericValue(a); ok {
				types["numeric"] = true
				numeric = append(numeric, f)
			} else {
				types["other"] = true
			}
		}
	}

	p.TypesSeen = make([]string, 0, len(types))
	for t := range types {
		p.TypesSeen = append(p.TypesSeen, t)
	}
	sort.Strings(p.TypesSeen)

	if textCount > 0 {
		p.AvgTextLength = float64(textLen) / float64(textCount)
	}

	// Consistency only means something once there are at least two numeric
	// answers to vary between.
	if len(numeric) > 1 {
		p.Consistency = math.Max(0, 1-variance(numeric)/b.tuning.VarianceScale)
	}

	textBonus := math.Min(b.tuning.TextBonusCap, float64(longTexts)*b.tuning.TextBonus)
	p.Engagement = math.Min(1, float64(len(answers))/b.tuning.EngagementDivisor+textBonus)
	return p
}

func (b *Builder) categoryPerformance(ids []string, answers []interface{}) map[string]model.CategoryStats {
	series := make(map[string][]float64)
	for i, id := range ids {
		score, _ := numericValue(answers[i]) // non-numeric answers score 0
		cat := b.category(id)
		series[cat] = append(series[cat], score)
	}

	perf := make(map[string]model.CategoryStats, len(series))
	for cat, scores := range series {
		perf[cat] = model.CategoryStats{
			Score:    mean(scores),
			Variance: variance(scores),
			Trend:    b.trend(scores),
			Count:    len(scores),
		}
	}
	return perf
}

func (b *Builder) knowledgeGaps(perf map[string]model.CategoryStats) []model.KnowledgeGap {
	cats := make([]string, 0, len(perf))
	for c := range perf {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	gaps := make([]model.KnowledgeGap, 0)
	for _, c := range cats {
		if s := perf[c].Score; s < b.tuning.GapThreshold {
			gaps = append(gaps, model.KnowledgeGap{
				Category: c,
				Score:    s,
				Severity: b.tuning.GapThreshold - s,
			})
		}
	}
	// Severity descending; the stable sort keeps the alphabetical pre-order
	// on exact ties so output never depends on map iteration.
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Severity > gaps[j].Severity
	})
	return gaps
}

func (b *Builder) confidenceTrend(answers []interface{}) model.ConfidenceTrend {
	var scores []float64
	for _, a := range answers {
		if f, ok := numericValue(a); ok {
			scores = append(scores, f)
		}
	}
	return model.ConfidenceTrend{
		Average:  mean(scores),
		Variance: variance(scores),
		Trend:    b.trend(scores),
	}
}

func (b *Builder) skipProbability(cc *model.ConversationContext) float64 {
	p := b.tuning.SkipBase

	count := len(cc.Responses)
	if count > b.tuning.ManyAnswers {
		p += b.tuning.SkipStep
	}
	if count > b.tuning.VeryManyAnswers {
		p += b.tuning.SkipStep
	}
	if cc.Confidence < b.tuning.LowConfidence {
		p += b.tuning.SkipLowConfidence
	}
	if cc.TotalSteps > 0 && float64(cc.CurrentStep)/float64(cc.TotalSteps) > b.tuning.LateStageRatio {
		p += b.tuning.SkipLateStage
	}

	return math.Min(b.tuning.SkipCap, p)
}

// trend compares the trailing window against the earlier answers
func (b *Builder) trend(scores []float64) model.Trend {
	if len(scores) < 2 || len(scores) <= b.tuning.TrendWindow {
		return model.TrendStable
	}
	cut := len(scores) - b.tuning.TrendWindow
	earlier, recent := mean(scores[:cut]), mean(scores[cut:])
	switch {
	case recent > earlier+b.tuning.TrendThreshold:
		return model.TrendImproving
	case recent < earlier-b.tuning.TrendThreshold:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func variance(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := mean(vals)
	var sum float64
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vals))
}

// numericValue coerces the numeric shapes JSON and BSON decoding produce
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
