package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessflow/internal/model"
)

func baseRequest() *model.QuestionGenerationRequest {
	return &model.QuestionGenerationRequest{
		AssessmentType:   "standard",
		CurrentResponses: map[string]interface{}{},
		Difficulty:       3,
	}
}

func TestGenerate_InvalidRequestsFallBack(t *testing.T) {
	g := New(nil)

	tests := []struct {
		name string
		req  *model.QuestionGenerationRequest
	}{
		{"nil request", nil},
		{"missing assessment type", &model.QuestionGenerationRequest{Difficulty: 3}},
		{"difficulty too low", &model.QuestionGenerationRequest{AssessmentType: "standard", Difficulty: 0}},
		{"difficulty too high", &model.QuestionGenerationRequest{AssessmentType: "standard", Difficulty: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := g.Generate(tt.req)
			assert.True(t, gen.Fallback)
			assert.NotEmpty(t, gen.Reason)
			assert.Equal(t, Fallback(nil), gen.Question)
		})
	}
}

func TestGenerate_IsIdempotent(t *testing.T) {
	g := New(nil)
	req := baseRequest()
	req.CurrentResponses = map[string]interface{}{
		"strategy_q1":   8.0,
		"technology_q1": 3.0,
	}
	req.QuestionHistory = []string{"strategy_q1", "technology_q1"}

	first := g.Generate(req)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, g.Generate(req))
	}
	assert.True(t, strings.HasPrefix(first.Question.ID, "generated_"))
}

func TestGenerate_TargetsKnowledgeGap(t *testing.T) {
	g := New(nil)
	req := baseRequest()
	req.CurrentResponses = map[string]interface{}{
		"strategy_q1":   9.0,
		"technology_q1": 2.0,
	}

	gen := g.Generate(req)
	require.False(t, gen.Fallback)

	q := gen.Question
	assert.Equal(t, model.CategoryTechnology, q.Category)
	// Weak category evidence lowers difficulty from the requested 3
	assert.Equal(t, 2, q.Difficulty)
	// Low engagement (two answers) forces multiple choice
	assert.Equal(t, model.AnswerMultipleChoice, q.Type)
	assert.NotEmpty(t, q.Options)
	// Base confidence minus the weak-category step
	assert.InDelta(t, 0.7, q.Confidence, 1e-9)
	assert.Contains(t, q.Reasoning, "Addressing identified knowledge gap")
	assert.Contains(t, q.Reasoning, "Focusing on underperforming category")
	assert.Equal(t, []string{"What technology stack are you currently using?", "How do you handle technology decisions?"}, q.FollowUpQuestions)
}

func TestGenerate_RaisesDifficultyForStrongCategory(t *testing.T) {
	g := New(nil)
	req := baseRequest()
	req.CurrentResponses = map[string]interface{}{"strategy_q1": 9.0}
	req.Difficulty = 3

	gen := g.Generate(req)
	require.False(t, gen.Fallback)

	q := gen.Question
	assert.Equal(t, model.CategoryStrategy, q.Category)
	assert.Equal(t, 4, q.Difficulty)
	// Strong category evidence raises confidence a step
	assert.InDelta(t, 0.9, q.Confidence, 1e-9)
	assert.Contains(t, q.Reasoning, "Challenging question to assess depth of knowledge")
	assert.NotContains(t, q.Reasoning, "knowledge gap")
}

func TestGenerate_HardQuestionsWidenOptions(t *testing.T) {
	g := New(nil)
	req := baseRequest()
	req.CurrentResponses = map[string]interface{}{"strategy_q1": 9.0}
	req.Difficulty = 5

	gen := g.Generate(req)
	require.False(t, gen.Fallback)

	q := gen.Question
	assert.Equal(t, 5, q.Difficulty)
	require.NotEmpty(t, q.Options)
	assert.Equal(t, "Not applicable", q.Options[len(q.Options)-2])
	assert.Equal(t, "Need more information", q.Options[len(q.Options)-1])
}

func TestGenerate_ComprehensiveUsesScale(t *testing.T) {
	g := New(nil)
	req := baseRequest()
	req.AssessmentType = "comprehensive"
	// Enough answers to clear the low-engagement floor
	req.CurrentResponses = map[string]interface{}{
		"strategy_q1": 7.0, "strategy_q2": 7.0, "strategy_q3": 7.0,
		"strategy_q4": 7.0, "strategy_q5": 7.0,
	}

	gen := g.Generate(req)
	require.False(t, gen.Fallback)
	assert.Equal(t, model.AnswerScale, gen.Question.Type)
	assert.Equal(t, scaleOptions, gen.Question.Options)
}

func TestGenerate_FallsBackToRequestedCategory(t *testing.T) {
	g := New(nil)
	req := baseRequest()
	req.Category = model.CategoryProcess

	gen := g.Generate(req)
	require.False(t, gen.Fallback)
	assert.Equal(t, model.CategoryProcess, gen.Question.Category)

	// And to strategy when nothing is known at all
	gen = g.Generate(baseRequest())
	require.False(t, gen.Fallback)
	assert.Equal(t, model.CategoryStrategy, gen.Question.Category)
}

func TestGenerate_SubstitutesProfilePlaceholders(t *testing.T) {
	reg := NewRegistry()
	reg.Add(model.CategoryStrategy, model.AnswerMultipleChoice, 3, Template{
		Question: "What is your priority in {{industry}} with a team of {{teamSize}}?",
		Options:  []string{"Growth", "Efficiency", "Innovation", "Stability"},
	})

	g := New(nil, WithRegistry(reg))
	req := baseRequest()
	req.UserProfile = model.UserProfile{Industry: "fintech", TeamSize: "11-50"}

	gen := g.Generate(req)
	require.False(t, gen.Fallback)
	assert.Equal(t, "What is your priority in fintech with a team of 11-50?", gen.Question.Question)

	// Unset profile fields fall back to neutral wording
	gen = g.Generate(baseRequest())
	require.False(t, gen.Fallback)
	assert.NotContains(t, gen.Question.Question, "{{")
}

func TestGenerate_SkipRules(t *testing.T) {
	g := New(nil)

	t.Run("low profile engagement", func(t *testing.T) {
		req := baseRequest()
		req.UserProfile.Engagement = 0.2

		gen := g.Generate(req)
		require.False(t, gen.Fallback)
		require.Len(t, gen.Question.SkipConditions, 1)
		assert.Equal(t, "engagement", gen.Question.SkipConditions[0].Type)
		assert.Equal(t, "skip", gen.Question.SkipConditions[0].Action)
	})

	t.Run("category already covered", func(t *testing.T) {
		req := baseRequest()
		req.CurrentResponses = map[string]interface{}{
			"strategy_q1": 1.0, "strategy_q2": 1.0, "strategy_q3": 1.0,
			"strategy_q4": 1.0, "strategy_q5": 1.0, "strategy_q6": 1.0,
		}

		gen := g.Generate(req)
		require.False(t, gen.Fallback)
		require.Len(t, gen.Question.SkipConditions, 1)
		assert.Equal(t, "category_coverage", gen.Question.SkipConditions[0].Type)
	})

	t.Run("unset profile engagement stays neutral", func(t *testing.T) {
		gen := g.Generate(baseRequest())
		require.False(t, gen.Fallback)
		assert.Empty(t, gen.Question.SkipConditions)
	})
}

func TestGenerate_PickerSelectsAmongCandidates(t *testing.T) {
	reg := NewRegistry()
	reg.Add(model.CategoryStrategy, model.AnswerMultipleChoice, 3, Template{Question: "first", Options: []string{"a", "b"}})
	reg.Add(model.CategoryStrategy, model.AnswerMultipleChoice, 3, Template{Question: "second", Options: []string{"a", "b"}})

	def := New(nil, WithRegistry(reg))
	gen := def.Generate(baseRequest())
	require.False(t, gen.Fallback)
	assert.Equal(t, "first", gen.Question.Question)

	alt := New(nil, WithRegistry(reg), WithPicker(func(n int) int { return 1 }))
	gen = alt.Generate(baseRequest())
	require.False(t, gen.Fallback)
	assert.Equal(t, "second", gen.Question.Question)
}

func TestConfidence_StaysWithinBounds(t *testing.T) {
	g := New(nil)

	for _, difficulty := range []int{1, 2, 3, 4, 5} {
		req := baseRequest()
		req.Difficulty = difficulty
		req.CurrentResponses = map[string]interface{}{"strategy_q1": 1.0}

		gen := g.Generate(req)
		require.False(t, gen.Fallback)
		assert.GreaterOrEqual(t, gen.Question.Confidence, 0.1)
		assert.LessOrEqual(t, gen.Question.Confidence, 1.0)
	}
}

func TestBucketFor_TiesRoundDown(t *testing.T) {
	assert.Equal(t, 1, bucketFor(1))
	assert.Equal(t, 1, bucketFor(2))
	assert.Equal(t, 3, bucketFor(3))
	assert.Equal(t, 3, bucketFor(4))
	assert.Equal(t, 5, bucketFor(5))
}

func TestFallback_IsAlwaysServable(t *testing.T) {
	q := Fallback(nil)
	assert.Equal(t, "fallback_question", q.ID)
	assert.Equal(t, model.AnswerScale, q.Type)
	assert.Len(t, q.Options, 5)
	assert.Equal(t, model.CategoryGeneral, q.Category)
	assert.Equal(t, 3, q.Difficulty)
	assert.InDelta(t, 0.5, q.Confidence, 1e-9)
	assert.Empty(t, q.SkipConditions)
	assert.NotContains(t, q.Question, "{{")
}
