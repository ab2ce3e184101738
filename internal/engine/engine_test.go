package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessflow/internal/graph"
	"assessflow/internal/model"
)

func onboardingContext(step int, responses map[string]interface{}) *model.ConversationContext {
	if responses == nil {
		responses = map[string]interface{}{}
	}
	return &model.ConversationContext{
		SessionID:   "sess-1",
		CurrentStep: step,
		TotalSteps:  9,
		Responses:   responses,
		Confidence:  1.0,
	}
}

func TestDetermineNext_LinearProgression(t *testing.T) {
	e := New(graph.Default(), nil)

	d := e.DetermineNext(onboardingContext(1, map[string]interface{}{
		"business_goal": "Increase revenue",
	}), nil)

	require.False(t, d.Done)
	require.NotNil(t, d.Node)
	assert.Equal(t, "team_size", d.Node.ID)
	assert.False(t, d.Fallback)
}

func TestDetermineNext_ConditionalBranchHolds(t *testing.T) {
	e := New(graph.Default(), nil)

	// tech_level's high-priority conditional fires for teams above 1-10
	d := e.DetermineNext(onboardingContext(4, map[string]interface{}{
		"business_goal": "Increase revenue",
		"team_size":     "11-50",
		"industry":      "Retail",
		"tech_level":    "Intermediate",
	}), nil)

	require.NotNil(t, d.Node)
	assert.Equal(t, "challenge", d.Node.ID)
	assert.Equal(t, model.BranchConditional, d.BranchType)
}

func TestDetermineNext_SkipBranchCarriesReason(t *testing.T) {
	e := New(graph.Default(), nil)

	// For a 1-10 team the conditional fails and the lower-priority skip
	// edge takes over.
	d := e.DetermineNext(onboardingContext(4, map[string]interface{}{
		"business_goal": "Increase revenue",
		"team_size":     "1-10",
		"industry":      "Retail",
		"tech_level":    "Beginner",
	}), nil)

	require.NotNil(t, d.Node)
	assert.Equal(t, "challenge", d.Node.ID)
	assert.Equal(t, model.BranchSkip, d.BranchType)
	assert.NotEmpty(t, d.SkipReason)
}

func TestDetermineNext_StaticSkipConditionsBypassNode(t *testing.T) {
	e := New(graph.Default(), nil)

	// Moving past industry with a 1-10 team: tech_level's own skip
	// conditions exclude it, so the flow lands on challenge directly.
	d := e.DetermineNext(onboardingContext(3, map[string]interface{}{
		"business_goal": "Increase revenue",
		"team_size":     "1-10",
		"industry":      "Retail",
	}), nil)

	require.NotNil(t, d.Node)
	assert.Equal(t, "challenge", d.Node.ID)
}

func TestDetermineNext_NeverRevisitsAnsweredNodes(t *testing.T) {
	e := New(graph.Default(), nil)

	// timeline is already answered; the linear edge from challenge must
	// jump over it.
	d := e.DetermineNext(onboardingContext(5, map[string]interface{}{
		"business_goal": "Increase revenue",
		"team_size":     "11-50",
		"industry":      "Retail",
		"tech_level":    "Advanced",
		"challenge":     "Scaling operations",
		"timeline":      "1-3 months",
	}), nil)

	require.NotNil(t, d.Node)
	assert.Equal(t, "budget", d.Node.ID)
}

func TestDetermineNext_CompleteTarget(t *testing.T) {
	store, err := graph.NewStore(graph.Definition{
		Nodes: []model.QuestionNode{
			{ID: "only", Prompt: "Only?", Type: model.AnswerText},
			{ID: "last", Prompt: "Last?", Type: model.AnswerText},
		},
		Rules: map[string][]model.BranchingRule{
			"only": {{NextNodeID: graph.Complete, BranchType: model.BranchLinear, Priority: 5}},
		},
	})
	require.NoError(t, err)

	e := New(store, nil)
	d := e.DetermineNext(&model.ConversationContext{
		SessionID:   "sess-1",
		CurrentStep: 1,
		TotalSteps:  2,
		Responses:   map[string]interface{}{"only": "yes"},
		Confidence:  1.0,
	}, nil)

	assert.True(t, d.Done)
	assert.Nil(t, d.Node)
}

func TestDetermineNext_ExhaustedFlowCompletes(t *testing.T) {
	e := New(graph.Default(), nil)

	d := e.DetermineNext(onboardingContext(9, nil), nil)
	assert.True(t, d.Done)
}

func TestDetermineNext_PriorityOrderAndTieBreak(t *testing.T) {
	store, err := graph.NewStore(graph.Definition{
		Nodes: []model.QuestionNode{
			{ID: "start", Prompt: "Start?", Type: model.AnswerText},
			{ID: "a", Prompt: "A?", Type: model.AnswerText},
			{ID: "b", Prompt: "B?", Type: model.AnswerText},
			{ID: "c", Prompt: "C?", Type: model.AnswerText},
		},
		Rules: map[string][]model.BranchingRule{
			"start": {
				{NextNodeID: "c", BranchType: model.BranchConditional, Priority: 1},
				{NextNodeID: "a", BranchType: model.BranchConditional, Priority: 3},
				{NextNodeID: "b", BranchType: model.BranchConditional, Priority: 3},
			},
		},
	})
	require.NoError(t, err)

	e := New(store, nil)
	cc := &model.ConversationContext{
		SessionID:   "sess-1",
		CurrentStep: 1,
		TotalSteps:  4,
		Responses:   map[string]interface{}{"start": "x"},
		Confidence:  1.0,
	}

	// All three rules match (no conditions); the higher priority wins and
	// declaration order breaks the tie between a and b.
	d := e.DetermineNext(cc, nil)
	require.NotNil(t, d.Node)
	assert.Equal(t, "a", d.Node.ID)
}

func TestDetermineNext_IsDeterministic(t *testing.T) {
	e := New(graph.Default(), nil)
	cc := onboardingContext(4, map[string]interface{}{
		"business_goal": "Expand market",
		"team_size":     "51-200",
		"industry":      "Finance",
		"tech_level":    "Advanced",
	})

	first := e.DetermineNext(cc, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.DetermineNext(cc, nil))
	}
}

func TestDetermineNext_FallbackOnInvalidContext(t *testing.T) {
	e := New(graph.Default(), nil)

	tests := []struct {
		name string
		cc   *model.ConversationContext
	}{
		{"nil context", nil},
		{"missing session id", &model.ConversationContext{CurrentStep: 1, TotalSteps: 9, Confidence: 1}},
		{"zero total steps", &model.ConversationContext{SessionID: "s", CurrentStep: 1, Confidence: 1}},
		{"step below one", &model.ConversationContext{SessionID: "s", CurrentStep: 0, TotalSteps: 9, Confidence: 1}},
		{"confidence out of range", &model.ConversationContext{SessionID: "s", CurrentStep: 1, TotalSteps: 9, Confidence: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.DetermineNext(tt.cc, nil)
			require.True(t, d.Fallback)
			require.NotNil(t, d.Node)
			assert.Equal(t, "fallback", d.Node.ID)
			assert.NotEmpty(t, d.FallbackReason)
			assert.False(t, d.Done)
		})
	}
}

func TestDetermineNext_FallbackOnEvaluationError(t *testing.T) {
	store, err := graph.NewStore(graph.Definition{
		Nodes: []model.QuestionNode{
			{ID: "first", Prompt: "First?", Type: model.AnswerText},
			{ID: "second", Prompt: "Second?", Type: model.AnswerText},
		},
		Rules: map[string][]model.BranchingRule{
			"first": {{
				NextNodeID: "second",
				BranchType: model.BranchConditional,
				Conditions: []model.Condition{
					{Field: "first", Operator: model.OpGreaterThan, Value: 3},
				},
				Priority: 5,
			}},
		},
	})
	require.NoError(t, err)

	e := New(store, nil)
	d := e.DetermineNext(&model.ConversationContext{
		SessionID:   "sess-1",
		CurrentStep: 1,
		TotalSteps:  2,
		Responses:   map[string]interface{}{"first": "not a number"},
		Confidence:  1.0,
	}, nil)

	assert.True(t, d.Fallback)
	require.NotNil(t, d.Node)
	assert.Equal(t, "fallback", d.Node.ID)
}

func TestCurrent_AppliesAdaptiveHooks(t *testing.T) {
	e := New(graph.Default(), nil)

	d := e.Current(onboardingContext(5, map[string]interface{}{
		"business_goal": "Increase revenue",
		"team_size":     "11-50",
		"industry":      "Retail",
		"tech_level":    "Advanced",
	}))

	require.NotNil(t, d.Node)
	assert.Equal(t, "challenge", d.Node.ID)
	assert.Equal(t, "What's your biggest challenge in Retail right now?", d.Node.Prompt)

	// The store's copy is untouched
	stored, ok := graph.Default().Node("challenge")
	require.True(t, ok)
	assert.Contains(t, stored.Prompt, "{{industry}}")
}
