package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessflow/internal/model"
)

func validDefinition() Definition {
	return Definition{
		Nodes: []model.QuestionNode{
			{ID: "first", Prompt: "First?", Type: model.AnswerText},
			{ID: "second", Prompt: "Second?", Type: model.AnswerText, Dependencies: []string{"first"}},
		},
		Rules: map[string][]model.BranchingRule{
			"first": {{NextNodeID: "second", BranchType: model.BranchLinear, Priority: 5}},
		},
	}
}

func TestNewStore_ValidDefinition(t *testing.T) {
	s, err := NewStore(validDefinition())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	n, ok := s.Node("first")
	require.True(t, ok)
	// Defaults are filled in for omitted fields
	assert.Equal(t, model.CategoryGeneral, n.Category)
	assert.Equal(t, 3, n.BaseDifficulty)

	succ, ok := s.Successor("first")
	require.True(t, ok)
	assert.Equal(t, "second", succ)

	_, ok = s.Successor("second")
	assert.False(t, ok)

	pos, ok := s.Position("second")
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestNewStore_RejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"no nodes", func(d *Definition) { d.Nodes = nil }},
		{"empty node id", func(d *Definition) { d.Nodes[0].ID = "" }},
		{"duplicate node id", func(d *Definition) { d.Nodes[1].ID = "first" }},
		{"dependency on later node", func(d *Definition) { d.Nodes[0].Dependencies = []string{"second"} }},
		{"dependency on unknown node", func(d *Definition) { d.Nodes[1].Dependencies = []string{"ghost"} }},
		{"rule targets unknown node", func(d *Definition) {
			d.Rules["first"] = []model.BranchingRule{{NextNodeID: "ghost", BranchType: model.BranchLinear, Priority: 5}}
		}},
		{"rules for unknown node", func(d *Definition) {
			d.Rules["ghost"] = []model.BranchingRule{{NextNodeID: "first", BranchType: model.BranchLinear, Priority: 5}}
		}},
		{"priority below range", func(d *Definition) { d.Rules["first"][0].Priority = 0 }},
		{"priority above range", func(d *Definition) { d.Rules["first"][0].Priority = 6 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(&def)
			_, err := NewStore(def)
			assert.Error(t, err)
		})
	}
}

func TestNewStore_SortsRulesByPriority(t *testing.T) {
	def := Definition{
		Nodes: []model.QuestionNode{
			{ID: "a", Prompt: "A?", Type: model.AnswerText},
			{ID: "b", Prompt: "B?", Type: model.AnswerText},
			{ID: "c", Prompt: "C?", Type: model.AnswerText},
		},
		Rules: map[string][]model.BranchingRule{
			"a": {
				{NextNodeID: "b", BranchType: model.BranchConditional, Priority: 1},
				{NextNodeID: "c", BranchType: model.BranchConditional, Priority: 5},
				{NextNodeID: "b", BranchType: model.BranchSkip, Priority: 5},
				{NextNodeID: "c", BranchType: model.BranchConditional, Priority: 3},
			},
		},
	}

	s, err := NewStore(def)
	require.NoError(t, err)

	rules := s.Rules("a")
	require.Len(t, rules, 4)
	assert.Equal(t, []int{5, 5, 3, 1}, []int{rules[0].Priority, rules[1].Priority, rules[2].Priority, rules[3].Priority})
	// Declaration order preserved between the two priority-5 rules
	assert.Equal(t, model.BranchConditional, rules[0].BranchType)
	assert.Equal(t, model.BranchSkip, rules[1].BranchType)
}

func TestDefault_BuiltInFlow(t *testing.T) {
	s := Default()
	assert.Equal(t, 9, s.Len())

	first, ok := s.NodeAt(0)
	require.True(t, ok)
	assert.Equal(t, "business_goal", first.ID)

	// The closing node routes to completion
	rules := s.Rules("next_action")
	require.Len(t, rules, 1)
	assert.Equal(t, Complete, rules[0].NextNodeID)

	// tech_level carries both the conditional edge and the skip edge
	rules = s.Rules("tech_level")
	require.Len(t, rules, 2)
	assert.Equal(t, model.BranchConditional, rules[0].BranchType)
	assert.Equal(t, model.BranchSkip, rules[1].BranchType)
}

func TestStore_CategoryFallsBackToDerived(t *testing.T) {
	s := Default()
	assert.Equal(t, model.CategoryTeam, s.Category("team_size"))
	assert.Equal(t, model.CategoryTechnology, s.Category("generated_technology_probe"))
	assert.Equal(t, model.CategoryGeneral, s.Category("something_else"))
}
