package graph

import "assessflow/internal/model"

// Default returns the built-in onboarding assessment flow. The definition is
// static, so a validation failure here is a programming error worth a panic
// rather than a recoverable condition.
func Default() *Store {
	s, err := NewStore(defaultDefinition())
	if err != nil {
		panic("graph: built-in flow failed validation: " + err.Error())
	}
	return s
}

func defaultDefinition() Definition {
	nodes := []model.QuestionNode{
		{
			ID:             "business_goal",
			Prompt:         "What's your primary business goal?",
			Type:           model.AnswerMultipleChoice,
			Options:        []string{"Increase revenue", "Improve efficiency", "Expand market", "Reduce costs", "Improve team performance"},
			Category:       model.CategoryStrategy,
			BaseDifficulty: 2,
		},
		{
			ID:             "team_size",
			Prompt:         "How many people are in your organization?",
			Type:           model.AnswerMultipleChoice,
			Options:        []string{"1-10", "11-50", "51-200", "201-1000", "1000+"},
			Category:       model.CategoryTeam,
			BaseDifficulty: 1,
			Dependencies:   []string{"business_goal"},
		},
		{
			ID:             "industry",
			Prompt:         "What industry are you in?",
			Type:           model.AnswerMultipleChoice,
			Options:        []string{"Technology", "Healthcare", "Finance", "Manufacturing", "Retail", "Education", "Other"},
			Category:       model.CategoryMarket,
			BaseDifficulty: 1,
			Dependencies:   []string{"team_size"},
		},
		{
			ID:             "tech_level",
			Prompt:         "How would you rate your current technology adoption level?",
			Type:           model.AnswerMultipleChoice,
			Options:        []string{"Beginner", "Intermediate", "Advanced", "Expert"},
			Category:       model.CategoryTechnology,
			BaseDifficulty: 3,
			Dependencies:   []string{"industry"},
			SkipConditions: []model.Condition{
				{Field: "team_size", Operator: model.OpEquals, Value: "1-10"},
			},
		},
		{
			ID:             "challenge",
			Prompt:         "What's your biggest challenge in {{industry}} right now?",
			Type:           model.AnswerMultipleChoice,
			Options:        []string{"Scaling operations", "Team collaboration", "Data insights", "Process efficiency", "Market competition"},
			Category:       model.CategoryProcess,
			BaseDifficulty: 3,
			Dependencies:   []string{"tech_level"},
			Hooks: &model.AdaptiveHooks{
				TextPlaceholders: map[string]string{"{{industry}}": "industry"},
			},
		},
		{
			ID:             "timeline",
			Prompt:         "When do you hope to see results from implementing new tools?",
			Type:           model.AnswerMultipleChoice,
			Options:        []string{"Immediately", "1-3 months", "3-6 months", "6-12 months", "Long-term"},
			Category:       model.CategoryStrategy,
			BaseDifficulty: 2,
			Dependencies:   []string{"challenge"},
		},
		{
			ID:             "budget",
			Prompt:         "What's your budget range for business improvement tools?",
			Type:           model.AnswerMultipleChoice,
			Options:        []string{"Under $1K/month", "$1K-$5K/month", "$5K-$10K/month", "$10K+/month", "Not sure yet"},
			Category:       model.CategoryGeneral,
			BaseDifficulty: 2,
			Dependencies:   []string{"timeline"},
		},
		{
			ID:             "learning_preference",
			Prompt:         "How do you prefer to learn and implement new tools?",
			Type:           model.AnswerMultipleChoice,
			Options:        []string{"Self-guided", "Guided onboarding", "Full implementation support", "Training for team"},
			Category:       model.CategoryTeam,
			BaseDifficulty: 2,
			Dependencies:   []string{"budget"},
		},
		{
			ID:             "next_action",
			Prompt:         "Based on your responses, we recommend starting with the growth assessment. Would you like to begin?",
			Type:           model.AnswerMultipleChoice,
			Options:        []string{"Start Assessment", "View Dashboard", "Schedule Demo", "Learn More"},
			Category:       model.CategoryGeneral,
			BaseDifficulty: 1,
			Dependencies:   []string{"learning_preference"},
		},
	}

	rules := map[string][]model.BranchingRule{
		"business_goal": {
			{NextNodeID: "team_size", BranchType: model.BranchLinear, Priority: 5},
		},
		"team_size": {
			{NextNodeID: "industry", BranchType: model.BranchLinear, Priority: 5},
		},
		"industry": {
			{NextNodeID: "tech_level", BranchType: model.BranchLinear, Priority: 5},
		},
		"tech_level": {
			{
				NextNodeID: "challenge",
				BranchType: model.BranchConditional,
				Conditions: []model.Condition{
					{Field: "team_size", Operator: model.OpNotEquals, Value: "1-10"},
				},
				Priority: 5,
			},
			{
				NextNodeID: "challenge",
				BranchType: model.BranchSkip,
				SkipReason: "small team, tech depth question adds little",
				Priority:   3,
			},
		},
		"challenge": {
			{NextNodeID: "timeline", BranchType: model.BranchLinear, Priority: 5},
		},
		"timeline": {
			{NextNodeID: "budget", BranchType: model.BranchLinear, Priority: 5},
		},
		"budget": {
			{NextNodeID: "learning_preference", BranchType: model.BranchLinear, Priority: 5},
		},
		"learning_preference": {
			{NextNodeID: "next_action", BranchType: model.BranchLinear, Priority: 5},
		},
		"next_action": {
			{NextNodeID: Complete, BranchType: model.BranchLinear, Priority: 5},
		},
	}

	return Definition{Nodes: nodes, Rules: rules}
}
