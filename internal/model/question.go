package model

import "strings"

// AnswerType defines how a question is answered
type AnswerType string

const (
	AnswerText           AnswerType = "text"
	AnswerMultipleChoice AnswerType = "multiple_choice"
	AnswerScale          AnswerType = "scale"
	AnswerBoolean        AnswerType = "boolean"
	AnswerRanking        AnswerType = "ranking"
)

// Operator is a condition comparison operator
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
)

// Condition is a pure predicate over the session's answer map
type Condition struct {
	Field    string      `json:"field" bson:"field"`
	Operator Operator    `json:"operator" bson:"operator"`
	Value    interface{} `json:"value" bson:"value"`
}

// BranchType classifies a branching rule
type BranchType string

const (
	BranchLinear      BranchType = "linear"
	BranchConditional BranchType = "conditional"
	BranchAdaptive    BranchType = "adaptive"
	BranchSkip        BranchType = "skip"
)

// BranchingRule is a prioritized, conditionally-guarded edge between nodes.
// Within one node's rule list, evaluation order is priority-descending with
// declaration order breaking ties.
type BranchingRule struct {
	NextNodeID string      `json:"nextNodeId" bson:"nextNodeId"`
	BranchType BranchType  `json:"branchType" bson:"branchType"`
	Conditions []Condition `json:"conditions,omitempty" bson:"conditions,omitempty"`
	Priority   int         `json:"priority" bson:"priority"` // 1..5
	SkipReason string      `json:"skipReason,omitempty" bson:"skipReason,omitempty"`
}

// AdaptiveHooks holds per-node rewrite instructions applied when the node is
// served. TextPlaceholders maps a placeholder token (e.g. "{{industry}}") to
// the response field whose value replaces it.
type AdaptiveHooks struct {
	TextPlaceholders map[string]string `json:"textPlaceholders,omitempty" bson:"textPlaceholders,omitempty"`
}

// QuestionNode is one node of the question graph
type QuestionNode struct {
	ID             string         `json:"id" bson:"id"`
	Prompt         string         `json:"prompt" bson:"prompt"`
	Type           AnswerType     `json:"type" bson:"type"`
	Options        []string       `json:"options,omitempty" bson:"options,omitempty"`
	Category       string         `json:"category" bson:"category"`
	BaseDifficulty int            `json:"baseDifficulty" bson:"baseDifficulty"` // 1..5
	Dependencies   []string       `json:"dependencies,omitempty" bson:"dependencies,omitempty"`
	SkipConditions []Condition    `json:"skipConditions,omitempty" bson:"skipConditions,omitempty"`
	Hooks          *AdaptiveHooks `json:"hooks,omitempty" bson:"hooks,omitempty"`
}

// IsAdaptive reports whether the node carries adaptive rewrite hooks
func (n *QuestionNode) IsAdaptive() bool {
	return n.Hooks != nil && len(n.Hooks.TextPlaceholders) > 0
}

// Assessment categories. Graph nodes carry their category explicitly;
// CategoryOf covers ids from outside the graph (generated questions).
const (
	CategoryStrategy   = "strategy"
	CategoryTechnology = "technology"
	CategoryProcess    = "process"
	CategoryTeam       = "team"
	CategoryMarket     = "market"
	CategoryGeneral    = "general"
)

var categoryMarkers = []string{
	CategoryStrategy,
	CategoryTechnology,
	CategoryProcess,
	CategoryTeam,
	CategoryMarket,
}

// CategoryOf derives the category implied by a question id. The mapping is
// deterministic: the first category whose name occurs in the id wins, in the
// fixed order above; everything else falls back to general.
func CategoryOf(questionID string) string {
	for _, c := range categoryMarkers {
		if strings.Contains(questionID, c) {
			return c
		}
	}
	return CategoryGeneral
}
