package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"assessflow/internal/model"
)

// YAML wire format for graph definitions. Kept separate from the model types
// so the file schema can stay snake_case and flat.

type fileDef struct {
	Nodes []fileNode            `yaml:"nodes"`
	Rules map[string][]fileRule `yaml:"rules"`
}

type fileNode struct {
	ID             string            `yaml:"id"`
	Prompt         string            `yaml:"prompt"`
	Type           string            `yaml:"type"`
	Options        []string          `yaml:"options"`
	Category       string            `yaml:"category"`
	Difficulty     int               `yaml:"difficulty"`
	Dependencies   []string          `yaml:"dependencies"`
	SkipConditions []fileCondition   `yaml:"skip_conditions"`
	Placeholders   map[string]string `yaml:"placeholders"`
}

type fileCondition struct {
	Field    string      `yaml:"field"`
	Operator string      `yaml:"operator"`
	Value    interface{} `yaml:"value"`
}

type fileRule struct {
	Next       string          `yaml:"next"`
	Branch     string          `yaml:"branch"`
	Conditions []fileCondition `yaml:"conditions"`
	Priority   int             `yaml:"priority"`
	SkipReason string          `yaml:"skip_reason"`
}

// LoadFile reads a YAML graph definition and validates it into a Store.
// Errors here are deployment problems and should abort startup.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph definition: %w", err)
	}

	var fd fileDef
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("parse graph definition: %w", err)
	}

	def := Definition{Rules: make(map[string][]model.BranchingRule, len(fd.Rules))}
	for _, fn := range fd.Nodes {
		node := model.QuestionNode{
			ID:             fn.ID,
			Prompt:         fn.Prompt,
			Type:           model.AnswerType(fn.Type),
			Options:        fn.Options,
			Category:       fn.Category,
			BaseDifficulty: fn.Difficulty,
			Dependencies:   fn.Dependencies,
			SkipConditions: conditions(fn.SkipConditions),
		}
		if len(fn.Placeholders) > 0 {
			node.Hooks = &model.AdaptiveHooks{TextPlaceholders: fn.Placeholders}
		}
		def.Nodes = append(def.Nodes, node)
	}
	for nodeID, frs := range fd.Rules {
		rules := make([]model.BranchingRule, 0, len(frs))
		for _, fr := range frs {
			rules = append(rules, model.BranchingRule{
				NextNodeID: fr.Next,
				BranchType: model.BranchType(fr.Branch),
				Conditions: conditions(fr.Conditions),
				Priority:   fr.Priority,
				SkipReason: fr.SkipReason,
			})
		}
		def.Rules[nodeID] = rules
	}

	return NewStore(def)
}

func conditions(fcs []fileCondition) []model.Condition {
	if len(fcs) == 0 {
		return nil
	}
	out := make([]model.Condition, 0, len(fcs))
	for _, fc := range fcs {
		out = append(out, model.Condition{
			Field:    fc.Field,
			Operator: model.Operator(fc.Operator),
			Value:    fc.Value,
		})
	}
	return out
}
