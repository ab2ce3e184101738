// Package graph holds the immutable question graph: node definitions plus
// prioritized branching rules. A Store is built once at process start and is
// read-only afterwards, so it can be shared across any number of concurrent
// sessions without locking.
package graph

import (
	"fmt"
	"sort"

	"assessflow/internal/model"
)

// Complete is the rule target that ends a conversation
const Complete = "complete"

// Definition is the raw input to NewStore
type Definition struct {
	Nodes []model.QuestionNode
	Rules map[string][]model.BranchingRule
}

// Store is the validated, immutable question graph
type Store struct {
	nodes map[string]model.QuestionNode
	order []string
	index map[string]int
	rules map[string][]model.BranchingRule
}

// NewStore validates a definition and freezes it. Every dependency must
// reference an earlier-declared node (which also rules out cycles), every rule
// target must resolve to a real node or Complete, and priorities must sit in
// 1..5. Violations are configuration errors: callers are expected to abort
// startup on them rather than recover.
func NewStore(def Definition) (*Store, error) {
	if len(def.Nodes) == 0 {
		return nil, fmt.Errorf("graph definition has no nodes")
	}

	s := &Store{
		nodes: make(map[string]model.QuestionNode, len(def.Nodes)),
		order: make([]string, 0, len(def.Nodes)),
		index: make(map[string]int, len(def.Nodes)),
		rules: make(map[string][]model.BranchingRule, len(def.Rules)),
	}

	for i, n := range def.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d has an empty id", i)
		}
		if _, dup := s.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		for _, dep := range n.Dependencies {
			at, declared := s.index[dep]
			if !declared {
				return nil, fmt.Errorf("node %q depends on %q which is not declared before it", n.ID, dep)
			}
			_ = at
		}
		if n.Category == "" {
			n.Category = model.CategoryOf(n.ID)
		}
		if n.BaseDifficulty == 0 {
			n.BaseDifficulty = 3
		}
		s.nodes[n.ID] = n
		s.index[n.ID] = i
		s.order = append(s.order, n.ID)
	}

	for nodeID, rules := range def.Rules {
		if _, ok := s.nodes[nodeID]; !ok {
			return nil, fmt.Errorf("branching rules declared for unknown node %q", nodeID)
		}
		for i, r := range rules {
			if r.NextNodeID != Complete {
				if _, ok := s.nodes[r.NextNodeID]; !ok {
					return nil, fmt.Errorf("rule %d of node %q targets unknown node %q", i, nodeID, r.NextNodeID)
				}
			}
			if r.Priority < 1 || r.Priority > 5 {
				return nil, fmt.Errorf("rule %d of node %q has priority %d outside 1..5", i, nodeID, r.Priority)
			}
		}
		// Pre-sort by priority descending. The stable sort preserves
		// declaration order on ties, which makes rule evaluation
		// deterministic by construction.
		sorted := make([]model.BranchingRule, len(rules))
		copy(sorted, rules)
		sort.SliceStable(sorted, func(a, b int) bool {
			return sorted[a].Priority > sorted[b].Priority
		})
		s.rules[nodeID] = sorted
	}

	return s, nil
}

// Node returns the node definition for an id
func (s *Store) Node(id string) (model.QuestionNode, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// NodeAt returns the node at a zero-based position in declared order
func (s *Store) NodeAt(pos int) (model.QuestionNode, bool) {
	if pos < 0 || pos >= len(s.order) {
		return model.QuestionNode{}, false
	}
	return s.nodes[s.order[pos]], true
}

// Rules returns the node's branching rules sorted priority-descending,
// declaration order preserved on ties. An empty slice means pure linear
// progression.
func (s *Store) Rules(id string) []model.BranchingRule {
	return s.rules[id]
}

// Position returns the zero-based declared position of a node id
func (s *Store) Position(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Successor returns the node declared immediately after id
func (s *Store) Successor(id string) (string, bool) {
	i, ok := s.index[id]
	if !ok || i+1 >= len(s.order) {
		return "", false
	}
	return s.order[i+1], true
}

// Category returns the category of a node id, falling back to the derived
// mapping for ids outside the graph.
func (s *Store) Category(id string) string {
	if n, ok := s.nodes[id]; ok {
		return n.Category
	}
	return model.CategoryOf(id)
}

// Len returns the number of nodes
func (s *Store) Len() int {
	return len(s.order)
}
